package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"unmasked_server/config"
	"unmasked_server/models"
	"unmasked_server/services"

	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	chatCmd := &cobra.Command{
		Use:   "chat",
		Short: "Read and send match chat messages",
	}

	var accountID string
	sendCmd := &cobra.Command{
		Use:   "send <matchId> <text>",
		Short: "Send one message to a match chat",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			provider, err := services.NewProvider(cmd.Context(), providerConfig(cfg))
			if err != nil {
				return err
			}
			chat := services.NewChatService(provider, slog.Default())
			if accountID == "" {
				accountID = cfg.OperatorAccount
			}
			message, err := chat.Send(cmd.Context(), accountID, args[0], args[1])
			if err != nil {
				return err
			}
			printMessage(cmd.OutOrStdout(), accountID, message)
			return nil
		},
	}
	sendCmd.Flags().StringVar(&accountID, "account", "", "sending account (defaults to the operator)")

	watchCmd := &cobra.Command{
		Use:   "watch <matchId>",
		Short: "Poll a match chat and print new messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watchChat(ctx, cfg, args[0], cmd.OutOrStdout())
		},
	}

	chatCmd.AddCommand(sendCmd, watchCmd)
	return chatCmd
}

func watchChat(ctx context.Context, cfg config.Config, matchID string, out io.Writer) error {
	provider, err := services.NewProvider(ctx, providerConfig(cfg))
	if err != nil {
		return err
	}
	chat := services.NewChatService(provider, slog.Default())

	seen := map[string]bool{}
	poller := services.NewPoller(cfg.PollInterval, func(ctx context.Context) ([]models.Message, error) {
		return chat.FetchMessages(ctx, matchID)
	}, func(messages []models.Message) {
		for _, m := range messages {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			printMessage(out, cfg.OperatorAccount, m)
		}
	}, slog.Default().With("match", matchID))

	poller.Start(ctx)
	<-ctx.Done()
	poller.Stop()
	return nil
}

func printMessage(out io.Writer, self string, m models.Message) {
	sender := m.Sender
	if sender == self {
		sender = "you"
	}
	fmt.Fprintf(out, "[%s] %s: %s\n", time.UnixMilli(m.Timestamp).Format(time.Kitchen), sender, m.Text)
}
