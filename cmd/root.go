package cmd

import (
	"unmasked_server/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "unmasked",
		Short:         "UnMasked anonymous confession relay",
		Long:          "unmasked runs the confession relay server, the provider auth proxy, and small operator tools against the configured capability provider.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newRelayCmd(),
		newProxyCmd(),
		newChatCmd(),
	)

	return rootCmd
}

// loadConfig reads configuration and installs the process logger.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(viper.New())
	if err != nil {
		return config.Config{}, err
	}
	if _, err := initLogger(cfg.LogLevel); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
