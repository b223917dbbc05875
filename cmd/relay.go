package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"unmasked_server/config"
	"unmasked_server/controllers"
	"unmasked_server/routes"
	"unmasked_server/services"
	"unmasked_server/socket"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newRelayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "relay",
		Short: "Run the confession relay HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runRelay(ctx, cfg, slog.Default())
		},
	}
}

func providerConfig(cfg config.Config) services.ProviderConfig {
	return services.ProviderConfig{
		Kind:            cfg.Provider,
		OperatorAccount: cfg.OperatorAccount,
		APIKey:          cfg.NovaAPIKey,
		BaseURL:         cfg.NovaBaseURL,
		Region:          cfg.AWSRegion,
		Bucket:          cfg.S3Bucket,
		Logger:          slog.Default(),
	}
}

// newRelayHandler assembles services, the live feed and routes into one handler.
func newRelayHandler(cfg config.Config, provider services.CapabilityProvider, hub *socket.Hub, logger *slog.Logger) http.Handler {
	membershipService := services.NewMembershipService(provider, logger)
	confessionService := services.NewConfessionService(provider, logger)
	matchService := services.NewMatchService(provider, logger)
	chatService := services.NewChatService(provider, logger)

	if hub != nil {
		confessionService.OnPublished = hub.PublishConfession
		chatService.OnMessage = hub.PublishMessage
	}

	r := mux.NewRouter()

	routes.RegisterRoutes(r, cfg.OperatorAccount)
	routes.RegisterPoolRoutes(r, controllers.NewPoolController(membershipService, confessionService, logger))
	routes.RegisterMatchRoutes(r, controllers.NewMatchController(matchService, logger))
	routes.RegisterChatRoutes(r, controllers.NewChatController(chatService, logger))

	if hub != nil {
		r.PathPrefix("/socket.io/").Handler(hub.Handler())
	}

	return cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)
}

func runRelay(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("Initializing capability provider...", "provider", cfg.Provider)
	provider, err := services.NewProvider(ctx, providerConfig(cfg))
	if err != nil {
		return fmt.Errorf("initialize provider: %w", err)
	}
	logger.Info("✅ Capability provider initialized.", "operator", cfg.OperatorAccount)

	hub := socket.NewHub(logger)
	go hub.Run()
	defer hub.Close()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRelayHandler(cfg, provider, hub, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Relay server listening", "port", cfg.Port, "operator", cfg.OperatorAccount)
		errCh <- server.ListenAndServe()
	}()

	return serveUntilDone(ctx, server, errCh, logger)
}

func serveUntilDone(ctx context.Context, server *http.Server, errCh <-chan error, logger *slog.Logger) error {
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server...", "addr", server.Addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
