package cmd

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"unmasked_server/config"
	"unmasked_server/proxy"

	"github.com/spf13/cobra"
)

func newProxyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "proxy",
		Short: "Run the CORS proxy in front of the provider API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runProxy(ctx, cfg, slog.Default())
		},
	}
}

func runProxy(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	p := proxy.New(cfg.ProxyUpstream, cfg.ProxyAllowedOrigin, logger)
	defer p.Close()

	server := &http.Server{
		Addr:              ":" + cfg.ProxyPort,
		Handler:           p.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("🚀 Proxy listening", "port", cfg.ProxyPort, "upstream", cfg.ProxyUpstream, "origin", cfg.ProxyAllowedOrigin)
		errCh <- server.ListenAndServe()
	}()

	return serveUntilDone(ctx, server, errCh, logger)
}
