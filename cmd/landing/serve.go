package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wishlane/landing"
	"github.com/wishlane/landing/internal/telemetry"
)

func serveCmd(configPath *string) *cobra.Command {
	var (
		addr string
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the landing page server",
		Long: `Run the HTTP server.

Content is loaded before the listener opens; a content or configuration
error stops startup. SIGINT or SIGTERM shuts the server down gracefully.

Examples:
  landing serve
  landing serve --addr=:9090 --dev
  WISHLANE_CONTENT_SOURCE=s3 WISHLANE_CONTENT_BUCKET=site landing serve`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if dev {
				cfg.Dev = true
			}

			logger := cfg.Log.NewLogger(os.Stderr)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdownTracing, err := telemetry.Setup(ctx, telemetry.Config{
				Endpoint:       cfg.Telemetry.OTLPEndpoint,
				ServiceName:    cfg.Telemetry.ServiceName,
				ServiceVersion: version,
				SampleRatio:    cfg.Telemetry.SampleRatio,
			})
			if err != nil {
				return err
			}
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					logger.Warn("tracing shutdown failed", "error", err)
				}
			}()

			store := newStore(cfg, logger)
			if err := store.Load(ctx); err != nil {
				return err
			}
			logger.Info("content loaded", "store", store.String(), "locales", store.Snapshot().Locales())
			go store.Watch(ctx, cfg.Content.RefreshInterval.D())

			app, err := landing.New(cfg.Runtime(version), landing.Deps{
				Content:       store,
				Authenticator: authenticator(cfg.Auth, logger),
				Cart:          cartCounter(cfg.Cart),
				Logger:        logger,
			})
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Development mode: pretty HTML, no asset caching, any WebSocket origin")

	return cmd
}
