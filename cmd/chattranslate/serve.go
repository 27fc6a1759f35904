package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/go-chat-translate/internal/dict"
	"github.com/example/go-chat-translate/internal/server"
)

// newServeCmd exposes the pipeline over HTTP instead of the stdio loop.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve translation requests over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			svc, err := newPipeline(cfg)
			if err != nil {
				return err
			}
			if cfg.Paths.DictPath != "" {
				snap, err := dict.Load(cfg.Paths.DictPath)
				if err != nil {
					slog.Warn("dictionary unavailable", "path", cfg.Paths.DictPath, "error", err)
				} else {
					svc.SetDictionary(snap)
					slog.Info("dictionary loaded", "path", cfg.Paths.DictPath, "terms", snap.Len())
				}
			}

			srv := server.New(cfg.Server.ListenAddr, svc,
				server.WithWorkers(cfg.Server.Workers),
				server.WithMaxTextBytes(cfg.Server.MaxTextBytes),
				server.WithRequestTimeout(requestTimeout(cfg)),
				server.WithLogger(slog.Default()),
			).WithShutdownTimeout(time.Duration(cfg.Server.ShutdownTimeoutSec) * time.Second)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			slog.Info("http server starting", "addr", cfg.Server.ListenAddr)
			return srv.Start(ctx)
		},
	}
}
