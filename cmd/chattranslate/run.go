package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/go-chat-translate/internal/host"
)

// newRunCmd starts the JSON-lines host loop on stdin/stdout. This is the
// mode the chat client embeds: it keeps the process alive, feeds one
// request per line and reads one response per line.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Serve translation requests over stdin/stdout",
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

			loop := host.New(svc, cfg.Paths.DictPath,
				host.WithLogger(slog.Default()),
				host.WithTimeout(requestTimeout(cfg)))

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return loop.Run(ctx)
		},
	}

	return cmd
}
