package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/go-chat-translate/internal/dict"
	"github.com/example/go-chat-translate/internal/pipeline"
)

// newTranslateCmd translates a single line and exits, for smoke tests
// and shell scripting. Text comes from the argument, or from stdin when
// the argument is "-" or absent.
func newTranslateCmd() *cobra.Command {
	var nicknameFlag string

	cmd := &cobra.Command{
		Use:   "translate [text]",
		Short: "Translate one chat line and exit",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			text, err := resolveText(cmd.InOrStdin(), args)
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
				}
			}

			ctx := cmd.Context()
			if timeout := requestTimeout(cfg); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			resp, err := svc.Process(ctx, pipeline.Request{Text: text, Nickname: nicknameFlag})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if resp.Nickname != "" {
				fmt.Fprintf(out, "%s: %s\n", resp.Nickname, resp.Translated)
			} else {
				fmt.Fprintln(out, resp.Translated)
			}
			if resp.Trace != nil {
				for i, c := range resp.Trace.Chunks {
					fmt.Fprintf(out, "# chunk %d: %s\n", i, c)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&nicknameFlag, "nickname", "", "Sender name to transliterate and substitute")

	return cmd
}

func resolveText(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", fmt.Errorf("no text to translate")
	}
	return text, nil
}
