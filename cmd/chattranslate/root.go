package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/go-chat-translate/internal/config"
	"github.com/example/go-chat-translate/internal/host"
	"github.com/example/go-chat-translate/internal/pipeline"
	"github.com/example/go-chat-translate/internal/translate"
)

var (
	cfgFile   string
	activeCfg config.Config
	cfgLoaded bool
)

func NewRootCmd() *cobra.Command {
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "chattranslate",
		Short: "Game-chat translation pipeline",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(config.LoadOptions{
				Cmd:        cmd,
				ConfigFile: cfgFile,
				Defaults:   defaults,
			})
			if err != nil {
				return err
			}
			activeCfg = loaded
			cfgLoaded = true
			setupLogger(loaded.LogLevel)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional config file (yaml|toml|json)")
	config.RegisterFlags(cmd.PersistentFlags(), defaults)

	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newTranslateCmd())
	cmd.AddCommand(newCorrectCmd())

	return cmd
}

// setupLogger configures the process-wide slog default logger. Logs go
// to stderr; stdout belongs to the host protocol.
func setupLogger(levelStr string) {
	lvl, err := host.ParseLogLevel(levelStr)
	if err != nil {
		lvl = slog.LevelInfo
	}
	h := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(h))
}

func requireConfig() (config.Config, error) {
	if !cfgLoaded {
		return config.Config{}, fmt.Errorf("configuration not loaded")
	}
	return activeCfg, nil
}

// newTranslator builds the configured translator backend.
func newTranslator(cfg config.Config) (translate.Translator, error) {
	backend, err := config.NormalizeBackend(cfg.Translator.Backend)
	if err != nil {
		return nil, err
	}
	switch backend {
	case config.BackendMock:
		return translate.Mock{}, nil
	default:
		if cfg.Translator.Command == "" {
			return nil, fmt.Errorf("translator command not configured (--translator-command, or --backend=mock)")
		}
		return &translate.Exec{
			Path:   cfg.Translator.Command,
			Args:   cfg.Translator.Args,
			Source: cfg.Translator.Source,
			Target: cfg.Translator.Target,
			Stderr: os.Stderr,
		}, nil
	}
}

// newPipeline builds the translation service from the active config.
func newPipeline(cfg config.Config) (*pipeline.Service, error) {
	tr, err := newTranslator(cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.New(tr,
		pipeline.WithCacheLimit(cfg.Cache.NicknameLimit),
		pipeline.WithBracketSplitting(cfg.Pipeline.Brackets),
		pipeline.WithTrace(cfg.Pipeline.Trace),
		pipeline.WithLogger(slog.Default()),
	)
}

func requestTimeout(cfg config.Config) time.Duration {
	if cfg.Translator.TimeoutSec <= 0 {
		return 0
	}
	return time.Duration(cfg.Translator.TimeoutSec) * time.Second
}
