package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Paths      PathsConfig      `mapstructure:"paths"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Translator TranslatorConfig `mapstructure:"translator"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Server     ServerConfig     `mapstructure:"server"`
	LogLevel   string           `mapstructure:"log_level"`
}

type PathsConfig struct {
	DictPath string `mapstructure:"dict_path"`
}

type CacheConfig struct {
	NicknameLimit int `mapstructure:"nickname_limit"`
}

type TranslatorConfig struct {
	Backend    string   `mapstructure:"backend"`
	Command    string   `mapstructure:"command"`
	Args       []string `mapstructure:"args"`
	Source     string   `mapstructure:"source"`
	Target     string   `mapstructure:"target"`
	TimeoutSec int      `mapstructure:"timeout_sec"`
}

type PipelineConfig struct {
	Brackets bool `mapstructure:"brackets"`
	Trace    bool `mapstructure:"trace"`
}

type ServerConfig struct {
	ListenAddr         string `mapstructure:"listen_addr"`
	Workers            int    `mapstructure:"workers"`
	MaxTextBytes       int    `mapstructure:"max_text_bytes"`
	ShutdownTimeoutSec int    `mapstructure:"shutdown_timeout_sec"`
}

type LoadOptions struct {
	Cmd        flagBinder
	ConfigFile string
	Defaults   Config
}

type flagBinder interface {
	Flags() *pflag.FlagSet
}

func DefaultConfig() Config {
	return Config{
		Paths: PathsConfig{
			DictPath: "dict.json",
		},
		Cache: CacheConfig{
			NicknameLimit: 500,
		},
		Translator: TranslatorConfig{
			Backend:    BackendExec,
			Command:    "",
			Args:       nil,
			Source:     "ja",
			Target:     "ko",
			TimeoutSec: 30,
		},
		Pipeline: PipelineConfig{
			Brackets: false,
			Trace:    false,
		},
		Server: ServerConfig{
			ListenAddr:         ":8180",
			Workers:            2,
			MaxTextBytes:       4096,
			ShutdownTimeoutSec: 30,
		},
		LogLevel: "info",
	}
}

func RegisterFlags(fs *pflag.FlagSet, defaults Config) {
	fs.String("paths-dict-path", defaults.Paths.DictPath, "Path to the pinned-term dictionary JSON")
	fs.String("dict", defaults.Paths.DictPath, "Path to the pinned-term dictionary JSON (alias for --paths-dict-path)")
	fs.Int("cache-nickname-limit", defaults.Cache.NicknameLimit, "Max cached nickname transliterations")
	fs.String("backend", defaults.Translator.Backend, "Translator backend (exec|mock)")
	fs.String("translator-command", defaults.Translator.Command, "Translator executable")
	fs.StringSlice("translator-args", defaults.Translator.Args, "Extra arguments passed to the translator")
	fs.String("translator-source", defaults.Translator.Source, "Source language code")
	fs.String("translator-target", defaults.Translator.Target, "Target language code")
	fs.Int("translator-timeout-sec", defaults.Translator.TimeoutSec, "Per-request translation timeout in seconds")
	fs.Bool("pipeline-brackets", defaults.Pipeline.Brackets, "Translate bracketed spans separately from their sentence")
	fs.Bool("pipeline-trace", defaults.Pipeline.Trace, "Attach per-stage diagnostics to every response")
	fs.String("server-listen-addr", defaults.Server.ListenAddr, "HTTP listen address for serve mode")
	fs.Int("server-workers", defaults.Server.Workers, "Max concurrent HTTP translation requests")
	fs.Int("server-max-text-bytes", defaults.Server.MaxTextBytes, "Max text size accepted over HTTP")
	fs.Int("server-shutdown-timeout-sec", defaults.Server.ShutdownTimeoutSec, "Graceful shutdown drain period in seconds")
	fs.String("log-level", defaults.LogLevel, "Log level (debug|info|warn|error)")
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, opts.Defaults)
	if opts.Cmd != nil {
		if err := v.BindPFlags(opts.Cmd.Flags()); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}
	registerAliases(v)

	v.SetEnvPrefix("CHATTRANSLATE")
	replacer := strings.NewReplacer("-", "_", ".", "_", "__", "_")
	v.SetEnvKeyReplacer(replacer)
	if err := v.BindEnv("paths.dict_path", "CHATTRANSLATE_DICT"); err != nil {
		return Config{}, fmt.Errorf("bind dict env vars: %w", err)
	}
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("chattranslate")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("paths.dict_path", c.Paths.DictPath)
	v.SetDefault("cache.nickname_limit", c.Cache.NicknameLimit)
	v.SetDefault("translator.backend", c.Translator.Backend)
	v.SetDefault("translator.command", c.Translator.Command)
	v.SetDefault("translator.args", c.Translator.Args)
	v.SetDefault("translator.source", c.Translator.Source)
	v.SetDefault("translator.target", c.Translator.Target)
	v.SetDefault("translator.timeout_sec", c.Translator.TimeoutSec)
	v.SetDefault("pipeline.brackets", c.Pipeline.Brackets)
	v.SetDefault("pipeline.trace", c.Pipeline.Trace)
	v.SetDefault("server.listen_addr", c.Server.ListenAddr)
	v.SetDefault("server.workers", c.Server.Workers)
	v.SetDefault("server.max_text_bytes", c.Server.MaxTextBytes)
	v.SetDefault("server.shutdown_timeout_sec", c.Server.ShutdownTimeoutSec)
	v.SetDefault("log_level", c.LogLevel)
}

func registerAliases(v *viper.Viper) {
	v.RegisterAlias("paths.dict_path", "paths-dict-path")
	v.RegisterAlias("paths.dict_path", "dict")
	v.RegisterAlias("cache.nickname_limit", "cache-nickname-limit")
	v.RegisterAlias("translator.backend", "backend")
	v.RegisterAlias("translator.command", "translator-command")
	v.RegisterAlias("translator.args", "translator-args")
	v.RegisterAlias("translator.source", "translator-source")
	v.RegisterAlias("translator.target", "translator-target")
	v.RegisterAlias("translator.timeout_sec", "translator-timeout-sec")
	v.RegisterAlias("pipeline.brackets", "pipeline-brackets")
	v.RegisterAlias("pipeline.trace", "pipeline-trace")
	v.RegisterAlias("server.listen_addr", "server-listen-addr")
	v.RegisterAlias("server.workers", "server-workers")
	v.RegisterAlias("server.max_text_bytes", "server-max-text-bytes")
	v.RegisterAlias("server.shutdown_timeout_sec", "server-shutdown-timeout-sec")
	v.RegisterAlias("log_level", "log-level")
}
