package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/example/go-chat-translate/internal/config"
)

func TestNewRootCmd_HasExpectedSubcommands(t *testing.T) {
	root := NewRootCmd()

	want := []string{"run", "serve", "health", "translate", "correct"}
	for _, name := range want {
		found := false

		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}

		if !found {
			t.Errorf("expected subcommand %q not found in root", name)
		}
	}
}

func TestNewRootCmd_HasPersistentConfigFlag(t *testing.T) {
	root := NewRootCmd()
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("expected --config persistent flag to be registered")
	}
}

func TestSetupLogger_DoesNotPanic(_ *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		setupLogger(level)
	}
}

func TestSetupLogger_InvalidLevelFallsBackToInfo(_ *testing.T) {
	// Should not panic on invalid level.
	setupLogger("not-a-level")
}

func TestRequireConfig_FailsWhenNotInitialized(t *testing.T) {
	origCfg, origLoaded := activeCfg, cfgLoaded

	t.Cleanup(func() { activeCfg, cfgLoaded = origCfg, origLoaded })

	activeCfg = config.Config{}
	cfgLoaded = false

	_, err := requireConfig()
	if err == nil {
		t.Fatal("expected error when config is not loaded")
	}
}

func TestRequireConfig_SucceedsWhenLoaded(t *testing.T) {
	origCfg, origLoaded := activeCfg, cfgLoaded

	t.Cleanup(func() { activeCfg, cfgLoaded = origCfg, origLoaded })

	activeCfg = config.Config{
		Paths: config.PathsConfig{DictPath: "/some/dict.json"},
	}
	cfgLoaded = true

	got, err := requireConfig()
	if err != nil {
		t.Fatalf("requireConfig returned unexpected error: %v", err)
	}

	if got.Paths.DictPath != "/some/dict.json" {
		t.Errorf("unexpected DictPath: %q", got.Paths.DictPath)
	}
}

func TestNewTranslator_MockBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Translator.Backend = config.BackendMock

	if _, err := newTranslator(cfg); err != nil {
		t.Fatalf("newTranslator: %v", err)
	}
}

func TestNewTranslator_ExecRequiresCommand(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Translator.Backend = config.BackendExec
	cfg.Translator.Command = ""

	if _, err := newTranslator(cfg); err == nil {
		t.Fatal("expected error for exec backend without command")
	}
}

func TestNewTranslator_InvalidBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Translator.Backend = "bogus"

	if _, err := newTranslator(cfg); err == nil {
		t.Fatal("expected error for invalid backend")
	}
}

func TestResolveText(t *testing.T) {
	got, err := resolveText(strings.NewReader(""), []string{"こんにちは"})
	if err != nil || got != "こんにちは" {
		t.Errorf("got %q, %v", got, err)
	}

	got, err = resolveText(strings.NewReader("from stdin\n"), nil)
	if err != nil || got != "from stdin" {
		t.Errorf("got %q, %v", got, err)
	}

	got, err = resolveText(strings.NewReader("piped"), []string{"-"})
	if err != nil || got != "piped" {
		t.Errorf("got %q, %v", got, err)
	}

	if _, err = resolveText(strings.NewReader("  \n"), nil); err == nil {
		t.Error("expected error for empty stdin")
	}
}

func TestHealthCmd(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	ts := httptest.NewServer(mux)
	defer ts.Close()

	root := NewRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"health", "--addr", strings.TrimPrefix(ts.URL, "http://")})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
}

func TestCorrectCmd(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"correct", "밥를 먹었다"})

	if err := root.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "밥을 먹었다" {
		t.Errorf("got %q", got)
	}
}
