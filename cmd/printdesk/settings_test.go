package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	printdesk "github.com/alnah/go-printdesk"
	"github.com/alnah/go-printdesk/internal/config"
)

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	t.Run("defaults without config", func(t *testing.T) {
		t.Parallel()

		cfg, err := loadSettings(commonFlags{}, &envConfig{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Page.Format != config.DefaultFormat || cfg.Server.Addr != config.DefaultServerAddr {
			t.Errorf("got %+v, want defaults", cfg)
		}
	})

	t.Run("file then env", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "desk.yaml")
		yaml := "printer: FromFile\npage:\n  format: Letter\n  marginsMm: 15\n"
		if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := loadSettings(commonFlags{config: path}, &envConfig{Printer: "FromEnv"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Printer != "FromEnv" {
			t.Errorf("Printer = %q, want env to win", cfg.Printer)
		}
		if cfg.Page.Format != "Letter" || cfg.Page.MarginsMM != 15 {
			t.Errorf("page = %+v, want file values", cfg.Page)
		}
		if cfg.Page.Orientation != config.DefaultOrientation {
			t.Errorf("Orientation = %q, want default", cfg.Page.Orientation)
		}
	})

	t.Run("env config path", func(t *testing.T) {
		t.Parallel()

		_, err := loadSettings(commonFlags{}, &envConfig{ConfigPath: filepath.Join(t.TempDir(), "missing.yaml")})
		if !errors.Is(err, config.ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})
}

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	mergePageFlags(pageFlags{format: "A3", margin: 0, marginSet: true, scale: 1.5}, cfg)
	mergeRendererFlags(rendererFlags{timeout: "1m", settle: "1s", browserBin: "/opt/chrome", noSandbox: true}, cfg)

	if cfg.Page.Format != "A3" || cfg.Page.MarginsMM != 0 || cfg.Page.Scale != 1.5 {
		t.Errorf("page = %+v", cfg.Page)
	}
	if cfg.Page.Orientation != config.DefaultOrientation {
		t.Errorf("unset flag changed orientation to %q", cfg.Page.Orientation)
	}
	want := config.RendererConfig{Timeout: "1m", SettleDelay: "1s", BrowserBin: "/opt/chrome", NoSandbox: true}
	if cfg.Renderer != want {
		t.Errorf("renderer = %+v, want %+v", cfg.Renderer, want)
	}

	cfg = config.DefaultConfig()
	mergePageFlags(pageFlags{}, cfg)
	if cfg.Page.MarginsMM != config.DefaultMarginsMM {
		t.Errorf("unset margin flag changed margin to %v", cfg.Page.MarginsMM)
	}
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		level   string
		quiet   bool
		verbose bool
		want    log.Level
	}{
		{name: "configured", level: "warn", want: log.WarnLevel},
		{name: "invalid falls back to info", level: "loud", want: log.InfoLevel},
		{name: "quiet", level: "info", quiet: true, want: log.ErrorLevel},
		{name: "verbose wins", level: "error", quiet: true, verbose: true, want: log.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := newLogger(&bytes.Buffer{}, tt.level, tt.quiet, tt.verbose)
			if l.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", l.GetLevel(), tt.want)
			}
		})
	}
}

func TestNewLogger_Format(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	newLogger(&buf, "info", false, false).Info("listening", "addr", "127.0.0.1:8765")

	out := buf.String()
	if !strings.Contains(out, "listening") || !strings.Contains(out, "addr=127.0.0.1:8765") {
		t.Errorf("log line = %q", out)
	}
}

func TestServiceOptions(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Renderer.BrowserBin = "/opt/chrome"
	cfg.Renderer.NoSandbox = true
	opts, err := serviceOptions(cfg, log.New(&bytes.Buffer{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// logger, timeout, settle, browser, sandbox
	if len(opts) != 5 {
		t.Errorf("got %d options, want 5", len(opts))
	}

	cfg.Renderer.Timeout = "forever"
	if _, err := serviceOptions(cfg, log.New(&bytes.Buffer{})); !errors.Is(err, config.ErrInvalidValue) {
		t.Errorf("expected ErrInvalidValue, got %v", err)
	}
}

func TestBuildPrintConfig(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.Page.Format = "letter"
	cfg.Page.Orientation = "LANDSCAPE"

	got, err := buildPrintConfig(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := printdesk.PrintConfig{Format: printdesk.FormatLetter, Orientation: printdesk.Landscape, MarginsMM: 10, Scale: 1}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}

	cfg.Page.MarginsMM = 200
	if _, err := buildPrintConfig(cfg); !errors.Is(err, printdesk.ErrInvalidMargin) {
		t.Errorf("expected ErrInvalidMargin, got %v", err)
	}
}
