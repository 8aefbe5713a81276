package main

// Notes:
// - Tests use t.Setenv and therefore cannot run in parallel.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-printdesk/internal/config"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Setenv("PRINTDESK_CONFIG", "office")
	t.Setenv("PRINTDESK_PRINTER", "HP_LaserJet")
	t.Setenv("PRINTDESK_FORMAT", "Letter")
	t.Setenv("PRINTDESK_ORIENTATION", "landscape")
	t.Setenv("PRINTDESK_MARGIN", "0")
	t.Setenv("PRINTDESK_SCALE", "0.9")
	t.Setenv("PRINTDESK_TIMEOUT", "45s")
	t.Setenv("PRINTDESK_SETTLE", "750ms")
	t.Setenv("PRINTDESK_ADDR", "127.0.0.1:9000")
	t.Setenv("PRINTDESK_WORKERS", "3")
	t.Setenv("PRINTDESK_LOG_LEVEL", "debug")

	env := loadEnvConfig()

	if env.ConfigPath != "office" || env.Printer != "HP_LaserJet" {
		t.Errorf("ConfigPath/Printer = %q/%q", env.ConfigPath, env.Printer)
	}
	if env.Format != "Letter" || env.Orientation != "landscape" {
		t.Errorf("Format/Orientation = %q/%q", env.Format, env.Orientation)
	}
	if !env.marginSet || env.MarginsMM != 0 {
		t.Errorf("margin = %v (set=%v), want explicit 0", env.MarginsMM, env.marginSet)
	}
	if env.Scale != 0.9 {
		t.Errorf("Scale = %v, want 0.9", env.Scale)
	}
	if env.Timeout != 45*time.Second || env.Settle != 750*time.Millisecond {
		t.Errorf("Timeout/Settle = %v/%v", env.Timeout, env.Settle)
	}
	if env.Addr != "127.0.0.1:9000" || env.Workers != 3 || env.LogLevel != "debug" {
		t.Errorf("Addr/Workers/LogLevel = %q/%d/%q", env.Addr, env.Workers, env.LogLevel)
	}
}

func TestLoadEnvConfig_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("PRINTDESK_MARGIN", "-3")
	t.Setenv("PRINTDESK_SCALE", "big")
	t.Setenv("PRINTDESK_TIMEOUT", "soon")
	t.Setenv("PRINTDESK_SETTLE", "-1s")
	t.Setenv("PRINTDESK_WORKERS", "0")

	env := loadEnvConfig()

	if env.marginSet || env.Scale != 0 || env.Timeout != 0 || env.Settle != 0 || env.Workers != 0 {
		t.Errorf("invalid values should be ignored, got %+v", env)
	}
}

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Setenv("PRINTDESK_PRINTR", "typo")
	t.Setenv("PRINTDESK_PRINTER", "ok")

	var buf bytes.Buffer
	warnUnknownEnvVars(&buf)

	out := buf.String()
	if !strings.Contains(out, "PRINTDESK_PRINTR") {
		t.Errorf("expected warning for PRINTDESK_PRINTR, got %q", out)
	}
	if strings.Contains(out, "PRINTDESK_PRINTER ") {
		t.Errorf("known variable should not warn: %q", out)
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("overrides file values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		cfg.Printer = "FromFile"
		applyEnvConfig(&envConfig{
			Printer:   "FromEnv",
			Format:    "A3",
			MarginsMM: 0,
			marginSet: true,
			Timeout:   2 * time.Minute,
			Workers:   4,
		}, cfg)

		if cfg.Printer != "FromEnv" || cfg.Page.Format != "A3" {
			t.Errorf("Printer/Format = %q/%q", cfg.Printer, cfg.Page.Format)
		}
		if cfg.Page.MarginsMM != 0 {
			t.Errorf("MarginsMM = %v, want 0", cfg.Page.MarginsMM)
		}
		if cfg.Renderer.Timeout != "2m0s" {
			t.Errorf("Timeout = %q, want 2m0s", cfg.Renderer.Timeout)
		}
		if cfg.Server.Workers != 4 {
			t.Errorf("Workers = %d, want 4", cfg.Server.Workers)
		}
	})

	t.Run("empty env keeps values", func(t *testing.T) {
		t.Parallel()

		cfg := config.DefaultConfig()
		want := *cfg
		applyEnvConfig(&envConfig{}, cfg)
		if *cfg != want {
			t.Errorf("config changed: %+v", cfg)
		}
	})
}

func TestKnownEnvVars(t *testing.T) {
	t.Parallel()

	for name := range knownEnvVars {
		if !strings.HasPrefix(name, "PRINTDESK_") {
			t.Errorf("%s lacks the PRINTDESK_ prefix", name)
		}
	}
}
