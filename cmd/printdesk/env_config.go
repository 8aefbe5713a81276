package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-printdesk/internal/config"
)

// envConfig holds configuration from environment variables.
// Provides overrides for launchers and CI without requiring YAML files.
type envConfig struct {
	ConfigPath  string        // PRINTDESK_CONFIG: config file name or path
	Printer     string        // PRINTDESK_PRINTER: printer ID
	Format      string        // PRINTDESK_FORMAT: A4, A3, Letter
	Orientation string        // PRINTDESK_ORIENTATION: portrait, landscape
	MarginsMM   float64       // PRINTDESK_MARGIN: millimeters
	marginSet   bool          // zero is a valid margin
	Scale       float64       // PRINTDESK_SCALE: 0.1-2.0
	Timeout     time.Duration // PRINTDESK_TIMEOUT: render timeout
	Settle      time.Duration // PRINTDESK_SETTLE: delay after load
	Addr        string        // PRINTDESK_ADDR: server listen address
	Workers     int           // PRINTDESK_WORKERS: server browser instances
	LogLevel    string        // PRINTDESK_LOG_LEVEL: debug, info, warn, error
}

// knownEnvVars lists valid PRINTDESK_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"PRINTDESK_CONFIG":      true,
	"PRINTDESK_PRINTER":     true,
	"PRINTDESK_FORMAT":      true,
	"PRINTDESK_ORIENTATION": true,
	"PRINTDESK_MARGIN":      true,
	"PRINTDESK_SCALE":       true,
	"PRINTDESK_TIMEOUT":     true,
	"PRINTDESK_SETTLE":      true,
	"PRINTDESK_ADDR":        true,
	"PRINTDESK_WORKERS":     true,
	"PRINTDESK_LOG_LEVEL":   true,
	"PRINTDESK_CONTAINER":   true,
}

// loadEnvConfig reads configuration from environment variables.
// Values that fail to parse are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath:  os.Getenv("PRINTDESK_CONFIG"),
		Printer:     os.Getenv("PRINTDESK_PRINTER"),
		Format:      os.Getenv("PRINTDESK_FORMAT"),
		Orientation: os.Getenv("PRINTDESK_ORIENTATION"),
		Addr:        os.Getenv("PRINTDESK_ADDR"),
		LogLevel:    os.Getenv("PRINTDESK_LOG_LEVEL"),
	}

	if v := os.Getenv("PRINTDESK_MARGIN"); v != "" {
		if m, err := strconv.ParseFloat(v, 64); err == nil && m >= 0 {
			cfg.MarginsMM = m
			cfg.marginSet = true
		}
	}
	if v := os.Getenv("PRINTDESK_SCALE"); v != "" {
		if s, err := strconv.ParseFloat(v, 64); err == nil && s > 0 {
			cfg.Scale = s
		}
	}
	if v := os.Getenv("PRINTDESK_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv("PRINTDESK_SETTLE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Settle = d
		}
	}
	if v := os.Getenv("PRINTDESK_WORKERS"); v != "" {
		if w, err := strconv.Atoi(v); err == nil && w > 0 {
			cfg.Workers = w
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized PRINTDESK_* variables.
// Helps catch typos like PRINTDESK_PRINTR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "PRINTDESK_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment values on cfg.
// Called after the config file is loaded and before flags are merged, so:
// CLI flags > env vars > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Printer != "" {
		cfg.Printer = env.Printer
	}

	if env.Format != "" {
		cfg.Page.Format = env.Format
	}
	if env.Orientation != "" {
		cfg.Page.Orientation = env.Orientation
	}
	if env.marginSet {
		cfg.Page.MarginsMM = env.MarginsMM
	}
	if env.Scale > 0 {
		cfg.Page.Scale = env.Scale
	}

	if env.Timeout > 0 {
		cfg.Renderer.Timeout = env.Timeout.String()
	}
	if env.Settle > 0 {
		cfg.Renderer.SettleDelay = env.Settle.String()
	}

	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.Workers > 0 {
		cfg.Server.Workers = env.Workers
	}
	if env.LogLevel != "" {
		cfg.Log.Level = env.LogLevel
	}
}
