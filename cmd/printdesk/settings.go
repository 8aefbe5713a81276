package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	printdesk "github.com/alnah/go-printdesk"
	"github.com/alnah/go-printdesk/internal/config"
)

// logTimeFormat is the timestamp layout for CLI and server logs.
const logTimeFormat = "15:04:05.00"

// loadSettings builds the effective configuration: defaults, then the config
// file (--config or PRINTDESK_CONFIG), then PRINTDESK_* variables.
// Callers merge their flags on top and call Validate.
func loadSettings(common commonFlags, env *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := common.config
	if name == "" {
		name = env.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// mergePageFlags merges page flags into cfg. CLI values override config values.
func mergePageFlags(f pageFlags, cfg *config.Config) {
	if f.format != "" {
		cfg.Page.Format = f.format
	}
	if f.orientation != "" {
		cfg.Page.Orientation = f.orientation
	}
	if f.marginSet {
		cfg.Page.MarginsMM = f.margin
	}
	if f.scale != 0 {
		cfg.Page.Scale = f.scale
	}
}

// mergeRendererFlags merges renderer flags into cfg.
func mergeRendererFlags(f rendererFlags, cfg *config.Config) {
	if f.timeout != "" {
		cfg.Renderer.Timeout = f.timeout
	}
	if f.settle != "" {
		cfg.Renderer.SettleDelay = f.settle
	}
	if f.browserBin != "" {
		cfg.Renderer.BrowserBin = f.browserBin
	}
	if f.noSandbox {
		cfg.Renderer.NoSandbox = true
	}
}

// newLogger builds the process logger. --verbose wins over --quiet, and both
// win over the configured level.
func newLogger(w io.Writer, level string, quiet, verbose bool) *log.Logger {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	switch {
	case verbose:
		lvl = log.DebugLevel
	case quiet:
		lvl = log.ErrorLevel
	}

	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           lvl,
	})
}

// serviceOptions translates cfg into library options.
func serviceOptions(cfg *config.Config, logger *log.Logger) ([]printdesk.Option, error) {
	opts := []printdesk.Option{printdesk.WithLogger(logger)}

	timeout, err := cfg.Renderer.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, printdesk.WithTimeout(timeout))
	}

	settle, err := cfg.Renderer.SettleDuration()
	if err != nil {
		return nil, err
	}
	if settle > 0 {
		opts = append(opts, printdesk.WithSettleDelay(settle))
	}

	if cfg.Renderer.BrowserBin != "" {
		opts = append(opts, printdesk.WithBrowserBin(cfg.Renderer.BrowserBin))
	}
	if cfg.Renderer.NoSandbox {
		opts = append(opts, printdesk.WithNoSandbox(true))
	}

	return opts, nil
}

// buildPrintConfig converts the page section of cfg into a request config.
func buildPrintConfig(cfg *config.Config) (printdesk.PrintConfig, error) {
	format, err := printdesk.ParsePaperFormat(cfg.Page.Format)
	if err != nil {
		return printdesk.PrintConfig{}, err
	}
	orientation, err := printdesk.ParseOrientation(cfg.Page.Orientation)
	if err != nil {
		return printdesk.PrintConfig{}, err
	}

	pc := printdesk.PrintConfig{
		Format:      format,
		Orientation: orientation,
		MarginsMM:   cfg.Page.MarginsMM,
		Scale:       cfg.Page.Scale,
	}
	if err := pc.Validate(); err != nil {
		return printdesk.PrintConfig{}, err
	}
	return pc, nil
}
