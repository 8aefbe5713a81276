package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-printdesk/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// appDirName is the directory under os.UserConfigDir() searched for named configs.
const appDirName = "go-printdesk"

// Field length limits.
const (
	MaxPrinterLength     = 255 // CUPS queue names are capped at 127; Windows allows more
	MaxFormatLength      = 10  // "Letter"
	MaxOrientationLength = 10  // "landscape"
	MaxPathLength        = 4096
	MaxAddrLength        = 255
	MaxLevelLength       = 10 // "debug", "error"
)

// Defaults applied by DefaultConfig.
const (
	DefaultFormat      = "A4"
	DefaultOrientation = "portrait"
	DefaultMarginsMM   = 10.0
	DefaultScale       = 1.0
	DefaultTimeout     = "30s"
	DefaultSettleDelay = "500ms"
	DefaultServerAddr  = "127.0.0.1:8765"
	DefaultLogLevel    = "info"
)

// Config holds settings shared by the CLI and the local server.
type Config struct {
	Page     PageConfig     `yaml:"page"`
	Printer  string         `yaml:"printer"` // empty = system default
	Renderer RendererConfig `yaml:"renderer"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// PageConfig defines default page geometry.
type PageConfig struct {
	Format      string  `yaml:"format"`      // "A4", "A3", "Letter"
	Orientation string  `yaml:"orientation"` // "portrait", "landscape"
	MarginsMM   float64 `yaml:"marginsMm"`   // CSS padding on every side
	Scale       float64 `yaml:"scale"`       // 0.1-2.0
}

// RendererConfig defines headless Chrome options.
type RendererConfig struct {
	Timeout     string `yaml:"timeout"`     // Go duration, e.g. "30s"
	SettleDelay string `yaml:"settleDelay"` // wait after load before capture
	BrowserBin  string `yaml:"browserBin"`  // empty = rod lookup / ROD_BROWSER_BIN
	NoSandbox   bool   `yaml:"noSandbox"`
}

// ServerConfig defines the local JSON server.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Workers int    `yaml:"workers"` // 0 = auto
}

// LogConfig defines logging options.
type LogConfig struct {
	Level string `yaml:"level"` // "debug", "info", "warn", "error"
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Page: PageConfig{
			Format:      DefaultFormat,
			Orientation: DefaultOrientation,
			MarginsMM:   DefaultMarginsMM,
			Scale:       DefaultScale,
		},
		Renderer: RendererConfig{
			Timeout:     DefaultTimeout,
			SettleDelay: DefaultSettleDelay,
		},
		Server: ServerConfig{Addr: DefaultServerAddr},
		Log:    LogConfig{Level: DefaultLogLevel},
	}
}

// Validate checks field lengths and value ranges.
// Page values are re-validated by the library at request time; this catches
// typos at load time with the config key in the message.
func (c *Config) Validate() error {
	if err := validateFieldLength("printer", c.Printer, MaxPrinterLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.format", c.Page.Format, MaxFormatLength); err != nil {
		return err
	}
	if err := validateFieldLength("page.orientation", c.Page.Orientation, MaxOrientationLength); err != nil {
		return err
	}
	if err := validateFieldLength("renderer.browserBin", c.Renderer.BrowserBin, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("server.addr", c.Server.Addr, MaxAddrLength); err != nil {
		return err
	}
	if err := validateFieldLength("log.level", c.Log.Level, MaxLevelLength); err != nil {
		return err
	}

	if c.Page.Format != "" {
		switch strings.ToLower(c.Page.Format) {
		case "a4", "a3", "letter":
		default:
			return fmt.Errorf("%w: page.format %q (must be A4, A3, or Letter)", ErrInvalidValue, c.Page.Format)
		}
	}
	if c.Page.Orientation != "" {
		switch strings.ToLower(c.Page.Orientation) {
		case "portrait", "landscape":
		default:
			return fmt.Errorf("%w: page.orientation %q (must be portrait or landscape)", ErrInvalidValue, c.Page.Orientation)
		}
	}
	if !(c.Page.MarginsMM >= 0) {
		return fmt.Errorf("%w: page.marginsMm must be >= 0, got %.2f", ErrInvalidValue, c.Page.MarginsMM)
	}
	if c.Page.Scale != 0 && !(c.Page.Scale >= 0.1 && c.Page.Scale <= 2) {
		return fmt.Errorf("%w: page.scale must be between 0.1 and 2, got %.2f", ErrInvalidValue, c.Page.Scale)
	}

	if _, err := c.Renderer.TimeoutDuration(); err != nil {
		return err
	}
	if _, err := c.Renderer.SettleDuration(); err != nil {
		return err
	}

	if c.Server.Workers < 0 {
		return fmt.Errorf("%w: server.workers must be >= 0, got %d", ErrInvalidValue, c.Server.Workers)
	}

	if c.Log.Level != "" {
		switch strings.ToLower(c.Log.Level) {
		case "debug", "info", "warn", "error":
		default:
			return fmt.Errorf("%w: log.level %q (must be debug, info, warn, or error)", ErrInvalidValue, c.Log.Level)
		}
	}

	return nil
}

// TimeoutDuration parses Timeout. Empty yields 0 (library default).
func (r RendererConfig) TimeoutDuration() (time.Duration, error) {
	return parsePositiveDuration("renderer.timeout", r.Timeout)
}

// SettleDuration parses SettleDelay. Empty yields 0 (library default).
func (r RendererConfig) SettleDuration() (time.Duration, error) {
	return parsePositiveDuration("renderer.settleDelay", r.SettleDelay)
}

func parsePositiveDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, field, value, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, field, value)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched for in the current directory and then in
// <user config dir>/go-printdesk/. Missing keys keep their defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <user config dir>/go-printdesk/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDirName, name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}

// fileExists returns true if the path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
