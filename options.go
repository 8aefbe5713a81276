package printdesk

import (
	"time"

	"github.com/charmbracelet/log"
)

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	timeout     time.Duration
	settleDelay time.Duration
	tempDir     string
	browserBin  string
	noSandbox   bool
}

// WithTimeout bounds each render: browser launch on first use, page
// creation, navigation, settle delay and capture.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("printdesk: WithTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.timeout = d
	}
}

// WithSettleDelay sets the pause between page load and PDF capture.
// Zero disables it; negative values panic.
func WithSettleDelay(d time.Duration) Option {
	if d < 0 {
		panic("printdesk: WithSettleDelay duration must not be negative")
	}
	return func(s *Service) {
		s.cfg.settleDelay = d
	}
}

// WithSpooler replaces the platform print spooler.
func WithSpooler(sp Spooler) Option {
	return func(s *Service) {
		s.spooler = sp
	}
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTempDir sets where PDFs are staged. Empty means os.TempDir().
func WithTempDir(dir string) Option {
	return func(s *Service) {
		s.cfg.tempDir = dir
	}
}

// WithBrowserBin sets the Chrome binary. Empty falls back to
// ROD_BROWSER_BIN, then to rod's own lookup.
func WithBrowserBin(path string) Option {
	return func(s *Service) {
		s.cfg.browserBin = path
	}
}

// WithNoSandbox disables the Chrome sandbox (containers, CI).
func WithNoSandbox(enabled bool) Option {
	return func(s *Service) {
		s.cfg.noSandbox = enabled
	}
}
