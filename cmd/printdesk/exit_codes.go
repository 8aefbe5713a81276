package main

import (
	"context"
	"errors"
	"os"

	printdesk "github.com/alnah/go-printdesk"
	"github.com/alnah/go-printdesk/internal/config"
	"github.com/alnah/go-printdesk/internal/pipeline"
)

// ErrUsage wraps flag parsing and command-line errors.
var ErrUsage = errors.New("usage error")

// Exit codes for the printdesk CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Command completed
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, save failed
	ExitBrowser = 4 // Browser/Chrome errors
	ExitPrint   = 5 // Spooler unavailable, no printer, job refused
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Print errors (exit 5)
	if errors.Is(err, ErrPrintFailed) ||
		errors.Is(err, printdesk.ErrSpoolerUnavailable) ||
		errors.Is(err, printdesk.ErrPrinterQuery) ||
		errors.Is(err, printdesk.ErrSubmit) ||
		errors.Is(err, printdesk.ErrNoDefaultPrinter) ||
		errors.Is(err, printdesk.ErrUnsupportedPlatform) {
		return ExitPrint
	}

	// Browser errors (exit 4)
	if errors.Is(err, printdesk.ErrBrowserConnect) ||
		errors.Is(err, printdesk.ErrPageCreate) ||
		errors.Is(err, printdesk.ErrPageLoad) ||
		errors.Is(err, printdesk.ErrPDFGeneration) ||
		errors.Is(err, context.DeadlineExceeded) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, printdesk.ErrStagePDF) ||
		errors.Is(err, printdesk.ErrCopyPDF) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrMissingValue) ||
		errors.Is(err, ErrStdinReused) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidValue) ||
		errors.Is(err, printdesk.ErrInvalidFormat) ||
		errors.Is(err, printdesk.ErrInvalidOrientation) ||
		errors.Is(err, printdesk.ErrInvalidMargin) ||
		errors.Is(err, printdesk.ErrInvalidScale) ||
		errors.Is(err, printdesk.ErrNoPages) ||
		errors.Is(err, printdesk.ErrEmptyDestination) ||
		errors.Is(err, pipeline.ErrHTMLParse) {
		return ExitUsage
	}

	return ExitGeneral
}
