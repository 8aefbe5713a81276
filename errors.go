package printdesk

import (
	"errors"

	"github.com/alnah/go-printdesk/internal/spooler"
)

// Sentinel errors for library operations.
var (
	ErrPDFGeneration  = errors.New("PDF generation failed")
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrStagePDF       = errors.New("failed to stage PDF")
	ErrCopyPDF        = errors.New("failed to copy PDF")

	//lint:ignore ST1005 message is part of the UI contract
	ErrNoDefaultPrinter = errors.New("No default printer found")
	ErrEmptyDestination = errors.New("destination path cannot be empty")

	// Request validation errors.
	ErrInvalidFormat      = errors.New("invalid paper format")
	ErrInvalidOrientation = errors.New("invalid orientation")
	ErrInvalidMargin      = errors.New("invalid margin")
	ErrInvalidScale       = errors.New("invalid scale")
	ErrNoPages            = errors.New("at least one page is required")
)

// Spooler errors, re-exported so callers need not import internal packages.
var (
	ErrSpoolerUnavailable  = spooler.ErrUnavailable
	ErrPrinterQuery        = spooler.ErrQuery
	ErrSubmit              = spooler.ErrSubmit
	ErrUnsupportedPlatform = spooler.ErrUnsupportedPlatform
)
