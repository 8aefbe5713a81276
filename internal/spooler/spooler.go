// Package spooler talks to the operating system's print spooler through its
// command-line tools.
//
// One capability set (ListPrinters, Submit) has a variant per platform:
// CUPS on Linux (lpstat + lp), CUPS on macOS (lpstat + lpr) and PowerShell on
// Windows. ForPlatform picks the variant at startup; every variant can be
// constructed on any OS so its parsing is testable everywhere.
package spooler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-printdesk/internal/process"
)

// Sentinel errors for spooler operations.
var (
	ErrUnavailable         = errors.New("print spooler command unavailable")
	ErrQuery               = errors.New("printer query failed")
	ErrSubmit              = errors.New("failed to submit print job")
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// Platform identifiers accepted by ForPlatform (runtime.GOOS values).
const (
	PlatformLinux   = "linux"
	PlatformDarwin  = "darwin"
	PlatformWindows = "windows"
)

// Printer describes an installed printer.
type Printer struct {
	ID          string // system name passed back to Submit
	DisplayName string
	IsDefault   bool
}

// Submission is the outcome of a print command that ran.
// A command that exits non-zero yields Success=false, not an error.
type Submission struct {
	Success bool
	Message string
	JobID   string // empty when the platform reports none
}

// Spooler enumerates printers and submits PDF files to them.
type Spooler interface {
	ListPrinters(ctx context.Context) ([]Printer, error)
	Submit(ctx context.Context, pdfPath, printer string) (*Submission, error)
}

// ForPlatform returns the spooler variant for goos.
func ForPlatform(goos string, runner process.Runner) (Spooler, error) {
	if runner == nil {
		runner = process.ExecRunner{}
	}
	switch goos {
	case PlatformLinux:
		return NewLinux(runner), nil
	case PlatformDarwin:
		return NewDarwin(runner), nil
	case PlatformWindows:
		return NewWindows(runner), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedPlatform, goos)
	}
}

// Commands returns the executables the goos variant runs, or nil for an
// unsupported platform.
func Commands(goos string) []string {
	switch goos {
	case PlatformLinux:
		return []string{"lpstat", "lp"}
	case PlatformDarwin:
		return []string{"lpstat", "lpr"}
	case PlatformWindows:
		return []string{powershellBin}
	default:
		return nil
	}
}

// ensureDefault marks the first printer as default when none is.
// An empty list is returned unchanged.
func ensureDefault(printers []Printer) []Printer {
	if len(printers) == 0 {
		return printers
	}
	for _, p := range printers {
		if p.IsDefault {
			return printers
		}
	}
	printers[0].IsDefault = true
	return printers
}

// sentMessage and failedMessage are the user-facing submission messages.
func sentMessage(printer string) string {
	return "Document sent to printer: " + printer
}

func failedMessage(stderr []byte) string {
	return "Failed to send to printer: " + strings.TrimSpace(string(stderr))
}

// queryError wraps a non-zero exit of a listing command.
func queryError(cmd string, out *process.Output) error {
	return fmt.Errorf("%w: %s exited with status %d: %s",
		ErrQuery, cmd, out.ExitCode, strings.TrimSpace(string(out.Stderr)))
}

// runError classifies a Runner error: start failures become ErrUnavailable,
// context errors pass through untouched.
func runError(sentinel error, cmd string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", sentinel, cmd, err)
}
