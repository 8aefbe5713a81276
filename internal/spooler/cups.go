package spooler

import (
	"context"
	"regexp"
	"strings"

	"github.com/alnah/go-printdesk/internal/process"
)

// lpstat output markers.
const (
	lpstatPrinterPrefix = "printer "
	lpstatDefaultMarker = "default destination:"
)

// lpRequestID matches "request id is Office_Laser-42 (1 file(s))".
var lpRequestID = regexp.MustCompile(`request id is (\S+)`)

// CUPS is the spooler for Linux and macOS. Both list printers with lpstat;
// Linux submits with lp, macOS with lpr.
type CUPS struct {
	runner   process.Runner
	useLpr   bool
	platform string
}

// Compile-time interface check.
var _ Spooler = (*CUPS)(nil)

// NewLinux returns a CUPS spooler submitting jobs with lp.
func NewLinux(runner process.Runner) *CUPS {
	return &CUPS{runner: runner, platform: PlatformLinux}
}

// NewDarwin returns a CUPS spooler submitting jobs with lpr.
func NewDarwin(runner process.Runner) *CUPS {
	return &CUPS{runner: runner, useLpr: true, platform: PlatformDarwin}
}

// Platform returns the runtime.GOOS value this variant targets.
func (c *CUPS) Platform() string {
	return c.platform
}

// ListPrinters runs `lpstat -p -d` and parses its output.
func (c *CUPS) ListPrinters(ctx context.Context) ([]Printer, error) {
	out, err := c.runner.Run(ctx, "lpstat", "-p", "-d")
	if err != nil {
		return nil, runError(ErrUnavailable, "lpstat", err)
	}
	if !out.Success() {
		return nil, queryError("lpstat", out)
	}
	return ParseLpstat(string(out.Stdout)), nil
}

// Submit sends pdfPath to printer.
// Linux: lp -d <printer> -o fit-to-page <file>. macOS: lpr -P <printer> <file>.
func (c *CUPS) Submit(ctx context.Context, pdfPath, printer string) (*Submission, error) {
	name := "lp"
	args := []string{"-d", printer, "-o", "fit-to-page", pdfPath}
	if c.useLpr {
		name = "lpr"
		args = []string{"-P", printer, pdfPath}
	}

	out, err := c.runner.Run(ctx, name, args...)
	if err != nil {
		return nil, runError(ErrSubmit, name, err)
	}
	if !out.Success() {
		return &Submission{Success: false, Message: failedMessage(out.Stderr)}, nil
	}

	sub := &Submission{Success: true, Message: sentMessage(printer)}
	if !c.useLpr {
		sub.JobID = ParseLpJobID(string(out.Stdout))
	}
	return sub, nil
}

// ParseLpstat extracts printers from `lpstat -p -d` output.
// The printer named on the "default destination:" line is marked default;
// if none matches, the first printer is.
func ParseLpstat(output string) []Printer {
	var printers []Printer
	var defaultName string

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case strings.HasPrefix(line, lpstatPrinterPrefix):
			fields := strings.Fields(line)
			if len(fields) < 2 {
				continue
			}
			printers = append(printers, Printer{
				ID:          fields[1],
				DisplayName: strings.ReplaceAll(fields[1], "_", " "),
			})
		case strings.Contains(line, lpstatDefaultMarker):
			if _, after, ok := strings.Cut(line, ":"); ok {
				defaultName = strings.TrimSpace(after)
			}
		}
	}

	if defaultName != "" {
		for i := range printers {
			if printers[i].ID == defaultName {
				printers[i].IsDefault = true
				break
			}
		}
	}

	return ensureDefault(printers)
}

// ParseLpJobID returns the job identifier printed by lp.
// It prefers the "request id is X" token and otherwise falls back to the
// last whitespace-delimited token. The two differ on lp's usual output:
// "request id is Office-42 (1 file(s))" yields "Office-42", not "file(s))".
// Empty output yields "".
func ParseLpJobID(stdout string) string {
	if m := lpRequestID.FindStringSubmatch(stdout); m != nil {
		return m[1]
	}
	fields := strings.Fields(stdout)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
