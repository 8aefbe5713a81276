package spooler

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/alnah/go-printdesk/internal/process"
)

// PowerShell invocations.
const (
	powershellBin    = "powershell"
	getPrinterScript = "Get-Printer | Select-Object Name, Default | ConvertTo-Json"

	// windowsJobID is reported because Start-Process -Verb Print gives no job handle.
	windowsJobID = "windows-print-job"
)

// Windows is the PowerShell-backed spooler.
//
// The default printer is not read from the OS: Get-Printer exposes no
// Default property, so the first printer is always reported as default.
type Windows struct {
	runner process.Runner
}

// Compile-time interface check.
var _ Spooler = (*Windows)(nil)

// NewWindows returns a PowerShell spooler.
func NewWindows(runner process.Runner) *Windows {
	return &Windows{runner: runner}
}

// ListPrinters runs Get-Printer and parses its JSON output.
func (w *Windows) ListPrinters(ctx context.Context) ([]Printer, error) {
	out, err := w.runner.Run(ctx, powershellBin, "-NoProfile", "-Command", getPrinterScript)
	if err != nil {
		return nil, runError(ErrUnavailable, powershellBin, err)
	}
	if !out.Success() {
		return nil, queryError(powershellBin, out)
	}
	return ParseGetPrinter(string(out.Stdout)), nil
}

// Submit hands pdfPath to the shell Print verb targeting printer.
func (w *Windows) Submit(ctx context.Context, pdfPath, printer string) (*Submission, error) {
	script := printVerbScript(pdfPath, printer)

	out, err := w.runner.Run(ctx, powershellBin, "-NoProfile", "-Command", script)
	if err != nil {
		return nil, runError(ErrSubmit, powershellBin, err)
	}
	if !out.Success() {
		return &Submission{Success: false, Message: failedMessage(out.Stderr)}, nil
	}
	return &Submission{
		Success: true,
		Message: sentMessage(printer),
		JobID:   windowsJobID,
	}, nil
}

// printVerbScript builds the Start-Process call for the Print verb.
func printVerbScript(pdfPath, printer string) string {
	return fmt.Sprintf("Start-Process -FilePath %s -Verb Print -ArgumentList %s",
		psQuote(pdfPath), psQuote(`/d:"`+printer+`"`))
}

// psQuote wraps s in a PowerShell single-quoted literal.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// ParseGetPrinter extracts printers from ConvertTo-Json output, which is an
// object for a single printer and an array otherwise. Output that is not
// valid JSON is scanned line by line for "Name" entries.
func ParseGetPrinter(output string) []Printer {
	trimmed := strings.TrimSpace(output)
	if trimmed == "" {
		return nil
	}
	if !gjson.Valid(trimmed) {
		return ensureDefault(scanNameLines(trimmed))
	}

	doc := gjson.Parse(trimmed)
	var items []gjson.Result
	switch {
	case doc.IsArray():
		items = doc.Array()
	case doc.IsObject():
		items = []gjson.Result{doc}
	}

	var printers []Printer
	for _, item := range items {
		name := strings.TrimSpace(item.Get("Name").String())
		if name == "" {
			continue
		}
		printers = append(printers, Printer{ID: name, DisplayName: name})
	}
	return ensureDefault(printers)
}

// scanNameLines picks values out of `"Name": "..."` lines.
func scanNameLines(output string) []Printer {
	var printers []Printer
	for _, line := range strings.Split(output, "\n") {
		if !strings.Contains(line, `"Name"`) {
			continue
		}
		_, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		name := strings.TrimSpace(value)
		name = strings.Trim(name, ",")
		name = strings.Trim(name, `"`)
		if name == "" {
			continue
		}
		printers = append(printers, Printer{ID: name, DisplayName: name})
	}
	return printers
}
