package printdesk

import (
	"context"
	"runtime"

	"github.com/alnah/go-printdesk/internal/spooler"
)

// Spooler enumerates printers and submits PDF files to them.
// Submit reports a command that ran but failed as Success=false, and
// returns an error only when the command could not run at all.
type Spooler interface {
	ListPrinters(ctx context.Context) ([]PrinterInfo, error)
	Submit(ctx context.Context, pdfPath, printerID string) (*PrintResult, error)
}

// NewSystemSpooler returns the spooler for the running OS: CUPS lp on
// Linux, CUPS lpr on macOS, PowerShell on Windows.
func NewSystemSpooler() (Spooler, error) {
	sp, err := spooler.ForPlatform(runtime.GOOS, nil)
	if err != nil {
		return nil, err
	}
	return &systemSpooler{sp: sp}, nil
}

// systemSpooler adapts an internal spooler variant to the public types.
type systemSpooler struct {
	sp spooler.Spooler
}

func (s *systemSpooler) ListPrinters(ctx context.Context) ([]PrinterInfo, error) {
	printers, err := s.sp.ListPrinters(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]PrinterInfo, len(printers))
	for i, p := range printers {
		out[i] = PrinterInfo(p)
	}
	return out, nil
}

func (s *systemSpooler) Submit(ctx context.Context, pdfPath, printerID string) (*PrintResult, error) {
	sub, err := s.sp.Submit(ctx, pdfPath, printerID)
	if err != nil {
		return nil, err
	}
	res := PrintResult(*sub)
	return &res, nil
}

// unavailableSpooler stands in on platforms without a spooler variant so
// that rendering and saving still work there.
type unavailableSpooler struct {
	err error
}

func (s unavailableSpooler) ListPrinters(context.Context) ([]PrinterInfo, error) {
	return nil, s.err
}

func (s unavailableSpooler) Submit(context.Context, string, string) (*PrintResult, error) {
	return nil, s.err
}
