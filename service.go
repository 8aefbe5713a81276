package printdesk

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/alnah/go-printdesk/internal/fileutil"
)

// Staged file prefixes: <tmp>/print-<uuid>.pdf and <tmp>/print-merged-<uuid>.pdf.
const (
	stagePrefixDocument = "print"
	stagePrefixPages    = "print-merged"
)

// Service renders print requests and hands them to a spooler or a file.
// Create with New and call Close when done. A Service owns one browser and
// may be used from several goroutines; each render gets its own incognito
// context.
type Service struct {
	cfg      serviceConfig
	renderer pdfRenderer
	spooler  Spooler
	logger   *log.Logger
}

// New creates a Service. The browser is not started until the first render.
// Returns ErrStagePDF when WithTempDir names something other than a directory.
// On platforms without a known spooler, printing operations fail with
// ErrUnsupportedPlatform while rendering and saving keep working.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		cfg: serviceConfig{
			timeout:     defaultTimeout,
			settleDelay: defaultSettleDelay,
		},
		logger: log.New(io.Discard),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cfg.tempDir != "" {
		info, err := os.Stat(s.cfg.tempDir)
		if err != nil {
			return nil, fmt.Errorf("%w: temp dir: %v", ErrStagePDF, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("%w: temp dir %s is not a directory", ErrStagePDF, s.cfg.tempDir)
		}
	}

	if s.spooler == nil {
		sp, err := NewSystemSpooler()
		if err != nil {
			s.spooler = unavailableSpooler{err: err}
		} else {
			s.spooler = sp
		}
	}

	// Create renderer if not injected (e.g., by tests)
	if s.renderer == nil {
		s.renderer = newRodRenderer(s.cfg, s.logger)
	}

	return s, nil
}

// Close releases the browser.
func (s *Service) Close() error {
	if s.renderer != nil {
		return s.renderer.Close()
	}
	return nil
}

// ListPrinters returns the installed printers. When the list is non-empty
// exactly one entry is marked default.
func (s *Service) ListPrinters(ctx context.Context) (printers []PrinterInfo, err error) {
	defer recoverInternal(&err)

	printers, err = s.spooler.ListPrinters(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("listed printers", "count", len(printers))
	return printers, nil
}

// RenderPDF renders a single document and returns the PDF bytes.
func (s *Service) RenderPDF(ctx context.Context, req PrintRequest) (pdf []byte, err error) {
	defer recoverInternal(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.renderDocument(ctx, req)
}

// RenderPagesPDF renders pre-paginated pages and returns the PDF bytes.
func (s *Service) RenderPagesPDF(ctx context.Context, req PrintRequestPages) (pdf []byte, err error) {
	defer recoverInternal(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.renderPages(ctx, req)
}

// PrintDocument renders req and submits it to req.PrinterID, or to the
// default printer when empty. A print command that runs but fails yields
// PrintResult.Success=false rather than an error.
func (s *Service) PrintDocument(ctx context.Context, req PrintRequest) (res *PrintResult, err error) {
	defer recoverInternal(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	pdf, err := s.renderDocument(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, pdf, stagePrefixDocument, req.PrinterID)
}

// PrintDocumentPages renders req, one sheet per page, and submits it like
// PrintDocument.
func (s *Service) PrintDocumentPages(ctx context.Context, req PrintRequestPages) (res *PrintResult, err error) {
	defer recoverInternal(&err)

	if err := req.Validate(); err != nil {
		return nil, err
	}
	pdf, err := s.renderPages(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.dispatch(ctx, pdf, stagePrefixPages, req.PrinterID)
}

// SavePDFToPath renders req and writes the PDF to dest, which is returned.
func (s *Service) SavePDFToPath(ctx context.Context, req PrintRequest, dest string) (path string, err error) {
	defer recoverInternal(&err)

	if dest == "" {
		return "", ErrEmptyDestination
	}
	if err := req.Validate(); err != nil {
		return "", err
	}
	pdf, err := s.renderDocument(ctx, req)
	if err != nil {
		return "", err
	}
	return s.save(pdf, stagePrefixDocument, dest)
}

// SavePDFPagesToPath renders req, one sheet per page, and writes the PDF
// to dest, which is returned.
func (s *Service) SavePDFPagesToPath(ctx context.Context, req PrintRequestPages, dest string) (path string, err error) {
	defer recoverInternal(&err)

	if dest == "" {
		return "", ErrEmptyDestination
	}
	if err := req.Validate(); err != nil {
		return "", err
	}
	pdf, err := s.renderPages(ctx, req)
	if err != nil {
		return "", err
	}
	return s.save(pdf, stagePrefixPages, dest)
}

func (s *Service) renderDocument(ctx context.Context, req PrintRequest) ([]byte, error) {
	doc, err := buildDocumentHTML(req.HTMLContent, req.Config)
	if err != nil {
		return nil, fmt.Errorf("building document: %w", err)
	}
	return s.render(ctx, doc, req.Config)
}

func (s *Service) renderPages(ctx context.Context, req PrintRequestPages) ([]byte, error) {
	doc, err := buildPagesHTML(req.Pages, req.Config)
	if err != nil {
		return nil, fmt.Errorf("building pages: %w", err)
	}
	return s.render(ctx, doc, req.Config)
}

func (s *Service) render(ctx context.Context, doc string, cfg PrintConfig) ([]byte, error) {
	start := time.Now()
	pdf, err := s.renderer.RenderHTML(ctx, doc, cfg)
	if err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	s.logger.Info("rendered", "format", cfg.Format, "orientation", cfg.Orientation,
		"bytes", len(pdf), "elapsed", time.Since(start).Round(time.Millisecond))
	return pdf, nil
}

// dispatch stages pdf, resolves the printer and submits the job.
// The staged file is removed whatever happens.
func (s *Service) dispatch(ctx context.Context, pdf []byte, prefix, printerID string) (*PrintResult, error) {
	staged, err := fileutil.StagePDF(s.cfg.tempDir, prefix, pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStagePDF, err)
	}
	defer s.removeStaged(staged)

	printer, err := s.resolvePrinter(ctx, printerID)
	if err != nil {
		return nil, err
	}

	res, err := s.spooler.Submit(ctx, staged, printer)
	if err != nil {
		return nil, err
	}
	if res.Success {
		s.logger.Info("submitted", "printer", printer, "job", res.JobID)
	} else {
		s.logger.Warn("print command failed", "printer", printer, "message", res.Message)
	}
	return res, nil
}

// resolvePrinter returns printerID when set, otherwise the default printer.
// An explicit ID is used as-is without listing printers.
func (s *Service) resolvePrinter(ctx context.Context, printerID string) (string, error) {
	if printerID != "" {
		return printerID, nil
	}

	printers, err := s.spooler.ListPrinters(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range printers {
		if p.IsDefault {
			s.logger.Debug("using default printer", "printer", p.ID)
			return p.ID, nil
		}
	}
	return "", ErrNoDefaultPrinter
}

// save stages pdf, copies it to dest and removes the staged file.
func (s *Service) save(pdf []byte, prefix, dest string) (string, error) {
	staged, err := fileutil.StagePDF(s.cfg.tempDir, prefix, pdf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStagePDF, err)
	}
	defer s.removeStaged(staged)

	if err := fileutil.CopyFile(staged, dest); err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrCopyPDF, dest, err)
	}
	s.logger.Info("saved", "path", dest, "bytes", len(pdf))
	return dest, nil
}

// removeStaged deletes a staged PDF. Failures are logged and ignored.
func (s *Service) removeStaged(path string) {
	if err := fileutil.RemoveFile(path); err != nil {
		s.logger.Debug("staged file not removed", "path", path, "err", err)
	}
}

// recoverInternal converts a panic into an error on the named return.
func recoverInternal(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("internal error: %v", r)
	}
}
