package printdesk

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-printdesk/internal/process"
)

// pdfRenderer turns a complete HTML document into PDF bytes.
type pdfRenderer interface {
	RenderHTML(ctx context.Context, htmlDoc string, cfg PrintConfig) ([]byte, error)
	Close() error
}

// Compile-time interface check.
var _ pdfRenderer = (*rodRenderer)(nil)

// Renderer defaults.
const (
	defaultTimeout     = 30 * time.Second
	defaultSettleDelay = 500 * time.Millisecond
	mmPerInch          = 25.4

	// cleanupTimeout bounds closing a page or incognito context after the
	// render deadline has already passed.
	cleanupTimeout = 5 * time.Second
)

// rodRenderer implements pdfRenderer with headless Chrome via go-rod.
// The browser is launched on first use and shared by later renders; each
// render runs in its own incognito context.
type rodRenderer struct {
	mu          sync.Mutex
	browser     *rod.Browser
	launcher    *launcher.Launcher
	timeout     time.Duration
	settleDelay time.Duration
	browserBin  string
	noSandbox   bool
	logger      *log.Logger
}

func newRodRenderer(cfg serviceConfig, logger *log.Logger) *rodRenderer {
	return &rodRenderer{
		timeout:     cfg.timeout,
		settleDelay: cfg.settleDelay,
		browserBin:  cfg.browserBin,
		noSandbox:   cfg.noSandbox,
		logger:      logger,
	}
}

// ensureBrowser lazily launches and connects to Chrome. ctx bounds the
// launch; the browser itself outlives it.
func (r *rodRenderer) ensureBrowser(ctx context.Context) (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New().Context(ctx)

	bin := r.browserBin
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if r.noSandbox || os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		// A launch abandoned at the deadline may have started Chrome.
		if pid := l.PID(); pid > 0 {
			process.KillProcessGroup(pid)
			l.Kill()
		}
		return nil, launchError(ctx, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		process.KillProcessGroup(l.PID())
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	r.browser = browser
	r.launcher = l
	r.logger.Debug("browser launched", "pid", l.PID(), "bin", bin)
	return browser, nil
}

// Close shuts the browser down and kills its process group.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	if r.launcher != nil {
		// Chrome's helpers (GPU, renderer) outlive the main process otherwise.
		process.KillProcessGroup(r.launcher.PID())
		r.launcher.Kill()
		r.launcher = nil
	}
	return err
}

// RenderHTML loads htmlDoc from a data: URL, waits for load plus the settle
// delay, and prints the page to PDF.
func (r *rodRenderer) RenderHTML(ctx context.Context, htmlDoc string, cfg PrintConfig) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The deadline covers launch and target creation as well as the render.
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browser, err := r.ensureBrowser(ctx)
	if err != nil {
		return nil, err
	}

	incognito, err := browser.Context(ctx).Incognito()
	if err != nil {
		return nil, pageCreateError(ctx, err)
	}
	defer func() {
		cctx, ccancel := cleanupContext(ctx)
		defer ccancel()
		_ = incognito.Context(cctx).Close()
	}()

	page, err := incognito.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, pageCreateError(ctx, err)
	}
	defer func() {
		cctx, ccancel := cleanupContext(ctx)
		defer ccancel()
		_ = page.Context(cctx).Close()
	}()

	start := time.Now()
	if err := page.Navigate(dataURL(htmlDoc)); err != nil {
		return nil, loadError(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, loadError(ctx, err)
	}

	// Fonts and stylesheets may still be arriving after the load event.
	if err := sleepContext(ctx, r.settleDelay); err != nil {
		return nil, err
	}

	reader, err := page.PDF(buildPDFOptions(cfg))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}

	r.logger.Debug("rendered PDF", "bytes", len(pdf), "elapsed", time.Since(start).Round(time.Millisecond))
	return pdf, nil
}

// buildPDFOptions maps cfg to Chrome's printToPDF parameters. Margins are
// zero because layout margins live in the page CSS, and the CSS @page size
// takes precedence over the paper size given here. The paper size is already
// oriented; Landscape is set as well.
func buildPDFOptions(cfg PrintConfig) *proto.PagePrintToPDF {
	w, h := cfg.PageSize()
	return &proto.PagePrintToPDF{
		Landscape:           cfg.Orientation.IsLandscape(),
		DisplayHeaderFooter: false,
		PrintBackground:     true,
		Scale:               floatPtr(cfg.EffectiveScale()),
		PaperWidth:          floatPtr(w / mmPerInch),
		PaperHeight:         floatPtr(h / mmPerInch),
		MarginTop:           floatPtr(0),
		MarginBottom:        floatPtr(0),
		MarginLeft:          floatPtr(0),
		MarginRight:         floatPtr(0),
		PreferCSSPageSize:   true,
	}
}

// dataURL embeds htmlDoc as a base64 data: URL.
func dataURL(htmlDoc string) string {
	return "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(htmlDoc))
}

// launchError wraps a failed launch. A launch cut short by the render
// deadline also matches the context error.
func launchError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%w: %w", ErrBrowserConnect, ctxErr)
	}
	return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
}

// pageCreateError prefers the context error when the deadline caused the failure.
func pageCreateError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrPageCreate, err)
}

// cleanupContext detaches from ctx's deadline so targets can still be
// closed after a timeout.
func cleanupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
}

// loadError prefers the context error when the deadline caused the failure.
func loadError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return fmt.Errorf("%w: %v", ErrPageLoad, err)
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
