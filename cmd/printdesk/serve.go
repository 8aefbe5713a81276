package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	printdesk "github.com/alnah/go-printdesk"
)

// Server limits.
const (
	maxRequestBody    = 32 << 20 // 32 MiB
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Sentinel errors for the local server.
var (
	ErrListen          = errors.New("failed to listen")
	errBadRequest      = errors.New("invalid request body")
	errRequestTooLarge = errors.New("request body too large")
)

// saveRequest is the body of POST /save.
type saveRequest struct {
	Request         printdesk.PrintRequest `json:"request"`
	DestinationPath string                 `json:"destination_path"`
}

// savePagesRequest is the body of POST /save/pages.
type savePagesRequest struct {
	Request         printdesk.PrintRequestPages `json:"request"`
	DestinationPath string                      `json:"destination_path"`
}

type saveResponse struct {
	Path string `json:"path"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status  string `json:"status"`
	Workers int    `json:"workers"`
}

// server exposes a Pool over a loopback JSON API.
type server struct {
	pool   Pool
	logger *log.Logger
}

// newRouter builds the HTTP routes.
func newRouter(pool Pool, logger *log.Logger) http.Handler {
	s := &server{pool: pool, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/printers", s.handlePrinters)
	r.Post("/print", s.handlePrint)
	r.Post("/print/pages", s.handlePrintPages)
	r.Post("/save", s.handleSave)
	r.Post("/save/pages", s.handleSavePages)

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Workers: s.pool.Size()})
}

func (s *server) handlePrinters(w http.ResponseWriter, r *http.Request) {
	var printers []printdesk.PrinterInfo
	err := withBackend(r.Context(), s.pool, func(b Backend) error {
		var err error
		printers, err = b.ListPrinters(r.Context())
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if printers == nil {
		printers = []printdesk.PrinterInfo{}
	}
	writeJSON(w, http.StatusOK, printers)
}

// handlePrint returns 200 for both outcomes of a dispatched job;
// PrintResult.Success tells them apart.
func (s *server) handlePrint(w http.ResponseWriter, r *http.Request) {
	var req printdesk.PrintRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var res *printdesk.PrintResult
	err := withBackend(r.Context(), s.pool, func(b Backend) error {
		var err error
		res, err = b.PrintDocument(r.Context(), req)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handlePrintPages(w http.ResponseWriter, r *http.Request) {
	var req printdesk.PrintRequestPages
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var res *printdesk.PrintResult
	err := withBackend(r.Context(), s.pool, func(b Backend) error {
		var err error
		res, err = b.PrintDocumentPages(r.Context(), req)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var path string
	err := withBackend(r.Context(), s.pool, func(b Backend) error {
		var err error
		path, err = b.SavePDFToPath(r.Context(), req.Request, req.DestinationPath)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Path: path})
}

func (s *server) handleSavePages(w http.ResponseWriter, r *http.Request) {
	var req savePagesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var path string
	err := withBackend(r.Context(), s.pool, func(b Backend) error {
		var err error
		path, err = b.SavePDFPagesToPath(r.Context(), req.Request, req.DestinationPath)
		return err
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Path: path})
}

// logRequests logs one line per request at a level chosen by status.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		fields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		}
		switch {
		case status >= 500:
			s.logger.Error("request", fields...)
		case status >= 400:
			s.logger.Warn("request", fields...)
		default:
			s.logger.Info("request", fields...)
		}
	})
}

func (s *server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps an error to an HTTP status.
// It uses errors.Is to check wrapped errors.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errRequestTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, printdesk.ErrInvalidFormat),
		errors.Is(err, printdesk.ErrInvalidOrientation),
		errors.Is(err, printdesk.ErrInvalidMargin),
		errors.Is(err, printdesk.ErrInvalidScale),
		errors.Is(err, printdesk.ErrNoPages),
		errors.Is(err, printdesk.ErrEmptyDestination):
		return http.StatusBadRequest
	case errors.Is(err, printdesk.ErrNoDefaultPrinter):
		return http.StatusUnprocessableEntity
	case errors.Is(err, printdesk.ErrPrinterQuery),
		errors.Is(err, printdesk.ErrSubmit):
		return http.StatusBadGateway
	case errors.Is(err, printdesk.ErrSpoolerUnavailable),
		errors.Is(err, printdesk.ErrUnsupportedPlatform),
		errors.Is(err, printdesk.ErrBrowserConnect),
		errors.Is(err, printdesk.ErrPoolClosed):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a JSON body capped at maxRequestBody.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: limit is %d bytes", errRequestTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// runServe starts the local JSON server and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, err := parseServeFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg, err := loadSettings(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	mergeRendererFlags(flags.renderer, cfg)
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.workers != 0 {
		cfg.Server.Workers = flags.workers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := newLogger(env.Stderr, cfg.Log.Level, flags.common.quiet, flags.common.verbose)
	opts, err := serviceOptions(cfg, logger)
	if err != nil {
		return err
	}

	size := printdesk.ResolvePoolSize(cfg.Server.Workers)
	pool := env.NewPool(size, opts...)
	defer func() { _ = pool.Close() }()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrListen, err)
	}
	if !isLoopback(cfg.Server.Addr) {
		logger.Warn("listening on a non-loopback address", "addr", cfg.Server.Addr)
	}
	logger.Debug("pool ready", "size", size)

	return serve(ctx, ln, newRouter(pool, logger), logger)
}

// serve runs h on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, ln net.Listener, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// isLoopback reports whether addr binds to localhost or a loopback IP.
func isLoopback(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
