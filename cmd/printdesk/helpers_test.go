package main

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	printdesk "github.com/alnah/go-printdesk"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - fakeBackend and fakePool
// ---------------------------------------------------------------------------

// fakeBackend records requests and returns canned results.
type fakeBackend struct {
	mu sync.Mutex

	printers []printdesk.PrinterInfo
	result   *printdesk.PrintResult
	err      error

	docs      []printdesk.PrintRequest
	pages     []printdesk.PrintRequestPages
	dests     []string
	listCalls int
}

var _ Backend = (*fakeBackend)(nil)

func (f *fakeBackend) ListPrinters(context.Context) ([]printdesk.PrinterInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	return f.printers, f.err
}

func (f *fakeBackend) PrintDocument(_ context.Context, req printdesk.PrintRequest) (*printdesk.PrintResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, req)
	return f.printResult()
}

func (f *fakeBackend) PrintDocumentPages(_ context.Context, req printdesk.PrintRequestPages) (*printdesk.PrintResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, req)
	return f.printResult()
}

func (f *fakeBackend) SavePDFToPath(_ context.Context, req printdesk.PrintRequest, dest string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, req)
	f.dests = append(f.dests, dest)
	if f.err != nil {
		return "", f.err
	}
	return dest, nil
}

func (f *fakeBackend) SavePDFPagesToPath(_ context.Context, req printdesk.PrintRequestPages, dest string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pages = append(f.pages, req)
	f.dests = append(f.dests, dest)
	if f.err != nil {
		return "", f.err
	}
	return dest, nil
}

func (f *fakeBackend) printResult() (*printdesk.PrintResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &printdesk.PrintResult{Success: true, Message: "Document sent to printer"}, nil
}

// fakePool hands out a single fakeBackend.
type fakePool struct {
	backend    *fakeBackend
	acquireErr error
	size       int
	opts       []printdesk.Option

	mu       sync.Mutex
	released int
	closed   bool
}

var _ Pool = (*fakePool)(nil)

func (p *fakePool) Acquire(context.Context) (Backend, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.backend, nil
}

func (p *fakePool) Release(Backend) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released++
}

func (p *fakePool) Size() int {
	if p.size == 0 {
		return 1
	}
	return p.size
}

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// testEnv returns an Environment whose pool factory yields pool.
func testEnv(pool *fakePool, stdin string) (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	env := &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 15, 9, 30, 0, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
		Stdin:  strings.NewReader(stdin),
		NewPool: func(size int, opts ...printdesk.Option) Pool {
			pool.size = size
			pool.opts = opts
			return pool
		},
	}
	return env, &stdout, &stderr
}

// assertContains fails for every want missing from got.
func assertContains(t *testing.T, label, got string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(got, want) {
			t.Errorf("%s should contain %q, got %q", label, want, got)
		}
	}
}
