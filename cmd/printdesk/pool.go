package main

import (
	"context"
	"fmt"

	printdesk "github.com/alnah/go-printdesk"
)

// Backend is the subset of *printdesk.Service used by commands and handlers.
type Backend interface {
	ListPrinters(ctx context.Context) ([]printdesk.PrinterInfo, error)
	PrintDocument(ctx context.Context, req printdesk.PrintRequest) (*printdesk.PrintResult, error)
	PrintDocumentPages(ctx context.Context, req printdesk.PrintRequestPages) (*printdesk.PrintResult, error)
	SavePDFToPath(ctx context.Context, req printdesk.PrintRequest, dest string) (string, error)
	SavePDFPagesToPath(ctx context.Context, req printdesk.PrintRequestPages, dest string) (string, error)
}

// Compile-time interface implementation check.
var _ Backend = (*printdesk.Service)(nil)

// Pool abstracts service pool operations for testability.
type Pool interface {
	Acquire(ctx context.Context) (Backend, error)
	Release(Backend)
	Size() int
	Close() error
}

// poolAdapter wraps *printdesk.ServicePool to satisfy Pool.
type poolAdapter struct {
	pool *printdesk.ServicePool
}

// newServicePool is the production Environment.NewPool.
func newServicePool(size int, opts ...printdesk.Option) Pool {
	return &poolAdapter{pool: printdesk.NewServicePool(size, opts...)}
}

func (a *poolAdapter) Acquire(ctx context.Context) (Backend, error) {
	svc, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// Release panics on a Backend that did not come from this pool's type.
func (a *poolAdapter) Release(b Backend) {
	svc, ok := b.(*printdesk.Service)
	if !ok {
		panic(fmt.Sprintf("poolAdapter.Release: unexpected type %T", b))
	}
	a.pool.Release(svc)
}

func (a *poolAdapter) Size() int {
	return a.pool.Size()
}

func (a *poolAdapter) Close() error {
	return a.pool.Close()
}

// withBackend acquires a backend, runs fn and releases it.
func withBackend(ctx context.Context, pool Pool, fn func(Backend) error) error {
	b, err := pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer pool.Release(b)
	return fn(b)
}
