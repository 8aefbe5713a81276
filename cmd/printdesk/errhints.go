package main

import (
	"context"
	"errors"
	"runtime"
	"strings"

	printdesk "github.com/alnah/go-printdesk"
	"github.com/alnah/go-printdesk/internal/config"
	"github.com/alnah/go-printdesk/internal/hints"
)

// withHint appends an actionable hint to the error message, if one applies.
func withHint(err error) string {
	return err.Error() + hintFor(err)
}

func hintFor(err error) string {
	switch {
	case errors.Is(err, printdesk.ErrBrowserConnect):
		return hints.ForBrowserConnect()
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, config.ErrConfigNotFound):
		return hints.ForConfigNotFound(triedPaths(err.Error()))
	case errors.Is(err, printdesk.ErrSpoolerUnavailable):
		return hints.ForPrintSystem(runtime.GOOS)
	case errors.Is(err, printdesk.ErrNoDefaultPrinter):
		return hints.ForNoDefaultPrinter()
	case errors.Is(err, printdesk.ErrCopyPDF):
		return hints.ForDestination()
	default:
		return ""
	}
}

// triedPaths extracts the "tried a, b" list from a config lookup error.
func triedPaths(msg string) []string {
	_, list, ok := strings.Cut(msg, "tried ")
	if !ok {
		return nil
	}
	return strings.Split(list, ", ")
}
