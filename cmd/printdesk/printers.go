package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	printdesk "github.com/alnah/go-printdesk"
)

// runPrinters lists installed printers.
func runPrinters(ctx context.Context, args []string, env *Environment) error {
	flags, err := parsePrintersFlags(args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	cfg, err := loadSettings(flags.common, loadEnvConfig())
	if err != nil {
		return err
	}
	logger := newLogger(env.Stderr, cfg.Log.Level, flags.common.quiet, flags.common.verbose)

	pool := env.NewPool(1, printdesk.WithLogger(logger))
	defer func() { _ = pool.Close() }()

	var printers []printdesk.PrinterInfo
	err = withBackend(ctx, pool, func(b Backend) error {
		var err error
		printers, err = b.ListPrinters(ctx)
		return err
	})
	if err != nil {
		return err
	}

	if flags.json {
		if printers == nil {
			printers = []printdesk.PrinterInfo{}
		}
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(printers)
	}

	printPrinterList(env.Stdout, printers)
	return nil
}

// printPrinterList writes one printer per line; "*" marks the default.
func printPrinterList(w io.Writer, printers []printdesk.PrinterInfo) {
	if len(printers) == 0 {
		fmt.Fprintln(w, "No printers found")
		return
	}

	width := 0
	for _, p := range printers {
		width = max(width, len(p.ID))
	}
	for _, p := range printers {
		mark := " "
		if p.IsDefault {
			mark = "*"
		}
		fmt.Fprintf(w, "%s %-*s  %s\n", mark, width, p.ID, p.DisplayName)
	}
}
