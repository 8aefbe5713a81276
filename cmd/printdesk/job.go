package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	printdesk "github.com/alnah/go-printdesk"
	"github.com/alnah/go-printdesk/internal/config"
)

// ErrPrintFailed wraps a failure reported by the print command itself.
var ErrPrintFailed = errors.New("print failed")

// job is a prepared print or save invocation.
type job struct {
	cfg      *config.Config
	logger   *log.Logger
	opts     []printdesk.Option
	printCfg printdesk.PrintConfig
	docs     []string
	pages    bool
}

// paged reports whether the job goes through the page request path.
func (j *job) paged() bool {
	return j.pages || len(j.docs) > 1
}

func (j *job) documentRequest() printdesk.PrintRequest {
	return printdesk.PrintRequest{
		Config:      j.printCfg,
		HTMLContent: j.docs[0],
		PrinterID:   j.cfg.Printer,
	}
}

func (j *job) pagesRequest() printdesk.PrintRequestPages {
	return printdesk.PrintRequestPages{
		Config:    j.printCfg,
		Pages:     j.docs,
		PrinterID: j.cfg.Printer,
	}
}

// prepareJob resolves settings and reads every input.
func prepareJob(ctx context.Context, flags *jobFlags, args []string, env *Environment) (*job, error) {
	cfg, err := loadSettings(flags.common, loadEnvConfig())
	if err != nil {
		return nil, err
	}
	mergePageFlags(flags.page, cfg)
	mergeRendererFlags(flags.renderer, cfg)
	if flags.printer != "" {
		cfg.Printer = flags.printer
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	printCfg, err := buildPrintConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger := newLogger(env.Stderr, cfg.Log.Level, flags.common.quiet, flags.common.verbose)
	opts, err := serviceOptions(cfg, logger)
	if err != nil {
		return nil, err
	}

	docs, err := newInputReader(env.Stdin, flags.markdown).ReadAll(ctx, args)
	if err != nil {
		return nil, err
	}
	logger.Debug("inputs read", "count", len(docs), "pages", flags.pages || len(docs) > 1)

	return &job{
		cfg:      cfg,
		logger:   logger,
		opts:     opts,
		printCfg: printCfg,
		docs:     docs,
		pages:    flags.pages,
	}, nil
}

// runPrint renders the inputs and sends them to a printer.
func runPrint(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseJobFlags(cmdPrint, args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	j, err := prepareJob(ctx, flags, positional, env)
	if err != nil {
		return err
	}

	pool := env.NewPool(1, j.opts...)
	defer func() { _ = pool.Close() }()

	var res *printdesk.PrintResult
	err = withBackend(ctx, pool, func(b Backend) error {
		var err error
		if j.paged() {
			res, err = b.PrintDocumentPages(ctx, j.pagesRequest())
		} else {
			res, err = b.PrintDocument(ctx, j.documentRequest())
		}
		return err
	})
	if err != nil {
		return err
	}

	if flags.json {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return err
		}
	}
	if !res.Success {
		return fmt.Errorf("%w: %s", ErrPrintFailed, res.Message)
	}
	if !flags.json && !flags.common.quiet {
		if res.JobID != "" {
			fmt.Fprintf(env.Stdout, "%s (job %s)\n", res.Message, res.JobID)
		} else {
			fmt.Fprintln(env.Stdout, res.Message)
		}
	}
	return nil
}

// runSave renders the inputs into a PDF file.
func runSave(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseJobFlags(cmdSave, args)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if flags.output == "" {
		return fmt.Errorf("%w: --output", ErrMissingValue)
	}

	j, err := prepareJob(ctx, flags, positional, env)
	if err != nil {
		return err
	}

	pool := env.NewPool(1, j.opts...)
	defer func() { _ = pool.Close() }()

	var path string
	err = withBackend(ctx, pool, func(b Backend) error {
		var err error
		if j.paged() {
			path, err = b.SavePDFPagesToPath(ctx, j.pagesRequest(), flags.output)
		} else {
			path, err = b.SavePDFToPath(ctx, j.documentRequest(), flags.output)
		}
		return err
	})
	if err != nil {
		return err
	}

	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "Saved %s\n", path)
	}
	return nil
}
