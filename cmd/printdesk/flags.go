package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// pageFlags holds page geometry flags. The *Set fields record whether the
// flag was given, since zero is a valid margin.
type pageFlags struct {
	format      string
	orientation string
	margin      float64
	marginSet   bool
	scale       float64
}

// rendererFlags holds headless Chrome flags.
type rendererFlags struct {
	timeout    string
	settle     string
	browserBin string
	noSandbox  bool
}

// jobFlags holds flags for the print and save commands.
type jobFlags struct {
	common   commonFlags
	page     pageFlags
	renderer rendererFlags
	printer  string
	output   string
	pages    bool
	markdown bool
	json     bool
}

// printersFlags holds flags for the printers command.
type printersFlags struct {
	common commonFlags
	json   bool
}

// serveFlags holds flags for the serve command.
type serveFlags struct {
	common   commonFlags
	renderer rendererFlags
	addr     string
	workers  int
}

// configFlags holds flags for the config command.
type configFlags struct {
	common   commonFlags
	page     pageFlags
	renderer rendererFlags
	printer  string
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addPageFlags adds page geometry flags to a FlagSet.
func addPageFlags(fs *flag.FlagSet, f *pageFlags) {
	fs.StringVarP(&f.format, "format", "f", "", "paper format: A4, A3, Letter")
	fs.StringVar(&f.orientation, "orientation", "", "portrait or landscape")
	fs.Float64VarP(&f.margin, "margin", "m", 0, "page margin in millimeters")
	fs.Float64Var(&f.scale, "scale", 0, "render scale (0.1-2.0)")
}

// addRendererFlags adds renderer flags to a FlagSet.
func addRendererFlags(fs *flag.FlagSet, f *rendererFlags) {
	fs.StringVarP(&f.timeout, "timeout", "t", "", "render timeout (e.g., 30s, 2m)")
	fs.StringVar(&f.settle, "settle", "", "delay after load before capture (e.g., 500ms)")
	fs.StringVar(&f.browserBin, "browser", "", "Chrome/Chromium binary path")
	fs.BoolVar(&f.noSandbox, "no-sandbox", false, "disable the Chrome sandbox")
}

// newFlagSet returns a FlagSet that reports errors to the caller only.
func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}

// parseJobFlags parses print/save command flags and returns positional args.
func parseJobFlags(name string, args []string) (*jobFlags, []string, error) {
	fs := newFlagSet(name)
	f := &jobFlags{}

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addRendererFlags(fs, &f.renderer)
	fs.StringVarP(&f.printer, "printer", "p", "", "printer ID (default: system default)")
	fs.BoolVar(&f.pages, "pages", false, "treat every input as one page, even a single file")
	fs.BoolVar(&f.markdown, "markdown", false, "treat stdin as markdown")
	if name == cmdSave {
		fs.StringVarP(&f.output, "output", "o", "", "destination PDF path")
	} else {
		fs.BoolVar(&f.json, "json", false, "print the result as JSON")
	}

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	f.page.marginSet = fs.Changed("margin")

	return f, fs.Args(), nil
}

// parsePrintersFlags parses printers command flags.
func parsePrintersFlags(args []string) (*printersFlags, error) {
	fs := newFlagSet(cmdPrinters)
	f := &printersFlags{}

	addCommonFlags(fs, &f.common)
	fs.BoolVar(&f.json, "json", false, "print the list as JSON")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseServeFlags parses serve command flags.
func parseServeFlags(args []string) (*serveFlags, error) {
	fs := newFlagSet(cmdServe)
	f := &serveFlags{}

	addCommonFlags(fs, &f.common)
	addRendererFlags(fs, &f.renderer)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default 127.0.0.1:8765)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "browser instances (0 = auto)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// parseConfigFlags parses config command flags.
func parseConfigFlags(args []string) (*configFlags, error) {
	fs := newFlagSet(cmdConfig)
	f := &configFlags{}

	addCommonFlags(fs, &f.common)
	addPageFlags(fs, &f.page)
	addRendererFlags(fs, &f.renderer)
	fs.StringVarP(&f.printer, "printer", "p", "", "printer ID")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	f.page.marginSet = fs.Changed("margin")

	return f, nil
}

// parseDoctorFlags parses doctor command flags.
func parseDoctorFlags(args []string) (jsonOutput bool, err error) {
	fs := newFlagSet(cmdDoctor)
	fs.BoolVar(&jsonOutput, "json", false, "print the report as JSON")
	err = fs.Parse(args)
	return jsonOutput, err
}
