package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printdesk <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  printers   List installed printers")
	fmt.Fprintln(w, "  print      Render HTML or markdown and send it to a printer")
	fmt.Fprintln(w, "  save       Render HTML or markdown to a PDF file")
	fmt.Fprintln(w, "  serve      Run the local JSON server")
	fmt.Fprintln(w, "  config     Show the effective configuration")
	fmt.Fprintln(w, "  doctor     Check system configuration")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'printdesk help <command>' for details on a specific command.")
}

func printCommonFlags(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
}

func printPageFlags(w io.Writer) {
	fmt.Fprintln(w, "Page:")
	fmt.Fprintln(w, "  -f, --format <name>       Paper format: A4, A3, Letter (default: A4)")
	fmt.Fprintln(w, "      --orientation <o>     portrait or landscape (default: portrait)")
	fmt.Fprintln(w, "  -m, --margin <mm>         Margin on every side in mm (default: 10)")
	fmt.Fprintln(w, "      --scale <n>           Render scale, 0.1-2.0 (default: 1)")
}

func printRendererFlags(w io.Writer) {
	fmt.Fprintln(w, "Renderer:")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Render timeout (default: 30s)")
	fmt.Fprintln(w, "      --settle <dur>        Wait after load before capture (default: 500ms)")
	fmt.Fprintln(w, "      --browser <path>      Chrome/Chromium binary")
	fmt.Fprintln(w, "      --no-sandbox          Disable the Chrome sandbox")
}

func printInputNotes(w io.Writer) {
	fmt.Fprintln(w, "Inputs:")
	fmt.Fprintln(w, "  One file prints as a single document. Several files, or --pages,")
	fmt.Fprintln(w, "  print one page per file. .md and .markdown files are converted first.")
	fmt.Fprintln(w, "  Use - to read stdin (HTML, or markdown with --markdown).")
}

// printPrintUsage prints usage for the print command.
func printPrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printdesk print [flags] <file>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render inputs to PDF and send them to a printer.")
	fmt.Fprintln(w)
	printInputNotes(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Job:")
	fmt.Fprintln(w, "  -p, --printer <id>        Printer ID (default: system default)")
	fmt.Fprintln(w, "      --pages               One page per input, even for a single file")
	fmt.Fprintln(w, "      --markdown            Treat stdin as markdown")
	fmt.Fprintln(w, "      --json                Print the result as JSON")
	fmt.Fprintln(w)
	printPageFlags(w)
	fmt.Fprintln(w)
	printRendererFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printSaveUsage prints usage for the save command.
func printSaveUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printdesk save -o <file.pdf> [flags] <file>...")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render inputs to a PDF file.")
	fmt.Fprintln(w)
	printInputNotes(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Job:")
	fmt.Fprintln(w, "  -o, --output <path>       Destination PDF (required)")
	fmt.Fprintln(w, "      --pages               One page per input, even for a single file")
	fmt.Fprintln(w, "      --markdown            Treat stdin as markdown")
	fmt.Fprintln(w)
	printPageFlags(w)
	fmt.Fprintln(w)
	printRendererFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printPrintersUsage prints usage for the printers command.
func printPrintersUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printdesk printers [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List installed printers. The default printer is marked with *.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --json                Print the list as JSON")
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printServeUsage prints usage for the serve command.
func printServeUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printdesk serve [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run a loopback JSON server for UI layers.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Routes:")
	fmt.Fprintln(w, "  GET  /healthz             Liveness and pool size")
	fmt.Fprintln(w, "  GET  /printers            Installed printers")
	fmt.Fprintln(w, "  POST /print               Print one document")
	fmt.Fprintln(w, "  POST /print/pages         Print a list of pages")
	fmt.Fprintln(w, "  POST /save                Save one document to destination_path")
	fmt.Fprintln(w, "  POST /save/pages          Save a list of pages to destination_path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Server:")
	fmt.Fprintln(w, "  -a, --addr <host:port>    Listen address (default: 127.0.0.1:8765)")
	fmt.Fprintln(w, "  -w, --workers <n>         Browser instances (0 = auto)")
	fmt.Fprintln(w)
	printRendererFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printConfigUsage prints usage for the config command.
func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printdesk config [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Print the effective configuration as YAML.")
	fmt.Fprintln(w, "Precedence: flags > PRINTDESK_* variables > config file > defaults.")
	fmt.Fprintln(w)
	printPageFlags(w)
	fmt.Fprintln(w)
	printRendererFlags(w)
	fmt.Fprintln(w)
	printCommonFlags(w)
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: printdesk doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check Chrome, print tooling, and the temp directory.")
}

// commandUsage maps command names to their usage printers.
var commandUsage = map[string]func(io.Writer){
	cmdPrint:    printPrintUsage,
	cmdSave:     printSaveUsage,
	cmdPrinters: printPrintersUsage,
	cmdServe:    printServeUsage,
	cmdConfig:   printConfigUsage,
	cmdDoctor:   printDoctorUsage,
}

// runHelp prints help for a command, or the main usage.
func runHelp(args []string, env *Environment) int {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return ExitSuccess
	}

	usage, ok := commandUsage[args[0]]
	if !ok {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", args[0])
		printUsage(env.Stderr)
		return ExitUsage
	}
	usage(env.Stdout)
	return ExitSuccess
}
