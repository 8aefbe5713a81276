package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Command names.
const (
	cmdPrinters = "printers"
	cmdPrint    = "print"
	cmdSave     = "save"
	cmdServe    = "serve"
	cmdConfig   = "config"
	cmdDoctor   = "doctor"
	cmdVersion  = "version"
	cmdHelp     = "help"
)

func main() {
	// maxprocs.Set only fails on an invalid GOMAXPROCS env; runtime defaults apply then.
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))

	os.Exit(runMain(os.Args, DefaultEnv()))
}

// runMain dispatches args[1] and returns the process exit code.
func runMain(args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, rest := args[1], args[2:]
	switch cmd {
	case cmdVersion, "--version":
		fmt.Fprintf(env.Stdout, "printdesk %s\n", Version)
		return ExitSuccess
	case cmdHelp, "-h", "--help":
		return runHelp(rest, env)
	case cmdDoctor:
		return runDoctorCmd(rest, env)
	}

	run, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(env.Stderr, "unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := run(ctx, rest, env)
	if errors.Is(err, flag.ErrHelp) {
		commandUsage[cmd](env.Stdout)
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintf(env.Stderr, "%s: %s\n", cmd, withHint(err))
		if errors.Is(err, ErrUsage) {
			fmt.Fprintf(env.Stderr, "Run 'printdesk help %s' for usage.\n", cmd)
		}
	}
	return exitCodeFor(err)
}

// notifyContext returns a context canceled on the first shutdown signal.
func notifyContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, shutdownSignals...)
}

// commandFunc runs one subcommand.
type commandFunc func(ctx context.Context, args []string, env *Environment) error

// commands maps subcommand names to their implementations.
var commands = map[string]commandFunc{
	cmdPrinters: runPrinters,
	cmdPrint:    runPrint,
	cmdSave:     runSave,
	cmdServe:    runServe,
	cmdConfig: func(_ context.Context, args []string, env *Environment) error {
		return runConfig(args, env)
	},
}
