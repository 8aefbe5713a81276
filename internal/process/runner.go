// Package process runs external commands and cleans up process trees.
//
// Spooler commands (lpstat, lp, lpr, powershell) go through Runner so that
// callers can substitute canned output in tests.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrSpawn indicates the command could not be started (missing binary,
// permission denied, ...). A command that starts and exits non-zero is not
// an ErrSpawn.
var ErrSpawn = errors.New("failed to start command")

// Output is the captured result of a command that ran to completion.
type Output struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Success reports whether the command exited with status 0.
func (o *Output) Success() bool {
	return o.ExitCode == 0
}

// Runner executes an external command and captures its output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (*Output, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Compile-time interface check.
var _ Runner = ExecRunner{}

// Run starts name with args and waits for it to exit.
// A non-zero exit is reported through Output.ExitCode with a nil error;
// only start failures and context cancellation return an error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- fixed spooler binaries
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := &Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return out, nil
	case ctx.Err() != nil:
		return nil, ctx.Err()
	case errors.As(err, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawn, name, err)
	}
}
