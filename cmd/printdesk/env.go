package main

import (
	"io"
	"os"
	"time"

	printdesk "github.com/alnah/go-printdesk"
)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the service pool factory.
type Environment struct {
	Now     func() time.Time
	Stdout  io.Writer
	Stderr  io.Writer
	Stdin   io.Reader
	NewPool func(size int, opts ...printdesk.Option) Pool
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:     time.Now,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Stdin:   os.Stdin,
		NewPool: newServicePool,
	}
}
