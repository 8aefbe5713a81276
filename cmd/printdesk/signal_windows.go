//go:build windows

package main

import "os"

// shutdownSignals stop a running command or server.
// syscall.SIGTERM is not delivered on Windows.
var shutdownSignals = []os.Signal{os.Interrupt}
