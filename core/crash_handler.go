package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

// Finalizer restores the terminal, tcell.Screen satisfies it
type Finalizer interface {
	Fini()
}

var (
	crashMu       sync.Mutex
	crashTerminal Finalizer
	crashOut      io.Writer = os.Stderr
	crashExit               = os.Exit
)

// SetCrashHandler registers the terminal to restore when a goroutine panics
// Pass nil once the screen has been finalized normally
func SetCrashHandler(f Finalizer) {
	crashMu.Lock()
	crashTerminal = f
	crashMu.Unlock()
}

// HandleCrash restores the terminal, prints the panic with its stack trace and exits 1
func HandleCrash(r any) {
	if r == nil {
		return
	}

	crashMu.Lock()
	term := crashTerminal
	crashTerminal = nil
	crashMu.Unlock()

	if term != nil {
		term.Fini()
	}

	fmt.Fprintf(crashOut, "\n\x1b[31mCRASH DETECTED: %v\x1b[0m\n", r)
	fmt.Fprintf(crashOut, "Stack Trace:\n%s\n", debug.Stack())
	crashExit(1)
}

// Go runs fn in a new goroutine with panic recovery
// Use instead of the go keyword so a crash never leaves the terminal in raw mode
func Go(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				HandleCrash(r)
			}
		}()
		fn()
	}()
}
