// Package core holds process-wide crash handling for the terminal player.
package core

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"
)

// Finalizer restores the terminal; tcell.Screen satisfies it
type Finalizer interface {
	Fini()
}

var (
	mu            sync.Mutex
	crashTerminal Finalizer
	crashOutput   io.Writer = os.Stderr
	exit                    = os.Exit
)

// SetCrashTerminal registers the screen to restore before a crash report is printed
func SetCrashTerminal(t Finalizer) {
	mu.Lock()
	crashTerminal = t
	mu.Unlock()
}

// HandleCrash restores the terminal, prints the panic with its stack and exits
func HandleCrash(r any) {
	if r == nil {
		return
	}

	mu.Lock()
	term := crashTerminal
	crashTerminal = nil
	out := crashOutput
	mu.Unlock()

	if term != nil {
		term.Fini()
	}

	fmt.Fprintf(out, "\n\x1b[31mVI-NOVEL CRASHED: %v\x1b[0m\n", r)
	fmt.Fprintf(out, "Stack Trace:\n%s\n", debug.Stack())

	exit(1)
}

// Go runs fn in a new goroutine with panic recovery.
// Use this instead of the 'go' keyword so a crash restores the terminal.
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
