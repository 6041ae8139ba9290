package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// ErrInterrupted is the cancellation cause recorded when the user presses Ctrl-C.
var ErrInterrupted = errors.New("interrupted by user")

// InterruptHandler turns Ctrl-C during a long command into context
// cancellation and tells the user what was kept.
type InterruptHandler struct {
	out       io.Writer
	signals   chan os.Signal
	operation string
	fired     atomic.Bool
}

// NewInterruptHandler creates a handler for the named operation, e.g. "Import".
func NewInterruptHandler(out io.Writer, operation string) *InterruptHandler {
	if out == nil {
		out = os.Stderr
	}
	return &InterruptHandler{
		out:       out,
		operation: operation,
		signals:   make(chan os.Signal, 1),
	}
}

// Watch returns a context canceled with ErrInterrupted on the first SIGINT
// or SIGTERM. The returned stop func releases the signals and must be called.
func (h *InterruptHandler) Watch(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(parent)
	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(h.signals)
		select {
		case <-h.signals:
			if h.fired.CompareAndSwap(false, true) {
				_, _ = fmt.Fprintf(h.out, "\n%s\n%s\n",
					FormatWarning(h.operation+" interrupted!"),
					FormatInfo("Expenses stored so far have been kept."))
			}
			cancel(ErrInterrupted)
		case <-ctx.Done():
		}
	}()

	return ctx, func() { cancel(context.Canceled) }
}

// WasInterrupted reports whether a signal arrived.
func (h *InterruptHandler) WasInterrupted() bool {
	return h.fired.Load()
}
