package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler cancels the session on Ctrl-C and says goodbye.
type InterruptHandler struct {
	writer      io.Writer
	signals     chan os.Signal
	user        string
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a new interrupt handler.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stdout
	}
	return &InterruptHandler{
		writer:  writer,
		signals: make(chan os.Signal, 1),
	}
}

// SetUser records who is logged in so the goodbye can mention their library.
// An empty name means nobody is.
func (h *InterruptHandler) SetUser(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.user = name
}

// HandleInterrupts returns a context that is canceled on SIGINT or SIGTERM.
// Signal handling stops when ctx ends.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(h.signals)
		select {
		case <-h.signals:
			h.mu.Lock()
			if !h.interrupted {
				h.interrupted = true
				h.showInterruptMessage()
			}
			h.mu.Unlock()
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx
}

// showInterruptMessage must be called with h.mu held.
func (h *InterruptHandler) showInterruptMessage() {
	msg := "\n\n" + FormatWarning("Session interrupted!")

	if h.user != "" {
		msg += "\n" + FormatInfo(fmt.Sprintf("%s's library is already saved.", h.user))
	}

	msg += "\n" + FormatInfo("Enjoy the show! "+PopcornIcon) + "\n"

	if _, err := fmt.Fprint(h.writer, msg); err != nil {
		// Best effort - we're shutting down anyway
		fmt.Fprintf(os.Stderr, "Failed to write interrupt message: %v\n", err)
	}
}

// WasInterrupted returns true if the process was interrupted.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}
