package tui

import (
	"bytes"
	"sync"
)

// Output collects what the shell prints between two screen refreshes.
type Output struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

// NewOutput creates an empty buffer.
func NewOutput() *Output {
	return &Output{}
}

func (o *Output) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.buf.Write(p)
}

// Drain returns everything written so far and empties the buffer.
func (o *Output) Drain() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := o.buf.String()
	o.buf.Reset()
	return s
}
