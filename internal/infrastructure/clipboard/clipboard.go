// Package clipboard adapts the host clipboard to sharelink.Clipboard.
package clipboard

import (
	"context"
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnsupported is returned when the host has no usable clipboard utility.
var ErrUnsupported = errors.New("clipboard is not available on this host")

// System writes to the operating system clipboard.
type System struct {
	mu sync.Mutex
}

// NewSystem returns a System clipboard.
func NewSystem() *System {
	return &System{}
}

// WriteText copies text to the system clipboard.
func (s *System) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return ErrUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return clipboard.WriteAll(text)
}

// Memory is an in-process clipboard for headless hosts and tests.
type Memory struct {
	mu   sync.Mutex
	text string
}

// WriteText stores text.
func (m *Memory) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

// Text returns the last written text.
func (m *Memory) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
