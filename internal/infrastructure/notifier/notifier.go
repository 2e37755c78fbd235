// Package notifier shows share notifications to a terminal user.
package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"jan-server/services/chat-share/internal/domain/sharelink"
)

// Terminal prints notifications as single lines and mirrors them to the log.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	log zerolog.Logger
}

// NewTerminal writes notifications to out.
func NewTerminal(out io.Writer, log zerolog.Logger) *Terminal {
	return &Terminal{out: out, log: log.With().Str("component", "notifier").Logger()}
}

// Notify implements sharelink.Notifier. Write errors are logged and dropped.
func (t *Terminal) Notify(_ context.Context, n sharelink.Notification) {
	prefix := "✓"
	event := t.log.Debug()
	if n.Kind == sharelink.NotificationFailure {
		prefix = "✗"
		event = t.log.Warn()
	}
	event.Str("kind", string(n.Kind)).Msg(n.Message)

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := fmt.Fprintf(t.out, "%s %s\n", prefix, n.Message); err != nil {
		t.log.Error().Err(err).Msg("failed to write notification")
	}
}
