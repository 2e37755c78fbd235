package sharelink

import (
	"context"
	"net/url"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/domain/result"
)

// ShareAction performs the share mutation. Implementations must report every
// failure as a result.Failure rather than panicking or hanging.
type ShareAction interface {
	ShareConversation(ctx context.Context, id string) result.Result[*conversation.Conversation]
}

// ShareActionFunc adapts a function to ShareAction.
type ShareActionFunc func(ctx context.Context, id string) result.Result[*conversation.Conversation]

// ShareConversation calls f.
func (f ShareActionFunc) ShareConversation(ctx context.Context, id string) result.Result[*conversation.Conversation] {
	return f(ctx, id)
}

// Clipboard writes text to the host clipboard.
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// NotificationKind distinguishes success from failure notifications.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationFailure NotificationKind = "failure"
)

// Notification is a user-visible message.
type Notification struct {
	Kind    NotificationKind
	Message string
}

// Notifier displays notifications. It is fire-and-forget.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// OriginProvider supplies the origin (scheme and host) of the current page.
type OriginProvider interface {
	Origin(ctx context.Context) (*url.URL, error)
}

// StaticOrigin is an OriginProvider that always returns the same base URL.
type StaticOrigin struct {
	URL *url.URL
}

// NewStaticOrigin parses raw into a StaticOrigin.
func NewStaticOrigin(raw string) (StaticOrigin, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return StaticOrigin{}, err
	}
	return StaticOrigin{URL: u}, nil
}

// Origin returns a copy of the configured URL.
func (s StaticOrigin) Origin(context.Context) (*url.URL, error) {
	if s.URL == nil {
		return nil, ErrNoOrigin
	}
	u := *s.URL
	return &u, nil
}
