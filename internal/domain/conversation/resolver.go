package conversation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

const (
	// PageTitleMaxLength is the number of characters kept from a conversation title.
	PageTitleMaxLength = 50

	// DefaultPageTitle is used when a conversation has no title.
	DefaultPageTitle = "Chat"
)

// Resolver turns an identifier into a conversation or a definitive absence.
type Resolver struct {
	store Store
	log   zerolog.Logger
}

// NewResolver creates a resolver backed by store.
func NewResolver(store Store, log zerolog.Logger) *Resolver {
	return &Resolver{
		store: store,
		log:   log.With().Str("component", "conversation-resolver").Logger(),
	}
}

// Resolve returns (conv, true, nil) when id exists and (nil, false, nil) when it
// does not. A non-nil error means the store itself failed.
func (r *Resolver) Resolve(ctx context.Context, id string) (*Conversation, bool, error) {
	conv, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.log.Debug().Str("conversation_id", id).Msg("conversation not found")
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("resolve conversation %q: %w", id, err)
	}
	if conv == nil {
		return nil, false, nil
	}
	return conv, true, nil
}

// PageTitle derives the page title: the first PageTitleMaxLength characters of
// title, or DefaultPageTitle when title is absent.
func PageTitle(title *string) string {
	if title == nil {
		return DefaultPageTitle
	}
	runes := []rune(*title)
	if len(runes) <= PageTitleMaxLength {
		return *title
	}
	return string(runes[:PageTitleMaxLength])
}
