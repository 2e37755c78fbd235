package conversation

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by a Store when no conversation has the requested ID.
var ErrNotFound = errors.New("conversation not found")

// MessageRole identifies the author of a message.
type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleSystem    MessageRole = "system"
)

// Message is a single chat turn.
type Message struct {
	ID        string      `json:"id" yaml:"id"`
	Role      MessageRole `json:"role" yaml:"role"`
	Content   string      `json:"content" yaml:"content"`
	CreatedAt time.Time   `json:"created_at" yaml:"created_at"`
}

// Conversation is one stored chat. SharePath is set once the conversation has
// been published and is nil otherwise.
type Conversation struct {
	ID        string    `json:"id" yaml:"id"`
	Title     *string   `json:"title,omitempty" yaml:"title,omitempty"`
	UserID    string    `json:"user_id" yaml:"user_id"`
	SharePath *string   `json:"share_path,omitempty" yaml:"share_path,omitempty"`
	Messages  []Message `json:"messages" yaml:"messages"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// IsShared reports whether the conversation has a published share path.
func (c *Conversation) IsShared() bool {
	return c.SharePath != nil && *c.SharePath != ""
}

// OwnedBy reports whether userID owns the conversation.
func (c *Conversation) OwnedBy(userID string) bool {
	return userID != "" && c.UserID == userID
}

// VisibleMessages returns the messages a reader may see; system prompts are excluded.
func (c *Conversation) VisibleMessages() []Message {
	visible := make([]Message, 0, len(c.Messages))
	for _, m := range c.Messages {
		if m.Role == MessageRoleSystem {
			continue
		}
		visible = append(visible, m)
	}
	return visible
}

// MutateFunc edits conv in place. Returning false, or an error, leaves the
// stored record untouched.
type MutateFunc func(conv *Conversation) (bool, error)

// Store is the persistence boundary for conversations. Get must be safe to
// call with any ID and returns ErrNotFound (possibly wrapped) for absence.
//
// Mutate loads the current record and applies fn to it with no other write
// to the same ID in between. It returns the record as stored afterwards, or
// fn's error.
type Store interface {
	Get(ctx context.Context, id string) (*Conversation, error)
	Create(ctx context.Context, conv *Conversation) error
	Update(ctx context.Context, conv *Conversation) error
	Mutate(ctx context.Context, id string, fn MutateFunc) (*Conversation, error)
}
