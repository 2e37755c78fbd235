package store

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"jan-server/services/chat-share/internal/domain/conversation"
)

// ErrConversationAlreadyExists is returned when creating a conversation whose ID is taken.
var ErrConversationAlreadyExists = errors.New("conversation already exists")

// MemoryStore is a mutex-based in-memory conversation store.
// Records are copied on the way in and out so callers never share state with the store.
type MemoryStore struct {
	mu            sync.RWMutex
	conversations map[string]*conversation.Conversation
	log           zerolog.Logger
}

var _ conversation.Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory conversation store.
func NewMemoryStore(log zerolog.Logger) *MemoryStore {
	return &MemoryStore{
		conversations: make(map[string]*conversation.Conversation),
		log:           log.With().Str("component", "conversation-store").Logger(),
	}
}

// Get retrieves a conversation by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*conversation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil, conversation.ErrNotFound
	}
	return clone(conv), nil
}

// Create stores a new conversation.
func (s *MemoryStore) Create(ctx context.Context, conv *conversation.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[conv.ID]; exists {
		return ErrConversationAlreadyExists
	}
	s.conversations[conv.ID] = clone(conv)
	return nil
}

// Update replaces an existing conversation.
func (s *MemoryStore) Update(ctx context.Context, conv *conversation.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.conversations[conv.ID]; !exists {
		return conversation.ErrNotFound
	}
	s.conversations[conv.ID] = clone(conv)
	return nil
}

// Mutate applies fn to the stored conversation while holding the write lock.
func (s *MemoryStore) Mutate(ctx context.Context, id string, fn conversation.MutateFunc) (*conversation.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.conversations[id]
	if !ok {
		return nil, conversation.ErrNotFound
	}

	conv := clone(current)
	changed, err := fn(conv)
	if err != nil {
		return nil, err
	}
	if !changed {
		return clone(current), nil
	}
	conv.ID = id
	s.conversations[id] = clone(conv)
	return conv, nil
}

// Len returns the number of stored conversations.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations)
}

func clone(conv *conversation.Conversation) *conversation.Conversation {
	if conv == nil {
		return nil
	}
	out := *conv
	if conv.Title != nil {
		title := *conv.Title
		out.Title = &title
	}
	if conv.SharePath != nil {
		path := *conv.SharePath
		out.SharePath = &path
	}
	if conv.Messages != nil {
		out.Messages = append([]conversation.Message(nil), conv.Messages...)
	}
	return &out
}
