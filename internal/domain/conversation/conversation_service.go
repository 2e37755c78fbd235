package conversation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jan-server/services/chat-share/internal/utils/idgen"
)

// CreateInput contains the input for creating a conversation.
type CreateInput struct {
	UserID   string
	Title    *string
	Messages []MessageInput
}

// MessageInput is a message supplied at creation time.
type MessageInput struct {
	Role    MessageRole
	Content string
}

// Service handles conversation lifecycle operations other than sharing.
type Service struct {
	store Store
	now   func() time.Time
	log   zerolog.Logger
}

// NewService creates a conversation service.
func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		now:   time.Now,
		log:   log.With().Str("component", "conversation-service").Logger(),
	}
}

// Create stores a new conversation owned by input.UserID.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Conversation, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return nil, fmt.Errorf("create conversation: owner is required")
	}

	id, err := idgen.ConversationID()
	if err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	now := s.now().UTC()
	messages := make([]Message, 0, len(input.Messages))
	for _, m := range input.Messages {
		msgID, err := idgen.GenerateSecureID("msg", 16)
		if err != nil {
			return nil, fmt.Errorf("create conversation: %w", err)
		}
		messages = append(messages, Message{
			ID:        msgID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: now,
		})
	}

	conv := &Conversation{
		ID:        id,
		Title:     input.Title,
		UserID:    input.UserID,
		Messages:  messages,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Create(ctx, conv); err != nil {
		return nil, fmt.Errorf("create conversation: %w", err)
	}

	s.log.Info().
		Str("conversation_id", conv.ID).
		Str("user_id", conv.UserID).
		Int("messages", len(conv.Messages)).
		Msg("conversation created")

	return conv, nil
}
