package chatresponses

import (
	"time"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/domain/result"
)

// MessageResponse is a message as returned by the API.
type MessageResponse struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatResponse is a conversation as returned to its owner.
type ChatResponse struct {
	ID        string            `json:"id"`
	Title     *string           `json:"title,omitempty"`
	UserID    string            `json:"user_id"`
	SharePath *string           `json:"share_path,omitempty"`
	Messages  []MessageResponse `json:"messages"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// PublicShareResponse is the read-only view of a shared conversation. The
// owner and system messages are not exposed.
type PublicShareResponse struct {
	ID        string            `json:"id"`
	Title     *string           `json:"title,omitempty"`
	SharePath *string           `json:"share_path,omitempty"`
	Messages  []MessageResponse `json:"messages"`
	CreatedAt time.Time         `json:"created_at"`
}

// NewChatResponse converts a conversation for its owner.
func NewChatResponse(conv *conversation.Conversation) ChatResponse {
	return ChatResponse{
		ID:        conv.ID,
		Title:     conv.Title,
		UserID:    conv.UserID,
		SharePath: conv.SharePath,
		Messages:  newMessages(conv.Messages),
		CreatedAt: conv.CreatedAt,
		UpdatedAt: conv.UpdatedAt,
	}
}

// NewPublicShareResponse converts a shared conversation for anonymous readers.
func NewPublicShareResponse(conv *conversation.Conversation) PublicShareResponse {
	return PublicShareResponse{
		ID:        conv.ID,
		Title:     conv.Title,
		SharePath: conv.SharePath,
		Messages:  newMessages(conv.VisibleMessages()),
		CreatedAt: conv.CreatedAt,
	}
}

// NewShareEnvelope converts a share mutation result into its wire envelope.
func NewShareEnvelope(res result.Result[*conversation.Conversation]) result.Envelope[ChatResponse] {
	return result.ToEnvelope(result.Map(res, func(conv *conversation.Conversation) ChatResponse {
		return NewChatResponse(conv)
	}))
}

func newMessages(messages []conversation.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, MessageResponse{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}
	return out
}
