package chatrequests

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"jan-server/services/chat-share/internal/domain/conversation"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// CreateChatRequest is the body of POST /v1/chats.
type CreateChatRequest struct {
	Title    *string          `json:"title,omitempty" validate:"omitempty,max=256"`
	Messages []MessageRequest `json:"messages" validate:"max=500,dive"`
}

// MessageRequest is one message in CreateChatRequest.
type MessageRequest struct {
	Role    string `json:"role" validate:"required,oneof=user assistant system"`
	Content string `json:"content" validate:"required,max=100000"`
}

// Validate checks field constraints.
func (r *CreateChatRequest) Validate() error {
	return validate.Struct(r)
}

// ToInput converts the request into a domain create input owned by userID.
func (r *CreateChatRequest) ToInput(userID string) conversation.CreateInput {
	input := conversation.CreateInput{UserID: userID}
	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title != "" {
			input.Title = &title
		}
	}
	for _, m := range r.Messages {
		input.Messages = append(input.Messages, conversation.MessageInput{
			Role:    conversation.MessageRole(m.Role),
			Content: m.Content,
		})
	}
	return input
}

// ValidationMessage flattens validator errors into one readable line.
func ValidationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fe.Namespace()+" failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}
