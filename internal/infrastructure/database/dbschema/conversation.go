package dbschema

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/infrastructure/database"
)

func init() {
	database.RegisterSchemaForAutoMigrate(Conversation{})
}

// Conversation is the stored form of a conversation. Messages are kept as a
// JSONB document since they are only ever read together with their conversation.
type Conversation struct {
	ID        string         `gorm:"type:varchar(64);primaryKey"`
	UserID    string         `gorm:"type:varchar(128);index:idx_conversations_user_id;not null"`
	Title     *string        `gorm:"type:varchar(256)"`
	SharePath *string        `gorm:"type:varchar(256);index:idx_conversations_share_path"`
	Messages  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
	UpdatedAt time.Time      `gorm:"not null"`
}

// TableName returns the schema-qualified table name.
func (Conversation) TableName() string {
	return database.SchemaName + ".conversations"
}

// NewSchemaConversation converts a domain conversation to its stored form.
func NewSchemaConversation(c *conversation.Conversation) (*Conversation, error) {
	messages := c.Messages
	if messages == nil {
		messages = []conversation.Message{}
	}
	raw, err := json.Marshal(messages)
	if err != nil {
		return nil, err
	}
	return &Conversation{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		SharePath: c.SharePath,
		Messages:  datatypes.JSON(raw),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}

// EtoD converts the stored form back to a domain conversation.
func (c *Conversation) EtoD() (*conversation.Conversation, error) {
	var messages []conversation.Message
	if len(c.Messages) > 0 {
		if err := json.Unmarshal(c.Messages, &messages); err != nil {
			return nil, err
		}
	}
	return &conversation.Conversation{
		ID:        c.ID,
		UserID:    c.UserID,
		Title:     c.Title,
		SharePath: c.SharePath,
		Messages:  messages,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}, nil
}
