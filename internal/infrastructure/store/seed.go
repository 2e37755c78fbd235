package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"jan-server/services/chat-share/internal/domain/conversation"
)

// SeedFile is the YAML document accepted by LoadSeed.
type SeedFile struct {
	Conversations []conversation.Conversation `yaml:"conversations"`
}

// ParseSeed decodes a seed document. Missing timestamps default to now.
func ParseSeed(data []byte, now time.Time) ([]*conversation.Conversation, error) {
	var doc SeedFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	out := make([]*conversation.Conversation, 0, len(doc.Conversations))
	for i := range doc.Conversations {
		conv := doc.Conversations[i]
		if conv.ID == "" {
			return nil, fmt.Errorf("seed conversation %d has no id", i)
		}
		if conv.CreatedAt.IsZero() {
			conv.CreatedAt = now
		}
		if conv.UpdatedAt.IsZero() {
			conv.UpdatedAt = conv.CreatedAt
		}
		out = append(out, &conv)
	}
	return out, nil
}

// LoadSeed reads path and creates every conversation it lists in store.
// Conversations that already exist are left untouched, so loading is
// idempotent across restarts. It returns the number of conversations created.
func LoadSeed(ctx context.Context, store conversation.Store, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	convs, err := ParseSeed(data, time.Now().UTC())
	if err != nil {
		return 0, err
	}

	created := 0
	for _, conv := range convs {
		if _, err := store.Get(ctx, conv.ID); err == nil {
			continue
		} else if !errors.Is(err, conversation.ErrNotFound) {
			return created, fmt.Errorf("seed conversation %s: %w", conv.ID, err)
		}
		if err := store.Create(ctx, conv); err != nil {
			return created, fmt.Errorf("seed conversation %s: %w", conv.ID, err)
		}
		created++
	}
	return created, nil
}
