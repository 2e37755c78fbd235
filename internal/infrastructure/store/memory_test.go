package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-share/internal/domain/conversation"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	s := NewMemoryStore(zerolog.Nop())

	conv, err := s.Get(context.Background(), "nope")
	assert.Nil(t, conv)
	assert.ErrorIs(t, err, conversation.ErrNotFound)
}

func TestMemoryStore_CreateUpdate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())

	require.NoError(t, s.Create(ctx, &conversation.Conversation{ID: "c1", UserID: "u1"}))
	assert.ErrorIs(t, s.Create(ctx, &conversation.Conversation{ID: "c1"}), ErrConversationAlreadyExists)

	path := "/share/c1"
	require.NoError(t, s.Update(ctx, &conversation.Conversation{ID: "c1", UserID: "u1", SharePath: &path}))
	assert.ErrorIs(t, s.Update(ctx, &conversation.Conversation{ID: "c2"}), conversation.ErrNotFound)

	got, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.True(t, got.IsShared())
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_Mutate(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())
	require.NoError(t, s.Create(ctx, &conversation.Conversation{ID: "c1", UserID: "u1"}))

	_, err := s.Mutate(ctx, "c2", func(*conversation.Conversation) (bool, error) { return true, nil })
	assert.ErrorIs(t, err, conversation.ErrNotFound)

	rejected := errors.New("rejected")
	_, err = s.Mutate(ctx, "c1", func(c *conversation.Conversation) (bool, error) {
		c.UserID = "u2"
		return true, rejected
	})
	assert.ErrorIs(t, err, rejected)

	unchanged, err := s.Mutate(ctx, "c1", func(c *conversation.Conversation) (bool, error) {
		c.UserID = "u3"
		return false, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "u1", unchanged.UserID)

	path := "/share/c1"
	shared, err := s.Mutate(ctx, "c1", func(c *conversation.Conversation) (bool, error) {
		c.SharePath = &path
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, shared.IsShared())

	got, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.True(t, got.IsShared())
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())

	title := "original"
	require.NoError(t, s.Create(ctx, &conversation.Conversation{ID: "c1", Title: &title}))
	title = "changed by caller"

	got, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	*got.Title = "changed again"

	again, err := s.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "original", *again.Title)
}

func TestMemoryStore_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(zerolog.Nop())
	require.NoError(t, s.Create(ctx, &conversation.Conversation{ID: "c1"}))

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = s.Get(ctx, "c1")
		}()
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, &conversation.Conversation{ID: "c1"})
		}()
	}
	wg.Wait()
}

const seedYAML = `
conversations:
  - id: conv-demo
    user_id: user-1
    title: Demo chat
    share_path: /share/conv-demo
    messages:
      - id: msg1
        role: user
        content: "Hello"
      - id: msg2
        role: assistant
        content: "Hi **there**"
  - id: conv-private
    user_id: user-1
`

func TestParseSeed(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	convs, err := ParseSeed([]byte(seedYAML), now)
	require.NoError(t, err)
	require.Len(t, convs, 2)

	assert.Equal(t, "Demo chat", *convs[0].Title)
	assert.True(t, convs[0].IsShared())
	assert.Len(t, convs[0].Messages, 2)
	assert.Equal(t, now, convs[0].CreatedAt)
	assert.False(t, convs[1].IsShared())
	assert.Nil(t, convs[1].Title)
}

func TestParseSeed_RequiresID(t *testing.T) {
	_, err := ParseSeed([]byte("conversations:\n  - user_id: u\n"), time.Now())
	assert.Error(t, err)
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	s := NewMemoryStore(zerolog.Nop())
	n, err := LoadSeed(context.Background(), s, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, s.Len())

	n, err = LoadSeed(context.Background(), s, path)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 2, s.Len())
}
