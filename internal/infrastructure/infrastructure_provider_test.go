package infrastructure

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-share/internal/config"
	"jan-server/services/chat-share/internal/infrastructure/cache"
	"jan-server/services/chat-share/internal/infrastructure/store"
)

const seedYAML = `conversations:
  - id: conv-seed
    user_id: user-1
    title: Seeded
    messages:
      - role: user
        content: hi
`

func TestNewStorage_MemoryWithoutCache(t *testing.T) {
	s, cleanup, err := NewStorage(context.Background(), &config.Config{StoreDriver: config.StoreDriverMemory}, zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &store.MemoryStore{}, s.Store)
	assert.NoError(t, s.Ready(context.Background()))
}

func TestNewStorage_SeedsAndWrapsInCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o600))

	s, cleanup, err := NewStorage(context.Background(), &config.Config{
		StoreDriver:    config.StoreDriverMemory,
		SeedFile:       path,
		LocalCacheSize: 16,
	}, zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()

	assert.IsType(t, &cache.ConversationCache{}, ProvideConversationStore(s))

	conv, err := s.Store.Get(context.Background(), "conv-seed")
	require.NoError(t, err)
	assert.Equal(t, "user-1", conv.UserID)
}

func TestNewStorage_MissingSeedFile(t *testing.T) {
	_, _, err := NewStorage(context.Background(), &config.Config{
		StoreDriver: config.StoreDriverMemory,
		SeedFile:    filepath.Join(t.TempDir(), "missing.yaml"),
	}, zerolog.Nop())
	assert.Error(t, err)
}
