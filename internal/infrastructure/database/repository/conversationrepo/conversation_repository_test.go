package conversationrepo

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/infrastructure/database"
	_ "jan-server/services/chat-share/internal/infrastructure/database/dbschema"
	"jan-server/services/chat-share/internal/infrastructure/database/transaction"
	"jan-server/services/chat-share/internal/utils/idgen"
)

// Requires a reachable postgres; set TEST_DATABASE_URL to run.
func newTestRepository(t *testing.T) *ConversationGormRepository {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.NewDB(dsn, nil, 2, 4, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, zerolog.Nop()))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return NewConversationGormRepository(transaction.NewDatabase(db))
}

func TestConversationGormRepository_Lifecycle(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := idgen.ConversationID()
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Millisecond)
	conv := &conversation.Conversation{
		ID:     id,
		UserID: "user-1",
		Messages: []conversation.Message{
			{ID: "msg1", Role: conversation.MessageRoleUser, Content: "hello", CreatedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(ctx, conv))

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.IsShared())
	require.Len(t, got.Messages, 1)

	path := "/share/" + id
	got.SharePath = &path
	require.NoError(t, repo.Update(ctx, got))

	shared, err := repo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, shared.SharePath)
	assert.Equal(t, path, *shared.SharePath)
}

func TestConversationGormRepository_NotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.Get(context.Background(), "conv-missing")
	assert.ErrorIs(t, err, conversation.ErrNotFound)

	err = repo.Update(context.Background(), &conversation.Conversation{ID: "conv-missing", UserID: "u"})
	assert.ErrorIs(t, err, conversation.ErrNotFound)

	_, err = repo.Mutate(context.Background(), "conv-missing", func(*conversation.Conversation) (bool, error) {
		return true, nil
	})
	assert.ErrorIs(t, err, conversation.ErrNotFound)
}

func TestConversationGormRepository_MutateSerializesWriters(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	id, err := idgen.ConversationID()
	require.NoError(t, err)
	now := time.Now().UTC()
	require.NoError(t, repo.Create(ctx, &conversation.Conversation{ID: id, UserID: "user-1", CreatedAt: now, UpdatedAt: now}))

	const writers = 8
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Mutate(ctx, id, func(c *conversation.Conversation) (bool, error) {
				c.Messages = append(c.Messages, conversation.Message{
					ID:        fmt.Sprintf("m%d", i),
					Role:      conversation.MessageRoleUser,
					Content:   "hi",
					CreatedAt: now,
				})
				return true, nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Len(t, got.Messages, writers)
}
