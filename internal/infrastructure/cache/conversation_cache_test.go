package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-share/internal/domain/conversation"
)

type countingStore struct {
	mu    sync.Mutex
	convs map[string]conversation.Conversation
	gets  atomic.Int32
	gate  chan struct{}

	// read is signalled after Get has copied the record; Get then waits for release.
	read    chan struct{}
	release chan struct{}
	// readErr is the load context's error at the moment the record was read.
	readErr error
}

func newCountingStore(convs ...conversation.Conversation) *countingStore {
	s := &countingStore{convs: map[string]conversation.Conversation{}}
	for _, c := range convs {
		s.convs[c.ID] = c
	}
	return s
}

func (s *countingStore) Get(ctx context.Context, id string) (*conversation.Conversation, error) {
	s.gets.Add(1)
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	c, ok := s.convs[id]
	s.readErr = ctx.Err()
	s.mu.Unlock()

	if s.release != nil {
		select {
		case s.read <- struct{}{}:
		default:
		}
		<-s.release
	}
	if !ok {
		return nil, conversation.ErrNotFound
	}
	return &c, nil
}

func (s *countingStore) Create(_ context.Context, conv *conversation.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.convs[conv.ID] = *conv
	return nil
}

func (s *countingStore) Update(ctx context.Context, conv *conversation.Conversation) error {
	return s.Create(ctx, conv)
}

func (s *countingStore) Mutate(_ context.Context, id string, fn conversation.MutateFunc) (*conversation.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.convs[id]
	if !ok {
		return nil, conversation.ErrNotFound
	}
	changed, err := fn(&c)
	if err != nil {
		return nil, err
	}
	if changed {
		s.convs[id] = c
	}
	return &c, nil
}

func TestConversationCache_ServesRepeatReadsLocally(t *testing.T) {
	next := newCountingStore(conversation.Conversation{ID: "c1", UserID: "u1"})
	c, err := NewConversationCache(next, 8, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		conv, err := c.Get(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, "u1", conv.UserID)
	}
	assert.Equal(t, int32(1), next.gets.Load())
}

func TestConversationCache_DoesNotCacheAbsence(t *testing.T) {
	next := newCountingStore()
	c, err := NewConversationCache(next, 8, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "c1")
	assert.ErrorIs(t, err, conversation.ErrNotFound)

	require.NoError(t, c.Create(context.Background(), &conversation.Conversation{ID: "c1"}))
	conv, err := c.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", conv.ID)
}

func TestConversationCache_UpdateInvalidates(t *testing.T) {
	next := newCountingStore(conversation.Conversation{ID: "c1"})
	c, err := NewConversationCache(next, 8, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	first, err := c.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, first.IsShared())

	path := "/share/c1"
	require.NoError(t, c.Update(context.Background(), &conversation.Conversation{ID: "c1", SharePath: &path}))

	second, err := c.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, second.IsShared())
}

func TestConversationCache_MutateInvalidates(t *testing.T) {
	next := newCountingStore(conversation.Conversation{ID: "c1", UserID: "u1"})
	c, err := NewConversationCache(next, 8, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "c1")
	require.NoError(t, err)

	path := "/share/c1"
	_, err = c.Mutate(context.Background(), "c1", func(conv *conversation.Conversation) (bool, error) {
		conv.SharePath = &path
		return true, nil
	})
	require.NoError(t, err)

	conv, err := c.Get(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, conv.SharePath)
	assert.Equal(t, path, *conv.SharePath)
	assert.Equal(t, int32(2), next.gets.Load())
}

func TestConversationCache_ExpiresLocalEntries(t *testing.T) {
	next := newCountingStore(conversation.Conversation{ID: "c1"})
	c, err := NewConversationCache(next, 8, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_, err = c.Get(context.Background(), "c1")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), next.gets.Load())
}

func TestConversationCache_CollapsesConcurrentMisses(t *testing.T) {
	next := newCountingStore(conversation.Conversation{ID: "c1"})
	next.gate = make(chan struct{})
	c, err := NewConversationCache(next, 0, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background(), "c1")
			assert.NoError(t, err)
		}()
	}

	require.Eventually(t, func() bool { return next.gets.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(next.gate)
	wg.Wait()

	assert.LessOrEqual(t, next.gets.Load(), int32(10))
	assert.GreaterOrEqual(t, next.gets.Load(), int32(1))
}

func TestConversationCache_ReturnsCopies(t *testing.T) {
	title := "original"
	next := newCountingStore(conversation.Conversation{ID: "c1", Title: &title})
	c, err := NewConversationCache(next, 8, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	got, err := c.Get(context.Background(), "c1")
	require.NoError(t, err)
	*got.Title = "mutated"

	again, err := c.Get(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "original", *again.Title)
}

func TestConversationCache_FillRacingUpdateIsDropped(t *testing.T) {
	next := newCountingStore(conversation.Conversation{ID: "c1"})
	next.read = make(chan struct{}, 1)
	next.release = make(chan struct{})
	c, err := NewConversationCache(next, 8, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Get(context.Background(), "c1")
	}()

	// The load holds a pre-share snapshot when the share lands.
	<-next.read
	path := "/share/c1"
	require.NoError(t, c.Update(context.Background(), &conversation.Conversation{ID: "c1", SharePath: &path}))
	close(next.release)
	<-done

	conv, err := c.Get(context.Background(), "c1")
	require.NoError(t, err)
	require.NotNil(t, conv.SharePath)
	assert.Equal(t, path, *conv.SharePath)
}

func TestConversationCache_CancelledCallerDoesNotFailOthers(t *testing.T) {
	next := newCountingStore(conversation.Conversation{ID: "c1", UserID: "u1"})
	next.gate = make(chan struct{})
	c, err := NewConversationCache(next, 8, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "c1")
		firstErr <- err
	}()

	require.Eventually(t, func() bool { return next.gets.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-firstErr, context.Canceled)

	// The shared load is still running; a second caller joins it.
	secondDone := make(chan error, 1)
	go func() {
		conv, err := c.Get(context.Background(), "c1")
		if err == nil {
			assert.Equal(t, "u1", conv.UserID)
		}
		secondDone <- err
	}()
	time.Sleep(20 * time.Millisecond)
	close(next.gate)

	require.NoError(t, <-secondDone)
	next.mu.Lock()
	assert.NoError(t, next.readErr)
	next.mu.Unlock()
	assert.Equal(t, int32(1), next.gets.Load())
}

type nilStore struct{}

func (nilStore) Get(context.Context, string) (*conversation.Conversation, error) {
	return nil, nil
}

func (nilStore) Create(context.Context, *conversation.Conversation) error { return nil }

func (nilStore) Update(context.Context, *conversation.Conversation) error { return nil }

func (nilStore) Mutate(context.Context, string, conversation.MutateFunc) (*conversation.Conversation, error) {
	return nil, nil
}

func TestConversationCache_NilRecordIsNotFound(t *testing.T) {
	c, err := NewConversationCache(nilStore{}, 8, nil, time.Minute, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "c1")
	assert.ErrorIs(t, err, conversation.ErrNotFound)
}

func TestNewConversationCache_RemoteDisablesLocalTier(t *testing.T) {
	remote := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer remote.Close()

	c, err := NewConversationCache(newCountingStore(), 8, remote, time.Minute, zerolog.Nop())
	require.NoError(t, err)
	assert.Nil(t, c.local)
}

func TestBuildUniversalOptions(t *testing.T) {
	opts, err := buildUniversalOptions("redis://:secret@cache:6379/2")
	require.NoError(t, err)
	assert.Equal(t, []string{"cache:6379"}, opts.Addrs)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = buildUniversalOptions("node1:6379, node2:6379")
	require.NoError(t, err)
	assert.Len(t, opts.Addrs, 2)

	_, err = buildUniversalOptions(" , ")
	assert.Error(t, err)
}
