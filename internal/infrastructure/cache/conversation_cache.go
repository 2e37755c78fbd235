package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"jan-server/services/chat-share/internal/domain/conversation"
)

// CacheVersion is part of every remote key so format changes never read stale payloads.
const CacheVersion = "v1"

type localEntry struct {
	conv      *conversation.Conversation
	expiresAt time.Time
}

// loadTimeout bounds a shared load, which no longer follows any one caller's context.
const loadTimeout = 10 * time.Second

// ConversationCache is a read-through conversation.Store decorator with an
// in-process LRU tier and an optional redis tier. Concurrent misses for the
// same ID share one load. Writes go to the wrapped store and then invalidate
// both tiers. Absence is never cached.
//
// The LRU tier is only used without redis: an in-process entry cannot be
// invalidated by a write handled on another instance.
type ConversationCache struct {
	next   conversation.Store
	local  *lru.Cache
	remote redis.UniversalClient
	ttl    time.Duration
	group  singleflight.Group
	now    func() time.Time
	log    zerolog.Logger

	// gen counts invalidations. A load only populates the cache if no
	// invalidation happened while it ran.
	mu  sync.Mutex
	gen uint64
}

var _ conversation.Store = (*ConversationCache)(nil)

// NewConversationCache wraps next. localSize 0 disables the LRU tier and a nil
// remote disables the redis tier. With a remote tier the LRU tier is disabled.
func NewConversationCache(next conversation.Store, localSize int, remote redis.UniversalClient, ttl time.Duration, log zerolog.Logger) (*ConversationCache, error) {
	c := &ConversationCache{
		next:   next,
		remote: remote,
		ttl:    ttl,
		now:    time.Now,
		log:    log.With().Str("component", "conversation-cache").Logger(),
	}
	if localSize > 0 && remote == nil {
		local, err := lru.New(localSize)
		if err != nil {
			return nil, err
		}
		c.local = local
	}
	return c, nil
}

// Get implements conversation.Store. Each caller waits on its own ctx; the
// shared load keeps running when one caller gives up.
func (c *ConversationCache) Get(ctx context.Context, id string) (*conversation.Conversation, error) {
	if conv, ok := c.getLocal(id); ok {
		return conv, nil
	}

	ch := c.group.DoChan(id, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return c.load(loadCtx, id)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return copyConversation(res.Val.(*conversation.Conversation)), nil
	}
}

func (c *ConversationCache) load(ctx context.Context, id string) (*conversation.Conversation, error) {
	gen := c.generation()

	if conv, ok := c.getRemote(ctx, id); ok {
		c.setLocal(conv, gen)
		return conv, nil
	}

	conv, err := c.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, conversation.ErrNotFound
	}
	c.setLocal(conv, gen)
	c.setRemote(ctx, conv, gen)
	return conv, nil
}

// Create implements conversation.Store.
func (c *ConversationCache) Create(ctx context.Context, conv *conversation.Conversation) error {
	if err := c.next.Create(ctx, conv); err != nil {
		return err
	}
	c.invalidate(ctx, conv.ID)
	return nil
}

// Update implements conversation.Store.
func (c *ConversationCache) Update(ctx context.Context, conv *conversation.Conversation) error {
	if err := c.next.Update(ctx, conv); err != nil {
		return err
	}
	c.invalidate(ctx, conv.ID)
	return nil
}

// Mutate implements conversation.Store. The cached copy is dropped whether or
// not the mutation succeeds.
func (c *ConversationCache) Mutate(ctx context.Context, id string, fn conversation.MutateFunc) (*conversation.Conversation, error) {
	conv, err := c.next.Mutate(ctx, id, fn)
	c.invalidate(ctx, id)
	return conv, err
}

func (c *ConversationCache) invalidate(ctx context.Context, id string) {
	c.mu.Lock()
	c.gen++
	if c.local != nil {
		c.local.Remove(id)
	}
	c.mu.Unlock()

	c.group.Forget(id)
	c.deleteRemote(ctx, id)
}

func (c *ConversationCache) generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

func (c *ConversationCache) deleteRemote(ctx context.Context, id string) {
	if c.remote == nil {
		return
	}
	if err := c.remote.Del(ctx, remoteKey(id)).Err(); err != nil {
		c.log.Warn().Err(err).Str("conversation_id", id).Msg("failed to invalidate remote cache")
	}
}

func (c *ConversationCache) getLocal(id string) (*conversation.Conversation, bool) {
	if c.local == nil {
		return nil, false
	}
	v, ok := c.local.Get(id)
	if !ok {
		return nil, false
	}
	entry := v.(localEntry)
	if c.ttl > 0 && c.now().After(entry.expiresAt) {
		c.local.Remove(id)
		return nil, false
	}
	return copyConversation(entry.conv), true
}

func (c *ConversationCache) setLocal(conv *conversation.Conversation, gen uint64) {
	if c.local == nil || conv == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return
	}
	c.local.Add(conv.ID, localEntry{conv: copyConversation(conv), expiresAt: c.now().Add(c.ttl)})
}

func (c *ConversationCache) getRemote(ctx context.Context, id string) (*conversation.Conversation, bool) {
	if c.remote == nil {
		return nil, false
	}
	raw, err := c.remote.Get(ctx, remoteKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("conversation_id", id).Msg("remote cache read failed")
		}
		return nil, false
	}
	var conv conversation.Conversation
	if err := json.Unmarshal(raw, &conv); err != nil {
		c.log.Warn().Err(err).Str("conversation_id", id).Msg("discarding malformed cache entry")
		return nil, false
	}
	return &conv, true
}

func (c *ConversationCache) setRemote(ctx context.Context, conv *conversation.Conversation, gen uint64) {
	if c.remote == nil || conv == nil || c.generation() != gen {
		return
	}
	raw, err := json.Marshal(conv)
	if err != nil {
		return
	}
	if err := c.remote.Set(ctx, remoteKey(conv.ID), raw, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("conversation_id", conv.ID).Msg("remote cache write failed")
		return
	}
	// An invalidation that raced the write must not leave the old snapshot behind.
	if c.generation() != gen {
		c.deleteRemote(ctx, conv.ID)
	}
}

func remoteKey(id string) string {
	return "chat-share:" + CacheVersion + ":conversation:" + id
}

func copyConversation(conv *conversation.Conversation) *conversation.Conversation {
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
