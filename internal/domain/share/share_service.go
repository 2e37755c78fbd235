package share

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/domain/result"
)

// User-facing failure messages returned in the Failure variant.
const (
	MessageNotFound     = "Conversation not found"
	MessageUnauthorized = "Unauthorized"
	MessageUnexpected   = "Something went wrong"
)

// ShareService publishes and unpublishes conversations. Every failure is
// reported as a result.Failure; none is returned as a Go error.
type ShareService struct {
	store conversation.Store
	now   func() time.Time
	log   zerolog.Logger
}

// NewShareService creates a new share service.
func NewShareService(store conversation.Store, log zerolog.Logger) *ShareService {
	return &ShareService{
		store: store,
		now:   time.Now,
		log:   log.With().Str("component", "share-service").Logger(),
	}
}

var errNotOwner = errors.New("caller does not own the conversation")

// ShareConversation sets the share path of a conversation owned by userID and
// returns the updated record. Sharing an already shared conversation returns it
// unchanged. The ownership check and the write happen in one store mutation.
func (s *ShareService) ShareConversation(ctx context.Context, id, userID string) result.Result[*conversation.Conversation] {
	var path string
	conv, err := s.store.Mutate(ctx, id, func(conv *conversation.Conversation) (bool, error) {
		if !conv.OwnedBy(userID) {
			return false, errNotOwner
		}
		if conv.IsShared() {
			return false, nil
		}
		path = PathFor(conv.ID)
		conv.SharePath = &path
		conv.UpdatedAt = s.now().UTC()
		return true, nil
	})
	if failure, failed := s.failure(id, userID, conv, err, "failed to persist share path"); failed {
		return failure
	}

	if path != "" {
		s.log.Info().
			Str("conversation_id", id).
			Str("share_path", path).
			Msg("conversation shared")
	}
	return result.Success(conv)
}

// UnshareConversation clears the share path so the public link stops resolving.
func (s *ShareService) UnshareConversation(ctx context.Context, id, userID string) result.Result[*conversation.Conversation] {
	var cleared bool
	conv, err := s.store.Mutate(ctx, id, func(conv *conversation.Conversation) (bool, error) {
		if !conv.OwnedBy(userID) {
			return false, errNotOwner
		}
		if !conv.IsShared() {
			return false, nil
		}
		conv.SharePath = nil
		conv.UpdatedAt = s.now().UTC()
		cleared = true
		return true, nil
	})
	if failure, failed := s.failure(id, userID, conv, err, "failed to clear share path"); failed {
		return failure
	}

	if cleared {
		s.log.Info().Str("conversation_id", id).Msg("conversation unshared")
	}
	return result.Success(conv)
}

// GetSharedConversation returns a conversation only if it is currently shared.
// Unshared conversations are reported as conversation.ErrNotFound.
func (s *ShareService) GetSharedConversation(ctx context.Context, id string) (*conversation.Conversation, error) {
	conv, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil || !conv.IsShared() {
		return nil, conversation.ErrNotFound
	}
	return conv, nil
}

func (s *ShareService) failure(
	id, userID string,
	conv *conversation.Conversation,
	err error,
	logMsg string,
) (result.Result[*conversation.Conversation], bool) {
	switch {
	case errors.Is(err, conversation.ErrNotFound):
		return result.Failure[*conversation.Conversation](MessageNotFound), true
	case errors.Is(err, errNotOwner):
		s.log.Warn().
			Str("conversation_id", id).
			Str("user_id", userID).
			Msg("share attempt by non-owner")
		return result.Failure[*conversation.Conversation](MessageUnauthorized), true
	case err != nil:
		s.log.Error().Err(err).Str("conversation_id", id).Msg(logMsg)
		return result.Failure[*conversation.Conversation](MessageUnexpected), true
	case conv == nil:
		return result.Failure[*conversation.Conversation](MessageNotFound), true
	}
	return result.Result[*conversation.Conversation]{}, false
}
