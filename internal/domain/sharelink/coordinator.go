// Package sharelink drives the "publish and copy a share link" flow for a
// single host view: one share action in flight at a time, a discriminated
// result, and exactly one user notification per invocation.
package sharelink

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/domain/result"
)

// Notification texts shown to the user.
const (
	MessageCopied          = "Share link copied to clipboard"
	MessageLinkUnavailable = "Could not copy share link to clipboard"
	MessageShareFailed     = "Could not share conversation"
)

// State is the transition state of a Coordinator.
type State int32

const (
	StateIdle State = iota
	StatePending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// OutcomeKind classifies how an invocation settled.
type OutcomeKind string

const (
	// OutcomeIgnored means another invocation was pending; nothing happened.
	OutcomeIgnored OutcomeKind = "ignored"
	// OutcomeCopied means the link was written to the clipboard.
	OutcomeCopied OutcomeKind = "copied"
	// OutcomeActionFailed means the share action reported a failure.
	OutcomeActionFailed OutcomeKind = "action_failed"
	// OutcomeLinkUnavailable means the action succeeded but no URL could be derived.
	OutcomeLinkUnavailable OutcomeKind = "link_unavailable"
	// OutcomeClipboardFailed means the URL was derived but the clipboard write failed.
	OutcomeClipboardFailed OutcomeKind = "clipboard_failed"
)

// Outcome describes a settled invocation.
type Outcome struct {
	Kind    OutcomeKind
	URL     string
	Message string
}

// Config holds the capabilities a Coordinator invokes.
type Config struct {
	Action    ShareAction
	Clipboard Clipboard
	Notifier  Notifier
	Origin    OriginProvider
	// OnCopy runs after a successful clipboard write and before the success notification.
	OnCopy func()
	// OnSettled observes every non-ignored outcome, after the notification.
	OnSettled func(Outcome)
	Logger    zerolog.Logger
}

// Coordinator owns the Idle/Pending transition for one host view.
// It is safe for concurrent use; concurrent invocations are ignored, not queued.
type Coordinator struct {
	state     atomic.Int32
	action    ShareAction
	clipboard Clipboard
	notifier  Notifier
	origin    OriginProvider
	onCopy    func()
	onSettled func(Outcome)
	log       zerolog.Logger
}

// NewCoordinator validates cfg and returns an idle Coordinator.
func NewCoordinator(cfg Config) (*Coordinator, error) {
	switch {
	case cfg.Action == nil:
		return nil, fmt.Errorf("sharelink: share action is required")
	case cfg.Clipboard == nil:
		return nil, fmt.Errorf("sharelink: clipboard is required")
	case cfg.Notifier == nil:
		return nil, fmt.Errorf("sharelink: notifier is required")
	case cfg.Origin == nil:
		return nil, fmt.Errorf("sharelink: origin provider is required")
	}

	return &Coordinator{
		action:    cfg.Action,
		clipboard: cfg.Clipboard,
		notifier:  cfg.Notifier,
		origin:    cfg.Origin,
		onCopy:    cfg.OnCopy,
		onSettled: cfg.OnSettled,
		log:       cfg.Logger.With().Str("component", "share-coordinator").Logger(),
	}, nil
}

// State reports the current transition state.
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Pending reports whether an invocation is in flight. Hosts use it to disable
// the share control and show a busy indicator.
func (c *Coordinator) Pending() bool {
	return c.State() == StatePending
}

// InvokeShare runs one share invocation for id and blocks until it settles.
// If another invocation is pending it returns OutcomeIgnored immediately with
// no side effects. Otherwise exactly one notification is emitted and the
// coordinator is back to Idle when InvokeShare returns.
func (c *Coordinator) InvokeShare(ctx context.Context, id string) Outcome {
	if !c.state.CompareAndSwap(int32(StateIdle), int32(StatePending)) {
		c.log.Debug().Str("conversation_id", id).Msg("share already pending, ignoring")
		return Outcome{Kind: OutcomeIgnored}
	}
	defer c.state.Store(int32(StateIdle))

	outcome := c.run(ctx, id)

	if c.onSettled != nil {
		c.onSettled(outcome)
	}
	return outcome
}

func (c *Coordinator) run(ctx context.Context, id string) Outcome {
	res := c.action.ShareConversation(ctx, id)

	return result.Match(res,
		func(conv *conversation.Conversation) Outcome {
			return c.copyShareLink(ctx, id, conv)
		},
		func(message string) Outcome {
			if message == "" {
				message = MessageShareFailed
			}
			c.log.Warn().Str("conversation_id", id).Str("reason", message).Msg("share action failed")
			return c.fail(ctx, OutcomeActionFailed, message)
		},
	)
}

func (c *Coordinator) copyShareLink(ctx context.Context, id string, conv *conversation.Conversation) Outcome {
	if conv == nil || conv.SharePath == nil || *conv.SharePath == "" {
		c.log.Warn().Str("conversation_id", id).Msg("shared conversation has no share path")
		return c.fail(ctx, OutcomeLinkUnavailable, MessageLinkUnavailable)
	}

	origin, err := c.origin.Origin(ctx)
	if err != nil {
		c.log.Warn().Err(err).Str("conversation_id", id).Msg("page origin unavailable")
		return c.fail(ctx, OutcomeLinkUnavailable, MessageLinkUnavailable)
	}

	link, err := DeriveShareURL(origin, *conv.SharePath)
	if err != nil {
		c.log.Warn().Err(err).Str("conversation_id", id).Msg("failed to derive share url")
		return c.fail(ctx, OutcomeLinkUnavailable, MessageLinkUnavailable)
	}

	if err := c.clipboard.WriteText(ctx, link); err != nil {
		c.log.Warn().Err(err).Str("conversation_id", id).Msg("clipboard write failed")
		return c.fail(ctx, OutcomeClipboardFailed, fmt.Sprintf("%s: %v", MessageLinkUnavailable, err))
	}

	if c.onCopy != nil {
		c.onCopy()
	}

	c.notifier.Notify(ctx, Notification{Kind: NotificationSuccess, Message: MessageCopied})
	c.log.Info().Str("conversation_id", id).Str("url", link).Msg("share link copied")

	return Outcome{Kind: OutcomeCopied, URL: link, Message: MessageCopied}
}

func (c *Coordinator) fail(ctx context.Context, kind OutcomeKind, message string) Outcome {
	c.notifier.Notify(ctx, Notification{Kind: NotificationFailure, Message: message})
	return Outcome{Kind: kind, Message: message}
}
