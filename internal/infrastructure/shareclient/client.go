// Package shareclient calls the chat-share HTTP API. Its ShareConversation
// satisfies sharelink.ShareAction: every transport or protocol problem becomes
// a Failure, so the coordinator never sees a Go error.
package shareclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"resty.dev/v3"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/domain/result"
	"jan-server/services/chat-share/internal/utils/platformerrors"
)

// Failure messages produced locally, as opposed to ones relayed from the server.
const (
	MessageNetworkError = "network error"
	MessageCancelled    = "request cancelled"
	MessageBadResponse  = "Something went wrong"
)

type requestStartedAt struct{}

// Client talks to a chat-share server.
type Client struct {
	client *resty.Client
	log    zerolog.Logger
}

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string
	UserID  string
	Timeout time.Duration
}

// New creates a client for the server at opts.BaseURL.
func New(opts Options, log zerolog.Logger) *Client {
	log = log.With().Str("client", "chat-share").Logger()

	client := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}
	if opts.Token != "" {
		client.SetAuthToken(opts.Token)
	}
	if opts.UserID != "" {
		client.SetHeader("X-User-ID", opts.UserID)
	}

	client.AddRequestMiddleware(func(_ *resty.Client, r *resty.Request) error {
		r.SetContext(context.WithValue(r.Context(), requestStartedAt{}, time.Now()))
		return nil
	})
	client.AddResponseMiddleware(func(_ *resty.Client, r *resty.Response) error {
		started, _ := r.Request.Context().Value(requestStartedAt{}).(time.Time)
		log.Debug().
			Int("status", r.StatusCode()).
			Str("method", r.Request.Method).
			Str("url", r.Request.URL).
			Dur("latency", time.Since(started)).
			Msg("HTTP client request")
		return nil
	})

	return &Client{client: client, log: log}
}

// Close releases idle connections.
func (c *Client) Close() error {
	return c.client.Close()
}

// ShareConversation publishes the conversation and returns the server's
// ActionResult. Network errors, cancellation and malformed responses are
// reported as failures.
func (c *Client) ShareConversation(ctx context.Context, id string) result.Result[*conversation.Conversation] {
	return c.mutate(ctx, id, http.MethodPost)
}

// UnshareConversation clears the share path.
func (c *Client) UnshareConversation(ctx context.Context, id string) result.Result[*conversation.Conversation] {
	return c.mutate(ctx, id, http.MethodDelete)
}

func (c *Client) mutate(ctx context.Context, id, method string) result.Result[*conversation.Conversation] {
	var envelope result.Envelope[conversation.Conversation]

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&envelope).
		Execute(method, "/v1/chats/{id}/share")
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return result.Failure[*conversation.Conversation](MessageCancelled)
		}
		c.log.Warn().Err(err).Str("conversation_id", id).Msg("share request failed")
		return result.Failure[*conversation.Conversation](MessageNetworkError)
	}
	if resp.IsError() {
		c.log.Warn().
			Int("status", resp.StatusCode()).
			Str("conversation_id", id).
			Str("body", strings.TrimSpace(resp.String())).
			Msg("share request rejected")
		if resp.StatusCode() == http.StatusUnauthorized {
			return result.Failure[*conversation.Conversation]("Unauthorized")
		}
		return result.Failure[*conversation.Conversation](MessageBadResponse)
	}

	decoded, err := result.FromEnvelope(envelope)
	if err != nil {
		c.log.Warn().Err(err).Str("conversation_id", id).Msg("malformed share response")
		return result.Failure[*conversation.Conversation](MessageBadResponse)
	}
	return result.Map(decoded, func(conv conversation.Conversation) *conversation.Conversation {
		return &conv
	})
}

// GetConversation fetches a conversation owned by the caller.
func (c *Client) GetConversation(ctx context.Context, id string) (*conversation.Conversation, error) {
	return c.get(ctx, "/v1/chats/{id}", id)
}

// GetSharedConversation fetches a shared conversation through the public route.
func (c *Client) GetSharedConversation(ctx context.Context, id string) (*conversation.Conversation, error) {
	return c.get(ctx, "/v1/public/shares/{id}", id)
}

func (c *Client) get(ctx context.Context, path, id string) (*conversation.Conversation, error) {
	var conv conversation.Conversation

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("id", id).
		SetResult(&conv).
		Get(path)
	if err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "request failed", err, "share-client-get")
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeNotFound, "conversation not found", conversation.ErrNotFound, "share-client-404")
	}
	if resp.IsError() {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal,
			fmt.Sprintf("request failed with status %d", resp.StatusCode()), nil, "share-client-status")
	}
	return &conv, nil
}
