package handlers

import (
	"github.com/google/wire"

	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers/chathandler"
	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers/pagehandler"
	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers/sharehandler"
	"jan-server/services/chat-share/internal/interfaces/httpserver/pages"
)

// Provider holds all HTTP handlers.
type Provider struct {
	Chat  *chathandler.ChatHandler
	Share *sharehandler.ShareHandler
	Page  *pagehandler.PageHandler
}

// NewProvider creates a new handler provider.
func NewProvider(
	chat *chathandler.ChatHandler,
	share *sharehandler.ShareHandler,
	page *pagehandler.PageHandler,
) *Provider {
	return &Provider{Chat: chat, Share: share, Page: page}
}

// HandlerProvider provides all handlers for wire.
var HandlerProvider = wire.NewSet(
	pages.NewRenderer,
	chathandler.NewChatHandler,
	sharehandler.NewShareHandler,
	pagehandler.NewPageHandler,
	NewProvider,
)
