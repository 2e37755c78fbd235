package domain

import (
	"github.com/google/wire"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/domain/share"
)

// ServiceProvider provides all domain services.
var ServiceProvider = wire.NewSet(
	conversation.NewResolver,
	conversation.NewService,
	share.NewShareService,
)
