package interfaces

import (
	"github.com/google/wire"

	"jan-server/services/chat-share/internal/interfaces/httpserver"
	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers"
	"jan-server/services/chat-share/internal/interfaces/httpserver/routes"
)

// InterfacesProvider provides the HTTP surface.
var InterfacesProvider = wire.NewSet(
	handlers.HandlerProvider,
	routes.NewProvider,
	httpserver.New,
)
