package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers"
)

// Routes holds the v1 route configuration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes creates a new v1 routes instance.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register registers all v1 routes on the engine. authMiddleware, when set,
// guards the /v1/chats routes; public share reads stay anonymous.
func (r *Routes) Register(engine *gin.Engine, authMiddleware gin.HandlerFunc) {
	v1 := engine.Group("/v1")

	chats := v1.Group("/chats")
	if authMiddleware != nil {
		chats.Use(authMiddleware)
	}
	RegisterChatRoutes(chats, r.handlers)

	public := v1.Group("/public")
	RegisterPublicRoutes(public, r.handlers)
}
