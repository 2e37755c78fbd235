package routes

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/chat-share/internal/infrastructure/auth"
	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers"
	v1 "jan-server/services/chat-share/internal/interfaces/httpserver/routes/v1"
)

// Provider holds all route providers.
type Provider struct {
	V1            *v1.Routes
	handlers      *handlers.Provider
	authValidator *auth.Validator
}

// NewProvider creates a new route provider.
func NewProvider(handlerProvider *handlers.Provider, authValidator *auth.Validator) *Provider {
	return &Provider{
		V1:            v1.NewRoutes(handlerProvider),
		handlers:      handlerProvider,
		authValidator: authValidator,
	}
}

// Register registers all routes on the engine.
func (p *Provider) Register(engine *gin.Engine) {
	// A nil validator still identifies the caller from headers.
	authMW := p.authValidator.Middleware()

	p.V1.Register(engine, authMW)

	// HTML pages
	engine.GET("/chat/:id", authMW, p.handlers.Page.ChatPage)
	engine.GET("/share/:id", p.handlers.Page.SharePage)
}
