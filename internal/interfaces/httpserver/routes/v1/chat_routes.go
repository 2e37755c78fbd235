package v1

import (
	"github.com/gin-gonic/gin"

	"jan-server/services/chat-share/internal/interfaces/httpserver/handlers"
)

// RegisterChatRoutes registers conversation and share mutation routes.
func RegisterChatRoutes(router gin.IRoutes, h *handlers.Provider) {
	// POST /v1/chats - create a conversation
	router.POST("", h.Chat.CreateChat)
	// GET /v1/chats/:id - read an owned conversation
	router.GET("/:id", h.Chat.GetChat)

	// POST /v1/chats/:id/share - publish
	router.POST("/:id/share", h.Share.Share)
	// DELETE /v1/chats/:id/share - unpublish
	router.DELETE("/:id/share", h.Share.Unshare)
}

// RegisterPublicRoutes registers anonymous read-only routes.
func RegisterPublicRoutes(router gin.IRoutes, h *handlers.Provider) {
	// GET /v1/public/shares/:id - read a shared conversation
	router.GET("/shares/:id", h.Share.GetPublicShare)
}
