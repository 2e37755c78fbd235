package chathandler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/infrastructure/auth"
	"jan-server/services/chat-share/internal/infrastructure/metrics"
	chatrequests "jan-server/services/chat-share/internal/interfaces/httpserver/requests/chat"
	"jan-server/services/chat-share/internal/interfaces/httpserver/responses"
	chatresponses "jan-server/services/chat-share/internal/interfaces/httpserver/responses/chat"
	"jan-server/services/chat-share/internal/utils/platformerrors"
)

// ChatHandler handles conversation CRUD requests.
type ChatHandler struct {
	conversationService *conversation.Service
	resolver            *conversation.Resolver
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(conversationService *conversation.Service, resolver *conversation.Resolver) *ChatHandler {
	return &ChatHandler{
		conversationService: conversationService,
		resolver:            resolver,
	}
}

// CreateChat handles POST /v1/chats.
// @Summary      Create a conversation
// @Description  Stores a conversation owned by the caller. It starts unshared.
// @Tags         chats
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      chatrequests.CreateChatRequest  true  "Conversation to create"
// @Success      201      {object}  chatresponses.ChatResponse
// @Failure      400      {object}  responses.ErrorResponse  "Invalid request body"
// @Failure      401      {object}  responses.ErrorResponse  "Missing or invalid token"
// @Router       /v1/chats [post]
func (h *ChatHandler) CreateChat(reqCtx *gin.Context) {
	var req chatrequests.CreateChatRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(reqCtx, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation,
			chatrequests.ValidationMessage(err), "chat-body-002")
		return
	}

	conv, err := h.conversationService.Create(reqCtx.Request.Context(), req.ToInput(auth.UserID(reqCtx)))
	if err != nil {
		responses.HandleError(reqCtx, err, "failed to create conversation")
		return
	}

	reqCtx.JSON(http.StatusCreated, chatresponses.NewChatResponse(conv))
}

// GetChat handles GET /v1/chats/:id. Conversations owned by someone else are
// reported as absent.
// @Summary      Get a conversation
// @Tags         chats
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  chatresponses.ChatResponse
// @Failure      401  {object}  responses.ErrorResponse  "Missing or invalid token"
// @Failure      404  {object}  responses.ErrorResponse  "Conversation not found"
// @Router       /v1/chats/{id} [get]
func (h *ChatHandler) GetChat(reqCtx *gin.Context) {
	conv, ok := h.ResolveOwned(reqCtx, true)
	if !ok {
		return
	}
	reqCtx.JSON(http.StatusOK, chatresponses.NewChatResponse(conv))
}

// ResolveOwned resolves the :id path parameter. It writes the error response
// and returns false when the conversation is absent, or when requireOwner is
// set and the caller does not own it.
func (h *ChatHandler) ResolveOwned(reqCtx *gin.Context, requireOwner bool) (*conversation.Conversation, bool) {
	id := reqCtx.Param("id")
	conv, found, err := h.resolver.Resolve(reqCtx.Request.Context(), id)
	if err != nil {
		metrics.RecordResolve("error")
		responses.HandleError(reqCtx, err, "failed to load conversation")
		return nil, false
	}
	if !found || (requireOwner && !conv.OwnedBy(auth.UserID(reqCtx))) {
		metrics.RecordResolve("absent")
		platformerrors.WriteNotFound(reqCtx, "conversation not found")
		return nil, false
	}

	metrics.RecordResolve("found")
	return conv, true
}
