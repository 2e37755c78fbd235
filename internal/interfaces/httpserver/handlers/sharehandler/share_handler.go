package sharehandler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/domain/result"
	"jan-server/services/chat-share/internal/domain/share"
	"jan-server/services/chat-share/internal/infrastructure/auth"
	"jan-server/services/chat-share/internal/infrastructure/metrics"
	"jan-server/services/chat-share/internal/interfaces/httpserver/responses"
	chatresponses "jan-server/services/chat-share/internal/interfaces/httpserver/responses/chat"
)

// Share actions as recorded in metrics.
const (
	ActionShare   = "share"
	ActionUnshare = "unshare"
)

// ShareHandler handles share mutations and public share reads.
type ShareHandler struct {
	shareService *share.ShareService
}

// NewShareHandler creates a new share handler.
func NewShareHandler(shareService *share.ShareService) *ShareHandler {
	return &ShareHandler{shareService: shareService}
}

// Share handles POST /v1/chats/:id/share. Domain failures are returned as a
// 200 envelope carrying the failure message.
// @Summary      Share a conversation
// @Description  Publishes the conversation under /share/{id}. The body is either {"success": conversation} or {"error": message}.
// @Tags         shares
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  result.Envelope[chatresponses.ChatResponse]
// @Failure      401  {object}  responses.ErrorResponse  "Missing or invalid token"
// @Router       /v1/chats/{id}/share [post]
func (h *ShareHandler) Share(reqCtx *gin.Context) {
	h.mutate(reqCtx, ActionShare, h.shareService.ShareConversation)
}

// Unshare handles DELETE /v1/chats/:id/share.
// @Summary      Stop sharing a conversation
// @Tags         shares
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  result.Envelope[chatresponses.ChatResponse]
// @Failure      401  {object}  responses.ErrorResponse  "Missing or invalid token"
// @Router       /v1/chats/{id}/share [delete]
func (h *ShareHandler) Unshare(reqCtx *gin.Context) {
	h.mutate(reqCtx, ActionUnshare, h.shareService.UnshareConversation)
}

func (h *ShareHandler) mutate(
	reqCtx *gin.Context,
	action string,
	fn func(ctx context.Context, id, userID string) result.Result[*conversation.Conversation],
) {
	res := fn(reqCtx.Request.Context(), reqCtx.Param("id"), auth.UserID(reqCtx))

	metrics.RecordShare(action, res.IsSuccess())
	reqCtx.JSON(http.StatusOK, chatresponses.NewShareEnvelope(res))
}

// GetPublicShare handles GET /v1/public/shares/:id.
// @Summary      Read a shared conversation
// @Description  Anonymous read of a currently shared conversation. System messages and the owner are omitted.
// @Tags         shares
// @Produce      json
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {object}  chatresponses.PublicShareResponse
// @Failure      404  {object}  responses.ErrorResponse  "Shared conversation not found"
// @Router       /v1/public/shares/{id} [get]
func (h *ShareHandler) GetPublicShare(reqCtx *gin.Context) {
	conv, ok := h.ResolveShared(reqCtx)
	if !ok {
		return
	}
	reqCtx.JSON(http.StatusOK, chatresponses.NewPublicShareResponse(conv))
}

// ResolveShared loads the shared conversation named by :id, writing a 404 when
// it is absent or not currently shared.
func (h *ShareHandler) ResolveShared(reqCtx *gin.Context) (*conversation.Conversation, bool) {
	conv, err := h.shareService.GetSharedConversation(reqCtx.Request.Context(), reqCtx.Param("id"))
	if err != nil {
		responses.HandleError(reqCtx, err, "shared conversation not found")
		return nil, false
	}
	return conv, true
}
