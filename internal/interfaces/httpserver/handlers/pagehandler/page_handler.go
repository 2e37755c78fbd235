package pagehandler

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/chat-share/internal/config"
	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/domain/share"
	"jan-server/services/chat-share/internal/domain/sharelink"
	"jan-server/services/chat-share/internal/infrastructure/auth"
	"jan-server/services/chat-share/internal/infrastructure/metrics"
	"jan-server/services/chat-share/internal/interfaces/httpserver/pages"
)

const contentTypeHTML = "text/html; charset=utf-8"

// PageHandler serves the HTML chat and share pages.
type PageHandler struct {
	resolver     *conversation.Resolver
	shareService *share.ShareService
	renderer     *pages.Renderer
	origin       sharelink.OriginProvider
	requireOwner bool
	log          zerolog.Logger
}

// NewPageHandler creates a new page handler. Share links shown on the owner's
// page are built on cfg.PublicBaseURL.
func NewPageHandler(
	resolver *conversation.Resolver,
	shareService *share.ShareService,
	renderer *pages.Renderer,
	cfg *config.Config,
	log zerolog.Logger,
) (*PageHandler, error) {
	origin, err := sharelink.NewStaticOrigin(cfg.PublicBaseURL)
	if err != nil {
		return nil, err
	}
	return &PageHandler{
		resolver:     resolver,
		shareService: shareService,
		renderer:     renderer,
		origin:       origin,
		requireOwner: cfg.AuthEnabled,
		log:          log.With().Str("component", "page-handler").Logger(),
	}, nil
}

// ChatPage handles GET /chat/:id. The page is never rendered for an absent
// conversation. With auth enabled, other users' conversations are absent too.
// @Summary      Conversation page
// @Tags         pages
// @Produce      html
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {string}  string  "HTML page"
// @Failure      404  {string}  string  "Not found page"
// @Router       /chat/{id} [get]
func (h *PageHandler) ChatPage(reqCtx *gin.Context) {
	id := reqCtx.Param("id")
	conv, found, err := h.resolver.Resolve(reqCtx.Request.Context(), id)
	if err != nil {
		metrics.RecordResolve("error")
		h.log.Error().Err(err).Str("conversation_id", id).Msg("failed to resolve conversation")
		reqCtx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	if !found || (h.requireOwner && !conv.OwnedBy(auth.UserID(reqCtx))) {
		metrics.RecordResolve("absent")
		h.notFound(reqCtx)
		return
	}
	metrics.RecordResolve("found")

	var shareURL string
	if conv.IsShared() {
		if origin, err := h.origin.Origin(reqCtx.Request.Context()); err == nil {
			shareURL, _ = sharelink.DeriveShareURL(origin, *conv.SharePath)
		}
	}

	h.write(reqCtx, func(buf *bytes.Buffer) error {
		return h.renderer.ChatPage(buf, conv, shareURL)
	})
}

// SharePage handles GET /share/:id.
// @Summary      Shared conversation page
// @Tags         pages
// @Produce      html
// @Param        id   path      string  true  "Conversation ID"
// @Success      200  {string}  string  "HTML page"
// @Failure      404  {string}  string  "Not found page"
// @Router       /share/{id} [get]
func (h *PageHandler) SharePage(reqCtx *gin.Context) {
	id := reqCtx.Param("id")
	conv, err := h.shareService.GetSharedConversation(reqCtx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, conversation.ErrNotFound) {
			h.notFound(reqCtx)
			return
		}
		h.log.Error().Err(err).Str("conversation_id", id).Msg("failed to load shared conversation")
		reqCtx.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	h.write(reqCtx, func(buf *bytes.Buffer) error {
		return h.renderer.SharePage(buf, conv)
	})
}

func (h *PageHandler) write(reqCtx *gin.Context, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.log.Error().Err(err).Msg("failed to render page")
		reqCtx.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	reqCtx.Data(http.StatusOK, contentTypeHTML, buf.Bytes())
}

func (h *PageHandler) notFound(reqCtx *gin.Context) {
	var buf bytes.Buffer
	if err := h.renderer.NotFound(&buf); err != nil {
		reqCtx.AbortWithStatus(http.StatusNotFound)
		return
	}
	reqCtx.Data(http.StatusNotFound, contentTypeHTML, buf.Bytes())
	reqCtx.Abort()
}
