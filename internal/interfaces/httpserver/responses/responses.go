// Package responses contains HTTP response helpers and shared DTOs.
package responses

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"jan-server/services/chat-share/internal/domain/conversation"
	"jan-server/services/chat-share/internal/utils/platformerrors"
)

// ErrorResponse represents an error response.
type ErrorResponse = platformerrors.HTTPErrorResponse

// HandleError maps domain and platform errors to HTTP responses.
func HandleError(c *gin.Context, err error, message string) {
	logger := log.With().Str("path", c.Request.URL.Path).Logger()

	if errors.Is(err, conversation.ErrNotFound) {
		platformerrors.WriteNotFound(c, message)
		return
	}

	platformerrors.WriteError(c, platformerrors.AsError(c.Request.Context(), platformerrors.LayerHandler, err, message), logger)
}

// HandleNewError writes a typed error raised at the handler layer.
func HandleNewError(c *gin.Context, errorType platformerrors.ErrorType, message, code string) {
	err := platformerrors.NewError(c.Request.Context(), platformerrors.LayerHandler, errorType, message, nil, code)
	platformerrors.WriteHTTPError(c, err, log.With().Str("path", c.Request.URL.Path).Logger())
}
