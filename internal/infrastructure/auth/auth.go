package auth

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"jan-server/services/chat-share/internal/config"
	"jan-server/services/chat-share/internal/utils/platformerrors"
)

const (
	// UserIDKey is the gin context key holding the caller's user ID.
	UserIDKey = "user_id"
	// PrincipalKey is the gin context key holding validated token claims.
	PrincipalKey = "principal_claims"
	// AnonymousUserID is used when auth is disabled and no identity header is present.
	AnonymousUserID = "anonymous"
)

// Validator enforces authentication on API routes when enabled.
type Validator struct {
	enabled bool
	tokens  *TokenValidator
	log     zerolog.Logger
}

// NewValidator initializes token validation when auth is enabled.
func NewValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Validator, error) {
	v := &Validator{enabled: cfg.AuthEnabled, log: log.With().Str("component", "auth").Logger()}
	if !cfg.AuthEnabled {
		return v, nil
	}

	tokens, err := NewTokenValidator(ctx, TokenValidatorConfig{
		Secret:       cfg.AuthJWTSecret,
		JWKSURL:      cfg.AuthJWKSURL,
		Issuer:       cfg.AuthIssuer,
		Audience:     cfg.AuthAudience,
		RefreshEvery: cfg.RefreshJWKSInterval,
		ClockSkew:    time.Minute,
	}, log)
	if err != nil {
		return nil, err
	}
	v.tokens = tokens
	return v, nil
}

// NewValidatorWithTokens wraps an existing TokenValidator; auth is enabled.
func NewValidatorWithTokens(tokens *TokenValidator, log zerolog.Logger) *Validator {
	return &Validator{enabled: true, tokens: tokens, log: log}
}

// Close releases background resources.
func (v *Validator) Close() {
	if v != nil && v.tokens != nil {
		v.tokens.Close()
	}
}

// Middleware identifies the caller. Gateway headers are trusted first, then a
// bearer token. With auth disabled the X-User-ID header or "anonymous" is used.
func (v *Validator) Middleware() gin.HandlerFunc {
	if v == nil || !v.enabled {
		return func(c *gin.Context) {
			userID := gatewayUserID(c)
			if userID == "" {
				userID = AnonymousUserID
			}
			c.Set(UserIDKey, userID)
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if userID := gatewayUserID(c); userID != "" {
			c.Set(UserIDKey, userID)
			c.Next()
			return
		}

		tokenString := bearerToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			platformerrors.WriteUnauthorized(c, "missing bearer token")
			return
		}

		claims, err := v.tokens.Validate(c.Request.Context(), tokenString)
		if err != nil {
			v.log.Debug().Err(err).Msg("jwt validation failed")
			platformerrors.WriteUnauthorized(c, "invalid token")
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(PrincipalKey, claims)
		c.Next()
	}
}

// UserID returns the caller identified by Middleware, or "".
func UserID(c *gin.Context) string {
	if v, ok := c.Get(UserIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

func gatewayUserID(c *gin.Context) string {
	if userID := strings.TrimSpace(c.GetHeader("X-User-ID")); userID != "" {
		return userID
	}
	return strings.TrimSpace(c.GetHeader("X-User-Subject"))
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
