package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jan-server/services/chat-share/internal/config"
	"jan-server/services/chat-share/internal/utils/platformerrors"
)

const testSecret = "test-secret-with-enough-length"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newEngine(v *Validator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/whoami", v.Middleware(), func(c *gin.Context) {
		c.String(http.StatusOK, UserID(c))
	})
	return engine
}

func doRequest(engine *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_Disabled(t *testing.T) {
	v, err := NewValidator(context.Background(), &config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	engine := newEngine(v)

	rec := doRequest(engine, nil)
	assert.Equal(t, AnonymousUserID, rec.Body.String())

	rec = doRequest(engine, map[string]string{"X-User-ID": "user-7"})
	assert.Equal(t, "user-7", rec.Body.String())
}

func TestMiddleware_ValidBearer(t *testing.T) {
	v, err := NewValidator(context.Background(), &config.Config{
		AuthEnabled:   true,
		AuthJWTSecret: testSecret,
		AuthIssuer:    "jan",
	}, zerolog.Nop())
	require.NoError(t, err)
	engine := newEngine(v)

	token := signToken(t, jwt.MapClaims{
		"sub": "user-1",
		"iss": "jan",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	rec := doRequest(engine, map[string]string{"Authorization": "Bearer " + token})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestMiddleware_Rejects(t *testing.T) {
	v, err := NewValidator(context.Background(), &config.Config{
		AuthEnabled:   true,
		AuthJWTSecret: testSecret,
		AuthIssuer:    "jan",
	}, zerolog.Nop())
	require.NoError(t, err)
	engine := newEngine(v)

	expired := signToken(t, jwt.MapClaims{"sub": "user-1", "iss": "jan", "exp": time.Now().Add(-time.Hour).Unix()})
	wrongIssuer := signToken(t, jwt.MapClaims{"sub": "user-1", "iss": "other", "exp": time.Now().Add(time.Hour).Unix()})
	noSubject := signToken(t, jwt.MapClaims{"iss": "jan", "exp": time.Now().Add(time.Hour).Unix()})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Basic abc"},
		{"garbage", "Bearer not-a-jwt"},
		{"expired", "Bearer " + expired},
		{"wrong issuer", "Bearer " + wrongIssuer},
		{"no subject", "Bearer " + noSubject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			rec := doRequest(engine, headers)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body platformerrors.HTTPErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			require.NotNil(t, body.Error)
			assert.Equal(t, "unauthorized_error", body.Error.Type)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestMiddleware_TrustsGatewayHeader(t *testing.T) {
	v, err := NewValidator(context.Background(), &config.Config{AuthEnabled: true, AuthJWTSecret: testSecret}, zerolog.Nop())
	require.NoError(t, err)

	rec := doRequest(newEngine(v), map[string]string{"X-User-Subject": "kong-user"})
	assert.Equal(t, "kong-user", rec.Body.String())
}

func TestNewTokenValidator_RequiresKeyMaterial(t *testing.T) {
	_, err := NewTokenValidator(context.Background(), TokenValidatorConfig{}, zerolog.Nop())
	assert.Error(t, err)
}
