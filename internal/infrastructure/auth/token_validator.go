package auth

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

// PrincipalClaims is the subset of JWT claims the service uses.
type PrincipalClaims struct {
	Subject           string
	Issuer            string
	PreferredUsername string
	Email             string
	ExpiresAt         time.Time
}

// TokenValidator verifies bearer tokens, either with a shared HS256 secret or
// with RS256 keys fetched from a JWKS endpoint.
type TokenValidator struct {
	issuer    string
	audience  string
	secret    []byte
	jwks      atomic.Pointer[keyfunc.JWKS]
	clockSkew time.Duration
	log       zerolog.Logger
}

// TokenValidatorConfig configures a TokenValidator. Exactly one of Secret and
// JWKSURL is normally set; when both are, JWKS wins.
type TokenValidatorConfig struct {
	Secret       string
	JWKSURL      string
	Issuer       string
	Audience     string
	RefreshEvery time.Duration
	ClockSkew    time.Duration
}

// NewTokenValidator builds a validator and, for JWKS, performs the initial key fetch.
func NewTokenValidator(ctx context.Context, cfg TokenValidatorConfig, log zerolog.Logger) (*TokenValidator, error) {
	v := &TokenValidator{
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
		secret:    []byte(cfg.Secret),
		clockSkew: cfg.ClockSkew,
		log:       log.With().Str("component", "token-validator").Logger(),
	}

	if cfg.JWKSURL == "" {
		if len(v.secret) == 0 {
			return nil, errors.New("either a jwt secret or a jwks url is required")
		}
		return v, nil
	}

	jwks, err := keyfunc.Get(cfg.JWKSURL, keyfunc.Options{
		Ctx:               ctx,
		RefreshInterval:   cfg.RefreshEvery,
		RefreshUnknownKID: true,
		RefreshErrorHandler: func(err error) {
			v.log.Error().Err(err).Msg("jwks refresh failed")
		},
	})
	if err != nil {
		return nil, fmt.Errorf("fetch jwks: %w", err)
	}
	v.jwks.Store(jwks)
	return v, nil
}

// Close stops background JWKS refreshes.
func (v *TokenValidator) Close() {
	if jwks := v.jwks.Load(); jwks != nil {
		jwks.EndBackground()
	}
}

// Validate parses rawToken and returns its claims.
func (v *TokenValidator) Validate(_ context.Context, rawToken string) (*PrincipalClaims, error) {
	opts := []jwt.ParserOption{jwt.WithLeeway(v.clockSkew), jwt.WithExpirationRequired()}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var keyFunc jwt.Keyfunc
	if jwks := v.jwks.Load(); jwks != nil {
		opts = append(opts, jwt.WithValidMethods([]string{"RS256"}))
		keyFunc = jwks.Keyfunc
	} else {
		opts = append(opts, jwt.WithValidMethods([]string{"HS256"}))
		keyFunc = func(*jwt.Token) (any, error) { return v.secret, nil }
	}

	claims := jwt.MapClaims{}
	token, err := jwt.NewParser(opts...).ParseWithClaims(rawToken, claims, keyFunc)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.New("sub claim missing")
	}

	principal := &PrincipalClaims{Subject: sub}
	principal.Issuer, _ = claims["iss"].(string)
	principal.PreferredUsername, _ = claims["preferred_username"].(string)
	principal.Email, _ = claims["email"].(string)
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		principal.ExpiresAt = exp.Time
	}
	return principal, nil
}
