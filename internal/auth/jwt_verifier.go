package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"bookmarkd/internal/config"
	"bookmarkd/internal/domain"
	"bookmarkd/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier verifies asymmetrically signed tokens against a JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from jwksURL.
// The JWKS keys are cached and automatically refreshed based on HTTP cache headers.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (JWTVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{
		jwks:   jwks,
		logger: logger,
	}, nil
}

// VerifyToken validates a JWT token and extracts its claims.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	return parseClaims(tokenString, v.jwks.Keyfunc, []string{"RS256", "ES256"}, v.logger)
}

// Close is a no-op; keyfunc manages its own refresh goroutine.
func (v *JWKSVerifier) Close() error {
	v.logger.Info("JWT verifier closed")
	return nil
}

// HMACVerifier verifies tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// NewHMACVerifier creates a verifier for HS256 tokens
func NewHMACVerifier(secret string, logger *slog.Logger) (JWTVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &HMACVerifier{secret: []byte(secret), logger: logger}, nil
}

func (v *HMACVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	keyFunc := func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}
	return parseClaims(tokenString, keyFunc, []string{"HS256"}, v.logger)
}

func (v *HMACVerifier) Close() error { return nil }

// NewVerifier prefers JWKS when configured and falls back to the shared secret
func NewVerifier(cfg *config.Config, logger *slog.Logger) (JWTVerifier, error) {
	if cfg.JWKSURL != "" {
		return NewJWKSVerifier(cfg.JWKSURL, logger)
	}
	return NewHMACVerifier(cfg.JWTSecret, logger)
}

func parseClaims(tokenString string, keyFunc jwt.Keyfunc, algorithms []string, logger *slog.Logger) (*models.Claims, error) {
	// WithValidMethods prevents algorithm confusion attacks
	token, err := jwt.ParseWithClaims(tokenString, &models.Claims{}, keyFunc, jwt.WithValidMethods(algorithms))
	if err != nil {
		logger.Debug("token parse failed", "error", err.Error())
		return nil, domain.ErrUnauthorized
	}

	if !token.Valid {
		logger.Debug("token is invalid after parsing")
		return nil, domain.ErrUnauthorized
	}

	claims, ok := token.Claims.(*models.Claims)
	if !ok {
		logger.Error("failed to extract claims from token")
		return nil, domain.ErrUnauthorized
	}

	if claims.GetUserID() == 0 {
		logger.Debug("token carries no user id")
		return nil, domain.ErrUnauthorized
	}

	return claims, nil
}
