package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT access tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the user, valid for the
	// configured lifetime.
	GenerateToken(ctx context.Context, userID int64) (string, error)

	// GenerateTokenWithTTL creates a signed access token valid for ttl.
	GenerateTokenWithTTL(ctx context.Context, userID int64, ttl time.Duration) (string, error)

	// ValidateToken verifies the signature and expiry of tokenString and
	// returns its claims. Fails with ErrMalformedToken or ErrExpiredToken.
	// It does not check that the subject still exists.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
type Claims struct {
	// UserID is the identifier of the user the token was issued for.
	UserID int64 `json:"uid,omitempty"`

	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
