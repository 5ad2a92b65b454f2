package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/tasktracker/internal/service/auth"
)

// MockJWTService implements auth.JWTService with function fields.
type MockJWTService struct {
	GenerateTokenFn func(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	// Defaults used when the function fields are nil.
	Token           string
	TokenError      error
	Claims          *auth.Claims
	ValidationError error
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements auth.JWTService.
func (m *MockJWTService) GenerateToken(ctx context.Context, userID int64) (string, error) {
	return m.GenerateTokenWithTTL(ctx, userID, 0)
}

// GenerateTokenWithTTL implements auth.JWTService.
func (m *MockJWTService) GenerateTokenWithTTL(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, userID, ttl)
	}
	return m.Token, m.TokenError
}

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return m.Claims, m.ValidationError
}
