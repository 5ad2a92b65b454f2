package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasktracker/internal/domain"
	"github.com/phrazzld/tasktracker/internal/platform/logger"
	"github.com/phrazzld/tasktracker/internal/store"
)

// dummyPassword is hashed once at construction. Unknown-email logins verify
// against its digest so they cost the same as a wrong password.
const dummyPassword = "tasktracker-timing-equalizer"

// Authenticator is the authentication boundary used by the transport layer.
type Authenticator struct {
	users       store.UserStore
	hasher      PasswordHasher
	tokens      JWTService
	dummyDigest string
}

// NewAuthenticator creates an Authenticator.
func NewAuthenticator(users store.UserStore, hasher PasswordHasher, tokens JWTService) (*Authenticator, error) {
	if users == nil || hasher == nil || tokens == nil {
		return nil, errors.New("authenticator requires a user store, a hasher and a token service")
	}
	digest, err := hasher.Hash(dummyPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy digest: %w", err)
	}
	return &Authenticator{
		users:       users,
		hasher:      hasher,
		tokens:      tokens,
		dummyDigest: digest,
	}, nil
}

// Authenticate checks an email/password pair. An unknown email, a wrong
// password and an inactive account all return ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if !store.IsNotFoundError(err) {
			return nil, fmt.Errorf("failed to look up user: %w", err)
		}
		_, _ = a.hasher.Verify(password, a.dummyDigest)
		log.Debug("login rejected", slog.String("reason", "unknown email"))
		return nil, ErrInvalidCredentials
	}

	ok, err := a.hasher.Verify(password, user.HashedPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password for user %d: %w", user.ID, err)
	}
	if !ok || !user.IsActive {
		log.Debug("login rejected", slog.Int64("user_id", user.ID), slog.Bool("active", user.IsActive))
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// IssueToken issues an access token for user with the configured lifetime.
func (a *Authenticator) IssueToken(ctx context.Context, user *domain.User) (string, error) {
	return a.tokens.GenerateToken(ctx, user.ID)
}

// Resolve validates token and loads its subject. A deleted or inactive
// subject yields ErrUnknownSubject.
func (a *Authenticator) Resolve(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	claims, err := a.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := a.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrUnknownSubject
		}
		return nil, fmt.Errorf("failed to load token subject: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUnknownSubject
	}
	return user, nil
}
