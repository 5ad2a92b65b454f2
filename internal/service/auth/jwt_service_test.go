package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/tasktracker/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

// NewTestJWTService creates a service with a fixed clock and no leeway.
func NewTestJWTService(secret string, lifetime time.Duration, timeFunc func() time.Time) JWTService {
	return &hmacJWTService{
		signingKey:    []byte(secret),
		tokenLifetime: lifetime,
		timeFunc:      timeFunc,
	}
}

func at(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetime: time.Minute})
	assert.ErrorContains(t, err, "at least 32")

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.ErrorContains(t, err, "lifetime")

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetime: 30 * time.Minute})
	require.NoError(t, err)
	token, err := svc.GenerateToken(context.Background(), 7)
	require.NoError(t, err)
	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	svc := NewTestJWTService(testSecret, tokenLifetime, at(fixedTime))

	token, err := svc.GenerateToken(context.Background(), 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)

	other, err := svc.GenerateToken(context.Background(), 42)
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "each token carries a unique jti")
}

func TestTokenExpiryBoundary(t *testing.T) {
	t.Parallel()

	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	issuer := NewTestJWTService(testSecret, time.Hour, at(issued))
	token, err := issuer.GenerateTokenWithTTL(context.Background(), 1, 30*time.Minute)
	require.NoError(t, err)

	t.Run("valid at T+29m", func(t *testing.T) {
		t.Parallel()
		svc := NewTestJWTService(testSecret, time.Hour, at(issued.Add(29*time.Minute)))
		claims, err := svc.ValidateToken(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, int64(1), claims.UserID)
	})

	t.Run("expired at T+31m", func(t *testing.T) {
		t.Parallel()
		svc := NewTestJWTService(testSecret, time.Hour, at(issued.Add(31*time.Minute)))
		_, err := svc.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
		assert.ErrorIs(t, err, ErrAuth)
	})

	t.Run("clock skew extends validity", func(t *testing.T) {
		t.Parallel()
		svc := &hmacJWTService{
			signingKey:    []byte(testSecret),
			tokenLifetime: time.Hour,
			timeFunc:      at(issued.Add(31 * time.Minute)),
			clockSkew:     2 * time.Minute,
		}
		_, err := svc.ValidateToken(context.Background(), token)
		assert.NoError(t, err)
	})
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	wrongSecret := "wrong-secret-that-is-long-enough-for-testing"

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key any) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return tok
	}

	tests := []struct {
		name      string
		setupFunc func() (JWTService, string)
		wantErr   error
	}{
		{
			name: "valid token",
			setupFunc: func() (JWTService, string) {
				svc := NewTestJWTService(testSecret, tokenLifetime, at(fixedTime))
				token, _ := svc.GenerateToken(context.Background(), 5)
				return svc, token
			},
		},
		{
			name: "expired token",
			setupFunc: func() (JWTService, string) {
				genSvc := NewTestJWTService(testSecret, tokenLifetime, at(fixedTime))
				token, _ := genSvc.GenerateToken(context.Background(), 5)
				valSvc := NewTestJWTService(testSecret, tokenLifetime, at(fixedTime.Add(tokenLifetime+time.Hour)))
				return valSvc, token
			},
			wantErr: ErrExpiredToken,
		},
		{
			name: "invalid signature",
			setupFunc: func() (JWTService, string) {
				genSvc := NewTestJWTService(testSecret, tokenLifetime, at(fixedTime))
				token, _ := genSvc.GenerateToken(context.Background(), 5)
				valSvc := NewTestJWTService(wrongSecret, tokenLifetime, at(fixedTime))
				return valSvc, token
			},
			wantErr: ErrMalformedToken,
		},
		{
			name: "malformed token",
			setupFunc: func() (JWTService, string) {
				return NewTestJWTService(testSecret, tokenLifetime, at(fixedTime)), "this.is.not.a.valid.jwt.token"
			},
			wantErr: ErrMalformedToken,
		},
		{
			name: "empty token",
			setupFunc: func() (JWTService, string) {
				return NewTestJWTService(testSecret, tokenLifetime, at(fixedTime)), ""
			},
			wantErr: ErrMalformedToken,
		},
		{
			name: "unsigned token",
			setupFunc: func() (JWTService, string) {
				claims := jwtCustomClaims{
					UserID: 5,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "5",
						IssuedAt:  jwt.NewNumericDate(fixedTime),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}
				token := sign(claims, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType)
				return NewTestJWTService(testSecret, tokenLifetime, at(fixedTime)), token
			},
			wantErr: ErrMalformedToken,
		},
		{
			name: "missing expiry",
			setupFunc: func() (JWTService, string) {
				claims := jwtCustomClaims{
					UserID: 5,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:  "5",
						IssuedAt: jwt.NewNumericDate(fixedTime),
					},
				}
				token := sign(claims, jwt.SigningMethodHS256, []byte(testSecret))
				return NewTestJWTService(testSecret, tokenLifetime, at(fixedTime)), token
			},
			wantErr: ErrMalformedToken,
		},
		{
			name: "subject does not match uid",
			setupFunc: func() (JWTService, string) {
				claims := jwtCustomClaims{
					UserID: 5,
					RegisteredClaims: jwt.RegisteredClaims{
						Subject:   "6",
						IssuedAt:  jwt.NewNumericDate(fixedTime),
						ExpiresAt: jwt.NewNumericDate(fixedTime.Add(time.Hour)),
					},
				}
				token := sign(claims, jwt.SigningMethodHS256, []byte(testSecret))
				return NewTestJWTService(testSecret, tokenLifetime, at(fixedTime)), token
			},
			wantErr: ErrMalformedToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, token := tt.setupFunc()
			claims, err := svc.ValidateToken(context.Background(), token)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(5), claims.UserID)
		})
	}
}

func TestValidateToken_TamperedPayload(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTestJWTService(testSecret, time.Hour, at(fixedTime))
	token, err := svc.GenerateToken(context.Background(), 5)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	other, err := svc.GenerateToken(context.Background(), 6)
	require.NoError(t, err)
	parts[1] = strings.Split(other, ".")[1]

	_, err = svc.ValidateToken(context.Background(), strings.Join(parts, "."))
	assert.ErrorIs(t, err, ErrMalformedToken)
}
