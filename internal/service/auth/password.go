package auth

import (
	"fmt"

	"github.com/phrazzld/tasktracker/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords. Digests are self-describing,
// so verification needs no parameters beyond the digest itself.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify reports whether plaintext matches digest. A mismatch or a
	// malformed digest is (false, nil); only a missing digest is an error.
	Verify(plaintext, digest string) (bool, error)
}

// BcryptHasher implements PasswordHasher using bcrypt.
type BcryptHasher struct {
	cost int
}

var _ PasswordHasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher with the given cost. Costs outside
// bcrypt's accepted range fall back to bcrypt.DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the work factor new digests are created with.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

// Hash returns a bcrypt digest of plaintext.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if err := domain.ValidatePassword(plaintext); err != nil {
		return "", err
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// Verify implements PasswordHasher.
func (h *BcryptHasher) Verify(plaintext, digest string) (bool, error) {
	if digest == "" {
		return false, ErrMissingDigest
	}
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	return err == nil, nil
}
