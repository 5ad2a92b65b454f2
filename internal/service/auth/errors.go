package auth

import (
	"errors"
	"fmt"
)

// ErrAuth is the common parent of every authentication failure, so callers
// can reject a request with a single errors.Is check.
var ErrAuth = errors.New("authentication failed")

// Authentication errors
var (
	// ErrMalformedToken indicates the token cannot be parsed or its signature
	// does not verify.
	ErrMalformedToken = fmt.Errorf("%w: invalid authentication token", ErrAuth)

	// ErrExpiredToken indicates the signature is valid but the expiry has passed.
	ErrExpiredToken = fmt.Errorf("%w: authentication token has expired", ErrAuth)

	// ErrUnknownSubject indicates a valid token whose subject does not resolve
	// to a live user.
	ErrUnknownSubject = fmt.Errorf("%w: unknown token subject", ErrAuth)

	// ErrInvalidCredentials is returned for both an unknown email and a wrong
	// password so the two cannot be told apart.
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuth)

	// ErrMissingToken indicates a token was expected but not provided.
	ErrMissingToken = fmt.Errorf("%w: authentication token is missing", ErrAuth)
)

// ErrMissingDigest is a programming error: Verify was called without a
// stored digest to compare against.
var ErrMissingDigest = errors.New("password digest is missing")
