// Package auth holds the credential store (bcrypt password hashing), the
// session issuer (HMAC-signed JWT access tokens) and the Authenticator that
// combines them with the user store.
package auth
