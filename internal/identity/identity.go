// Package identity verifies bearer credentials against the auth provider
// and exposes the resulting user identity to request handlers.
package identity

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned for any verification failure: malformed token,
// bad signature, expiry, or an unreachable provider. Callers treat all of
// these uniformly as unauthenticated.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the verified user behind a bearer token. It is never persisted
// by this service; the auth provider owns the account record.
type Identity struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Verifier validates a raw bearer token. Each call re-verifies; there is no
// caching and no retry.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*Identity, error)
}
