// Package ports declares the interfaces the storefront depends on. Adapters live
// under internal/adapters and are wired in internal/bootstrap.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/gamestore/gamestore-web/internal/domain/auth"
)

// SessionStore keeps server-side session records keyed by the opaque ID carried
// in the session cookie.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	// Get returns ErrSessionNotFound for unknown or expired IDs.
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// ErrSessionNotFound is returned by SessionStore.Get when no live record exists.
var ErrSessionNotFound = errors.New("session not found")
