package ports

import (
	"context"
	"time"

	"github.com/labourshub/marketplace/internal/core/domain"
)

// SessionStore keeps server-side session records for the token TTL.
// A session missing from the store is expired or revoked; the signed cookie
// alone is not sufficient to authenticate.
type SessionStore interface {
	Save(ctx context.Context, session *domain.Session, ttl time.Duration) error
	// Find returns the session for id, or domain.ErrUnauthenticated when the
	// record is absent.
	Find(ctx context.Context, id string) (*domain.Session, error)
	// Delete revokes the session. Deleting an unknown id is a no-op.
	Delete(ctx context.Context, id string) error
}
