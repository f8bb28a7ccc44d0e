package ports

import (
	"context"

	"github.com/labourshub/marketplace/internal/core/domain"
)

// RegisterInput carries everything needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	City     string
	Password string
	Role     string
	Identity string
	// ValidProof references the identity document uploaded with the form,
	// already written to the upload store by the transport layer.
	ValidProof *domain.FileRef
}

// AuthService implements registration, login and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	// Login verifies the credential and the submitted role against the stored
	// user, creates a server-side session and returns the signed cookie token.
	// Wrong password and wrong role are distinct errors internally; the
	// transport layer must surface them identically.
	Login(ctx context.Context, role, email, password string) (string, *domain.Session, error)
	// Logout revokes the session; unknown ids are a no-op.
	Logout(ctx context.Context, sessionID string) error
}
