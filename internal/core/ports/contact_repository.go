package ports

import (
	"context"

	"github.com/labourshub/marketplace/internal/core/domain"
)

// ContactRepository persists contact form submissions.
type ContactRepository interface {
	Insert(ctx context.Context, msg *domain.ContactMessage) error
}
