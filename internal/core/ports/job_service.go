package ports

import (
	"context"

	"github.com/labourshub/marketplace/internal/core/domain"
)

// JobService orchestrates the hire workflow and its live notifications.
type JobService interface {
	// CreateHire creates a pending job from customerID to labourID and pushes
	// a best-effort "new-job" event to the labour. The target must exist and
	// hold the labour role; otherwise no job is created and no event emitted.
	CreateHire(ctx context.Context, customerID, labourID string) (*domain.Job, error)
	// SetStatus transitions a pending job to accepted or rejected. Only the
	// referenced labour may transition it, and only once; success pushes a
	// best-effort "job-status-updated" event to the customer.
	SetStatus(ctx context.Context, jobID, callerID string, status string) (*domain.Job, error)
	ListForLabour(ctx context.Context, labourID string) ([]*domain.JobWithCustomer, error)
}

// ContactService accepts public contact form submissions.
type ContactService interface {
	Submit(ctx context.Context, name, email, message string) error
}
