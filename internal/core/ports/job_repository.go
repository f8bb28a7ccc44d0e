package ports

import (
	"context"

	"github.com/labourshub/marketplace/internal/core/domain"
)

// JobRepository defines persistence operations for hire requests.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) (*domain.Job, error)
	FindByID(ctx context.Context, id string) (*domain.Job, error)
	// TransitionStatus sets the job's status in a single conditional update
	// that only matches when the job is still pending and owned by labourID.
	// It returns the updated job, or domain.ErrJobNotFound when nothing
	// matched; the caller classifies why.
	TransitionStatus(ctx context.Context, jobID, labourID string, status domain.JobStatus) (*domain.Job, error)
	// ListByLabour returns the labour's jobs, newest first, with the
	// customer's contact details populated.
	ListByLabour(ctx context.Context, labourID string) ([]*domain.JobWithCustomer, error)
}
