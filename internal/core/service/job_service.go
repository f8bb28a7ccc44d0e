package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/ports"
)

const defaultJobTitle = "Hiring Request"

type jobService struct {
	jobs     ports.JobRepository
	users    ports.UserRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewJobService returns a JobService wired to the given stores and notifier.
func NewJobService(jobs ports.JobRepository, users ports.UserRepository, notifier ports.Notifier, log zerolog.Logger) ports.JobService {
	return &jobService{jobs: jobs, users: users, notifier: notifier, log: log}
}

// CreateHire validates the target, persists a pending job, then pushes a
// best-effort "new-job" event. The push happens after the write and never
// delays or fails the response.
func (s *jobService) CreateHire(ctx context.Context, customerID, labourID string) (*domain.Job, error) {
	labour, err := s.users.FindByID(ctx, labourID)
	if err != nil {
		return nil, fmt.Errorf("create hire: %w", err)
	}
	if labour.Role != domain.RoleLabour {
		return nil, fmt.Errorf("create hire: %w", domain.ErrUserNotFound)
	}

	job := &domain.Job{
		CustomerID: customerID,
		LabourID:   labourID,
		Title:      defaultJobTitle,
		Status:     domain.JobPending,
		CreatedAt:  time.Now().UTC(),
	}

	created, err := s.jobs.Create(ctx, job)
	if err != nil {
		s.log.Error().Err(err).Str("labour_id", labourID).Msg("failed to create job")
		return nil, err
	}

	s.log.Info().
		Str("job_id", created.ID).
		Str("customer_id", customerID).
		Str("labour_id", labourID).
		Msg("hire request created")

	s.notifier.Push(labourID, "new-job", created)

	return created, nil
}

// SetStatus applies pending -> accepted|rejected as one conditional update.
// When nothing matches, the job is re-read to report why: absent, owned by
// another labour, or already terminal.
func (s *jobService) SetStatus(ctx context.Context, jobID, callerID string, status string) (*domain.Job, error) {
	next := domain.JobStatus(status)
	if next != domain.JobAccepted && next != domain.JobRejected {
		return nil, fmt.Errorf("set job status: %w (to %s)", domain.ErrInvalidTransition, status)
	}

	updated, err := s.jobs.TransitionStatus(ctx, jobID, callerID, next)
	if err == nil {
		s.log.Info().
			Str("job_id", updated.ID).
			Str("status", string(updated.Status)).
			Msg("job status updated")

		s.notifier.Push(updated.CustomerID, "job-status-updated", updated)
		return updated, nil
	}
	if !errors.Is(err, domain.ErrJobNotFound) {
		return nil, fmt.Errorf("set job status: %w", err)
	}

	// The conditional update matched nothing. Classify against the current
	// document so the caller gets a precise error.
	job, findErr := s.jobs.FindByID(ctx, jobID)
	if findErr != nil {
		return nil, fmt.Errorf("set job status: %w", findErr)
	}
	if job.LabourID != callerID {
		return nil, fmt.Errorf("set job status: %w", domain.ErrForbidden)
	}
	return nil, fmt.Errorf("set job status: %w (from %s to %s)", domain.ErrInvalidTransition, job.Status, next)
}

func (s *jobService) ListForLabour(ctx context.Context, labourID string) ([]*domain.JobWithCustomer, error) {
	jobs, err := s.jobs.ListByLabour(ctx, labourID)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return jobs, nil
}
