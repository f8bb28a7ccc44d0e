package domain

import (
	"errors"
	"time"
)

// JobStatus represents the lifecycle state of a hire request.
type JobStatus string

const (
	JobPending  JobStatus = "pending"
	JobAccepted JobStatus = "accepted"
	JobRejected JobStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions.
// Accepted and rejected are both terminal.
var validTransitions = map[JobStatus][]JobStatus{
	JobPending: {JobAccepted, JobRejected},
}

var ErrJobNotFound = errors.New("job not found")
var ErrInvalidTransition = errors.New("invalid status transition")
var ErrForbidden = errors.New("access forbidden")

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether the status admits no further transitions.
func (s JobStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Job is a hire request linking a customer to a labour worker.
// Status is set exclusively by the referenced labour.
type Job struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	CustomerID  string    `json:"customer_id" bson:"customer_id"`
	LabourID    string    `json:"labour_id" bson:"labour_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`
	Location    string    `json:"location,omitempty" bson:"location,omitempty"`
	Status      JobStatus `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// JobCustomer is the customer contact view embedded in a labour's job list.
type JobCustomer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	City  string `json:"city"`
}

// JobWithCustomer is a Job with its customer contact details populated.
type JobWithCustomer struct {
	Job
	Customer JobCustomer `json:"customer"`
}
