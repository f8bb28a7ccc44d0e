package ports

import (
	"context"

	"github.com/labourshub/marketplace/internal/core/domain"
)

// UpdateProfileInput carries the raw profile form fields. Values arrive as
// submitted; the service decides what is usable and skips the rest.
type UpdateProfileInput struct {
	UserID       string
	Name         string
	Phone        string
	City         string
	Skills       string // comma-separated, split by the service
	Experience   string
	Availability string
	Image        string // relative upload path, already stored
}

// LabourListing is the dashboard view of a labour worker.
type LabourListing struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Skills       []string `json:"skills"`
	Availability string   `json:"availability"`
	Image        string   `json:"image"`
	Rating       float64  `json:"rating"`
	Price        string   `json:"price"`
	Bio          string   `json:"bio"`
	City         string   `json:"city"`
}

// UserService covers profile, listing and rating operations.
type UserService interface {
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error)
	ListLabours(ctx context.Context) ([]LabourListing, error)
	// SubmitRating appends score to the labour's ratings and returns the new
	// aggregate (mean rounded to one decimal). Scores outside [1,5] are
	// rejected before any mutation.
	SubmitRating(ctx context.Context, labourID string, score int) (float64, error)
}
