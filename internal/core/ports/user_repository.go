package ports

import (
	"context"

	"github.com/labourshub/marketplace/internal/core/domain"
)

// ProfileUpdate carries the allow-listed profile fields for a partial update.
// Zero values mean "leave unchanged"; the repository only sets what is present.
type ProfileUpdate struct {
	Name         string
	Phone        string
	City         string
	Skills       []string
	Experience   string
	Availability string
	Image        string
}

// Empty reports whether the update would touch nothing.
func (p ProfileUpdate) Empty() bool {
	return p.Name == "" && p.Phone == "" && p.City == "" &&
		len(p.Skills) == 0 && p.Experience == "" && p.Availability == "" &&
		p.Image == ""
}

// UserRepository defines persistence operations for user records.
type UserRepository interface {
	// Create inserts a new user. A user already registered with the same
	// email or phone under the same role yields domain.ErrUserExists.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// UpdateProfile applies a partial update and returns the updated user.
	UpdateProfile(ctx context.Context, id string, update ProfileUpdate) (*domain.User, error)
	// ListLabours returns all users with the labour role.
	ListLabours(ctx context.Context) ([]*domain.User, error)
	// AddRating appends score to the labour's rating collection and recomputes
	// the aggregate in a single atomic document update. It returns the new
	// aggregate, or domain.ErrUserNotFound when no labour matches id.
	AddRating(ctx context.Context, labourID string, score int) (float64, error)
}
