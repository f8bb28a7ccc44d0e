package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/ports"
)

const (
	defaultListingImage = "uploads/default.png"
	defaultListingPrice = "₹800/day"
	defaultListingBio   = "Experienced labour"
)

// mobilePattern matches a 10-digit Indian mobile number.
var mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)

type userService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

// NewUserService returns a UserService backed by the given repository.
func NewUserService(users ports.UserRepository, log zerolog.Logger) ports.UserService {
	return &userService{users: users, log: log}
}

func (s *userService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return user, nil
}

// UpdateProfile applies the allow-listed fields. Blank or malformed values
// are skipped rather than rejected; an update that would touch nothing is an
// error so the client learns the submission was useless.
func (s *userService) UpdateProfile(ctx context.Context, input ports.UpdateProfileInput) (*domain.User, error) {
	update := ports.ProfileUpdate{
		Name:       strings.TrimSpace(input.Name),
		City:       strings.TrimSpace(input.City),
		Experience: strings.TrimSpace(input.Experience),
		Image:      input.Image,
	}

	if phone := strings.TrimSpace(input.Phone); mobilePattern.MatchString(phone) {
		update.Phone = phone
	}

	switch strings.TrimSpace(input.Availability) {
	case domain.AvailabilityAvailable:
		update.Availability = domain.AvailabilityAvailable
	case domain.AvailabilityNotAvailable:
		update.Availability = domain.AvailabilityNotAvailable
	}

	if raw := strings.TrimSpace(input.Skills); raw != "" {
		for _, skill := range strings.Split(raw, ",") {
			if skill = strings.TrimSpace(skill); skill != "" {
				update.Skills = append(update.Skills, skill)
			}
		}
	}

	if update.Empty() {
		return nil, domain.ErrNoProfileFields
	}

	user, err := s.users.UpdateProfile(ctx, input.UserID, update)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	s.log.Info().Str("user_id", input.UserID).Msg("profile updated")
	return user, nil
}

func (s *userService) ListLabours(ctx context.Context) ([]ports.LabourListing, error) {
	labours, err := s.users.ListLabours(ctx)
	if err != nil {
		return nil, fmt.Errorf("list labours: %w", err)
	}

	listings := make([]ports.LabourListing, 0, len(labours))
	for _, l := range labours {
		listing := ports.LabourListing{
			ID:           l.ID,
			Name:         l.Name,
			Skills:       l.Skills,
			Availability: l.Availability,
			Image:        l.Image,
			Rating:       l.Rating,
			Price:        defaultListingPrice,
			Bio:          l.Experience,
			City:         l.City,
		}
		if listing.Skills == nil {
			listing.Skills = []string{}
		}
		if listing.Availability == "" {
			listing.Availability = domain.AvailabilityAvailable
		}
		if listing.Image == "" {
			listing.Image = defaultListingImage
		}
		if listing.Bio == "" {
			listing.Bio = defaultListingBio
		}
		listings = append(listings, listing)
	}
	return listings, nil
}

// SubmitRating validates the score before any mutation; the append and the
// aggregate recompute happen in one atomic document update in the repository.
func (s *userService) SubmitRating(ctx context.Context, labourID string, score int) (float64, error) {
	if score < 1 || score > 5 {
		return 0, domain.ErrInvalidRating
	}

	aggregate, err := s.users.AddRating(ctx, labourID, score)
	if err != nil {
		return 0, fmt.Errorf("submit rating: %w", err)
	}

	s.log.Info().Str("labour_id", labourID).Int("score", score).Float64("rating", aggregate).Msg("rating submitted")
	return aggregate, nil
}
