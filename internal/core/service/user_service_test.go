package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/ports"
)

func TestUserService_Profile_NotFound(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	if _, err := svc.Profile(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_UpdateProfile_SplitsSkills(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	labour := seedLabour(repo)

	user, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileInput{
		UserID: labour.ID,
		Skills: "plumbing, electrical , , carpentry",
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}

	want := []string{"plumbing", "electrical", "carpentry"}
	if !reflect.DeepEqual(user.Skills, want) {
		t.Fatalf("expected skills %v, got %v", want, user.Skills)
	}
}

func TestUserService_UpdateProfile_SkipsInvalidFields(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	labour := seedLabour(repo)
	originalPhone := labour.Phone

	user, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileInput{
		UserID:       labour.ID,
		Name:         "Ravi Kumar",
		Phone:        "12345",       // not a valid mobile, skipped
		Availability: "maybe-later", // unknown value, skipped
	})
	if err != nil {
		t.Fatalf("UpdateProfile returned error: %v", err)
	}
	if user.Name != "Ravi Kumar" {
		t.Fatalf("expected name update, got %q", user.Name)
	}
	if user.Phone != originalPhone {
		t.Fatalf("invalid phone must be skipped, got %q", user.Phone)
	}
	if user.Availability == "maybe-later" {
		t.Fatalf("unknown availability must be skipped")
	}
}

func TestUserService_UpdateProfile_NothingToUpdate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	labour := seedLabour(repo)

	_, err := svc.UpdateProfile(context.Background(), ports.UpdateProfileInput{
		UserID: labour.ID,
		Phone:  "12345", // the only submitted field, and it is invalid
	})
	if !errors.Is(err, domain.ErrNoProfileFields) {
		t.Fatalf("expected ErrNoProfileFields, got %v", err)
	}
}

func TestUserService_ListLabours_Defaults(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())

	repo.seed(&domain.User{Name: "Bare", Role: domain.RoleLabour, City: "Pune"})
	seedCustomer(repo) // must not appear in the listing

	listings, err := svc.ListLabours(context.Background())
	if err != nil {
		t.Fatalf("ListLabours returned error: %v", err)
	}
	if len(listings) != 1 {
		t.Fatalf("expected 1 listing, got %d", len(listings))
	}

	l := listings[0]
	if l.Skills == nil || len(l.Skills) != 0 {
		t.Fatalf("expected empty skills slice, got %#v", l.Skills)
	}
	if l.Availability != domain.AvailabilityAvailable {
		t.Fatalf("expected default availability, got %q", l.Availability)
	}
	if l.Image == "" || l.Price == "" || l.Bio == "" {
		t.Fatalf("expected presentation defaults to be filled: %+v", l)
	}
}

func TestUserService_SubmitRating_Bounds(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	labour := seedLabour(repo)

	for _, score := range []int{0, -1, 6} {
		if _, err := svc.SubmitRating(context.Background(), labour.ID, score); !errors.Is(err, domain.ErrInvalidRating) {
			t.Fatalf("expected ErrInvalidRating for score %d, got %v", score, err)
		}
	}
	// No mutation on rejected scores.
	stored, _ := repo.FindByID(context.Background(), labour.ID)
	if len(stored.Ratings) != 0 || stored.Rating != 0 {
		t.Fatalf("rejected score must not mutate the labour: %+v", stored)
	}
}

func TestUserService_SubmitRating_Aggregate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo, zerolog.Nop())
	labour := seedLabour(repo)

	var rating float64
	var err error
	for _, score := range []int{4, 5, 3} {
		rating, err = svc.SubmitRating(context.Background(), labour.ID, score)
		if err != nil {
			t.Fatalf("SubmitRating returned error: %v", err)
		}
	}
	if rating != 4.0 {
		t.Fatalf("expected aggregate 4.0, got %v", rating)
	}

	// Mean keeps one decimal: (4+5+3+2)/4 = 3.5.
	rating, err = svc.SubmitRating(context.Background(), labour.ID, 2)
	if err != nil {
		t.Fatalf("SubmitRating returned error: %v", err)
	}
	if rating != 3.5 {
		t.Fatalf("expected aggregate 3.5, got %v", rating)
	}
}

func TestUserService_SubmitRating_UnknownLabour(t *testing.T) {
	svc := NewUserService(newStubUserRepo(), zerolog.Nop())

	if _, err := svc.SubmitRating(context.Background(), "missing", 4); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
