package domain

import (
	"errors"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleLabour   = "labour"
)

const (
	AvailabilityAvailable    = "available"
	AvailabilityNotAvailable = "not-available"
)

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrRoleMismatch = errors.New("role mismatch")
var ErrInvalidRating = errors.New("rating out of range")
var ErrNoProfileFields = errors.New("no valid fields provided to update")

// ValidRole reports whether role is one of the two marketplace roles.
// Role is fixed at registration and never changes afterwards.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleLabour
}

// FileRef points at an uploaded file kept under the server's upload directory.
type FileRef struct {
	Filename string `json:"filename" bson:"filename"`
	Path     string `json:"path" bson:"path"`
	MimeType string `json:"mime_type" bson:"mime_type"`
	Size     int64  `json:"size" bson:"size"`
}

// User models a registered actor: either a customer or a labour worker.
// Rating is an aggregate over Ratings, recomputed on every submission and
// never written directly.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	City         string    `json:"city"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Identity     string    `json:"identity,omitempty"`
	ValidProof   *FileRef  `json:"valid_proof,omitempty"`
	Image        string    `json:"image,omitempty"`
	Skills       []string  `json:"skills,omitempty"`
	Experience   string    `json:"experience,omitempty"`
	Availability string    `json:"availability,omitempty"`
	Ratings      []int     `json:"-"`
	Rating       float64   `json:"rating"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
