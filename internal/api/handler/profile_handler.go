package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/ports"
	"github.com/labourshub/marketplace/internal/infrastructure/upload"
)

// ProfileHandler serves the logged-in user's profile.
type ProfileHandler struct {
	userService ports.UserService
	uploads     *upload.Store
}

func NewProfileHandler(userService ports.UserService, uploads *upload.Store) *ProfileHandler {
	return &ProfileHandler{userService: userService, uploads: uploads}
}

type profileResponse struct {
	User *domain.User `json:"user"`
	Role string       `json:"role"`
}

// Get handles GET /api/profile.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	user, err := h.userService.Profile(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profileResponse{User: user, Role: session.Role})
}

type updateProfileResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

// Update handles PUT /api/profile: multipart form fields plus an optional
// profile image. Blank or invalid fields are skipped; a submission carrying
// nothing usable is a 400.
//
// @Summary      Update own profile
// @Tags         profile
// @Accept       mpfd
// @Produce      json
// @Param        name         formData  string  false  "Full name"
// @Param        phone        formData  string  false  "10-digit mobile number"
// @Param        city         formData  string  false  "City"
// @Param        skills       formData  string  false  "Comma-separated skills"
// @Param        experience   formData  string  false  "Experience summary"
// @Param        availability formData  string  false  "available or not-available"
// @Param        image        formData  file    false  "Profile image (jpeg/png, max 2MB)"
// @Success      200  {object}  updateProfileResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	input := ports.UpdateProfileInput{
		UserID:       session.UserID,
		Name:         c.FormValue("name"),
		Phone:        c.FormValue("phone"),
		City:         c.FormValue("city"),
		Skills:       c.FormValue("skills"),
		Experience:   c.FormValue("experience"),
		Availability: c.FormValue("availability"),
	}

	if fh, err := c.FormFile("image"); err == nil {
		ref, err := h.uploads.Save(fh)
		if err != nil {
			return err
		}
		input.Image = ref.Path
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), input)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updateProfileResponse{Message: "Profile updated", User: user})
}
