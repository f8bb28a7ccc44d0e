package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/labourshub/marketplace/internal/api/metrics"
	"github.com/labourshub/marketplace/internal/api/middleware"
	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/ports"
	"github.com/labourshub/marketplace/internal/infrastructure/upload"
)

// AuthHandler handles registration, login and session endpoints.
type AuthHandler struct {
	authService ports.AuthService
	sessions    ports.SessionStore
	uploads     *upload.Store
	jwtSecret   string
	sessionTTL  time.Duration
}

func NewAuthHandler(authService ports.AuthService, sessions ports.SessionStore, uploads *upload.Store, jwtSecret string, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		uploads:     uploads,
		jwtSecret:   jwtSecret,
		sessionTTL:  sessionTTL,
	}
}

type registerRequest struct {
	Name     string `form:"name" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Phone    string `form:"phone" validate:"required,mobile"`
	City     string `form:"city" validate:"required"`
	Password string `form:"password" validate:"required,min=6"`
	Role     string `form:"role" validate:"required,oneof=customer labour"`
	Identity string `form:"identity" validate:"required"`
}

type loginRequest struct {
	Role     string `form:"role"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

// Register creates a new account from the registration form.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       mpfd
// @Param        name       formData  string  true   "Full name"
// @Param        email      formData  string  true   "Email address"
// @Param        phone      formData  string  true   "10-digit mobile number"
// @Param        city       formData  string  true   "City"
// @Param        password   formData  string  true   "Password"
// @Param        role       formData  string  true   "customer or labour"
// @Param        identity   formData  string  true   "Identity number"
// @Param        validProof formData  file    false  "Identity proof (jpeg/png/pdf, max 2MB)"
// @Success      303
// @Failure      400  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var proof *domain.FileRef
	if fh, err := c.FormFile("validProof"); err == nil {
		proof, err = h.uploads.Save(fh)
		if err != nil {
			return err
		}
	}

	_, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		City:       req.City,
		Password:   req.Password,
		Role:       req.Role,
		Identity:   req.Identity,
		ValidProof: proof,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusBadRequest, "missing or invalid fields")
		}
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/login.html")
}

// Login authenticates the form submission and issues the session cookie.
// All failures redirect with the same generic error so the response never
// reveals whether the email, password or role was wrong.
//
// @Summary      Login
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Param        role      formData  string  true  "customer or labour"
// @Param        email     formData  string  true  "Email address"
// @Param        password  formData  string  true  "Password"
// @Success      303
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/login.html?err=Login failed")
	}

	token, session, err := h.authService.Login(c.Request().Context(), req.Role, req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return c.Redirect(http.StatusSeeOther, "/login.html?err=Login failed")
	}
	metrics.LoginsTotal.WithLabelValues("ok").Inc()

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	target := "/dashboard.html"
	if session.Role == domain.RoleLabour {
		target = "/dashboards.html"
	}
	return c.Redirect(http.StatusSeeOther, target)
}

// Logout revokes the session and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Success      303
// @Router       /logout [get]
func (h *AuthHandler) Logout(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.Request().Context(), session.ID); err != nil {
		return err
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/login.html")
}

type meResponse struct {
	LoggedIn bool            `json:"loggedIn"`
	User     *domain.Session `json:"user,omitempty"`
}

// Me reports the current login state. Unlike the protected routes it answers
// 401 with {"loggedIn": false} instead of the error envelope, because the
// frontend polls it to decide which navbar to render.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  meResponse
// @Router       /api/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	session, err := middleware.ResolveSession(c, h.jwtSecret, h.sessions)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, meResponse{LoggedIn: false})
	}
	return c.JSON(http.StatusOK, meResponse{LoggedIn: true, User: session})
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrRoleMismatch):
		return "role_mismatch"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	default:
		return "bad_credentials"
	}
}
