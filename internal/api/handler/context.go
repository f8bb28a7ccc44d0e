package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labourshub/marketplace/internal/core/domain"
)

// ctxSession rebuilds the session injected by the SessionAuth middleware and
// fast-fails before any service call when the claims are missing: presence of
// a user id proves the middleware ran.
func ctxSession(c echo.Context) (*domain.Session, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	role, _ := c.Get("role").(string)
	name, _ := c.Get("name").(string)
	sid, _ := c.Get("session_id").(string)

	return &domain.Session{ID: sid, UserID: userID, Role: role, Name: name}, nil
}
