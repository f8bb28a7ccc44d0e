package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/ports"
)

// SessionCookie is the name of the http-only cookie carrying the session token.
const SessionCookie = "labourshub_sid"

// ResolveSession authenticates a request from its session cookie: the token
// signature must verify and the server-side session record must still exist.
// A revoked or expired session fails even while the token itself is valid.
func ResolveSession(c echo.Context, jwtSecret string, sessions ports.SessionStore) (*domain.Session, error) {
	cookie, err := c.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, domain.ErrUnauthenticated
	}

	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(cookie.Value, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrUnauthenticated
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return nil, domain.ErrUnauthenticated
	}

	return sessions.Find(c.Request().Context(), sid)
}

// SessionAuth validates the session cookie and injects the session identity
// into context for downstream handlers.
func SessionAuth(jwtSecret string, sessions ports.SessionStore) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := ResolveSession(c, jwtSecret, sessions)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "not logged in")
			}

			c.Set("session_id", session.ID)
			c.Set("user_id", session.UserID)
			c.Set("role", session.Role)
			c.Set("name", session.Name)

			return next(c)
		}
	}
}
