package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/labourshub/marketplace/internal/core/domain"
)

type stubSessionStore struct {
	sessions map[string]*domain.Session
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *stubSessionStore) Save(_ context.Context, session *domain.Session, _ time.Duration) error {
	clone := *session
	s.sessions[session.ID] = &clone
	return nil
}

func (s *stubSessionStore) Find(_ context.Context, id string) (*domain.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		clone := *sess
		return &clone, nil
	}
	return nil, domain.ErrUnauthenticated
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	delete(s.sessions, id)
	return nil
}

func signedCookie(t *testing.T, secret, sid string) *http.Cookie {
	t.Helper()
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return &http.Cookie{Name: SessionCookie, Value: token}
}

func newAuthContext(cookie *http.Cookie) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSessionAuth_Success(t *testing.T) {
	sessions := newStubSessionStore()
	_ = sessions.Save(context.Background(), &domain.Session{
		ID:     "sid-1",
		UserID: "user-1",
		Role:   domain.RoleCustomer,
		Name:   "Alice",
	}, time.Hour)

	c, rec := newAuthContext(signedCookie(t, "secret", "sid-1"))

	handler := SessionAuth("secret", sessions)(func(c echo.Context) error {
		if got := c.Get("user_id"); got != "user-1" {
			t.Fatalf("expected user_id in context, got %v", got)
		}
		if got := c.Get("role"); got != domain.RoleCustomer {
			t.Fatalf("expected role in context, got %v", got)
		}
		if got := c.Get("session_id"); got != "sid-1" {
			t.Fatalf("expected session_id in context, got %v", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestSessionAuth_MissingCookie(t *testing.T) {
	c, _ := newAuthContext(nil)

	handler := SessionAuth("secret", newStubSessionStore())(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestSessionAuth_BadSignature(t *testing.T) {
	sessions := newStubSessionStore()
	_ = sessions.Save(context.Background(), &domain.Session{ID: "sid-1", UserID: "user-1"}, time.Hour)

	c, _ := newAuthContext(signedCookie(t, "wrong-secret", "sid-1"))

	handler := SessionAuth("secret", sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestSessionAuth_RevokedSession(t *testing.T) {
	// The token is valid, but the server-side record no longer exists.
	c, _ := newAuthContext(signedCookie(t, "secret", "sid-gone"))

	handler := SessionAuth("secret", newStubSessionStore())(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestSessionAuth_ExpiredToken(t *testing.T) {
	sessions := newStubSessionStore()
	_ = sessions.Save(context.Background(), &domain.Session{ID: "sid-1", UserID: "user-1"}, time.Hour)

	claims := jwt.MapClaims{
		"sid": "sid-1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	c, _ := newAuthContext(&http.Cookie{Name: SessionCookie, Value: token})

	handler := SessionAuth("secret", sessions)(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	herr := handler(c)
	var he *echo.HTTPError
	if !errors.As(herr, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", herr)
	}
}
