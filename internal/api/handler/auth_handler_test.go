package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/labourshub/marketplace/internal/api/middleware"
	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/ports"
	"github.com/labourshub/marketplace/internal/infrastructure/upload"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, role, email, password string) (string, *domain.Session, error)
	logoutFn   func(ctx context.Context, sessionID string) error
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, role, email, password string) (string, *domain.Session, error) {
	return s.loginFn(ctx, role, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, sessionID string) error {
	if s.logoutFn != nil {
		return s.logoutFn(ctx, sessionID)
	}
	return nil
}

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

func newTestAuthHandler(t *testing.T, svc ports.AuthService, sessions ports.SessionStore) *AuthHandler {
	t.Helper()
	uploads, err := upload.NewStore(t.TempDir(), 2<<20)
	if err != nil {
		t.Fatalf("upload store: %v", err)
	}
	return NewAuthHandler(svc, sessions, uploads, "secret", time.Hour)
}

func formContext(method, path string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func validRegisterForm() url.Values {
	return url.Values{
		"name":     {"Alice"},
		"email":    {"alice@example.com"},
		"phone":    {"9876543210"},
		"city":     {"Mumbai"},
		"password": {"secret1"},
		"role":     {domain.RoleCustomer},
		"identity": {"aadhaar-1234"},
	}
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, input ports.RegisterInput) (*domain.User, error) {
			if input.Name != "Alice" || input.Role != domain.RoleCustomer || input.Phone != "9876543210" {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.User{ID: "user-1", Name: input.Name, Role: input.Role}, nil
		},
	}
	handler := newTestAuthHandler(t, stub, newStubSessionStore())

	c, rec := formContext(http.MethodPost, "/register", validRegisterForm())
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login.html" {
		t.Fatalf("expected redirect to /login.html, got %q", loc)
	}
}

func TestAuthHandler_Register_InvalidPhone(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := newTestAuthHandler(t, stub, newStubSessionStore())

	form := validRegisterForm()
	form.Set("phone", "12345")
	c, _ := formContext(http.MethodPost, "/register", form)

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _ ports.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := newTestAuthHandler(t, stub, newStubSessionStore())

	c, _ := formContext(http.MethodPost, "/register", validRegisterForm())

	// Sentinel errors pass through to the central HTTP error handler.
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_CustomerRedirect(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, role, email, password string) (string, *domain.Session, error) {
			if role != domain.RoleCustomer || email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s %s", role, email, password)
			}
			return "token123", &domain.Session{ID: "sid-1", UserID: "user-1", Role: role, Name: "Alice"}, nil
		},
	}
	handler := newTestAuthHandler(t, stub, newStubSessionStore())

	form := url.Values{
		"role":     {domain.RoleCustomer},
		"email":    {"alice@example.com"},
		"password": {"secret1"},
	}
	c, rec := formContext(http.MethodPost, "/login", form)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/dashboard.html" {
		t.Fatalf("expected customer dashboard redirect, got %q", loc)
	}

	res := rec.Result()
	var sessionCookie *http.Cookie
	for _, ck := range res.Cookies() {
		if ck.Name == middleware.SessionCookie {
			sessionCookie = ck
		}
	}
	if sessionCookie == nil {
		t.Fatalf("expected session cookie to be set")
	}
	if sessionCookie.Value != "token123" || !sessionCookie.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", sessionCookie)
	}
}

func TestAuthHandler_Login_LabourRedirect(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, role, email, password string) (string, *domain.Session, error) {
			return "token456", &domain.Session{ID: "sid-2", UserID: "user-2", Role: domain.RoleLabour, Name: "Ravi"}, nil
		},
	}
	handler := newTestAuthHandler(t, stub, newStubSessionStore())

	form := url.Values{
		"role":     {domain.RoleLabour},
		"email":    {"ravi@example.com"},
		"password": {"secret1"},
	}
	c, rec := formContext(http.MethodPost, "/login", form)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/dashboards.html" {
		t.Fatalf("expected labour dashboard redirect, got %q", loc)
	}
}

func TestAuthHandler_Login_FailureRedirectsGenerically(t *testing.T) {
	// Role mismatch and wrong password must be indistinguishable to the client.
	for _, sentinel := range []error{domain.ErrRoleMismatch, domain.ErrInvalidCredentials, domain.ErrUserNotFound} {
		stub := &stubAuthService{
			loginFn: func(_ context.Context, role, email, password string) (string, *domain.Session, error) {
				return "", nil, sentinel
			},
		}
		handler := newTestAuthHandler(t, stub, newStubSessionStore())

		form := url.Values{
			"role":     {domain.RoleCustomer},
			"email":    {"alice@example.com"},
			"password": {"whatever"},
		}
		c, rec := formContext(http.MethodPost, "/login", form)

		if err := handler.Login(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		if rec.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", rec.Code)
		}
		if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login.html?err=Login failed" {
			t.Fatalf("expected generic failure redirect, got %q", loc)
		}
		if len(rec.Result().Cookies()) != 0 {
			t.Fatalf("no cookie may be set on failed login")
		}
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	revoked := ""
	stub := &stubAuthService{
		logoutFn: func(_ context.Context, sessionID string) error {
			revoked = sessionID
			return nil
		},
		registerFn: nil,
		loginFn:    nil,
	}
	handler := newTestAuthHandler(t, stub, newStubSessionStore())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("session_id", "sid-1")
	c.Set("user_id", "user-1")
	c.Set("role", domain.RoleCustomer)
	c.Set("name", "Alice")

	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if revoked != "sid-1" {
		t.Fatalf("expected session sid-1 to be revoked, got %q", revoked)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/login.html" {
		t.Fatalf("expected redirect to /login.html, got %q", loc)
	}

	var cleared *http.Cookie
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == middleware.SessionCookie {
			cleared = ck
		}
	}
	if cleared == nil || cleared.MaxAge != -1 {
		t.Fatalf("expected cookie to be cleared, got %+v", cleared)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	sessions := newStubSessionStore()
	_ = sessions.Save(context.Background(), &domain.Session{
		ID:     "sid-1",
		UserID: "user-1",
		Role:   domain.RoleCustomer,
		Name:   "Alice",
	}, time.Hour)

	handler := newTestAuthHandler(t, &stubAuthService{}, sessions)

	claims := jwt.MapClaims{"sid": "sid-1", "exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["loggedIn"] != true {
		t.Fatalf("expected loggedIn true, got %v", resp["loggedIn"])
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["id"] != "user-1" || user["role"] != domain.RoleCustomer {
		t.Fatalf("unexpected user payload: %+v", resp["user"])
	}
}

func TestAuthHandler_Me_NotLoggedIn(t *testing.T) {
	handler := newTestAuthHandler(t, &stubAuthService{}, newStubSessionStore())

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["loggedIn"] != false {
		t.Fatalf("expected loggedIn false, got %v", resp["loggedIn"])
	}
}
