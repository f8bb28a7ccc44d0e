package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
)

type stubContactService struct {
	submitFn func(ctx context.Context, name, email, message string) error
}

func (s *stubContactService) Submit(ctx context.Context, name, email, message string) error {
	return s.submitFn(ctx, name, email, message)
}

func TestContactHandler_Submit(t *testing.T) {
	stub := &stubContactService{
		submitFn: func(_ context.Context, name, email, message string) error {
			if name != "Alice" || email != "alice@example.com" || message != "Hello" {
				t.Fatalf("unexpected args: %s %s %s", name, email, message)
			}
			return nil
		},
	}
	handler := NewContactHandler(stub)

	c, rec := jsonContext(http.MethodPost, "/api/contact", `{"name":"Alice","email":"alice@example.com","message":"Hello"}`)

	if err := handler.Submit(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestContactHandler_Submit_Validation(t *testing.T) {
	stub := &stubContactService{
		submitFn: func(_ context.Context, _, _, _ string) error {
			t.Fatalf("should not be called")
			return nil
		},
	}
	handler := NewContactHandler(stub)

	for _, body := range []string{
		`{"name":"","email":"alice@example.com","message":"Hello"}`,
		`{"name":"Alice","email":"not-an-email","message":"Hello"}`,
		`{"name":"Alice","email":"alice@example.com"}`,
	} {
		c, _ := jsonContext(http.MethodPost, "/api/contact", body)

		err := handler.Submit(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 HTTPError for body %s, got %v", body, err)
		}
	}
}
