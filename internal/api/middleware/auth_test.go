package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/comunidades/groups-api/internal/core/domain"
)

type stubResolver struct {
	resolveFn func(ctx context.Context, token string) (*domain.Identity, error)
}

func (s *stubResolver) Resolve(ctx context.Context, token string) (*domain.Identity, error) {
	return s.resolveFn(ctx, token)
}

func rejectAll(t *testing.T) *stubResolver {
	return &stubResolver{resolveFn: func(context.Context, string) (*domain.Identity, error) {
		t.Fatalf("resolver should not be called")
		return nil, nil
	}}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{resolveFn: func(_ context.Context, token string) (*domain.Identity, error) {
		if token != "good-token" {
			t.Fatalf("unexpected token %q", token)
		}
		return &domain.Identity{UserID: "user-1", DisplayName: "Alice"}, nil
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(resolver)(func(c echo.Context) error {
		called = true
		id := Identity(c)
		if id == nil || id.UserID != "user-1" {
			t.Fatalf("identity not set: %+v", id)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(rejectAll(t))(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
	if he.Message != "missing authorization header" {
		t.Fatalf("unexpected message: %v", he.Message)
	}
}

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer   "} {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", header)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		handler := Auth(rejectAll(t))(func(c echo.Context) error {
			t.Fatalf("should not reach next")
			return nil
		})

		if err := handler(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, rec.Code)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	resolver := &stubResolver{resolveFn: func(context.Context, string) (*domain.Identity, error) {
		return nil, domain.ErrUnauthenticated
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(resolver)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthMiddleware_ResolverFailurePassesThrough(t *testing.T) {
	e := echo.New()
	storeErr := errors.New("redis down")
	resolver := &stubResolver{resolveFn: func(context.Context, string) (*domain.Identity, error) {
		return nil, storeErr
	}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	c := e.NewContext(req, httptest.NewRecorder())

	err := Auth(resolver)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})(c)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected resolver error, got %v", err)
	}
}

func TestIdentity_Absent(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if Identity(c) != nil {
		t.Fatal("expected nil identity")
	}
}
