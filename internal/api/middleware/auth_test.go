package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identity-platform/accounts-api/internal/core/auth"
	"github.com/identity-platform/accounts-api/internal/core/domain"
	"github.com/identity-platform/accounts-api/internal/core/service"
)

// testAuthorizer builds a real engine around a token service. Authorize
// touches no storage, so the engine needs no repositories here.
func testAuthorizer(secret string) Authorizer {
	return service.NewAuthEngine(nil, nil, auth.NewTokenService(secret), nil, nil, time.Hour, zerolog.Nop())
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	signed, err := auth.NewTokenService("secret").Issue("alice", domain.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(testAuthorizer("secret"))
	handler := mw(func(c echo.Context) error {
		called = true
		if c.Get("username") != "alice" {
			t.Fatalf("username not set")
		}
		if c.Get("role") != "admin" {
			t.Fatalf("role not set")
		}
		if c.Get("token") != signed {
			t.Fatalf("raw token not set")
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

	mw := Auth(testAuthorizer("secret"))
	handler := mw(func(c echo.Context) error {
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

func TestAuthMiddleware_InvalidHeaderFormat(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(testAuthorizer("secret"))
	handler := mw(func(c echo.Context) error {
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

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	e := echo.New()
	signed, err := auth.NewTokenService("secret").Issue("alice", domain.RoleUser, -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(testAuthorizer("secret"))
	handler := mw(func(c echo.Context) error {
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

func TestAuthMiddleware_ForeignToken(t *testing.T) {
	e := echo.New()
	signed, err := auth.NewTokenService("other-secret").Issue("alice", domain.RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(testAuthorizer("secret"))
	handler := mw(func(c echo.Context) error {
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

func TestAuthMiddleware_UnknownRoleToken(t *testing.T) {
	e := echo.New()
	signed, err := auth.NewTokenService("secret").Issue("mallory", domain.Role("ghost"), time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(testAuthorizer("secret"))
	handler := mw(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

// Guards against the transport re-implementing the access check: the
// middleware must delegate to the engine's Authorize.
func TestAuthMiddleware_DelegatesToAuthorizer(t *testing.T) {
	e := echo.New()
	signed, err := auth.NewTokenService("secret").Issue("alice", domain.RoleUser, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := &recordingAuthorizer{claims: &domain.Claims{Subject: "alice", Role: domain.RoleUser}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	c := e.NewContext(req, httptest.NewRecorder())

	mw := Auth(rec)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.calls != 1 {
		t.Fatalf("expected exactly one Authorize call, got %d", rec.calls)
	}
	if rec.gotToken != signed || rec.gotRequired != domain.RoleUser {
		t.Fatalf("unexpected Authorize args: token=%q required=%q", rec.gotToken, rec.gotRequired)
	}
}

type recordingAuthorizer struct {
	claims      *domain.Claims
	err         error
	calls       int
	gotToken    string
	gotRequired domain.Role
}

func (r *recordingAuthorizer) Authorize(_ context.Context, token string, required domain.Role) (*domain.Claims, error) {
	r.calls++
	r.gotToken = token
	r.gotRequired = required
	return r.claims, r.err
}
