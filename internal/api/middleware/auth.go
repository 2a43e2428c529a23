package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/identity-platform/accounts-api/internal/core/domain"
)

// Authorizer makes the allow or deny decision for a bearer token against a
// required role. Satisfied by the auth engine, which owns the decision
// metrics and the audit trail.
type Authorizer interface {
	Authorize(ctx context.Context, token string, required domain.Role) (*domain.Claims, error)
}

// Auth runs the bearer token through the engine's access check at the base
// role and injects the verified claims into the echo context. Expired,
// forged, and malformed tokens all surface as 401; the reason is not leaked
// to the client.
func Auth(authz Authorizer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := authz.Authorize(c.Request().Context(), parts[1], domain.RoleUser)
			if err != nil {
				// A valid token carrying an unknown role fails the base check.
				if errors.Is(err, domain.ErrForbidden) {
					return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set("username", claims.Subject)
			c.Set("role", string(claims.Role))
			c.Set("token", parts[1])

			return next(c)
		}
	}
}
