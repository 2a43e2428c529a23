package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/identity-platform/accounts-api/internal/core/domain"
)

// RequireRole enforces a minimum role on a route. The decision itself is
// delegated to the engine, so every allow and deny is counted and audited
// in one place. Any role that outranks the minimum passes; an unknown or
// missing role never does.
func RequireRole(authz Authorizer, min domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, _ := c.Get("token").(string)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
			}

			if _, err := authz.Authorize(c.Request().Context(), token, min); err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					return c.JSON(http.StatusForbidden, map[string]string{"error": "access forbidden"})
				}
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}
			return next(c)
		}
	}
}
