package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// ctxToken extracts the raw bearer token stored by the Auth middleware.
// Presence proves the middleware ran; a missing token means the route was
// wired without it, which must fail closed.
func ctxToken(c echo.Context) (string, error) {
	token, _ := c.Get("token").(string)
	if token == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return token, nil
}
