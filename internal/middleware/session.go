package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/flowstate-hq/booking-api/internal/utils" // session token validation
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "flowstate_admin_session"

// AdminAuth returns an Echo middleware that gates admin-only routes.
// It reads the session cookie and validates the signed token against
// the server's session secret; a missing, forged or expired token is
// rejected with 401 before the handler runs.  Every /v1/admin route
// except login must sit behind this middleware; the gate is applied
// at route level, never re-checked inline in handlers.
func AdminAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if !utils.ValidateSessionToken(secret, cookie.Value) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}
