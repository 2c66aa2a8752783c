// Package middleware provides shared request processing: session cookie
// authentication, the admin gate, login-link rate limiting and the public
// catalog response cache.
package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uniseats/lecture-seat-reservation/internal/utils"
)

// Context keys under which SessionAuth stores the verified identity and
// admin flag for downstream handlers.
const (
	IdentityKey = "identity"
	AdminKey    = "is_admin"
)

// SessionAuth returns middleware that validates the session cookie issued
// by the login-link verification and injects the verified identity and
// admin flag into the request context.  Requests without a valid cookie
// are rejected with 401; the client should restart the magic-link flow.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(utils.SessionCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not signed in"})
			}
			email, admin, err := utils.ParseSessionToken(secret, cookie.Value)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session"})
			}
			c.Set(IdentityKey, email)
			c.Set(AdminKey, admin)
			return next(c)
		}
	}
}

// RequireAdmin returns middleware enforcing that the authenticated viewer
// carries the admin flag.  It assumes SessionAuth ran earlier in the
// chain.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if admin, ok := c.Get(AdminKey).(bool); !ok || !admin {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}

// viewerIdentity returns the authenticated identity stored by
// SessionAuth, or "anon" for unauthenticated requests.  Used for rate
// limit keying.
func viewerIdentity(c echo.Context) string {
	if v, ok := c.Get(IdentityKey).(string); ok && v != "" {
		return v
	}
	return "anon"
}
