package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/uniseats/lecture-seat-reservation/internal/catalog"
	"github.com/uniseats/lecture-seat-reservation/internal/middleware"
	"github.com/uniseats/lecture-seat-reservation/internal/service"
)

// viewerFrom reconstructs the verified viewer stored in the context by the
// session middleware.  Handlers behind SessionAuth can rely on it being
// present; the error path covers misrouted handlers only.
func viewerFrom(c echo.Context) (service.Viewer, error) {
	email, ok := c.Get(middleware.IdentityKey).(string)
	if !ok || email == "" {
		return service.Viewer{}, errors.New("no verified identity in context")
	}
	admin, _ := c.Get(middleware.AdminKey).(bool)
	return service.Viewer{Email: email, Admin: admin}, nil
}

// serviceError maps the reservation service's failure classes onto HTTP
// responses: validation and catalog misses are 404/400, authorization
// denials are 403 and anything else degrades to a generic retry-later
// answer without leaking storage details.
func serviceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, service.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, service.ErrSignupClosed):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "signup opens on the day of the session"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "temporary failure, please retry"})
	}
}
