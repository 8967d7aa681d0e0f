package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/primetrade/taskhub/internal/api/middleware"
	"github.com/primetrade/taskhub/internal/core/domain"
)

// ctxIdentity extracts the authenticated user injected by the Auth middleware.
// A nil identity means the middleware did not run for this route; fail closed
// with 401 rather than proceeding unauthenticated.
func ctxIdentity(c echo.Context) (*domain.User, error) {
	user, _ := c.Get(middleware.IdentityKey).(*domain.User)
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
