package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/comunidades/groups-api/internal/api/middleware"
	"github.com/comunidades/groups-api/internal/core/domain"
)

// ctxIdentity extracts the identity injected by the Auth middleware and
// fails fast before any service call when it is missing.
func ctxIdentity(c echo.Context) (*domain.Identity, error) {
	id := middleware.Identity(c)
	if id == nil || id.UserID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return id, nil
}
