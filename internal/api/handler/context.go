package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/worktrack/worktrack-api/internal/api/middleware"
	"github.com/worktrack/worktrack-api/internal/core/auth"
)

// authContext extracts the request-scoped auth.Context injected by the
// Authenticate middleware. A request that never passed through the middleware
// is treated as anonymous; per-operation policy then rejects it if the
// operation requires a principal.
func authContext(c echo.Context) *auth.Context {
	if actx, ok := c.Get(middleware.AuthContextKey).(*auth.Context); ok {
		return actx
	}
	return auth.Anonymous()
}
