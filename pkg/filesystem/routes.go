package filesystem

import (
	"github.com/cadenzafm/cadenza/pkg/auth"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes exposes directory browsing so admins can pick library
// folders. Browsing the server filesystem is admin-only.
func RegisterRoutes(e *echo.Echo, mw *auth.Middleware) {
	filesystemService := NewService()

	h := &handler{
		filesystemService: filesystemService,
	}

	e.GET("/filesystem/browse", h.browse, mw.Authenticate, mw.RequireAdmin)
}
