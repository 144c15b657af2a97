package users

import (
	"github.com/cadenzafm/cadenza/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutes registers all user routes. Management endpoints require
// admin; password reset is available to the user themselves.
func RegisterRoutes(e *echo.Echo, db *bun.DB, mw *auth.Middleware) {
	h := &handler{
		userService: NewService(db),
	}

	g := e.Group("/users", mw.Authenticate)
	g.GET("", h.list, mw.RequireAdmin)
	g.POST("", h.create, mw.RequireAdmin)
	g.GET("/:id", h.retrieve, mw.RequireAdmin)
	g.PATCH("/:id", h.update, mw.RequireAdmin)
	g.POST("/:id/reset-password", h.resetPassword)
	g.DELETE("/:id", h.deactivate, mw.RequireAdmin)
}
