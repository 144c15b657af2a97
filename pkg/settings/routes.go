package settings

import (
	"github.com/cadenzafm/cadenza/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

func RegisterRoutes(e *echo.Echo, db *bun.DB, authMiddleware *auth.Middleware) {
	h := &handler{
		settingsService: NewService(db),
	}

	g := e.Group("/settings")
	g.Use(authMiddleware.Authenticate)

	g.GET("/player", h.getPlayerSettings)
	g.PUT("/player", h.updatePlayerSettings)
}
