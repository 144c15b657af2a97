package scanjobs

import (
	"github.com/cadenzafm/cadenza/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers scan job routes on a pre-configured
// group. Only admins may start a scan.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, mw *auth.Middleware) {
	h := &handler{
		scanJobService: NewService(db),
	}

	g.POST("", h.create, mw.RequireAdmin)
	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
}
