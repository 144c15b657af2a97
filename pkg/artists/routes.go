package artists

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers artist routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB) {
	h := &handler{
		artistService: NewService(db),
	}

	g.GET("", h.list)
	g.GET("/:id", h.retrieve)
}
