package artworks

import (
	"github.com/labstack/echo/v4"
	"github.com/uptrace/bun"
)

// RegisterRoutesWithGroup registers artwork routes on a pre-configured group.
func RegisterRoutesWithGroup(g *echo.Group, db *bun.DB, storage *Storage) {
	h := &handler{
		artworkService: NewService(db),
		storage:        storage,
	}

	g.GET("/:id", h.retrieve)
}
