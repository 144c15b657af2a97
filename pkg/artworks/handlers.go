package artworks

import (
	"net/http"
	"strconv"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	artworkService *Service
	storage        *Storage
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Artwork")
	}

	artwork, err := h.artworkService.RetrieveArtwork(ctx, RetrieveArtworkOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	data, err := h.storage.Read(artwork.Checksum)
	if err != nil {
		return errcodes.NotFound("Artwork")
	}

	c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	return errors.WithStack(c.Blob(http.StatusOK, artwork.MimeType, data))
}
