package albums

import (
	"net/http"
	"strconv"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	albumService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Album")
	}

	album, err := h.albumService.RetrieveAlbum(ctx, RetrieveAlbumOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, album))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListAlbumsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	albumList, total, err := h.albumService.ListAlbumsWithTotal(ctx, ListAlbumsOptions{
		Limit:    &params.Limit,
		Offset:   &params.Offset,
		ArtistID: params.ArtistID,
		Search:   params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Albums []*models.Album `json:"albums"`
		Total  int             `json:"total"`
	}{albumList, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
