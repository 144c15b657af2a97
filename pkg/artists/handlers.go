package artists

import (
	"net/http"
	"strconv"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	artistService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Artist")
	}

	artist, err := h.artistService.RetrieveArtist(ctx, RetrieveArtistOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, artist))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListArtistsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	artistList, total, err := h.artistService.ListArtistsWithTotal(ctx, ListArtistsOptions{
		Limit:  &params.Limit,
		Offset: &params.Offset,
		Search: params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Artists []*models.Artist `json:"artists"`
		Total   int              `json:"total"`
	}{artistList, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}
