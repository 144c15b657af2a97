package songs

import (
	"net/http"
	"strconv"

	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	songService *Service
}

func (h *handler) retrieve(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Song")
	}

	song, err := h.songService.RetrieveSong(ctx, RetrieveSongOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.JSON(http.StatusOK, song))
}

func (h *handler) list(c echo.Context) error {
	ctx := c.Request().Context()

	params := ListSongsQuery{}
	if err := c.Bind(&params); err != nil {
		return errors.WithStack(err)
	}

	songList, total, err := h.songService.ListSongsWithTotal(ctx, ListSongsOptions{
		Limit:   &params.Limit,
		Offset:  &params.Offset,
		AlbumID: params.AlbumID,
		GenreID: params.GenreID,
		Search:  params.Search,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	resp := struct {
		Songs []*models.Song `json:"songs"`
		Total int            `json:"total"`
	}{songList, total}

	return errors.WithStack(c.JSON(http.StatusOK, resp))
}

// stream serves the raw audio file for playback.
func (h *handler) stream(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errcodes.NotFound("Song")
	}

	song, err := h.songService.RetrieveSong(ctx, RetrieveSongOptions{ID: &id})
	if err != nil {
		return errors.WithStack(err)
	}

	return errors.WithStack(c.File(song.Path))
}
