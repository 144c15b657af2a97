package settings

import (
	"net/http"

	"github.com/cadenzafm/cadenza/pkg/auth"
	"github.com/cadenzafm/cadenza/pkg/errcodes"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type handler struct {
	settingsService *Service
}

func (h *handler) getPlayerSettings(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.GetUserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	settings, err := h.settingsService.GetPlayerSettings(ctx, user.ID)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, PlayerSettingsResponse{
		Volume:     settings.PlayerVolume,
		RepeatMode: settings.PlayerRepeatMode,
	})
}

func (h *handler) updatePlayerSettings(c echo.Context) error {
	ctx := c.Request().Context()

	user := auth.GetUserFromContext(c)
	if user == nil {
		return errcodes.Unauthorized("Authentication required")
	}

	var payload PlayerSettingsPayload
	if err := c.Bind(&payload); err != nil {
		return errors.WithStack(err)
	}

	if payload.Volume < 0 || payload.Volume > 100 {
		return errcodes.ValidationError("volume must be between 0 and 100")
	}

	if !IsValidRepeatMode(payload.RepeatMode) {
		return errcodes.ValidationError("repeat_mode must be 'off', 'all', or 'one'")
	}

	settings, err := h.settingsService.UpdatePlayerSettings(ctx, user.ID, payload.Volume, payload.RepeatMode)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, PlayerSettingsResponse{
		Volume:     settings.PlayerVolume,
		RepeatMode: settings.PlayerRepeatMode,
	})
}
