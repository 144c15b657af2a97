package settings

import (
	"context"
	"database/sql"
	"time"

	"github.com/cadenzafm/cadenza/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// GetPlayerSettings retrieves player settings for a user, returning defaults if none exist.
func (svc *Service) GetPlayerSettings(ctx context.Context, userID int) (*models.UserSettings, error) {
	settings := &models.UserSettings{}
	err := svc.db.NewSelect().
		Model(settings).
		Where("user_id = ?", userID).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			defaults := models.DefaultUserSettings()
			defaults.UserID = userID
			return defaults, nil
		}
		return nil, errors.WithStack(err)
	}

	return settings, nil
}

// UpdatePlayerSettings updates player settings for a user, creating if not exists.
func (svc *Service) UpdatePlayerSettings(ctx context.Context, userID int, volume int, repeatMode string) (*models.UserSettings, error) {
	now := time.Now()

	settings := &models.UserSettings{
		CreatedAt:        now,
		UpdatedAt:        now,
		UserID:           userID,
		PlayerVolume:     volume,
		PlayerRepeatMode: repeatMode,
	}

	_, err := svc.db.NewInsert().
		Model(settings).
		On("CONFLICT (user_id) DO UPDATE").
		Set("updated_at = EXCLUDED.updated_at").
		Set("player_volume = EXCLUDED.player_volume").
		Set("player_repeat_mode = EXCLUDED.player_repeat_mode").
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, errors.WithStack(err)
	}

	return settings, nil
}
