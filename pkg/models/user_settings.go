package models

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	RepeatModeOff = "off"
	RepeatModeAll = "all"
	RepeatModeOne = "one"
)

type UserSettings struct {
	bun.BaseModel `bun:"table:user_settings,alias:us"`

	ID               int       `bun:",pk,nullzero" json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	UserID           int       `bun:",nullzero" json:"user_id"`
	PlayerVolume     int       `json:"player_volume"`
	PlayerRepeatMode string    `bun:",nullzero" json:"player_repeat_mode"`
}

// DefaultUserSettings returns the settings used before a user saves any.
func DefaultUserSettings() *UserSettings {
	return &UserSettings{
		PlayerVolume:     100,
		PlayerRepeatMode: RepeatModeOff,
	}
}
