package settings

import "github.com/cadenzafm/cadenza/pkg/models"

// PlayerSettingsPayload is the request body for updating player settings.
type PlayerSettingsPayload struct {
	Volume     int    `json:"volume"`
	RepeatMode string `json:"repeat_mode"`
}

// PlayerSettingsResponse is the response for player settings.
type PlayerSettingsResponse struct {
	Volume     int    `json:"volume"`
	RepeatMode string `json:"repeat_mode"`
}

// ValidRepeatModes returns all valid repeat mode values.
func ValidRepeatModes() []string {
	return []string{models.RepeatModeOff, models.RepeatModeAll, models.RepeatModeOne}
}

// IsValidRepeatMode returns true if the repeat mode is valid.
func IsValidRepeatMode(mode string) bool {
	for _, valid := range ValidRepeatModes() {
		if mode == valid {
			return true
		}
	}
	return false
}
