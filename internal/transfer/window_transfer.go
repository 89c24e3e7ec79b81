package transfer

import "github.com/shipsocial/shipsocial-api/internal/models"

type WindowRange struct {
	Start string `json:"start" validate:"required,hhmm"`
	End   string `json:"end" validate:"required,hhmm"`
}

// WindowsUpdate replaces the ranges of the listed platforms. Platforms that
// are absent keep their current window.
type WindowsUpdate struct {
	TimeZone string                          `json:"tz" validate:"required,tz"`
	Windows  map[models.Platform]WindowRange `json:"windows" validate:"required,min=1,dive,keys,platform,endkeys,required"`
}

type WindowsView struct {
	TimeZone string                             `json:"tz"`
	Windows  map[models.Platform]*models.Window `json:"windows"`
}
