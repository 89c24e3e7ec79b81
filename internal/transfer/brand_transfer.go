package transfer

import "github.com/shipsocial/shipsocial-api/internal/models"

// Onboard carries the brand profile. Empty fields take the seed defaults.
type Onboard struct {
	Name      string            `json:"name" validate:"omitempty,max=120"`
	Website   string            `json:"website" validate:"omitempty,url"`
	Palette   []string          `json:"palette" validate:"omitempty,max=8,dive,hexcolor"`
	VoiceCard *models.VoiceCard `json:"voiceCard"`
	Pillars   []string          `json:"pillars" validate:"omitempty,max=10,dive,required,max=60"`
	TimeZone  string            `json:"tz" validate:"omitempty,tz"`
}

type PillarCreation struct {
	Name string `json:"name" validate:"required,max=60"`
	Desc string `json:"desc" validate:"max=280"`
}
