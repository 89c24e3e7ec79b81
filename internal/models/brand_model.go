package models

import "time"

type VoiceCard struct {
	BrandSummary string   `json:"brandSummary" yaml:"brandSummary"`
	Audience     []string `json:"audience" yaml:"audience"`
	Do           []string `json:"do" yaml:"do"`
	Dont         []string `json:"dont" yaml:"dont"`
	Tone         []string `json:"tone" yaml:"tone"`
	Phrases      []string `json:"phrases" yaml:"phrases"`
	Banned       []string `json:"banned" yaml:"banned"`
}

// Bans reports whether the voice card bans the given token.
func (v VoiceCard) Bans(token string) bool {
	for _, b := range v.Banned {
		if b == token {
			return true
		}
	}
	return false
}

type Brand struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Website   string    `db:"website" json:"website"`
	Palette   []string  `db:"palette" json:"palette"`
	VoiceCard VoiceCard `db:"voice_card" json:"voiceCard"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type Pillar struct {
	ID        string    `db:"id" json:"id"`
	BrandID   string    `db:"brand_id" json:"brand_id"`
	Name      string    `db:"name" json:"name"`
	Desc      string    `db:"description" json:"desc"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
