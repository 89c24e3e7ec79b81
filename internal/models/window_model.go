package models

import "time"

// Window is a per-platform daily posting range stored as zero-padded HH:MM strings.
type Window struct {
	ID        int64     `db:"id" json:"-"`
	BrandID   string    `db:"brand_id" json:"-"`
	Platform  Platform  `db:"platform" json:"platform"`
	Start     string    `db:"start_time" json:"start"`
	End       string    `db:"end_time" json:"end"`
	TimeZone  string    `db:"tz" json:"tz"`
	CreatedAt time.Time `db:"created_at" json:"-"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
