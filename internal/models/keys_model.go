package models

import "time"

type ApiKey struct {
	ID        int64     `db:"id" json:"id"`
	BrandID   string    `db:"brand_id" json:"brand_id"`
	ApiKey    string    `db:"api_key" json:"api_key"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
