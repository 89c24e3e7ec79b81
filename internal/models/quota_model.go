package models

import "time"

// QuotaState is the persisted daily counter for one scope.
type QuotaState struct {
	PeriodKey string    `db:"period_key" json:"period_key"`
	Used      int       `db:"used" json:"used"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}
