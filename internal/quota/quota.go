// Package quota implements a per-day consumable budget with lazy rollover.
//
// Every operation first normalizes the stored state against the current day
// key: a stale key is replaced with a fresh, unused counter for today. There is
// no background reset job.
package quota

import (
	"errors"
	"fmt"
	"time"

	"github.com/shipsocial/shipsocial-api/internal/models"
)

const DefaultDailyLimit = 20

const periodLayout = "2006-01-02"

var ErrInvalidAmount = errors.New("quota amount must be positive")

type Result struct {
	Granted  bool      `json:"granted"`
	Daily    int       `json:"daily"`
	Used     int       `json:"used"`
	Left     int       `json:"left"`
	ResetsAt time.Time `json:"resetsAt"`
	RetryIn  string    `json:"retryIn"`
}

// PeriodKey identifies the calendar day of now in loc.
func PeriodKey(now time.Time, loc *time.Location) string {
	return now.In(loc).Format(periodLayout)
}

// NextReset is the next midnight in loc after now.
func NextReset(now time.Time, loc *time.Location) time.Time {
	d := now.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day()+1, 0, 0, 0, 0, loc)
}

// Normalize rolls st over to key when the stored day differs and keeps Used in [0, limit].
func Normalize(st models.QuotaState, key string, limit int) models.QuotaState {
	if st.PeriodKey != key {
		return models.QuotaState{PeriodKey: key}
	}
	if st.Used < 0 {
		st.Used = 0
	}
	if st.Used > limit {
		st.Used = limit
	}
	return st
}

// FormatETA renders a wait as "3h 5m" or "12m".
func FormatETA(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
