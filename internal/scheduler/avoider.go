package scheduler

import "time"

// Avoid returns proposed unchanged unless an existing timestamp falls on the
// same minute, in which case it moves 7 minutes later, capped at the window's end.
func Avoid(proposed time.Time, existing []time.Time, w Window) time.Time {
	if !collides(proposed, existing) {
		return proposed
	}
	_, end := w.Bounds(proposed)
	next := proposed.Add(nudgeMinutes * time.Minute)
	if next.After(end) {
		return end
	}
	return next
}

func collides(t time.Time, existing []time.Time) bool {
	minute := t.Truncate(time.Minute)
	for _, e := range existing {
		if e.Truncate(time.Minute).Equal(minute) {
			return true
		}
	}
	return false
}
