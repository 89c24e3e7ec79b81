package scheduler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

var ErrInvalidWindow = errors.New("invalid window")

const (
	DefaultStart = "09:30"
	DefaultEnd   = "11:00"

	jitterMinutes = 7
	nudgeMinutes  = 7
	minutesPerDay = 24 * 60
)

var (
	clockPattern  = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
	offsetPattern = regexp.MustCompile(`^(?:UTC|GMT)?([+-])(\d{1,2})(?::?(\d{2}))?$`)
)

// Window is a posting range resolved to minutes of day in a concrete location.
type Window struct {
	Start    int
	End      int
	Location *time.Location
}

// NewWindow validates HH:MM bounds and a zone name.
func NewWindow(start, end, tz string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	loc, err := LoadZone(tz)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: s, End: e, Location: loc}, nil
}

// DefaultWindow is the built-in 09:30-11:00 range. An unusable zone falls back to UTC.
func DefaultWindow(tz string) Window {
	loc, err := LoadZone(tz)
	if err != nil {
		loc = time.UTC
	}
	s, _ := ParseClock(DefaultStart)
	e, _ := ParseClock(DefaultEnd)
	return Window{Start: s, End: e, Location: loc}
}

// ParseClock converts a zero-padded 24-hour "HH:MM" into minutes of day.
func ParseClock(s string) (int, error) {
	if !clockPattern.MatchString(s) {
		return 0, fmt.Errorf("%w: time of day %q must be HH:MM", ErrInvalidWindow, s)
	}
	hh, _ := strconv.Atoi(s[:2])
	mm, _ := strconv.Atoi(s[3:])
	return hh*60 + mm, nil
}

func FormatClock(minutes int) string {
	minutes = clamp(minutes, 0, minutesPerDay-1)
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// LoadZone resolves an IANA zone name or a fixed-offset label such as
// "+08:00", "UTC+8" or "GMT-05:30". Fixed offsets carry no DST rules.
func LoadZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty time zone", ErrInvalidWindow)
	}
	if name == "Local" {
		return nil, fmt.Errorf("%w: time zone must be explicit", ErrInvalidWindow)
	}
	if loc, err := time.LoadLocation(name); err == nil {
		return loc, nil
	}

	m := offsetPattern.FindStringSubmatch(name)
	if m == nil {
		return nil, fmt.Errorf("%w: unknown time zone %q", ErrInvalidWindow, name)
	}
	hours, _ := strconv.Atoi(m[2])
	mins := 0
	if m[3] != "" {
		mins, _ = strconv.Atoi(m[3])
	}
	if hours > 14 || mins > 59 {
		return nil, fmt.Errorf("%w: offset out of range in %q", ErrInvalidWindow, name)
	}
	offset := hours*3600 + mins*60
	if m[1] == "-" {
		offset = -offset
	}
	return time.FixedZone(name, offset), nil
}

func (w Window) location() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}

// last is the effective end minute; an inverted window collapses to Start.
func (w Window) last() int {
	if w.End < w.Start {
		return w.Start
	}
	return w.End
}

// At returns the instant for the given minute of day on day's calendar date in the window's zone.
func (w Window) At(day time.Time, minute int) time.Time {
	loc := w.location()
	d := day.In(loc)
	t := time.Date(d.Year(), d.Month(), d.Day(), minute/60, minute%60, 0, 0, loc)
	if t.Hour()*60+t.Minute() != minute {
		// minute falls in a spring-forward gap: use the first instant after it
		_, end := t.ZoneBounds()
		return end
	}
	return t
}

// Bounds returns the first and last assignable instants on day's date.
func (w Window) Bounds(day time.Time) (time.Time, time.Time) {
	return w.At(day, w.Start), w.At(day, w.last())
}

func (w Window) String() string {
	return fmt.Sprintf("%s-%s %s", FormatClock(w.Start), FormatClock(w.End), w.location())
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
