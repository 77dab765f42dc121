package habit

import (
	"fmt"
	"regexp"
	"time"
)

// StartOfDay drops the time of day, keeping t's location. Two instants are
// on the same calendar day when their StartOfDay values are Equal.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey formats the calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// SameDay reports whether a and b fall on the same calendar day, each read
// in its own location.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseDay parses YYYY-MM-DD as midnight in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(time.DateOnly, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad date %q: want YYYY-MM-DD", s)
	}
	return t, nil
}

var reminderTime = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

func (r Reminder) Validate() error {
	if !reminderTime.MatchString(r.Time) {
		return fmt.Errorf("bad reminder time %q: want HH:MM", r.Time)
	}
	for _, d := range r.Days {
		if d < 0 || d > 6 {
			return fmt.Errorf("reminder weekday %d out of range 0-6", d)
		}
	}
	return nil
}

// On reports whether the reminder fires on weekday wd. A reminder with no
// days fires every day.
func (r Reminder) On(wd time.Weekday) bool {
	if len(r.Days) == 0 {
		return true
	}
	for _, d := range r.Days {
		if time.Weekday(d) == wd {
			return true
		}
	}
	return false
}
