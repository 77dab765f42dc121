package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/brk3/habittracker/pkg/habit"
)

type Granularity string

const (
	Day   Granularity = "day"
	Week  Granularity = "week"
	Month Granularity = "month"
)

func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case Day, Week, Month:
		return g, nil
	default:
		return "", fmt.Errorf("unknown granularity %q", s)
	}
}

// Range is an inclusive span of calendar days.
type Range struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r Range) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(dayNumber(r.End)-dayNumber(r.Start)) + 1
}

// Bucket is one window of a series. Start and End are the window clipped to
// the requested range; Count is the number of completed days inside it.
type Bucket struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

// Buckets splits r into day, week (Monday-start) or month windows and counts
// the completed days in each. Windows at the edges are clipped to r.
func Buckets(completions []habit.Completion, r Range, g Granularity) []Bucket {
	start := habit.StartOfDay(r.Start)
	end := habit.StartOfDay(r.End)
	if end.Before(start) {
		return nil
	}
	days := daySet(completions)

	var out []Bucket
	for cur := start; !cur.After(end); {
		var next time.Time
		var label string
		switch g {
		case Week:
			next = StartOfWeek(cur).AddDate(0, 0, 7)
			label = fmt.Sprintf("Week %d", len(out)+1)
		case Month:
			next = StartOfMonth(cur).AddDate(0, 1, 0)
			label = cur.Format("Jan")
		default:
			next = cur.AddDate(0, 0, 1)
			label = cur.Format("Mon")
		}
		last := next.AddDate(0, 0, -1)
		if last.After(end) {
			last = end
		}

		n := 0
		for d := cur; !d.After(last); d = d.AddDate(0, 0, 1) {
			if _, ok := days[habit.DayKey(d)]; ok {
				n++
			}
		}
		out = append(out, Bucket{Start: cur, End: last, Label: label, Count: n})
		cur = next
	}
	return out
}

// Bucketed is Buckets reduced to its counts.
func Bucketed(completions []habit.Completion, r Range, g Granularity) []int {
	buckets := Buckets(completions, r, g)
	counts := make([]int, len(buckets))
	for i, b := range buckets {
		counts[i] = b.Count
	}
	return counts
}

// CompletionRate is completed/total as a rounded percentage, 0 when total is 0.
func CompletionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// Rate30 is the completion rate over the 31 calendar days from today-30 to
// today inclusive.
func Rate30(h habit.Habit, today time.Time) int {
	end := habit.StartOfDay(today)
	r := Range{Start: end.AddDate(0, 0, -30), End: end}
	completed := 0
	for _, n := range Bucketed(h.Completions, r, Day) {
		completed += n
	}
	return CompletionRate(completed, r.Days())
}

// StartOfWeek returns the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	d := habit.StartOfDay(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func StartOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// CurrentWeekDays lists Monday through Sunday of the week containing today.
func CurrentWeekDays(today time.Time) []time.Time {
	start := StartOfWeek(today)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// DaysMatchingFrequency lists the days in [start, end] that fall on one of a
// weekly frequency's weekdays. Frequencies without days match nothing.
func DaysMatchingFrequency(f habit.Frequency, start, end time.Time) []time.Time {
	if len(f.Days) == 0 {
		return nil
	}
	want := make(map[time.Weekday]bool, len(f.Days))
	for _, d := range f.Days {
		want[time.Weekday(d)] = true
	}
	var out []time.Time
	for d := habit.StartOfDay(start); !d.After(end); d = d.AddDate(0, 0, 1) {
		if want[d.Weekday()] {
			out = append(out, d)
		}
	}
	return out
}

// GroupByPeriod groups completions under YYYY-MM-DD, YYYY-Www (ISO week) or
// YYYY-MM keys.
func GroupByPeriod(completions []habit.Completion, g Granularity) map[string][]habit.Completion {
	grouped := make(map[string][]habit.Completion)
	for _, c := range completions {
		var key string
		switch g {
		case Week:
			y, w := c.Date.ISOWeek()
			key = fmt.Sprintf("%d-W%02d", y, w)
		case Month:
			key = c.Date.Format("2006-01")
		default:
			key = habit.DayKey(c.Date)
		}
		grouped[key] = append(grouped[key], c)
	}
	return grouped
}
