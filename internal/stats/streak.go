// Package stats derives streaks, completion rates and chart series from a
// habit's completions. Every function is pure: "today" is always passed in.
package stats

import (
	"slices"
	"time"

	"github.com/brk3/habittracker/pkg/habit"
)

// MaxStreakDays bounds the backwards walk in CurrentStreak. Streaks longer
// than this are undercounted.
const MaxStreakDays = 1000

// CurrentStreak counts consecutive completed days ending today, or ending
// yesterday when today is not completed yet. Only daily habits have streaks;
// weekly and custom frequencies always report 0.
func CurrentStreak(h habit.Habit, today time.Time) int {
	if h.Frequency.Type != habit.Daily || len(h.Completions) == 0 {
		return 0
	}
	days := daySet(h.Completions)

	cur := habit.StartOfDay(today)
	passed := 0
	if _, ok := days[habit.DayKey(cur)]; !ok {
		cur = cur.AddDate(0, 0, -1)
		passed = 1
	}

	streak := 0
	for passed <= MaxStreakDays {
		if _, ok := days[habit.DayKey(cur)]; !ok {
			break
		}
		streak++
		cur = cur.AddDate(0, 0, -1)
		passed++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive calendar days found
// anywhere in completions, regardless of frequency or of today.
func LongestStreak(completions []habit.Completion) int {
	if len(completions) == 0 {
		return 0
	}

	// collect unique day numbers, then sort and reverse
	uniq := make(map[int64]struct{}, len(completions))
	for i := range completions {
		uniq[dayNumber(completions[i].Date)] = struct{}{}
	}
	days := make([]int64, 0, len(uniq))
	for d := range uniq {
		days = append(days, d)
	}
	slices.Sort(days)
	slices.Reverse(days)

	longest, run := 1, 1
	for i := 0; i < len(days)-1; i++ {
		if days[i]-days[i+1] == 1 {
			run++
			longest = max(longest, run)
		} else {
			run = 1
		}
	}
	return longest
}

// IsCompletedOn reports whether any completion falls on day's calendar date.
func IsCompletedOn(completions []habit.Completion, day time.Time) bool {
	for i := range completions {
		if habit.SameDay(completions[i].Date, day) {
			return true
		}
	}
	return false
}

func daySet(completions []habit.Completion) map[string]struct{} {
	set := make(map[string]struct{}, len(completions))
	for i := range completions {
		set[habit.DayKey(completions[i].Date)] = struct{}{}
	}
	return set
}

// dayNumber maps a calendar date to a day count since the Unix epoch, so
// consecutive dates differ by exactly one whatever the zone or DST.
func dayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	const daySec = 24 * 60 * 60
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / daySec
}
