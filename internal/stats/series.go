package stats

import (
	"fmt"
	"time"

	"github.com/brk3/habittracker/pkg/habit"
)

type View string

const (
	ViewWeek    View = "week"
	ViewMonth   View = "month"
	ViewQuarter View = "quarter"
)

func ParseView(s string) (View, error) {
	switch v := View(s); v {
	case ViewWeek, ViewMonth, ViewQuarter:
		return v, nil
	case "3months":
		return ViewQuarter, nil
	default:
		return "", fmt.Errorf("unknown chart range %q: want week, month or quarter", s)
	}
}

// Series is a labelled chart series over one of the three standard views.
type Series struct {
	View    View     `json:"view"`
	Range   Range    `json:"range"`
	Buckets []Bucket `json:"buckets"`
}

func (s Series) Counts() []int {
	out := make([]int, len(s.Buckets))
	for i, b := range s.Buckets {
		out[i] = b.Count
	}
	return out
}

func (s Series) Labels() []string {
	out := make([]string, len(s.Buckets))
	for i, b := range s.Buckets {
		out[i] = b.Label
	}
	return out
}

// Chart builds the series for view: this week per day (0/1), this month
// per Monday-start week, or the last three months per month.
func Chart(h habit.Habit, view View, today time.Time) Series {
	var r Range
	var g Granularity
	switch view {
	case ViewMonth:
		r = Range{Start: StartOfMonth(today), End: EndOfMonth(today)}
		g = Week
	case ViewQuarter:
		r = Range{Start: StartOfMonth(today).AddDate(0, -2, 0), End: EndOfMonth(today)}
		g = Month
	default:
		view = ViewWeek
		start := StartOfWeek(today)
		r = Range{Start: start, End: start.AddDate(0, 0, 6)}
		g = Day
	}
	return Series{View: view, Range: r, Buckets: Buckets(h.Completions, r, g)}
}

// Live returns h with Streak evaluated as of today. The cached field is only
// rewritten when completions change, so it goes stale as idle days pass.
func Live(h habit.Habit, today time.Time) habit.Habit {
	h.Streak = CurrentStreak(h, today)
	h.BestStreak = max(h.BestStreak, h.Streak)
	return h
}

// Summarize collects the headline numbers shown for a habit. The current
// streak is evaluated as of today rather than read from the cached field.
func Summarize(h habit.Habit, today time.Time) habit.Summary {
	s := habit.Summary{
		HabitID:          h.ID,
		Name:             h.Name,
		TotalCompletions: len(h.Completions),
		CurrentStreak:    CurrentStreak(h, today),
		LongestRun:       LongestStreak(h.Completions),
		CompletionRate:   Rate30(h, today),
	}
	s.BestStreak = max(h.BestStreak, s.CurrentStreak)

	thisMonth := today.Format("2006-01")
	for key, cs := range GroupByPeriod(h.Completions, Month) {
		n := len(daySet(cs))
		s.BestMonth = max(s.BestMonth, n)
		if key == thisMonth {
			s.ThisMonth = n
		}
	}

	for i := range h.Completions {
		d := h.Completions[i].Date
		if s.FirstCompleted == nil || d.Before(*s.FirstCompleted) {
			s.FirstCompleted = &d
		}
		if s.LastCompleted == nil || d.After(*s.LastCompleted) {
			s.LastCompleted = &d
		}
	}
	return s
}
