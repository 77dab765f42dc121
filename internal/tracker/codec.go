package tracker

import (
	"encoding/json"
	"slices"

	"github.com/brk3/habittracker/pkg/habit"
)

// Encode serializes the collection in the persisted layout.
func Encode(habits []habit.Habit) ([]byte, error) {
	if habits == nil {
		habits = []habit.Habit{}
	}
	return json.Marshal(habits)
}

// Decode parses the persisted layout and restores the model invariants:
// completion dates at day precision, one completion per day, newest first.
func Decode(data []byte) ([]habit.Habit, error) {
	var habits []habit.Habit
	if err := json.Unmarshal(data, &habits); err != nil {
		return nil, err
	}
	if habits == nil {
		habits = []habit.Habit{}
	}
	for i := range habits {
		normalize(&habits[i])
	}
	return habits, nil
}

func normalize(h *habit.Habit) {
	if h.Frequency.Type == "" {
		h.Frequency = habit.DailyFrequency()
	}
	h.Frequency = h.Frequency.Normalize()
	if h.Category == "" {
		h.Category = habit.CategoryGeneral
	}
	if h.Reminders == nil {
		h.Reminders = []habit.Reminder{}
	}
	if h.Completions == nil {
		h.Completions = []habit.Completion{}
	}
	for j := range h.Completions {
		h.Completions[j].Date = habit.StartOfDay(h.Completions[j].Date)
	}
	sortCompletions(h.Completions)
	h.Completions = slices.CompactFunc(h.Completions, func(a, b habit.Completion) bool {
		return habit.SameDay(a.Date, b.Date)
	})
	h.BestStreak = max(h.BestStreak, h.Streak)
}

// sortCompletions orders by date, newest first.
func sortCompletions(cs []habit.Completion) {
	slices.SortStableFunc(cs, func(a, b habit.Completion) int {
		return b.Date.Compare(a.Date)
	})
}
