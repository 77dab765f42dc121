package server

import (
	"github.com/brk3/habittracker/pkg/habit"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type HabitListResponse struct {
	Habits []habit.Habit `json:"habits"`
}

type CreateHabitRequest struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Icon        string           `json:"icon"`
	Category    habit.Category   `json:"category"`
	Color       string           `json:"color"`
	Frequency   *habit.Frequency `json:"frequency,omitempty"`
	Reminders   []habit.Reminder `json:"reminders,omitempty"`
}

func (r CreateHabitRequest) toNewHabit() habit.NewHabit {
	return habit.NewHabit{
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		Category:    r.Category,
		Color:       r.Color,
		Frequency:   r.Frequency,
		Reminders:   r.Reminders,
	}
}

// UpdateHabitRequest carries only the fields to change.
type UpdateHabitRequest struct {
	Name        *string           `json:"name,omitempty"`
	Description *string           `json:"description,omitempty"`
	Icon        *string           `json:"icon,omitempty"`
	Category    *habit.Category   `json:"category,omitempty"`
	Color       *string           `json:"color,omitempty"`
	Frequency   *habit.Frequency  `json:"frequency,omitempty"`
	Reminders   *[]habit.Reminder `json:"reminders,omitempty"`
}

func (r UpdateHabitRequest) toPatch() habit.Patch {
	return habit.Patch{
		Name:        r.Name,
		Description: r.Description,
		Icon:        r.Icon,
		Category:    r.Category,
		Color:       r.Color,
		Frequency:   r.Frequency,
		Reminders:   r.Reminders,
	}
}

// ToggleRequest names the day to toggle as YYYY-MM-DD. Empty means today.
type ToggleRequest struct {
	Date string `json:"date,omitempty"`
}

type CompletionResponse struct {
	HabitID    string `json:"habitId"`
	Date       string `json:"date"`
	Completed  bool   `json:"completed"`
	Streak     int    `json:"streak"`
	BestStreak int    `json:"bestStreak"`
}
