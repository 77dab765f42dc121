package habit

import (
	"slices"
	"time"
)

type Category string

const (
	CategoryGeneral      Category = "General"
	CategoryHealth       Category = "Health"
	CategoryFitness      Category = "Fitness"
	CategoryProductivity Category = "Productivity"
	CategoryLearning     Category = "Learning"
	CategoryMindfulness  Category = "Mindfulness"
	CategoryFinance      Category = "Finance"
	CategorySocial       Category = "Social"
	CategoryCreativity   Category = "Creativity"
	CategoryPersonalDev  Category = "Personal Development"
	CategoryHome         Category = "Home"
	CategoryWork         Category = "Work"
	CategoryOther        Category = "Other"
)

var Categories = []Category{
	CategoryGeneral,
	CategoryHealth,
	CategoryFitness,
	CategoryProductivity,
	CategoryLearning,
	CategoryMindfulness,
	CategoryFinance,
	CategorySocial,
	CategoryCreativity,
	CategoryPersonalDev,
	CategoryHome,
	CategoryWork,
	CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

const (
	DefaultIcon  = "check_circle"
	DefaultColor = "#6200ee"
)

type Habit struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Icon        string       `json:"icon"`
	Category    Category     `json:"category"`
	Frequency   Frequency    `json:"frequency"`
	Reminders   []Reminder   `json:"reminders"`
	Completions []Completion `json:"completions"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Streak      int          `json:"streak"`
	BestStreak  int          `json:"bestStreak"`
	Color       string       `json:"color"`
}

// Completion records that a habit was done on Date. Date is always midnight
// of the calendar day; Timestamp is when the toggle happened.
type Completion struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Timestamp time.Time `json:"timestamp"`
}

type Reminder struct {
	ID   string `json:"id"`
	Time string `json:"time"`
	Days []int  `json:"days"`
}

// NewHabit is the caller-supplied input to create a habit. Zero values pick
// the defaults.
type NewHabit struct {
	Name        string
	Description string
	Icon        string
	Category    Category
	Color       string
	Frequency   *Frequency
	Reminders   []Reminder
}

// Patch lists the fields that may change after creation. Nil fields are left
// untouched.
type Patch struct {
	Name        *string
	Description *string
	Icon        *string
	Category    *Category
	Color       *string
	Frequency   *Frequency
	Reminders   *[]Reminder
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.Icon == nil &&
		p.Category == nil && p.Color == nil && p.Frequency == nil && p.Reminders == nil
}

// Clone returns a deep copy so callers can't reach into store-owned slices.
func (h Habit) Clone() Habit {
	out := h
	out.Frequency = h.Frequency.clone()
	if h.Reminders != nil {
		out.Reminders = make([]Reminder, len(h.Reminders))
		for i, r := range h.Reminders {
			out.Reminders[i] = Reminder{ID: r.ID, Time: r.Time, Days: slices.Clone(r.Days)}
		}
	}
	out.Completions = slices.Clone(h.Completions)
	return out
}

type Summary struct {
	HabitID          string     `json:"habitId"`
	Name             string     `json:"name"`
	TotalCompletions int        `json:"totalCompletions"`
	CurrentStreak    int        `json:"currentStreak"`
	BestStreak       int        `json:"bestStreak"`
	LongestRun       int        `json:"longestRun"`
	CompletionRate   int        `json:"completionRate"`
	ThisMonth        int        `json:"thisMonth"`
	BestMonth        int        `json:"bestMonth"`
	FirstCompleted   *time.Time `json:"firstCompleted,omitempty"`
	LastCompleted    *time.Time `json:"lastCompleted,omitempty"`
}
