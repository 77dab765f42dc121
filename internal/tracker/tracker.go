// Package tracker owns the habit collection. Every mutation is written back
// to the storage slot before it becomes visible to readers.
package tracker

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/brk3/habittracker/internal/clock"
	"github.com/brk3/habittracker/internal/export"
	"github.com/brk3/habittracker/internal/logger"
	"github.com/brk3/habittracker/internal/stats"
	"github.com/brk3/habittracker/internal/storage"
	"github.com/brk3/habittracker/pkg/habit"
	"github.com/google/uuid"
)

// StorageKey is the slot key holding the JSON habit array.
const StorageKey = "habits"

type Store struct {
	mu     sync.RWMutex
	slot   storage.Store
	clock  clock.Clock
	loc    *time.Location
	newID  func() string
	habits []habit.Habit
}

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLocation sets the zone "today" is evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// New loads the collection from slot. Malformed stored data is logged and
// replaced by an empty collection; only a failing slot read is an error.
func New(slot storage.Store, opts ...Option) (*Store, error) {
	s := &Store{
		slot:  slot,
		clock: clock.System{},
		loc:   time.Local,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(s)
	}

	data, found, err := slot.Get(StorageKey)
	if err != nil {
		return nil, fmt.Errorf("load habits: %w", err)
	}
	s.habits = []habit.Habit{}
	if found {
		habits, err := Decode(data)
		if err != nil {
			logger.Error("Error parsing stored habits, starting with an empty collection", "error", err)
		} else {
			s.habits = habits
		}
	}
	logger.Debug("Loaded habits", "count", len(s.habits))
	return s, nil
}

// Location is the zone calendar days are evaluated in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Today is the current calendar day in the store's zone.
func (s *Store) Today() time.Time {
	return s.dayOf(s.clock.Now())
}

// dayOf is the start of t's calendar day in the store's zone.
func (s *Store) dayOf(t time.Time) time.Time {
	return habit.StartOfDay(t.In(s.loc))
}

func (s *Store) Create(in habit.NewHabit) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", &ValidationError{Field: "name", Msg: "name is required"}
	}
	category := in.Category
	if category == "" {
		category = habit.CategoryGeneral
	}
	freq := habit.DailyFrequency()
	if in.Frequency != nil {
		freq = in.Frequency.Normalize()
	}
	if err := validate(&category, &freq, in.Reminders); err != nil {
		return "", err
	}

	now := s.clock.Now()
	h := habit.Habit{
		ID:          s.newID(),
		Name:        name,
		Description: in.Description,
		Icon:        in.Icon,
		Category:    category,
		Frequency:   freq,
		Reminders:   s.withReminderIDs(in.Reminders),
		Completions: []habit.Completion{},
		CreatedAt:   now,
		UpdatedAt:   now,
		Color:       in.Color,
	}
	if h.Icon == "" {
		h.Icon = habit.DefaultIcon
	}
	if h.Color == "" {
		h.Color = habit.DefaultColor
	}
	h = h.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := append(slices.Clone(s.habits), h)
	if err := s.commit("create", next); err != nil {
		logger.Error("Failed to store new habit", "name", h.Name, "error", err)
		return "", err
	}
	logger.Info("Habit created", "habit_id", h.ID, "name", h.Name)
	return h.ID, nil
}

// Update applies the non-nil fields of p. Unknown ids are ignored. Streaks
// are not touched; they only change with completions.
func (s *Store) Update(id string, p habit.Patch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return &ValidationError{Field: "name", Msg: "name is required"}
	}
	var reminders []habit.Reminder
	if p.Reminders != nil {
		reminders = *p.Reminders
	}
	var freq *habit.Frequency
	if p.Frequency != nil {
		f := p.Frequency.Normalize()
		freq = &f
	}
	if err := validate(p.Category, freq, reminders); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		logger.Debug("Update of unknown habit ignored", "habit_id", id)
		return nil
	}

	h := s.habits[i].Clone()
	if p.Name != nil {
		h.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		h.Description = *p.Description
	}
	if p.Icon != nil {
		h.Icon = *p.Icon
	}
	if p.Category != nil {
		h.Category = *p.Category
	}
	if p.Color != nil {
		h.Color = *p.Color
	}
	if freq != nil {
		h.Frequency = *freq
	}
	if p.Reminders != nil {
		h.Reminders = s.withReminderIDs(*p.Reminders)
	}
	h.UpdatedAt = s.clock.Now()
	h = h.Clone()

	next := slices.Clone(s.habits)
	next[i] = h
	if err := s.commit("update", next); err != nil {
		logger.Error("Failed to update habit", "habit_id", id, "error", err)
		return err
	}
	logger.Info("Habit updated", "habit_id", id)
	return nil
}

// Delete removes the habit and all of its completions. Unknown ids are
// ignored.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		logger.Debug("Delete of unknown habit ignored", "habit_id", id)
		return nil
	}
	next := slices.Delete(slices.Clone(s.habits), i, i+1)
	if err := s.commit("delete", next); err != nil {
		logger.Error("Failed to delete habit", "habit_id", id, "error", err)
		return err
	}
	logger.Info("Habit deleted", "habit_id", id)
	return nil
}

// ToggleCompletion adds a completion on date's calendar day in the store's
// zone, or removes the one already there. Calling it twice for the same day
// restores the prior state. Unknown ids are ignored.
func (s *Store) ToggleCompletion(id string, date time.Time) error {
	target := s.dayOf(date)

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		logger.Debug("Toggle of unknown habit ignored", "habit_id", id)
		return nil
	}

	now := s.clock.Now()
	h := s.habits[i].Clone()
	j := slices.IndexFunc(h.Completions, func(c habit.Completion) bool {
		return habit.SameDay(c.Date, target)
	})
	completed := j < 0
	if completed {
		h.Completions = append(h.Completions, habit.Completion{
			ID:        s.newID(),
			Date:      target,
			Timestamp: now,
		})
	} else {
		h.Completions = slices.Delete(h.Completions, j, j+1)
	}
	sortCompletions(h.Completions)

	h.Streak = stats.CurrentStreak(h, s.Today())
	h.BestStreak = max(h.BestStreak, h.Streak)
	h.UpdatedAt = now

	next := slices.Clone(s.habits)
	next[i] = h
	if err := s.commit("toggle", next); err != nil {
		logger.Error("Failed to toggle completion", "habit_id", id, "date", habit.DayKey(target), "error", err)
		return err
	}
	logger.Info("Completion toggled", "habit_id", id, "date", habit.DayKey(target),
		"completed", completed, "streak", h.Streak)
	return nil
}

func (s *Store) ToggleToday(id string) error {
	return s.ToggleCompletion(id, s.Today())
}

// IsCompletedOn reports whether habit id has a completion on date's calendar
// day in the store's zone. Unknown ids report false.
func (s *Store) IsCompletedOn(id string, date time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(id)
	if i < 0 {
		return false
	}
	return stats.IsCompletedOn(s.habits[i].Completions, s.dayOf(date))
}

func (s *Store) Get(id string) (habit.Habit, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.index(id)
	if i < 0 {
		return habit.Habit{}, false
	}
	return s.habits[i].Clone(), true
}

// List returns copies of every habit in creation order.
func (s *Store) List() []habit.Habit {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]habit.Habit, len(s.habits))
	for i := range s.habits {
		out[i] = s.habits[i].Clone()
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.habits)
}

func (s *Store) Stats(id string) (habit.Summary, bool) {
	h, ok := s.Get(id)
	if !ok {
		return habit.Summary{}, false
	}
	return stats.Summarize(h, s.Today()), true
}

func (s *Store) Chart(id string, view stats.View) (stats.Series, bool) {
	h, ok := s.Get(id)
	if !ok {
		return stats.Series{}, false
	}
	return stats.Chart(h, view, s.Today()), true
}

func (s *Store) Export(format export.Format) ([]byte, error) {
	return export.Encode(format, s.List(), s.Today())
}

// Reset deletes every habit. It is the only operation that can lower a
// habit's best streak.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit("reset", []habit.Habit{}); err != nil {
		return err
	}
	logger.Warn("All habit data reset")
	return nil
}

// commit persists next and, only once the write succeeded, makes it the
// current collection. Callers hold s.mu.
func (s *Store) commit(op string, next []habit.Habit) error {
	data, err := Encode(next)
	if err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	if err := s.slot.Put(StorageKey, data); err != nil {
		return &PersistenceError{Op: op, Err: err}
	}
	s.habits = next
	return nil
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.habits, func(h habit.Habit) bool { return h.ID == id })
}

func (s *Store) withReminderIDs(in []habit.Reminder) []habit.Reminder {
	out := make([]habit.Reminder, len(in))
	for i, r := range in {
		out[i] = habit.Reminder{ID: r.ID, Time: r.Time, Days: append([]int{}, r.Days...)}
		if out[i].ID == "" {
			out[i].ID = s.newID()
		}
	}
	return out
}

func validate(category *habit.Category, freq *habit.Frequency, reminders []habit.Reminder) error {
	if category != nil && !category.Valid() {
		return &ValidationError{Field: "category", Msg: fmt.Sprintf("unknown category %q", *category)}
	}
	if freq != nil {
		if err := freq.Validate(); err != nil {
			return &ValidationError{Field: "frequency", Msg: err.Error()}
		}
	}
	for _, r := range reminders {
		if err := r.Validate(); err != nil {
			return &ValidationError{Field: "reminders", Msg: err.Error()}
		}
	}
	return nil
}
