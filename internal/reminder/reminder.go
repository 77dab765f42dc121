// Package reminder fires habit reminders whose HH:MM time and weekday match
// the current minute. It only ever reads habits.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brk3/habittracker/internal/clock"
	"github.com/brk3/habittracker/internal/logger"
	"github.com/brk3/habittracker/pkg/habit"
)

const DefaultInterval = time.Minute

type Notification struct {
	HabitID    string    `json:"habitId"`
	HabitName  string    `json:"habitName"`
	ReminderID string    `json:"reminderId"`
	Time       string    `json:"time"`
	At         time.Time `json:"at"`
}

func (n Notification) key() string {
	return n.HabitID + "/" + n.ReminderID + "@" + n.At.Format("2006-01-02T15:04")
}

// Source lists the habits to check.
type Source interface {
	ListHabits(ctx context.Context) ([]habit.Habit, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) ([]habit.Habit, error)

func (f SourceFunc) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	return f(ctx)
}

type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Due returns a notification for every reminder set for now's HH:MM on
// now's weekday.
func Due(habits []habit.Habit, now time.Time) []Notification {
	hhmm := now.Format("15:04")
	var out []Notification
	for _, h := range habits {
		for _, r := range h.Reminders {
			if r.Time != hhmm || !r.On(now.Weekday()) {
				continue
			}
			out = append(out, Notification{
				HabitID:    h.ID,
				HabitName:  h.Name,
				ReminderID: r.ID,
				Time:       r.Time,
				At:         now.Truncate(time.Minute),
			})
		}
	}
	return out
}

type Poller struct {
	Source   Source
	Notifier Notifier
	Clock    clock.Clock
	Interval time.Duration

	mu    sync.Mutex
	fired map[string]struct{}
	last  string
}

// Run checks for due reminders immediately and then every Interval until ctx
// is cancelled. Failed checks are logged and retried on the next tick.
func (p *Poller) Run(ctx context.Context) error {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger.Info("Reminder poller started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := p.Check(ctx); err != nil {
			logger.ErrorContext(ctx, "Reminder check failed", "error", err)
		}
		select {
		case <-ctx.Done():
			logger.Info("Reminder poller stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Check fires the reminders due this minute that have not fired yet and
// returns how many were sent.
func (p *Poller) Check(ctx context.Context) (int, error) {
	now := time.Now()
	if p.Clock != nil {
		now = p.Clock.Now()
	}
	habits, err := p.Source.ListHabits(ctx)
	if err != nil {
		return 0, fmt.Errorf("list habits: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	minute := now.Format("2006-01-02T15:04")
	if p.fired == nil || p.last != minute {
		p.fired = map[string]struct{}{}
		p.last = minute
	}

	sent := 0
	for _, n := range Due(habits, now) {
		k := n.key()
		if _, ok := p.fired[k]; ok {
			continue
		}
		if err := p.Notifier.Notify(ctx, n); err != nil {
			logger.ErrorContext(ctx, "Failed to send reminder", "habit_id", n.HabitID, "error", err)
			continue
		}
		p.fired[k] = struct{}{}
		sent++
	}
	return sent, nil
}

// LogNotifier writes reminders to the application log.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) error {
	logger.InfoContext(ctx, "Reminder", "habit_id", n.HabitID, "habit", n.HabitName, "time", n.Time)
	return nil
}
