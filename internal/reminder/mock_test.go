package reminder

import (
	"context"

	"github.com/brk3/habittracker/pkg/habit"
)

type mockSource struct {
	habits []habit.Habit
	err    error
}

func (f *mockSource) ListHabits(ctx context.Context) ([]habit.Habit, error) {
	return f.habits, f.err
}

type mockNotifier struct {
	sent []Notification
	err  error
}

func (m *mockNotifier) Notify(ctx context.Context, n Notification) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, n)
	return nil
}
