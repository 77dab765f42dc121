package tracker

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/brk3/habittracker/internal/clock"
	"github.com/brk3/habittracker/internal/export"
	"github.com/brk3/habittracker/internal/stats"
	"github.com/brk3/habittracker/internal/storage/memory"
	"github.com/brk3/habittracker/pkg/habit"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T, slot *memory.Store, now time.Time) (*Store, *clock.Fixed) {
	t.Helper()
	c := clock.NewFixed(now)
	n := 0
	s, err := New(slot,
		WithClock(c),
		WithLocation(time.UTC),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	return s, c
}

func mustCreate(t *testing.T, s *Store, name string) string {
	t.Helper()
	id, err := s.Create(habit.NewHabit{Name: name})
	if err != nil {
		t.Fatalf("create %q: %v", name, err)
	}
	return id
}

func TestCreate_Defaults(t *testing.T) {
	s, _ := newTestStore(t, memory.New(), time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC))

	id := mustCreate(t, s, "  Read  ")
	h, ok := s.Get(id)
	if !ok {
		t.Fatalf("expected habit %s to exist", id)
	}
	if h.Name != "Read" {
		t.Errorf("expected trimmed name, got %q", h.Name)
	}
	if h.Icon != habit.DefaultIcon || h.Color != habit.DefaultColor {
		t.Errorf("unexpected defaults icon=%q color=%q", h.Icon, h.Color)
	}
	if h.Category != habit.CategoryGeneral || h.Frequency.Type != habit.Daily {
		t.Errorf("unexpected defaults category=%q frequency=%v", h.Category, h.Frequency)
	}
	if h.Streak != 0 || h.BestStreak != 0 || len(h.Completions) != 0 {
		t.Errorf("new habit should start empty: %+v", h)
	}
	if !h.CreatedAt.Equal(h.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v", h.CreatedAt, h.UpdatedAt)
	}
}

func TestCreate_Validation(t *testing.T) {
	slot := memory.New()
	s, _ := newTestStore(t, slot, day(2024, 1, 1))

	weeklyNoDays := habit.Frequency{Type: habit.Weekly}
	cases := map[string]habit.NewHabit{
		"empty name":     {Name: "   "},
		"bad category":   {Name: "x", Category: "Nope"},
		"bad frequency":  {Name: "x", Frequency: &weeklyNoDays},
		"bad reminder":   {Name: "x", Reminders: []habit.Reminder{{Time: "25:00"}}},
		"bad remind day": {Name: "x", Reminders: []habit.Reminder{{Time: "08:00", Days: []int{7}}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.Create(in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if s.Len() != 0 {
		t.Fatalf("rejected creates must not add habits, have %d", s.Len())
	}
	if _, found, _ := slot.Get(StorageKey); found {
		t.Fatalf("rejected creates must not write")
	}
}

func TestToggleScenario(t *testing.T) {
	s, _ := newTestStore(t, memory.New(), time.Date(2024, 1, 3, 18, 0, 0, 0, time.UTC))
	id := mustCreate(t, s, "Read")

	for _, d := range []time.Time{day(2024, 1, 1), day(2024, 1, 2), day(2024, 1, 3)} {
		if err := s.ToggleCompletion(id, d); err != nil {
			t.Fatalf("toggle %v: %v", d, err)
		}
	}
	h, _ := s.Get(id)
	if h.Streak != 3 || h.BestStreak != 3 {
		t.Fatalf("expected streak 3/3, got %d/%d", h.Streak, h.BestStreak)
	}

	if err := s.ToggleCompletion(id, day(2024, 1, 3)); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	h, _ = s.Get(id)
	if h.Streak != 2 || h.BestStreak != 3 {
		t.Fatalf("expected streak 2/3, got %d/%d", h.Streak, h.BestStreak)
	}
	if s.IsCompletedOn(id, day(2024, 1, 3)) {
		t.Errorf("2024-01-03 should no longer be completed")
	}
	if !s.IsCompletedOn(id, time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)) {
		t.Errorf("2024-01-02 should be completed regardless of time of day")
	}
}

func TestToggle_PairRestoresState(t *testing.T) {
	s, _ := newTestStore(t, memory.New(), time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC))
	id := mustCreate(t, s, "Walk")
	_ = s.ToggleCompletion(id, day(2024, 1, 9))
	before, _ := s.Get(id)

	at := time.Date(2024, 1, 5, 14, 0, 0, 0, time.UTC)
	_ = s.ToggleCompletion(id, at)
	_ = s.ToggleCompletion(id, at.Add(3*time.Hour))

	after, _ := s.Get(id)
	if len(after.Completions) != len(before.Completions) {
		t.Fatalf("expected %d completions, got %d", len(before.Completions), len(after.Completions))
	}
	for i := range after.Completions {
		if !after.Completions[i].Date.Equal(before.Completions[i].Date) {
			t.Errorf("completion %d changed: %v -> %v", i, before.Completions[i].Date, after.Completions[i].Date)
		}
	}
	if after.Streak != before.Streak {
		t.Errorf("streak changed %d -> %d", before.Streak, after.Streak)
	}
}

func TestToggle_OneCompletionPerDayNewestFirst(t *testing.T) {
	s, _ := newTestStore(t, memory.New(), time.Date(2024, 3, 31, 8, 0, 0, 0, time.UTC))
	id := mustCreate(t, s, "Stretch")

	for _, d := range []int{5, 1, 20, 3} {
		_ = s.ToggleCompletion(id, time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC))
	}
	h, _ := s.Get(id)
	seen := map[string]bool{}
	for i, c := range h.Completions {
		k := habit.DayKey(c.Date)
		if seen[k] {
			t.Fatalf("duplicate completion on %s", k)
		}
		seen[k] = true
		if c.Date.Hour() != 0 || c.Date.Minute() != 0 {
			t.Errorf("completion date not normalized: %v", c.Date)
		}
		if i > 0 && !h.Completions[i-1].Date.After(c.Date) {
			t.Errorf("completions not newest first at %d", i)
		}
	}
	if len(h.Completions) != 4 {
		t.Fatalf("expected 4 completions, got %d", len(h.Completions))
	}
}

func TestToggleToday(t *testing.T) {
	s, c := newTestStore(t, memory.New(), time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC))
	id := mustCreate(t, s, "Journal")

	if err := s.ToggleToday(id); err != nil {
		t.Fatalf("toggle today: %v", err)
	}
	c.Advance(2 * time.Hour)
	if err := s.ToggleToday(id); err != nil {
		t.Fatalf("toggle today: %v", err)
	}
	h, _ := s.Get(id)
	if h.Streak != 2 {
		t.Fatalf("expected streak 2 across midnight, got %d", h.Streak)
	}
}

func TestUpdate(t *testing.T) {
	s, c := newTestStore(t, memory.New(), day(2024, 1, 1))
	id := mustCreate(t, s, "Run")
	_ = s.ToggleToday(id)
	created, _ := s.Get(id)

	c.Advance(time.Hour)
	name := "Run 5k"
	cat := habit.CategoryFitness
	freq := habit.WeeklyFrequency(1, 3, 5)
	if err := s.Update(id, habit.Patch{Name: &name, Category: &cat, Frequency: &freq}); err != nil {
		t.Fatalf("update: %v", err)
	}
	h, _ := s.Get(id)
	if h.Name != name || h.Category != cat || h.Frequency.Type != habit.Weekly {
		t.Fatalf("patch not applied: %+v", h)
	}
	if h.Description != created.Description || h.Icon != created.Icon {
		t.Errorf("unpatched fields changed")
	}
	if !h.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("updatedAt not advanced")
	}
	if h.Streak != created.Streak || len(h.Completions) != 1 {
		t.Errorf("update must not touch streak or completions")
	}

	empty := ""
	if err := s.Update(id, habit.Patch{Name: &empty}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdate_AssignsReminderIDs(t *testing.T) {
	s, _ := newTestStore(t, memory.New(), day(2024, 1, 1))
	id := mustCreate(t, s, "Meditate")

	reminders := []habit.Reminder{{Time: "07:30", Days: []int{1, 2}}}
	if err := s.Update(id, habit.Patch{Reminders: &reminders}); err != nil {
		t.Fatalf("update: %v", err)
	}
	h, _ := s.Get(id)
	if len(h.Reminders) != 1 || h.Reminders[0].ID == "" || h.Reminders[0].Time != "07:30" {
		t.Fatalf("unexpected reminders: %+v", h.Reminders)
	}
}

func TestDelete(t *testing.T) {
	slot := memory.New()
	s, _ := newTestStore(t, slot, day(2024, 1, 2))
	a := mustCreate(t, s, "A")
	b := mustCreate(t, s, "B")
	_ = s.ToggleToday(a)

	if err := s.Delete(a); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := s.Get(a); ok {
		t.Fatalf("habit %s still present", a)
	}
	if s.IsCompletedOn(a, day(2024, 1, 2)) {
		t.Errorf("completions of deleted habit still visible")
	}
	if _, ok := s.Get(b); !ok {
		t.Fatalf("unrelated habit removed")
	}

	reopened, _ := newTestStore(t, slot, day(2024, 1, 2))
	if reopened.Len() != 1 {
		t.Fatalf("expected 1 persisted habit, got %d", reopened.Len())
	}
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	slot := memory.New()
	s, _ := newTestStore(t, slot, day(2024, 1, 1))
	mustCreate(t, s, "A")
	before, _, _ := slot.Get(StorageKey)

	name := "x"
	if err := s.Update("missing", habit.Patch{Name: &name}); err != nil {
		t.Errorf("update: %v", err)
	}
	if err := s.Delete("missing"); err != nil {
		t.Errorf("delete: %v", err)
	}
	if err := s.ToggleCompletion("missing", day(2024, 1, 1)); err != nil {
		t.Errorf("toggle: %v", err)
	}
	if s.IsCompletedOn("missing", day(2024, 1, 1)) {
		t.Errorf("unknown habit reported completed")
	}
	if _, ok := s.Stats("missing"); ok {
		t.Errorf("stats for unknown habit")
	}

	after, _, _ := slot.Get(StorageKey)
	if string(before) != string(after) {
		t.Fatalf("no-op calls rewrote storage")
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	slot := memory.New()
	s, _ := newTestStore(t, slot, time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC))
	id, err := s.Create(habit.NewHabit{
		Name:        "Read",
		Description: "20 pages",
		Category:    habit.CategoryLearning,
		Reminders:   []habit.Reminder{{Time: "21:00"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_ = s.ToggleCompletion(id, day(2024, 2, 9))
	_ = s.ToggleCompletion(id, day(2024, 2, 10))
	want, _ := s.Get(id)

	reopened, _ := newTestStore(t, slot, time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC))
	got, ok := reopened.Get(id)
	if !ok {
		t.Fatalf("habit lost across reopen")
	}
	if got.Name != want.Name || got.Description != want.Description || got.Category != want.Category {
		t.Errorf("fields differ: got %+v want %+v", got, want)
	}
	if got.Streak != 2 || got.BestStreak != 2 {
		t.Errorf("streaks differ: %d/%d", got.Streak, got.BestStreak)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("timestamps differ")
	}
	if len(got.Completions) != 2 || !got.Completions[0].Date.Equal(day(2024, 2, 10)) {
		t.Errorf("completions differ: %+v", got.Completions)
	}
	if len(got.Reminders) != 1 || got.Reminders[0].ID != want.Reminders[0].ID {
		t.Errorf("reminders differ: %+v", got.Reminders)
	}
}

func TestPersistenceFailureLeavesMemoryUnchanged(t *testing.T) {
	slot := memory.New()
	s, _ := newTestStore(t, slot, day(2024, 1, 1))
	id := mustCreate(t, s, "A")

	slot.FailPuts = errors.New("disk full")
	_, err := s.Create(habit.NewHabit{Name: "B"})
	var perr *PersistenceError
	if !errors.As(err, &perr) || !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if s.Len() != 1 {
		t.Fatalf("failed create changed memory: %d habits", s.Len())
	}
	if err := s.ToggleToday(id); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if s.IsCompletedOn(id, day(2024, 1, 1)) {
		t.Fatalf("failed toggle changed memory")
	}
	if err := s.Delete(id); !errors.Is(err, ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if _, ok := s.Get(id); !ok {
		t.Fatalf("failed delete changed memory")
	}
}

func TestLoad_MalformedDataStartsEmpty(t *testing.T) {
	slot := memory.New()
	_ = slot.Put(StorageKey, []byte("{not json"))

	s, _ := newTestStore(t, slot, day(2024, 1, 1))
	if s.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", s.Len())
	}
	mustCreate(t, s, "A")
	if s.Len() != 1 {
		t.Fatalf("store should stay usable after bad load")
	}
}

func TestLoad_NormalizesStoredData(t *testing.T) {
	slot := memory.New()
	stored := `[{"id":"x","name":"Old","completions":[
		{"id":"c1","date":"2024-01-01T15:00:00Z","timestamp":"2024-01-01T15:00:00Z"},
		{"id":"c2","date":"2024-01-02T08:00:00Z","timestamp":"2024-01-02T08:00:00Z"},
		{"id":"c3","date":"2024-01-01T20:00:00Z","timestamp":"2024-01-01T20:00:00Z"}
	],"streak":4,"bestStreak":1}]`
	_ = slot.Put(StorageKey, []byte(stored))

	s, _ := newTestStore(t, slot, day(2024, 1, 2))
	h, ok := s.Get("x")
	if !ok {
		t.Fatalf("stored habit missing")
	}
	if h.Frequency.Type != habit.Daily || h.Category != habit.CategoryGeneral {
		t.Errorf("defaults not applied: %+v", h)
	}
	if len(h.Completions) != 2 {
		t.Fatalf("expected same-day duplicates collapsed, got %+v", h.Completions)
	}
	if !h.Completions[0].Date.Equal(day(2024, 1, 2)) {
		t.Errorf("expected newest first, got %v", h.Completions[0].Date)
	}
	if h.BestStreak < h.Streak {
		t.Errorf("bestStreak %d < streak %d", h.BestStreak, h.Streak)
	}
}

func TestReadsDoNotWrite(t *testing.T) {
	slot := memory.New()
	s, c := newTestStore(t, slot, day(2024, 1, 3))
	id := mustCreate(t, s, "A")
	_ = s.ToggleCompletion(id, day(2024, 1, 3))
	before, _, _ := slot.Get(StorageKey)

	c.Set(day(2024, 1, 10))
	slot.FailPuts = errors.New("read path wrote to storage")
	_ = s.List()
	_, _ = s.Get(id)
	_ = s.IsCompletedOn(id, day(2024, 1, 3))
	sum, _ := s.Stats(id)
	_, _ = s.Chart(id, stats.ViewWeek)
	if _, err := s.Export(export.JSON); err != nil {
		t.Fatalf("export: %v", err)
	}

	after, _, _ := slot.Get(StorageKey)
	if string(before) != string(after) {
		t.Fatalf("slot changed by reads\nbefore: %s\nafter:  %s", before, after)
	}
	if sum.CurrentStreak != 0 || sum.BestStreak != 1 {
		t.Errorf("expected live streak 0 best 1 after a gap, got %d/%d", sum.CurrentStreak, sum.BestStreak)
	}
	if h, _ := s.Get(id); h.Streak != 1 {
		t.Errorf("cached streak should only change with completions, got %d", h.Streak)
	}
}

func TestToggle_UsesStoreZone(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no tzdata: %v", err)
	}
	// 01:00 UTC on the 4th is the evening of the 3rd in New York.
	now := time.Date(2024, 1, 4, 1, 0, 0, 0, time.UTC)
	s, err := New(memory.New(), WithClock(clock.NewFixed(now)), WithLocation(ny))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	id := mustCreate(t, s, "A")

	if err := s.ToggleCompletion(id, now); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	h, _ := s.Get(id)
	if got := habit.DayKey(h.Completions[0].Date); got != "2024-01-03" {
		t.Fatalf("expected completion on 2024-01-03, got %s", got)
	}
	if h.Streak != 1 {
		t.Errorf("expected streak 1, got %d", h.Streak)
	}
	if !s.IsCompletedOn(id, s.Today()) || !s.IsCompletedOn(id, now) {
		t.Error("expected the UTC instant and today to resolve to the same day")
	}
	if s.IsCompletedOn(id, time.Date(2024, 1, 4, 12, 0, 0, 0, time.UTC)) {
		t.Error("expected no completion on 2024-01-04")
	}

	// toggling the same instant again removes it
	_ = s.ToggleCompletion(id, now.Add(time.Hour))
	if h, _ := s.Get(id); len(h.Completions) != 0 {
		t.Fatalf("expected completion removed, got %+v", h.Completions)
	}
}

func TestWeeklyDaysNormalized(t *testing.T) {
	s, _ := newTestStore(t, memory.New(), day(2024, 1, 1))
	freq := habit.Frequency{Type: habit.Weekly, Days: []int{5, 1, 5, 3, 1}}
	id, err := s.Create(habit.NewHabit{Name: "gym", Frequency: &freq})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	h, _ := s.Get(id)
	if fmt.Sprint(h.Frequency.Days) != "[1 3 5]" {
		t.Fatalf("create stored days %v", h.Frequency.Days)
	}
	if fmt.Sprint(freq.Days) != "[5 1 5 3 1]" {
		t.Errorf("caller's frequency was modified: %v", freq.Days)
	}

	upd := habit.Frequency{Type: habit.Weekly, Days: []int{6, 0, 6}}
	if err := s.Update(id, habit.Patch{Frequency: &upd}); err != nil {
		t.Fatalf("update: %v", err)
	}
	h, _ = s.Get(id)
	if fmt.Sprint(h.Frequency.Days) != "[0 6]" {
		t.Fatalf("update stored days %v", h.Frequency.Days)
	}
}

func TestReset(t *testing.T) {
	slot := memory.New()
	s, _ := newTestStore(t, slot, day(2024, 1, 1))
	mustCreate(t, s, "A")
	mustCreate(t, s, "B")

	if err := s.Reset(); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store")
	}
	data, _, _ := slot.Get(StorageKey)
	if string(data) != "[]" {
		t.Fatalf("expected [] persisted, got %s", data)
	}
}

func TestExportCSV(t *testing.T) {
	s, _ := newTestStore(t, memory.New(), time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC))
	id := mustCreate(t, s, "A, B")
	_ = s.ToggleToday(id)

	data, err := s.Export(export.CSV)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one row, got %q", data)
	}
	want := `"id-1","A, B","","General","2024-01-01T09:00:00Z","1"`
	if lines[1] != want {
		t.Fatalf("row mismatch\n got: %s\nwant: %s", lines[1], want)
	}
}

func TestStatsAndChart(t *testing.T) {
	s, _ := newTestStore(t, memory.New(), day(2024, 1, 7))
	id := mustCreate(t, s, "A")
	for d := 1; d <= 7; d++ {
		_ = s.ToggleCompletion(id, day(2024, 1, d))
	}
	sum, ok := s.Stats(id)
	if !ok {
		t.Fatalf("stats missing")
	}
	if sum.TotalCompletions != 7 || sum.CurrentStreak != 7 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	series, ok := s.Chart(id, "week")
	if !ok {
		t.Fatalf("chart missing")
	}
	total := 0
	for _, n := range series.Counts() {
		total += n
	}
	if total != 7 {
		t.Fatalf("expected 7 completions charted for the week, got %v", series.Counts())
	}
}
