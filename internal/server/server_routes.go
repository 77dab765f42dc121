package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/brk3/habittracker/internal/export"
	"github.com/brk3/habittracker/internal/logger"
	"github.com/brk3/habittracker/internal/stats"
	"github.com/brk3/habittracker/pkg/habit"
	"github.com/brk3/habittracker/pkg/versioninfo"
	"github.com/go-chi/chi/v5"
)

func (s *Server) getVersionInfo(w http.ResponseWriter, _ *http.Request) {
	if err := writeJSON(w, http.StatusOK, versioninfo.Current()); err != nil {
		logger.Error("Failed to serialize version info response", "error", err)
	}
}

func (s *Server) listHabits(w http.ResponseWriter, _ *http.Request) {
	habits := s.store.List()
	today := s.store.Today()
	for i := range habits {
		habits[i] = stats.Live(habits[i], today)
	}
	logger.Debug("Listed habits", "count", len(habits))
	if err := writeJSON(w, http.StatusOK, HabitListResponse{Habits: habits}); err != nil {
		logger.Error("Failed to serialize habit list response", "error", err)
	}
}

func (s *Server) createHabit(w http.ResponseWriter, r *http.Request) {
	var req CreateHabitRequest
	if err := decodeStrict(r.Body, &req); err != nil {
		logger.Warn("Invalid JSON in create habit request", "error", err)
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	id, err := s.store.Create(req.toNewHabit())
	if err != nil {
		writeStoreError(w, err)
		return
	}
	updateActiveHabits(s.store.Len())

	h, _ := s.store.Get(id)
	if err := writeJSON(w, http.StatusCreated, h); err != nil {
		logger.Error("Failed to serialize create habit response", "habit_id", id, "error", err)
	}
}

// decodeStrict rejects fields the request type does not declare.
func decodeStrict(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// lookup writes a 404 and returns false when the habit does not exist.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (habit.Habit, bool) {
	id := chi.URLParam(r, "habit_id")
	h, ok := s.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "habit not found")
	}
	return h, ok
}

func (s *Server) getHabit(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := writeJSON(w, http.StatusOK, stats.Live(h, s.store.Today())); err != nil {
		logger.Error("Failed to serialize get habit response", "habit_id", h.ID, "error", err)
	}
}

func (s *Server) updateHabit(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req UpdateHabitRequest
	if err := decodeStrict(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.store.Update(h.ID, req.toPatch()); err != nil {
		writeStoreError(w, err)
		return
	}
	updated, _ := s.store.Get(h.ID)
	if err := writeJSON(w, http.StatusOK, stats.Live(updated, s.store.Today())); err != nil {
		logger.Error("Failed to serialize update habit response", "habit_id", h.ID, "error", err)
	}
}

func (s *Server) deleteHabit(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	if err := s.store.Delete(h.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	updateActiveHabits(s.store.Len())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) toggleCompletion(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req ToggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	date := s.store.Today()
	if req.Date != "" {
		d, err := habit.ParseDay(req.Date, s.store.Location())
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		date = d
	}

	if err := s.store.ToggleCompletion(h.ID, date); err != nil {
		writeStoreError(w, err)
		return
	}
	updated, _ := s.store.Get(h.ID)
	completed := s.store.IsCompletedOn(h.ID, date)
	recordToggle(completed)

	resp := CompletionResponse{
		HabitID:    h.ID,
		Date:       habit.DayKey(date),
		Completed:  completed,
		Streak:     updated.Streak,
		BestStreak: updated.BestStreak,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize toggle response", "habit_id", h.ID, "error", err)
	}
}

func (s *Server) getCompletion(w http.ResponseWriter, r *http.Request) {
	h, ok := s.lookup(w, r)
	if !ok {
		return
	}
	date, err := habit.ParseDay(chi.URLParam(r, "date"), s.store.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	live := stats.Live(h, s.store.Today())
	resp := CompletionResponse{
		HabitID:    h.ID,
		Date:       habit.DayKey(date),
		Completed:  s.store.IsCompletedOn(h.ID, date),
		Streak:     live.Streak,
		BestStreak: live.BestStreak,
	}
	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		logger.Error("Failed to serialize completion response", "habit_id", h.ID, "error", err)
	}
}

func (s *Server) getHabitStats(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "habit_id")
	summary, ok := s.store.Stats(id)
	if !ok {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err := writeJSON(w, http.StatusOK, summary); err != nil {
		logger.Error("Failed to serialize habit stats response", "habit_id", id, "error", err)
	}
}

func (s *Server) getHabitChart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "habit_id")
	view := stats.ViewWeek
	if q := r.URL.Query().Get("range"); q != "" {
		v, err := stats.ParseView(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		view = v
	}
	series, ok := s.store.Chart(id, view)
	if !ok {
		writeError(w, http.StatusNotFound, "habit not found")
		return
	}
	if err := writeJSON(w, http.StatusOK, series); err != nil {
		logger.Error("Failed to serialize chart response", "habit_id", id, "error", err)
	}
}

func (s *Server) exportHabits(w http.ResponseWriter, r *http.Request) {
	format := export.JSON
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := export.ParseFormat(q)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = f
	}
	data, err := s.store.Export(format)
	if err != nil {
		logger.Error("Failed to export habits", "format", format, "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(format, s.store.Today())+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		logger.Error("Failed to write export", "format", format, "error", err)
	}
}
