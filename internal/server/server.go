package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/brk3/habittracker/internal/logger"
	"github.com/brk3/habittracker/internal/tracker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	store *tracker.Store
}

func New(store *tracker.Store) *Server {
	updateActiveHabits(store.Len())
	return &Server{store: store}
}

func writeJSON(w http.ResponseWriter, code int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	if err := writeJSON(w, code, ErrorResponse{Error: msg}); err != nil {
		logger.Error("Failed to write error response", "error", err)
	}
}

// writeStoreError maps a tracker error onto a status code.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, tracker.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, tracker.ErrNotFound):
		writeError(w, http.StatusNotFound, "habit not found")
	default:
		writeError(w, http.StatusInternalServerError, "storage error")
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/version", s.getVersionInfo)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/export", s.exportHabits)
	r.Route("/habits", func(r chi.Router) {
		r.Get("/", s.listHabits)
		r.Post("/", s.createHabit)
		r.Route("/{habit_id}", func(r chi.Router) {
			r.Get("/", s.getHabit)
			r.Patch("/", s.updateHabit)
			r.Delete("/", s.deleteHabit)
			r.Post("/toggle", s.toggleCompletion)
			r.Get("/completions/{date}", s.getCompletion)
			r.Get("/stats", s.getHabitStats)
			r.Get("/chart", s.getHabitChart)
		})
	})
	return r
}

// Run serves the API on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("Shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
