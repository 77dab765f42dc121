package cmd

import (
	"fmt"
	"os"

	"github.com/brk3/habittracker/internal/clock"
	"github.com/brk3/habittracker/internal/config"
	"github.com/brk3/habittracker/internal/logger"
	"github.com/brk3/habittracker/internal/storage"
	"github.com/brk3/habittracker/internal/storage/bolt"
	"github.com/brk3/habittracker/internal/storage/memory"
	"github.com/brk3/habittracker/internal/storage/sqlite"
	"github.com/brk3/habittracker/internal/tracker"

	"github.com/spf13/cobra"
)

// app carries the resolved configuration for one invocation.
type app struct {
	configPath string
	dbPath     string
	backend    string
	logLevel   string

	cfg *config.Config
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:   "habits",
		Short: "Build habits and keep your streaks alive",
		Long: `
	Habits tracks recurring activities, one completion per calendar day. It keeps
	current and best streaks, charts progress by week, month or quarter, exports
	your data, and can serve everything over a small JSON API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.Path(), "config file")
	pf.StringVar(&a.dbPath, "db", "", "database path (overrides config)")
	pf.StringVar(&a.backend, "backend", "", "storage backend: bolt, sqlite or memory (overrides config)")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")

	rootCmd.AddCommand(
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newDoneCmd(a),
		newStatsCmd(a),
		newExportCmd(a),
		newResetCmd(a),
		newServerCmd(a),
		newRemindCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

func Execute() {
	err := NewRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func (a *app) load() error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return fmt.Errorf("error loading config file: %w", err)
	}
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.backend != "" {
		cfg.Backend = a.backend
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) openSlot() (storage.Store, error) {
	switch a.cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendSQLite:
		return sqlite.Open(a.cfg.DBPath)
	default:
		return bolt.Open(a.cfg.DBPath)
	}
}

// openStore opens the configured backend and loads the habits. Callers must
// invoke the returned close func.
func (a *app) openStore() (*tracker.Store, func(), error) {
	slot, err := a.openSlot()
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store at %s: %w", a.cfg.Backend, a.cfg.DBPath, err)
	}
	closeFn := func() {
		if err := slot.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	}

	loc, err := a.cfg.Location()
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	st, err := tracker.New(slot, tracker.WithClock(clock.System{Location: loc}), tracker.WithLocation(loc))
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return st, closeFn, nil
}
