package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/screener/internal/config"
	"github.com/fakeyudi/screener/internal/evaluate"
	"github.com/fakeyudi/screener/internal/eventlog"
	"github.com/fakeyudi/screener/internal/question"
	"github.com/fakeyudi/screener/internal/session"
	"github.com/fakeyudi/screener/internal/store/sqlite"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:          "screener",
	Short:        "Run timed candidate screening interviews and review the results",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the root command. Exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetConfig returns the merged configuration for use by subcommands.
func GetConfig() config.Config {
	return cfg
}

// dataDir is where sessions, the database and the event log live.
func dataDir() (string, error) {
	if cfg.DataDir != "" {
		return cfg.ResolveDataDir(""), nil
	}
	return session.DataDir()
}

// openStore opens the configured session store. The returned close func is
// never nil.
func openStore() (session.SessionStore, func() error, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, nil, err
	}
	switch cfg.Store {
	case "sqlite":
		st, err := sqlite.Open(filepath.Join(dir, "screener.db"))
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	default:
		st, err := session.NewFileStore(filepath.Join(dir, "sessions"))
		if err != nil {
			return nil, nil, err
		}
		return st, func() error { return nil }, nil
	}
}

func openLogger() (*eventlog.Logger, error) {
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	return eventlog.New(dir)
}

// loadCatalog reads the configured catalog, or the built-in one.
func loadCatalog() (question.Catalog, error) {
	if cfg.CatalogPath == "" {
		return question.DefaultCatalog(), nil
	}
	return question.LoadCatalog(cfg.CatalogPath)
}

// newEvaluator returns the heuristic evaluator wrapped in the configured
// retry policy. Retries are written to log.
func newEvaluator(log *eventlog.Logger, sessionID string) (evaluate.Evaluator, error) {
	timeout, err := cfg.Timeout()
	if err != nil {
		return nil, err
	}
	return &evaluate.Retrying{
		Next:     evaluate.NewHeuristic(),
		Attempts: cfg.EvalRetries,
		Timeout:  timeout,
		OnRetry: func(attempt int, err error) {
			_ = log.Append(eventlog.Event{
				Event:     eventlog.EventEvaluationRetry,
				SessionID: sessionID,
				Attempt:   attempt,
				Error:     err.Error(),
			})
		},
	}, nil
}

// findSession looks a session up by id or by an unambiguous id prefix, as
// printed by list.
func findSession(store session.SessionStore, id string) (*session.Session, error) {
	s, err := store.Get(id)
	if err == nil || !errors.Is(err, session.ErrNotFound) {
		return s, err
	}
	all, err := store.List()
	if err != nil {
		return nil, err
	}
	var match string
	for _, sum := range all {
		if !strings.HasPrefix(sum.ID, id) {
			continue
		}
		if match != "" {
			return nil, fmt.Errorf("session id %s is ambiguous", id)
		}
		match = sum.ID
	}
	if match == "" {
		return nil, fmt.Errorf("no session with id %s", id)
	}
	return store.Get(match)
}
