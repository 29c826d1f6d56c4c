package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/qbank/internal/config"
	"github.com/abhisek/qbank/internal/engine"
	"github.com/abhisek/qbank/internal/logger"
	"github.com/abhisek/qbank/internal/store"
)

// openEngine loads configuration, opens the store, and builds the
// engine. The caller owns closing the returned store.
func openEngine(cmd *cobra.Command) (*engine.Engine, *store.Store, error) {
	cfg, err := config.Load(resolveConfigPath(cmd))
	if err != nil {
		return nil, nil, err
	}

	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: true})
	return engine.New(cfg, st, log), st, nil
}

// restoreCorpus brings the most recent persisted index back into
// service for commands that query without re-parsing documents.
func restoreCorpus(ctx context.Context, e *engine.Engine) error {
	_, err := e.LoadFromSnapshot(ctx)
	if errors.Is(err, engine.ErrNoCorpus) {
		return fmt.Errorf("no corpus loaded; run 'qbank load <files...>' first")
	}
	return err
}
