package session

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/leapstack-labs/sqlbench/pkg/engine"
)

//go:embed sample/*.sql
var sampleFS embed.FS

// sampleStatements returns the sample statements in execution order.
func sampleStatements() ([]string, error) {
	files, err := fs.Glob(sampleFS, "sample/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var stmts []string
	for _, f := range files {
		data, err := sampleFS.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		stmts = append(stmts, engine.SplitStatements(string(data))...)
	}
	return stmts, nil
}

// SeedIfEmpty loads the sample dataset when the database has no user tables.
//
// The emptiness check and the inserts run under one lock, so concurrent
// calls cannot load the data twice. A failing statement aborts seeding;
// statements before it keep their effects.
func (s *Session) SeedIfEmpty(ctx context.Context) error {
	inst, err := s.acquire(ctx)
	if err != nil {
		return err
	}
	defer s.mu.Unlock()

	tables, err := s.listTablesLocked(ctx, inst)
	if err != nil {
		return err
	}
	if len(tables) > 0 {
		s.logger.Info("sample data already loaded", "tables", len(tables))
		return nil
	}

	stmts, err := sampleStatements()
	if err != nil {
		return fmt.Errorf("failed to load sample data: %w", err)
	}

	s.logger.Info("loading sample data", "statements", len(stmts))
	for _, stmt := range stmts {
		if _, err := s.queryLocked(ctx, inst, stmt); err != nil {
			s.logger.Error("error loading sample data", "error", err)
			return fmt.Errorf("failed to load sample data: %w", err)
		}
	}

	s.logger.Info("sample data loaded successfully", "generation", s.generation)
	return nil
}

// ResetAndReseed replaces the database with a new one holding the sample data.
func (s *Session) ResetAndReseed(ctx context.Context) error {
	if err := s.Reset(ctx); err != nil {
		return err
	}
	return s.SeedIfEmpty(ctx)
}
