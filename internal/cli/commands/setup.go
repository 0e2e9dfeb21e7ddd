package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlbench/internal/config"
	"github.com/leapstack-labs/sqlbench/internal/session"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Session  *session.Session
	Renderer *Renderer
}

// NewCommandContext creates a CommandContext with a ready session.
// The sample dataset is loaded unless seeding is disabled.
// Returns the context and a cleanup function that must be called (typically via defer).
func NewCommandContext(cmd *cobra.Command) (*CommandContext, func(), error) {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	sess := session.New(session.Config{
		EngineConfig: cfg.Engine,
		Logger:       logger,
	})
	cleanup := func() {
		if err := sess.Close(); err != nil {
			logger.Warn("failed to close session", "error", err)
		}
	}

	if err := sess.EnsureReady(cmd.Context()); err != nil {
		cleanup()
		return nil, nil, err
	}
	if cfg.Seed {
		if err := sess.SeedIfEmpty(cmd.Context()); err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to seed database: %w", err)
		}
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Session:  sess,
		Renderer: NewRenderer(cmd.OutOrStdout(), cfg.Output),
	}, cleanup, nil
}
