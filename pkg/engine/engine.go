// Package engine provides the registry of embedded database engines and the
// shared database/sql plumbing they are built on.
//
// Concrete engines live in pkg/engines/ subdirectories and register
// themselves from init(). Import them with a blank identifier:
//
//	import _ "github.com/leapstack-labs/sqlbench/pkg/engines/sqlite"
package engine

import (
	"log/slog"

	"github.com/leapstack-labs/sqlbench/pkg/core"
)

// Factory builds an engine from its configuration.
// A nil logger must be accepted and replaced with a discard logger.
type Factory func(cfg core.EngineConfig, logger *slog.Logger) (core.Engine, error)

// DefaultType is the engine used when none is configured.
const DefaultType = "sqlite"

func discardIfNil(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return logger
}
