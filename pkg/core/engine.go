package core

import "context"

// Engine constructs fresh, empty database instances.
type Engine interface {
	// Name is the registry name of the engine (e.g., "sqlite", "duckdb").
	Name() string

	// Open creates a new empty in-memory instance.
	Open(ctx context.Context) (Instance, error)
}

// Instance is one live database owned by an Engine.
// Instances are not safe for concurrent use.
type Instance interface {
	// Exec runs sql, which may contain several statements, and returns one
	// result set for every statement that reported result columns.
	// Statements before a failing one keep their effects.
	Exec(ctx context.Context, sql string) ([]ResultSet, error)

	// Catalog returns the engine's catalog queries.
	Catalog() *Catalog

	// Close releases the instance and its native resources.
	Close() error
}

// EngineConfig selects and parameterizes an engine.
type EngineConfig struct {
	Type   string         `koanf:"type"`
	Params map[string]any `koanf:"params"`
}
