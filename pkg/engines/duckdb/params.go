package duckdb

import "github.com/leapstack-labs/sqlbench/pkg/engine"

// Params holds DuckDB-specific configuration.
// Parsed from core.EngineConfig.Params using mapstructure.
type Params struct {
	// Settings to apply at session level (e.g., memory_limit, threads)
	Settings map[string]string `mapstructure:"settings"`

	// Extensions to load into every instance (e.g., "json")
	Extensions []string `mapstructure:"extensions"`
}

// ParseParams decodes raw engine params.
func ParseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if err := engine.DecodeParams(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}
