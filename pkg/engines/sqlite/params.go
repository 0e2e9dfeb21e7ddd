package sqlite

import "github.com/leapstack-labs/sqlbench/pkg/engine"

// Params holds SQLite-specific configuration.
// Parsed from core.EngineConfig.Params using mapstructure.
type Params struct {
	// Pragmas applied to every instance (e.g., foreign_keys: "on").
	Pragmas map[string]string `mapstructure:"pragmas"`
}

// ParseParams decodes raw engine params.
func ParseParams(raw map[string]any) (*Params, error) {
	p := &Params{}
	if err := engine.DecodeParams(raw, p); err != nil {
		return nil, err
	}
	return p, nil
}
