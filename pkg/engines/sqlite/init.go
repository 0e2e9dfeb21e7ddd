package sqlite

import (
	"log/slog"

	"github.com/leapstack-labs/sqlbench/pkg/core"
	"github.com/leapstack-labs/sqlbench/pkg/engine"
)

func init() {
	factory := func(cfg core.EngineConfig, logger *slog.Logger) (core.Engine, error) {
		params, err := ParseParams(cfg.Params)
		if err != nil {
			return nil, err
		}
		return New(params, logger), nil
	}
	engine.Register(Name, factory)
	engine.Register("sqlite3", factory)
}
