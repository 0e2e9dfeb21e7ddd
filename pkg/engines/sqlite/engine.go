// Package sqlite provides the embedded SQLite engine for sqlbench,
// backed by the pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlbench/pkg/core"
	"github.com/leapstack-labs/sqlbench/pkg/engine"

	_ "modernc.org/sqlite" // sqlite driver
)

// Name is the registry name of the engine.
const Name = "sqlite"

var catalog = &core.Catalog{
	ListTablesSQL:      "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'",
	CreateStatementSQL: "SELECT sql FROM sqlite_master WHERE type='table' AND name='%s'",
	DescribeTableSQL:   `SELECT name, type, "notnull", dflt_value, pk FROM pragma_table_info('%s')`,
	OverviewSQL: "SELECT name AS 'Table Name', sql AS 'Create Statement' FROM sqlite_master " +
		"WHERE type='table' AND name NOT LIKE 'sqlite_%'",
	SelectAllSQL: "SELECT * FROM %s",
	BlobLiteral: func(b []byte) string {
		return "X'" + strings.ToUpper(hex.EncodeToString(b)) + "'"
	},
}

// Engine opens in-memory SQLite databases.
type Engine struct {
	params *Params
	logger *slog.Logger
}

// New creates a SQLite engine.
func New(params *Params, logger *slog.Logger) *Engine {
	if params == nil {
		params = &Params{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{params: params, logger: logger}
}

// Name returns the registry name of the engine.
func (e *Engine) Name() string {
	return Name
}

// Open creates a new empty in-memory database.
func (e *Engine) Open(ctx context.Context) (core.Instance, error) {
	db, err := sql.Open("sqlite", e.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping sqlite: %w", err)
	}

	e.logger.Debug("opened sqlite instance", "pragmas", len(e.params.Pragmas))

	return &Instance{
		BaseSQLInstance: engine.BaseSQLInstance{
			DB:      db,
			Cat:     catalog,
			Logger:  e.logger,
			Dialect: Name,
			Requery: rawTimeQuery,
		},
	}, nil
}

func (e *Engine) dsn() string {
	if len(e.params.Pragmas) == 0 {
		return ":memory:"
	}

	names := make([]string, 0, len(e.params.Pragmas))
	for name := range e.params.Pragmas {
		names = append(names, name)
	}
	sort.Strings(names)

	q := url.Values{}
	for _, name := range names {
		q.Add("_pragma", fmt.Sprintf("%s(%s)", name, e.params.Pragmas[name]))
	}
	return "file::memory:?" + q.Encode()
}

// Instance is one in-memory SQLite database.
type Instance struct {
	engine.BaseSQLInstance
}

// Ensure the engine types implement the core interfaces.
var (
	_ core.Engine   = (*Engine)(nil)
	_ core.Instance = (*Instance)(nil)
)
