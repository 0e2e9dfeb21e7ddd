// Package duckdb provides the embedded DuckDB engine for sqlbench.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlbench/pkg/core"
	"github.com/leapstack-labs/sqlbench/pkg/engine"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// Name is the registry name of the engine.
const Name = "duckdb"

var catalog = &core.Catalog{
	ListTablesSQL:      "SELECT table_name FROM duckdb_tables() WHERE NOT internal ORDER BY table_oid",
	CreateStatementSQL: "SELECT sql FROM duckdb_tables() WHERE NOT internal AND table_name = '%s'",
	DescribeTableSQL: `SELECT c.column_name, c.data_type, c.is_nullable = 'NO', c.column_default,
	EXISTS (
		SELECT 1 FROM duckdb_constraints() k
		WHERE k.table_name = c.table_name
		  AND k.constraint_type = 'PRIMARY KEY'
		  AND list_contains(k.constraint_column_names, c.column_name)
	)
FROM information_schema.columns c
WHERE c.table_name = '%s'
ORDER BY c.ordinal_position`,
	OverviewSQL: `SELECT table_name AS "Table Name", sql AS "Create Statement" ` +
		"FROM duckdb_tables() WHERE NOT internal ORDER BY table_oid",
	SelectAllSQL:        "SELECT * FROM %s",
	StatementTerminator: ";",
	BlobLiteral:         blobLiteral,
}

func blobLiteral(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b)*4 + 9)
	sb.WriteByte('\'')
	for _, c := range b {
		fmt.Fprintf(&sb, `\x%02X`, c)
	}
	sb.WriteString("'::BLOB")
	return sb.String()
}

// Engine opens in-memory DuckDB databases.
type Engine struct {
	params *Params
	logger *slog.Logger
}

// New creates a DuckDB engine.
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
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb connection: %w", err)
	}
	// Settings and temporary objects are per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	if err := e.configure(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Instance{
		BaseSQLInstance: engine.BaseSQLInstance{
			DB:          db,
			Cat:         catalog,
			Logger:      e.logger,
			Dialect:     Name,
			ReturnsRows: ReturnsRows,
		},
	}, nil
}

func (e *Engine) configure(ctx context.Context, db *sql.DB) error {
	for _, ext := range e.params.Extensions {
		e.logger.Debug("loading duckdb extension", "extension", ext)
		if _, err := db.ExecContext(ctx, fmt.Sprintf("INSTALL %s; LOAD %s", ext, ext)); err != nil {
			return fmt.Errorf("failed to load extension %s: %w", ext, err)
		}
	}

	names := make([]string, 0, len(e.params.Settings))
	for name := range e.params.Settings {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		value := strings.ReplaceAll(e.params.Settings[name], "'", "''")
		e.logger.Debug("applying duckdb setting", "setting", name)
		if _, err := db.ExecContext(ctx, fmt.Sprintf("SET %s = '%s'", name, value)); err != nil {
			return fmt.Errorf("failed to apply setting %s: %w", name, err)
		}
	}
	return nil
}

// Instance is one in-memory DuckDB database.
type Instance struct {
	engine.BaseSQLInstance
}

// Ensure the engine types implement the core interfaces.
var (
	_ core.Engine   = (*Engine)(nil)
	_ core.Instance = (*Instance)(nil)
)
