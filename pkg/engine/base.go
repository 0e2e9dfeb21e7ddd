package engine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlbench/pkg/core"
)

// BaseSQLInstance provides the common database/sql functionality for
// engine instances. Embed it in concrete instances to get Exec, Catalog
// and Close.
type BaseSQLInstance struct {
	DB      *sql.DB
	Cat     *core.Catalog
	Logger  *slog.Logger
	Dialect string

	// ReturnsRows reports whether a statement yields a result set.
	// When nil, every statement is run as a query and the reported
	// column count decides.
	ReturnsRows func(stmt string) bool

	// Requery may replace a row-returning statement once its column types
	// are known. The replacement must yield the same columns; the original
	// column names are kept.
	Requery func(stmt string, types []*sql.ColumnType) (string, bool)
}

// Exec runs every statement in sqlText in order on the instance.
// A failing statement stops execution and is returned as a *core.QueryError;
// result sets collected before it are returned alongside.
func (b *BaseSQLInstance) Exec(ctx context.Context, sqlText string) ([]core.ResultSet, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}

	var sets []core.ResultSet
	for _, stmt := range SplitStatements(sqlText) {
		set, err := b.run(ctx, stmt)
		if err != nil {
			return sets, &core.QueryError{SQL: stmt, Err: err}
		}
		if set != nil {
			sets = append(sets, *set)
		}
	}
	return sets, nil
}

func (b *BaseSQLInstance) run(ctx context.Context, stmt string) (*core.ResultSet, error) {
	if b.ReturnsRows != nil && !b.ReturnsRows(stmt) {
		_, err := b.DB.ExecContext(ctx, stmt)
		return nil, err
	}

	rows, err := b.DB.QueryContext(ctx, stmt)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		for rows.Next() {
		}
		return nil, rows.Err()
	}

	if b.Requery != nil {
		types, err := rows.ColumnTypes()
		if err != nil {
			return nil, err
		}
		if q, ok := b.Requery(stmt, types); ok {
			_ = rows.Close()
			if b.Logger != nil {
				b.Logger.Debug("requerying statement", "engine", b.Dialect)
			}
			if rows, err = b.DB.QueryContext(ctx, q); err != nil {
				return nil, err
			}
		}
	}

	set := &core.ResultSet{Columns: cols, Rows: []core.Row{}}
	for rows.Next() {
		values := make([]any, len(cols))
		valuePtrs := make([]any, len(cols))
		for i := range values {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(core.Row, len(cols))
		for i, val := range values {
			row[i] = NormalizeScalar(val)
		}
		set.Rows = append(set.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return set, nil
}

// Catalog returns the engine's catalog queries.
func (b *BaseSQLInstance) Catalog() *core.Catalog {
	return b.Cat
}

// Close closes the database connection.
func (b *BaseSQLInstance) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database instance", "engine", b.Dialect)
		}
		return b.DB.Close()
	}
	return nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLInstance) IsConnected() bool {
	return b.DB != nil
}
