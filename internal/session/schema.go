package session

import (
	"context"
	"fmt"

	"github.com/leapstack-labs/sqlbench/pkg/core"
)

// ListTables returns the names of user tables in catalog order.
// Engine-internal tables are excluded.
func (s *Session) ListTables(ctx context.Context) ([]string, error) {
	inst, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	return s.listTablesLocked(ctx, inst)
}

func (s *Session) listTablesLocked(ctx context.Context, inst core.Instance) ([]string, error) {
	res, err := s.queryLocked(ctx, inst, inst.Catalog().ListTablesSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]string, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) == 0 {
			continue
		}
		if name, ok := row[0].(string); ok {
			tables = append(tables, name)
		}
	}
	return tables, nil
}

// DescribeTable returns the columns of table in declaration order.
//
// The name is interpolated into catalog SQL as-is; pass only names
// returned by ListTables. An unknown table yields an empty slice.
func (s *Session) DescribeTable(ctx context.Context, table string) ([]core.Column, error) {
	inst, err := s.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer s.mu.Unlock()

	res, err := s.queryLocked(ctx, inst, fmt.Sprintf(inst.Catalog().DescribeTableSQL, table))
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %s: %w", table, err)
	}

	cols := make([]core.Column, 0, len(res.Rows))
	for _, row := range res.Rows {
		if len(row) < 5 {
			continue
		}
		name, _ := row[0].(string)
		typ, _ := row[1].(string)
		cols = append(cols, core.Column{
			Name:         name,
			DeclaredType: typ,
			NotNull:      truthy(row[2]),
			Default:      row[3],
			PrimaryKey:   truthy(row[4]),
		})
	}
	return cols, nil
}

// Overview returns one row per user table with its create statement.
func (s *Session) Overview(ctx context.Context) core.Result {
	inst, err := s.acquire(ctx)
	if err != nil {
		return core.ErrorResult(err.Error())
	}
	defer s.mu.Unlock()

	return s.executeLocked(ctx, inst, inst.Catalog().OverviewSQL)
}

func truthy(v any) bool {
	switch x := v.(type) {
	case int64:
		return x != 0
	case float64:
		return x != 0
	case string:
		return x != "" && x != "0"
	default:
		return false
	}
}
