package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlbench/pkg/core"
)

// ExportScript reconstructs the database as SQL text.
//
// For every user table in catalog order it writes the stored create
// statement followed by one INSERT per row in storage order, with a blank
// line between tables. Replaying the script on an empty database yields
// the same tables and rows.
func (s *Session) ExportScript(ctx context.Context) (string, error) {
	inst, err := s.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer s.mu.Unlock()

	cat := inst.Catalog()
	tables, err := s.listTablesLocked(ctx, inst)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, table := range tables {
		create, err := s.queryLocked(ctx, inst, fmt.Sprintf(cat.CreateStatementSQL, table))
		if err != nil {
			return "", fmt.Errorf("failed to read create statement of %s: %w", table, err)
		}
		if len(create.Rows) > 0 && len(create.Rows[0]) > 0 {
			if ddl, ok := create.Rows[0][0].(string); ok {
				if cat.StatementTerminator != "" {
					ddl = strings.TrimSuffix(strings.TrimSpace(ddl), cat.StatementTerminator)
				}
				sb.WriteString(ddl)
				sb.WriteString(";\n\n")
			}
		}

		data, err := s.queryLocked(ctx, inst, fmt.Sprintf(cat.SelectAllSQL, table))
		if err != nil {
			return "", fmt.Errorf("failed to read rows of %s: %w", table, err)
		}
		for _, row := range data.Rows {
			writeInsert(&sb, table, row, cat)
		}

		sb.WriteString("\n")
	}

	s.logger.Debug("exported database", "tables", len(tables), "bytes", sb.Len())
	return sb.String(), nil
}

func writeInsert(sb *strings.Builder, table string, row core.Row, cat *core.Catalog) {
	sb.WriteString("INSERT INTO ")
	sb.WriteString(table)
	sb.WriteString(" VALUES (")
	for i, v := range row {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(sqlLiteral(v, cat))
	}
	sb.WriteString(");\n")
}
