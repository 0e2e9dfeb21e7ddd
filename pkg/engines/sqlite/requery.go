package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlbench/pkg/engine"
)

// timeTypes are the declared column types whose text the driver parses
// into time.Time.
var timeTypes = map[string]bool{
	"DATE":      true,
	"DATETIME":  true,
	"TIMESTAMP": true,
}

// rawTimeQuery rewrites a read-only query with DATE, DATETIME or TIMESTAMP
// result columns so that every column is read through a unary plus. The
// expression has no declared type, so stored values come back verbatim.
func rawTimeQuery(stmt string, types []*sql.ColumnType) (string, bool) {
	if !hasTimeColumn(types) || !readOnly(stmt) {
		return "", false
	}

	names := make([]string, len(types))
	exprs := make([]string, len(types))
	for i := range types {
		names[i] = fmt.Sprintf("c%d", i+1)
		exprs[i] = "+" + names[i]
	}

	body := strings.TrimSuffix(strings.TrimSpace(stmt), ";")
	return fmt.Sprintf("WITH sqlbench_raw(%s) AS (\n%s\n) SELECT %s FROM sqlbench_raw",
		strings.Join(names, ", "), body, strings.Join(exprs, ", ")), true
}

func hasTimeColumn(types []*sql.ColumnType) bool {
	for _, ct := range types {
		if timeTypes[strings.ToUpper(ct.DatabaseTypeName())] {
			return true
		}
	}
	return false
}

// readOnly reports whether stmt can be run twice without side effects.
func readOnly(stmt string) bool {
	switch engine.MainKeyword(stmt) {
	case "SELECT", "VALUES":
		return true
	}
	return false
}
