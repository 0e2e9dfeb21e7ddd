package session

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/sqlbench/pkg/core"
)

// sqlLiteral renders a normalized scalar as a SQL literal for cat's engine.
func sqlLiteral(v any, cat *core.Catalog) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return floatLiteral(x)
	case string:
		return quoteString(x)
	case []byte:
		if cat != nil && cat.BlobLiteral != nil {
			return cat.BlobLiteral(x)
		}
		return quoteString(string(x))
	default:
		return quoteString(fmt.Sprint(x))
	}
}

func floatLiteral(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NULL"
	case math.IsInf(f, 1):
		return "9e999"
	case math.IsInf(f, -1):
		return "-9e999"
	}

	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func quoteString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
