package duckdb

import (
	"github.com/leapstack-labs/sqlbench/pkg/engine"
)

// rowKeywords are the leading keywords of statements that produce rows.
var rowKeywords = map[string]bool{
	"SELECT":    true,
	"VALUES":    true,
	"FROM":      true,
	"TABLE":     true,
	"PRAGMA":    true,
	"SHOW":      true,
	"DESCRIBE":  true,
	"SUMMARIZE": true,
	"EXPLAIN":   true,
	"CALL":      true,
	"PIVOT":     true,
	"UNPIVOT":   true,
}

// ReturnsRows reports whether stmt yields a result set.
//
// DuckDB reports a "Count" column for INSERT, UPDATE and DELETE, so the
// reported column count cannot tell queries and modifications apart.
// Modifications with a RETURNING clause produce rows. A WITH statement is
// classified by the statement following its common table expressions.
func ReturnsRows(stmt string) bool {
	kw := engine.MainKeyword(stmt)
	if rowKeywords[kw] {
		return true
	}
	switch kw {
	case "INSERT", "UPDATE", "DELETE":
		return engine.ContainsWord(stmt, "RETURNING")
	case "":
		// WITH followed by a parenthesized query
		return engine.FirstKeyword(stmt) == "WITH"
	}
	return false
}
