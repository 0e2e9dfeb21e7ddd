package core

// Column describes one column of a user table, as reported by the catalog.
type Column struct {
	Name         string `json:"name" yaml:"name"`
	DeclaredType string `json:"type" yaml:"type"`
	NotNull      bool   `json:"not_null" yaml:"not_null"`
	// Default is the default expression as stored by the engine, or nil.
	Default    any  `json:"default" yaml:"default"`
	PrimaryKey bool `json:"primary_key" yaml:"primary_key"`
}

// Table is a user table together with its columns in declaration order.
type Table struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// Catalog holds the static SQL an engine uses to describe itself.
// Table names are substituted with %s; callers must only pass names
// previously returned by ListTablesSQL.
type Catalog struct {
	// ListTablesSQL returns one text column of user table names in catalog order.
	ListTablesSQL string

	// CreateStatementSQL returns the stored DDL of table %s as one text column.
	CreateStatementSQL string

	// DescribeTableSQL returns name, type, notnull, default, pk for table %s.
	DescribeTableSQL string

	// OverviewSQL returns table names with their create statements.
	OverviewSQL string

	// SelectAllSQL reads every row of table %s in storage order.
	SelectAllSQL string

	// StatementTerminator is stripped from stored DDL before it is re-emitted.
	StatementTerminator string

	// BlobLiteral renders binary data as a SQL literal.
	BlobLiteral func([]byte) string
}
