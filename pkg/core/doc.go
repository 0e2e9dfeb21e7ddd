// Package core defines the shared language of the sqlbench system.
//
// This package contains:
//   - Result shapes (Result, ResultSet)
//   - Catalog entities (Table, Column, Catalog)
//   - Service interfaces (Engine, Instance)
//   - The error taxonomy (EngineInitError, QueryError, ResetError)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
