// Package main provides the sqlbench command.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/sqlbench/internal/cli"

	// Register database engines.
	_ "github.com/leapstack-labs/sqlbench/pkg/engines/duckdb"
	_ "github.com/leapstack-labs/sqlbench/pkg/engines/sqlite"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
