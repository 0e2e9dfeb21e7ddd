package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlbench/internal/config"
	"github.com/leapstack-labs/sqlbench/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the database over HTTP",
		Long: `Start the HTTP API on a fresh in-memory database.

Endpoints:
  POST /api/query          run SQL ({"sql": "..."})
  GET  /api/tables         list tables
  GET  /api/tables/{name}  describe a table
  GET  /api/overview       tables with create statements
  POST /api/reset          replace the database with a fresh sample copy
  GET  /api/export         download the database as a SQL script
  GET  /api/events         server-sent change notifications`,
		Example: `  sqlbench serve
  sqlbench serve --addr :9000 --engine duckdb`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			cc.Logger.Info("starting server", "addr", cc.Cfg.Server.Addr, "engine", cc.Cfg.Engine.Type)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Listening on http://%s\n", cc.Cfg.Server.Addr)

			srv := server.New(server.Config{
				Addr:    cc.Cfg.Server.Addr,
				Session: cc.Session,
				Logger:  cc.Logger,
			})
			return srv.Serve(cmd.Context())
		},
	}

	cmd.Flags().String("addr", "", "Listen address (default "+config.DefaultAddr+")")

	return cmd
}
