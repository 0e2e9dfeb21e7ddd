package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Input string
	Watch bool
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Run SQL against an in-memory database",
		Args:  cobra.ArbitraryArgs,
		Long: `Run SQL against a fresh in-memory database.

The database starts with the sample dataset (users, posts, comments)
unless --no-seed is given. Only the first result set of the input is shown.

When invoked without arguments and without piped input, enters
interactive REPL mode.`,
		Example: `  # Execute SQL directly
  sqlbench query "SELECT * FROM users"

  # List available tables
  sqlbench query tables

  # Show schema for a table
  sqlbench query schema posts

  # Run a file, and again on every save
  sqlbench query --input report.sql --watch

  # Output as JSON
  sqlbench query "SELECT * FROM posts" -o json

  # Interactive mode
  sqlbench query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "Re-run the input file whenever it changes")

	cmd.AddCommand(newQueryTablesCommand())
	cmd.AddCommand(newQuerySchemaCommand())
	cmd.AddCommand(newQueryOverviewCommand())

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	if opts.Watch && opts.Input == "" {
		return fmt.Errorf("--watch requires --input")
	}

	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var sqlText string
	switch {
	case len(args) > 0:
		sqlText = strings.Join(args, " ")
	case opts.Watch:
		return runQueryWatch(cmd, cc, opts.Input)
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlText = string(content)
	case !isTerminal(cmd.InOrStdin()):
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlText = string(content)
	default:
		return runQueryREPL(cmd, cc)
	}

	return cc.Renderer.Result(cc.Session.Execute(cmd.Context(), sqlText))
}

// newQueryTablesCommand creates the tables subcommand.
func newQueryTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List user tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			tables, err := cc.Session.ListTables(cmd.Context())
			if err != nil {
				return err
			}
			return cc.Renderer.Tables(tables)
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema <table>",
		Short: "Show the columns of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			return showSchema(cmd, cc, args[0])
		},
	}
}

// newQueryOverviewCommand creates the overview subcommand.
func newQueryOverviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Show every table with its create statement",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			return cc.Renderer.Result(cc.Session.Overview(cmd.Context()))
		},
	}
}

// showSchema resolves table against the catalog before describing it,
// so only catalog names reach the introspection SQL.
func showSchema(cmd *cobra.Command, cc *CommandContext, table string) error {
	tables, err := cc.Session.ListTables(cmd.Context())
	if err != nil {
		return err
	}

	for _, name := range tables {
		if strings.EqualFold(name, table) {
			cols, err := cc.Session.DescribeTable(cmd.Context(), name)
			if err != nil {
				return err
			}
			return cc.Renderer.Columns(name, cols)
		}
	}
	return fmt.Errorf("table %s not found", table)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
