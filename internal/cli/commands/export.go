package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the database as a SQL script",
		Long: `Export the database as a SQL script.

Runs the --input file (if given) against the sample dataset, then prints
every table's create statement followed by one INSERT per row. Replaying
the script on an empty database recreates the same tables and rows.`,
		Example: `  sqlbench export --file database.sql
  sqlbench export --input migrate.sql --no-seed`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			if input, _ := cmd.Flags().GetString("input"); input != "" {
				content, err := os.ReadFile(input)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				if res := cc.Session.Execute(cmd.Context(), string(content)); res.HasError() {
					return fmt.Errorf("input failed: %s", res.Error)
				}
			}

			script, err := cc.Session.ExportScript(cmd.Context())
			if err != nil {
				return err
			}

			if file == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), script)
				return err
			}
			if err := os.WriteFile(file, []byte(script), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", file, err)
			}
			cc.Logger.Info("database exported", "file", file, "bytes", len(script))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write the script to file instead of stdout")
	cmd.Flags().StringP("input", "i", "", "Run SQL from file before exporting")

	return cmd
}
