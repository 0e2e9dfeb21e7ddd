package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlbench/pkg/engine"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display sqlbench version and the available database engines.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sqlbench v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Engines: %s\n", strings.Join(engine.ListEngines(), ", "))
		},
	}
}
