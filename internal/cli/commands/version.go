package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sqlt/pkg/sqlt"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Display sqlt version, build and dialect information.`,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sqlt v%s\n", version)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "SQL translator built with %s (%d dialects)\n", runtime.Version(), len(sqlt.Dialects()))
		},
	}
}
