package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ib-77/railyard/internal/build"
)

// NewVersionCommand returns the command printing the build information.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the railyard version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "railyard %s (commit %s, built %s)\n", build.Version, build.Commit, build.Date)
			return err
		},
	}
}
