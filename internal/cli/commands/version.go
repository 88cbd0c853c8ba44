package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the version command.
func NewVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Long:        `Display cubedash version information.`,
		Annotations: map[string]string{SkipConfigAnnotation: "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "cubedash v%s\n", version)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Hash-driven navigation shell for data cubes")
		},
	}
}
