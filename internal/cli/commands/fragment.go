package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/cubedash/internal/fragment"
	"github.com/leapstack-labs/cubedash/internal/nav"
)

// NewFragmentCommand creates the fragment command.
func NewFragmentCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fragment",
		Short: "Inspect and build address fragments",
		Long: `Inspect and build the address fragments the shell reads and writes.

Format: #<view>[/<data source><view state>]`,
		Annotations: map[string]string{SkipConfigAnnotation: "true"},
	}

	cmd.AddCommand(newFragmentParseCommand())
	cmd.AddCommand(newFragmentFormatCommand())
	return cmd
}

func newFragmentParseCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "parse <fragment>",
		Short:       "Show how the shell reads a fragment",
		Example:     `  cubedash fragment parse '#cube/wiki/split/page'`,
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{SkipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			renderFragment(cmd.OutOrStdout(), args[0])
			return nil
		},
	}
}

func renderFragment(w io.Writer, f string) {
	hash := nav.NormalizeHash(f)
	tag := fragment.ViewTag(hash)
	name, ok := fragment.DataSourceName(hash)
	if !ok {
		name = "(none)"
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"fragment", hash},
		{"view tag", tag},
		{"view", nav.ViewTypeFromTag(tag)},
		{"data source", name},
		{"view state", fragment.Suffix(hash)},
		{"segments", strings.Join(quoteAll(fragment.Parse(hash)), " ")},
	})
	t.Render()
}

func quoteAll(parts []string) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = fmt.Sprintf("%q", p)
	}
	return out
}

func newFragmentFormatCommand() *cobra.Command {
	var (
		view   string
		source string
		suffix string
	)

	cmd := &cobra.Command{
		Use:   "format",
		Short: "Build the fragment the shell would commit",
		Example: `  cubedash fragment format --source wiki --state /totals/
  cubedash fragment format --view home`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{SkipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			vt := nav.ViewTypeFromTag(view)
			if vt == nav.ViewCube && source == "" {
				return fmt.Errorf("--source is required for the %s view", vt)
			}
			if suffix != "" && !strings.HasPrefix(suffix, "/") {
				suffix = "/" + suffix
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), fragment.Serialize(vt.Tag(), source, suffix))
			return err
		},
	}

	cmd.Flags().StringVar(&view, "view", fragment.CubeTag, "View type (cube|home)")
	cmd.Flags().StringVar(&source, "source", "", "Data source name")
	cmd.Flags().StringVar(&suffix, "state", "", "View state suffix")

	return cmd
}
