package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/cubedash/internal/nav"
)

// NewSourcesCommand creates the sources command.
func NewSourcesCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the configured data sources",
		Long: `List the data sources the shell offers, in configuration order.

The first data source is the fallback for fragments that name an unknown one.`,
		Example: `  cubedash sources
  cubedash sources --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd.Context())
			if err != nil {
				return err
			}
			return renderSources(cmd.OutOrStdout(), cfg.DataSources, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "Output format (table|json|yaml)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func renderSources(w io.Writer, sources []nav.DataSource, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(sources)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sources); err != nil {
			return err
		}
		return enc.Close()
	case "table", "":
		t := newTable(w)
		t.AppendHeader(table.Row{"#", "Name", "Title", "Engine", "Source", "Description"})
		for i, ds := range sources {
			t.AppendRow(table.Row{i + 1, ds.Name, ds.DisplayTitle(), ds.Engine, ds.Source, ds.Description})
		}
		t.Render()
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
