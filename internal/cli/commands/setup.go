package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/muesli/termenv"

	"github.com/leapstack-labs/cubedash/internal/cli/config"
)

// SkipConfigAnnotation marks commands that run without a config file.
const SkipConfigAnnotation = "cubedash/skip-config"

var errNoConfig = errors.New("no configuration loaded")

// getConfig returns the configuration loaded by the root command.
func getConfig(ctx context.Context) (*config.Config, error) {
	if cfg := config.FromContext(ctx); cfg != nil {
		return cfg, nil
	}
	return nil, errNoConfig
}

func getLogger(ctx context.Context) *slog.Logger {
	return config.GetLogger(ctx)
}

// newTable returns a table writer for w. Colour is used only when w is a
// terminal that supports it.
func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	if termenv.NewOutput(w).EnvColorProfile() != termenv.Ascii {
		t.Style().Color.Header = text.Colors{text.Bold, text.FgCyan}
	}
	return t
}
