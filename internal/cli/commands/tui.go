package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/leapstack-labs/cubedash/internal/cli/config"
	"github.com/leapstack-labs/cubedash/internal/tui"
	"github.com/leapstack-labs/cubedash/internal/ui/resources"
)

var errNotTerminal = errors.New("tui requires an interactive terminal")

// NewTUICommand creates the tui command.
func NewTUICommand(version string) *cobra.Command {
	var (
		hash    string
		logFile string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the dashboard shell in the terminal",
		Long: `Run the dashboard shell as a terminal UI.

An in-memory address bar replaces the browser's: press ':' to type a
fragment, 'b' and 'f' to move through its history.`,
		Example: `  cubedash tui
  cubedash tui --hash '#cube/wiki/totals/'
  cubedash tui --log-file cubedash.log`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNotTerminal
			}

			cfg, err := getConfig(cmd.Context())
			if err != nil {
				return err
			}

			// The terminal belongs to the UI; logs go to a file or nowhere.
			logger := slog.New(slog.DiscardHandler)
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer func() { _ = f.Close() }()
				logger = config.NewLogger(cfg, f)
			}

			return tui.Run(cmd.Context(), tui.Config{
				Sources: cfg.DataSources,
				Hash:    hash,
				Options: cfg.ShellOptions(version),
				Fetcher: resources.BundleFetcher(resources.FS()),
				Logger:  logger,
			})
		},
	}

	cmd.Flags().StringVar(&hash, "hash", "", "Initial address fragment")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file")

	return cmd
}
