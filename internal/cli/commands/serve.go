package commands

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/cubedash/internal/ui"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	NoBrowser bool
}

// NewServeCommand creates the serve command.
func NewServeCommand(version string) *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard shell in the browser",
		Long: `Start a local web server hosting the dashboard shell.

The address bar fragment drives the shell: #cube/<data source>/<view state>
opens a data cube, anything else shows the home view.`,
		Example: `  # Serve on the configured port
  cubedash serve

  # Serve on a custom port without opening a browser
  cubedash serve --port 3000 --no-browser

  # Reload pages when static assets change (dev builds)
  cubedash serve --dev --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, version, opts)
		},
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().Bool("watch", false, "Reload pages when static assets change")
	cmd.Flags().Bool("dev", false, "Enable development mode")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")

	return cmd
}

func runServe(cmd *cobra.Command, version string, opts *ServeOptions) error {
	cfg, err := getConfig(cmd.Context())
	if err != nil {
		return err
	}
	logger := getLogger(cmd.Context())

	secret := cfg.Server.SessionSecret
	if secret == "" {
		// Sessions do not survive a restart without a configured secret.
		secret = uuid.NewString()
		logger.Debug("generated session secret")
	}

	server, err := ui.NewServer(ui.Config{
		Sources:       cfg.DataSources,
		Options:       cfg.ShellOptions(version),
		Port:          cfg.Server.Port,
		Watch:         cfg.Server.Watch,
		Dev:           cfg.Server.Dev,
		SessionSecret: secret,
		Logger:        logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	if cfg.Server.AutoOpen && !opts.NoBrowser {
		go openBrowser(url)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Serving %d data sources on %s\n", len(cfg.DataSources), url)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
