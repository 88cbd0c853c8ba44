package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/cubedash/internal/nav"
	"github.com/leapstack-labs/cubedash/internal/shell"
)

const replPrompt = "cubedash> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	var hash string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Drive a navigation controller interactively",
		Long: `Start an interactive session around one navigation controller.

The session's address bar delivers hash changes synchronously, the way some
embedding hosts do, so commits exercise the controller's re-entrancy guard.`,
		Example: `  cubedash repl
  cubedash repl --hash '#cube/wiki/totals/'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := getConfig(cmd.Context())
			if err != nil {
				return err
			}
			return runREPL(cmd, cfg.DataSources, hash)
		},
	}

	cmd.Flags().StringVar(&hash, "hash", "", "Initial address fragment")
	return cmd
}

func runREPL(cmd *cobra.Command, sources []nav.DataSource, hash string) error {
	sess, err := newREPLSession(sources, hash, getLogger(cmd.Context()))
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		AutoComplete:    sess.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintln(out, "cubedash navigation REPL")
	_, _ = fmt.Fprintln(out, "Type help for commands, quit to exit")
	sess.printState(out)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		quit, err := sess.exec(out, line)
		if err != nil {
			_, _ = fmt.Fprintf(out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// replSession is a controller over a synchronously notifying address bar.
type replSession struct {
	ctrl *nav.Controller
	loc  *nav.MemoryLocation
	// applied counts hash changes the controller processed.
	applied int
}

func newREPLSession(sources []nav.DataSource, hash string, logger *slog.Logger) (*replSession, error) {
	loc := nav.NewMemoryLocation(hash)
	ctrl, err := nav.NewController(sources, loc, logger)
	if err != nil {
		return nil, err
	}
	s := &replSession{ctrl: ctrl, loc: loc}
	loc.OnChange(func(f string) {
		if ctrl.HashChanged(f) {
			s.applied++
		}
	})
	return s, nil
}

var replCommands = []string{"go", "select", "commit", "back", "forward", "drawer", "state", "history", "help", "quit"}

func (s *replSession) completer() *readline.PrefixCompleter {
	names := make([]readline.PrefixCompleterInterface, 0, len(s.ctrl.State().DataSources))
	for _, ds := range s.ctrl.State().DataSources {
		names = append(names, readline.PcItem(ds.Name))
	}
	items := make([]readline.PrefixCompleterInterface, 0, len(replCommands))
	for _, c := range replCommands {
		switch c {
		case "select":
			items = append(items, readline.PcItem(c, names...))
		case "drawer":
			items = append(items, readline.PcItem(c, readline.PcItem("open"), readline.PcItem("close")))
		default:
			items = append(items, readline.PcItem(c))
		}
	}
	return readline.NewPrefixCompleter(items...)
}

// exec runs one command line. It reports whether the session should end.
func (s *replSession) exec(w io.Writer, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	arg := ""
	if len(fields) > 1 {
		arg = fields[1]
	}

	switch fields[0] {
	case "quit", "exit":
		return true, nil

	case "help":
		_, _ = fmt.Fprintln(w, `  go <fragment>     type a fragment into the address bar
  select <name>     pick a data source and commit its default view state
  commit [state]    write the current view to the address bar
  back, forward     move through the address history
  drawer open|close show or hide the side drawer
  state             print the navigation state
  history           print the address history
  quit              leave the REPL`)
		return false, nil

	case "go":
		s.loc.Navigate(arg)

	case "select":
		if arg == "" {
			return false, errors.New("usage: select <name>")
		}
		if !s.ctrl.SelectByName(arg) {
			return false, fmt.Errorf("unknown data source %q", arg)
		}
		body := shell.CubeBody{DataSource: s.ctrl.State().SelectedDataSource(), Hash: s.ctrl.State().RawHash}
		s.ctrl.Commit(body.Suffix())

	case "commit":
		if arg != "" && !strings.HasPrefix(arg, "/") {
			arg = "/" + arg
		}
		s.ctrl.Commit(arg)

	case "back":
		if !s.loc.Back() {
			return false, errors.New("no earlier entry")
		}

	case "forward":
		if !s.loc.Forward() {
			return false, errors.New("no later entry")
		}

	case "drawer":
		switch arg {
		case "open":
			s.ctrl.SetDrawerOpen(true)
		case "close":
			s.ctrl.SetDrawerOpen(false)
		default:
			return false, errors.New("usage: drawer open|close")
		}

	case "state":

	case "history":
		entries, index := s.loc.History()
		for i, e := range entries {
			mark := " "
			if i == index {
				mark = ">"
			}
			if e == "" {
				e = "(empty)"
			}
			_, _ = fmt.Fprintf(w, "%s %d %s\n", mark, i, e)
		}
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %q (try help)", fields[0])
	}

	s.printState(w)
	return false, nil
}

func (s *replSession) printState(w io.Writer) {
	st := s.ctrl.State()
	address := s.loc.Hash()
	if address == "" {
		address = "(empty)"
	}
	_, _ = fmt.Fprintf(w, "view=%s source=%s drawer=%t address=%s\n",
		st.View, st.SelectedDataSource().Name, st.DrawerOpen, address)
}
