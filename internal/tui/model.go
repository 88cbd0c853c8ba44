// Package tui is the terminal front-end of the cubedash shell.
//
// The bubbletea update loop is the shell's event loop. An in-memory address
// bar stands in for the browser location; its change notifications are
// queued and delivered as messages, so a commit's echo arrives after the
// commit has returned, the way a browser fires hashchange.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leapstack-labs/cubedash/internal/nav"
	"github.com/leapstack-labs/cubedash/internal/overlay"
	"github.com/leapstack-labs/cubedash/internal/shell"
)

type mode int

const (
	modeBrowse mode = iota
	modeAddress
	modeSuffix
)

// HashChangedMsg delivers a queued address-bar change.
type HashChangedMsg struct {
	Fragment string
}

// hashChangesMsg delivers every change queued during one update, in order.
type hashChangesMsg []string

// OverlayReadyMsg reports that an overlay resource finished loading.
type OverlayReadyMsg struct {
	Resource overlay.Resource
}

// Config configures a terminal shell.
type Config struct {
	Sources []nav.DataSource
	// Hash is the fragment the address bar starts with.
	Hash    string
	Options shell.Options
	Fetcher overlay.Fetcher
	Logger  *slog.Logger
}

// session is the state shared by every copy of the Model.
type session struct {
	ctx    context.Context
	ctrl   *nav.Controller
	loc    *nav.MemoryLocation
	loader *overlay.Loader
	queue  []string
}

// Model is the bubbletea model of the terminal shell.
type Model struct {
	s       *session
	opts    shell.Options
	logger  *slog.Logger
	keys    KeyMap
	help    help.Model
	address textinput.Model
	suffix  textinput.Model
	mode    mode
	cursor  int
	status  string
	width   int
}

// New creates the terminal shell. ctx bounds overlay loading.
func New(ctx context.Context, cfg Config) (Model, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	loc := nav.NewMemoryLocation(cfg.Hash)
	ctrl, err := nav.NewController(cfg.Sources, loc, logger)
	if err != nil {
		return Model{}, err
	}

	s := &session{
		ctx:    ctx,
		ctrl:   ctrl,
		loc:    loc,
		loader: overlay.NewLoader(cfg.Fetcher, overlay.WithLogger(logger)),
	}
	loc.OnChange(func(fragment string) {
		s.queue = append(s.queue, fragment)
	})

	address := textinput.New()
	address.Prompt = "# "
	address.Placeholder = "cube/<data source>/<view state>"
	suffix := textinput.New()
	suffix.Prompt = "view: "

	return Model{
		s:       s,
		opts:    cfg.Options,
		logger:  logger,
		keys:    DefaultKeys,
		help:    help.New(),
		address: address,
		suffix:  suffix,
		width:   80,
	}, nil
}

// Init starts loading the overlay resources.
func (m Model) Init() tea.Cmd {
	m.s.loader.Start(m.s.ctx, overlay.All...)
	cmds := make([]tea.Cmd, 0, len(overlay.All))
	for _, id := range overlay.All {
		cmds = append(cmds, m.waitReady(id))
	}
	return tea.Batch(cmds...)
}

// waitReady blocks until id is loaded. A resource that never loads leaves
// the command pending for the life of the program.
func (m Model) waitReady(id overlay.Resource) tea.Cmd {
	done := m.s.loader.Done(id)
	ctx := m.s.ctx
	return func() tea.Msg {
		select {
		case <-done:
			return OverlayReadyMsg{Resource: id}
		case <-ctx.Done():
			return nil
		}
	}
}

// State returns the navigation state.
func (m Model) State() nav.State {
	return m.s.ctrl.State()
}

// Location returns the in-memory address bar.
func (m Model) Location() *nav.MemoryLocation {
	return m.s.loc
}

// ShellView derives the shell view for the current state.
func (m Model) ShellView() shell.View {
	return shell.Derive(m.s.ctrl.State(), m.s.loader.Readiness(), m.opts, shell.ControllerCallbacks(m.s.ctrl))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width

	case HashChangedMsg:
		m.hashChanged(msg.Fragment)

	case hashChangesMsg:
		for _, f := range msg {
			m.hashChanged(f)
		}

	case OverlayReadyMsg:
		m.logger.Debug("overlay ready", "resource", msg.Resource)
		if msg.Resource == overlay.Drawer {
			m.status = ""
		}

	case tea.KeyMsg:
		switch m.mode {
		case modeAddress:
			cmd = m.updateAddress(msg)
		case modeSuffix:
			cmd = m.updateSuffix(msg)
		default:
			if m.updateBrowse(msg) {
				return m, tea.Quit
			}
		}
	}

	return m, tea.Batch(cmd, m.flush())
}

func (m *Model) hashChanged(fragment string) {
	if m.s.ctrl.HashChanged(fragment) {
		m.cursor = 0
		m.status = ""
	}
}

// flush delivers the address-bar changes queued so far after the current
// update has returned.
func (m Model) flush() tea.Cmd {
	if len(m.s.queue) == 0 {
		return nil
	}
	queued := hashChangesMsg(m.s.queue)
	m.s.queue = nil
	return func() tea.Msg { return queued }
}

func (m *Model) updateAddress(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.mode = modeBrowse
		m.address.Blur()
		return nil
	case key.Matches(msg, m.keys.Apply):
		m.mode = modeBrowse
		m.address.Blur()
		m.s.loc.Navigate(m.address.Value())
		return nil
	}
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return cmd
}

func (m *Model) updateSuffix(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Close):
		m.mode = modeBrowse
		m.suffix.Blur()
		return nil
	case key.Matches(msg, m.keys.Apply):
		m.mode = modeBrowse
		m.suffix.Blur()
		if body, ok := m.ShellView().Body.(shell.CubeBody); ok {
			body.OnUpdateHash(normalizeSuffix(m.suffix.Value()))
		}
		return nil
	}
	var cmd tea.Cmd
	m.suffix, cmd = m.suffix.Update(msg)
	return cmd
}

// updateBrowse handles keys outside the text inputs. It reports whether the
// program should quit.
func (m *Model) updateBrowse(msg tea.KeyMsg) bool {
	v := m.ShellView()
	items, onSelect := m.list(v)

	switch {
	case key.Matches(msg, m.keys.Quit):
		return true

	case key.Matches(msg, m.keys.Address):
		m.mode = modeAddress
		m.address.SetValue(trimMarker(m.s.loc.Hash()))
		m.address.CursorEnd()
		m.address.Focus()

	case key.Matches(msg, m.keys.Back):
		m.s.loc.Back()

	case key.Matches(msg, m.keys.Forward):
		m.s.loc.Forward()

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(items)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Apply):
		if onSelect == nil || m.cursor >= len(items) {
			return false
		}
		onSelect(items[m.cursor])
		m.cursor = 0
		m.status = ""
		m.commitCubeView()

	case key.Matches(msg, m.keys.Edit):
		body, ok := v.Body.(shell.CubeBody)
		if !ok {
			return false
		}
		m.mode = modeSuffix
		m.suffix.SetValue(body.Suffix())
		m.suffix.CursorEnd()
		m.suffix.Focus()

	case key.Matches(msg, m.keys.Menu):
		header, ok := v.Header.(shell.CubeHeader)
		if !ok {
			return false
		}
		header.OnNavClick()
		m.cursor = indexOfName(m.s.ctrl.State().DataSources, header.DataSource.Name)
		if !m.s.loader.Ready(overlay.Drawer) {
			m.status = "loading menu…"
		}

	case key.Matches(msg, m.keys.Close):
		if v.Overlay != nil {
			v.Overlay.OnClose()
		} else {
			m.s.ctrl.SetDrawerOpen(false)
		}
		m.cursor = 0
		m.status = ""
	}
	return false
}

// commitCubeView commits the state of a freshly shown cube view.
func (m *Model) commitCubeView() {
	if body, ok := m.ShellView().Body.(shell.CubeBody); ok {
		body.OnUpdateHash(body.Suffix())
	}
}

// list returns the selectable data sources: the drawer's when it is shown,
// otherwise the home list.
func (m Model) list(v shell.View) ([]nav.DataSource, func(nav.DataSource)) {
	if v.Overlay != nil {
		return v.Overlay.DataSources, v.Overlay.OnSelect
	}
	if body, ok := v.Body.(shell.HomeBody); ok {
		return body.DataSources, body.OnSelect
	}
	return nil, nil
}

func indexOfName(sources []nav.DataSource, name string) int {
	for i, ds := range sources {
		if ds.Name == name {
			return i
		}
	}
	return 0
}

func trimMarker(hash string) string {
	if len(hash) > 0 && hash[0] == '#' {
		return hash[1:]
	}
	return hash
}

func normalizeSuffix(s string) string {
	if s == "" || s[0] == '/' {
		return s
	}
	return "/" + s
}
