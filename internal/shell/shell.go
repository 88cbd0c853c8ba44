// Package shell derives what the dashboard shows from its navigation state.
//
// Derive is pure: front-ends call it after every state change and render the
// returned View with whatever toolkit they use.
package shell

import (
	"time"

	"github.com/leapstack-labs/cubedash/internal/fragment"
	"github.com/leapstack-labs/cubedash/internal/nav"
	"github.com/leapstack-labs/cubedash/internal/overlay"
)

// Options carries the host's display settings.
type Options struct {
	Version          string
	HomeLink         string
	MaxFilters       int
	MaxSplits        int
	ShowLastUpdated  bool
	HideGitHubIcon   bool
	HeaderBackground string
}

// Callbacks are the entry points views use to talk back to the shell.
// Nil callbacks are replaced by no-ops.
type Callbacks struct {
	SelectDataSource func(nav.DataSource)
	UpdateHash       func(suffix string)
	SetDrawerOpen    func(open bool)
}

// Header is the bar at the top of the shell. It is either a CubeHeader or
// a HomeHeader.
type Header interface {
	isHeader()
}

// Body is the main view. It is either a CubeBody or a HomeBody.
type Body interface {
	isBody()
}

// CubeHeader is the header of the cube view.
type CubeHeader struct {
	DataSource      nav.DataSource
	ShowLastUpdated bool
	HideGitHubIcon  bool
	Color           string
	OnNavClick      func()
}

// HomeHeader is the header of the home view.
type HomeHeader struct {
	Version        string
	HideGitHubIcon bool
}

// CubeBody is the exploration view of one data source.
type CubeBody struct {
	DataSource nav.DataSource
	Hash       string
	MaxFilters int
	MaxSplits  int
	// OnUpdateHash must be called with the view's own suffix whenever its
	// state should show in the address bar.
	OnUpdateHash func(suffix string)
}

// HomeBody lists the data sources.
type HomeBody struct {
	DataSources []nav.DataSource
	OnSelect    func(nav.DataSource)
}

func (CubeHeader) isHeader() {}
func (HomeHeader) isHeader() {}
func (CubeBody) isBody()     {}
func (HomeBody) isBody()     {}

// Overlay is the side drawer.
type Overlay struct {
	DataSources []nav.DataSource
	Selected    nav.DataSource
	HomeLink    string
	OnSelect    func(nav.DataSource)
	OnClose     func()
}

// Transition animates the overlay in and out.
type Transition struct {
	Name  string
	Enter time.Duration
	Leave time.Duration
}

// DrawerTransition is the animation used once its resources are loaded.
var DrawerTransition = Transition{
	Name:  "side-drawer",
	Enter: 500 * time.Millisecond,
	Leave: 300 * time.Millisecond,
}

// View is everything the shell shows.
type View struct {
	Kind   nav.ViewType
	Header Header
	Body   Body
	// Overlay is nil unless the drawer is open and its resources are loaded.
	Overlay *Overlay
	// Transition is non-nil once the transition resources are loaded. The
	// animated container stays mounted even while the overlay is closed, so
	// the leave animation can run.
	Transition *Transition
}

// Derive builds the view for st.
func Derive(st nav.State, ready overlay.Readiness, opts Options, cb Callbacks) View {
	cb = cb.withDefaults()
	selected := st.SelectedDataSource()

	v := View{Kind: st.View}
	switch st.View {
	case nav.ViewCube:
		v.Header = CubeHeader{
			DataSource:      selected,
			ShowLastUpdated: opts.ShowLastUpdated,
			HideGitHubIcon:  opts.HideGitHubIcon,
			Color:           opts.HeaderBackground,
			OnNavClick:      func() { cb.SetDrawerOpen(true) },
		}
		v.Body = CubeBody{
			DataSource:   selected,
			Hash:         st.RawHash,
			MaxFilters:   opts.MaxFilters,
			MaxSplits:    opts.MaxSplits,
			OnUpdateHash: cb.UpdateHash,
		}
	case nav.ViewHome:
		v.Header = HomeHeader{Version: opts.Version, HideGitHubIcon: opts.HideGitHubIcon}
		v.Body = HomeBody{
			DataSources: st.DataSources,
			OnSelect:    cb.SelectDataSource,
		}
	}

	if st.DrawerOpen && ready.Drawer {
		v.Overlay = &Overlay{
			DataSources: st.DataSources,
			Selected:    selected,
			HomeLink:    opts.HomeLink,
			OnSelect:    cb.SelectDataSource,
			OnClose:     func() { cb.SetDrawerOpen(false) },
		}
	}
	if ready.Transition {
		t := DrawerTransition
		v.Transition = &t
	}
	return v
}

func (cb Callbacks) withDefaults() Callbacks {
	if cb.SelectDataSource == nil {
		cb.SelectDataSource = func(nav.DataSource) {}
	}
	if cb.UpdateHash == nil {
		cb.UpdateHash = func(string) {}
	}
	if cb.SetDrawerOpen == nil {
		cb.SetDrawerOpen = func(bool) {}
	}
	return cb
}

// ControllerCallbacks binds the callbacks straight to c, for hosts that
// call Derive from the controller's own event loop.
func ControllerCallbacks(c *nav.Controller) Callbacks {
	return Callbacks{
		SelectDataSource: c.ChangeDataSource,
		UpdateHash:       func(suffix string) { c.Commit(suffix) },
		SetDrawerOpen:    c.SetDrawerOpen,
	}
}

// DefaultCubeSuffix is the suffix the cube view commits for a data source it
// has no state for yet.
const DefaultCubeSuffix = "/totals/"

// Suffix returns the view state the cube view should commit: the suffix of
// its hash when the hash belongs to its data source, the default otherwise.
func (b CubeBody) Suffix() string {
	if fragment.ViewTag(b.Hash) != fragment.CubeTag {
		return DefaultCubeSuffix
	}
	if name, ok := fragment.DataSourceName(b.Hash); !ok || name != b.DataSource.Name {
		return DefaultCubeSuffix
	}
	return fragment.Suffix(b.Hash)
}
