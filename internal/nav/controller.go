package nav

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/leapstack-labs/cubedash/internal/fragment"
)

// ErrNoDataSources is returned when a shell is created without data sources.
var ErrNoDataSources = errors.New("must have data sources")

// Controller reconciles the navigation state with its Location.
//
// A Controller is owned by a single event loop and is not safe for
// concurrent use; wrap it in a Loop when events come from several
// goroutines.
type Controller struct {
	state    State
	defaults []DataSource
	location Location
	logger   *slog.Logger

	// updating is raised while Commit writes to the location, so a listener
	// that delivers the change synchronously is ignored.
	updating bool

	// echo is the last fragment Commit wrote and has not yet seen come back.
	// Listeners that deliver asynchronously are matched against it instead
	// of relying on the guard still being up.
	echo    string
	echoSet bool
}

// NewController initializes a shell from the host's data sources and the
// location's current fragment.
func NewController(sources []DataSource, location Location, logger *slog.Logger) (*Controller, error) {
	if len(sources) == 0 {
		return nil, ErrNoDataSources
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	c := &Controller{
		defaults: slices.Clone(sources),
		location: location,
		logger:   logger,
	}

	hash := location.Hash()
	list := slices.Clone(sources)
	selected := &list[0]
	if ds, ok := DataSourceOf(hash, list); ok && !ds.Equal(*selected) {
		selected = &list[indexOf(list, ds)]
	}

	c.state = State{
		View:        ViewTypeFromTag(fragment.ViewTag(hash)),
		Selected:    selected,
		RawHash:     hash,
		DataSources: list,
	}

	logger.Debug("shell initialized",
		"view", c.state.View,
		"data_source", selected.Name,
		"hash", hash)
	return c, nil
}

// State returns a snapshot of the navigation state.
func (c *Controller) State() State {
	return c.state
}

// Location returns the address bar the controller commits to.
func (c *Controller) Location() Location {
	return c.location
}

// HashChanged handles a hash-change notification. It reports whether the
// notification was processed; the controller's own writes are skipped.
func (c *Controller) HashChanged(hash string) bool {
	hash = NormalizeHash(hash)

	if c.updating {
		c.consumeEcho(hash)
		c.logger.Debug("hash change ignored during commit", "hash", hash)
		return false
	}
	if c.consumeEcho(hash) {
		c.logger.Debug("hash change is echo of commit", "hash", hash)
		return false
	}

	view := ViewTypeFromTag(fragment.ViewTag(hash))
	if view == ViewCube {
		ds, ok := DataSourceOf(hash, c.state.DataSources)
		if !ok {
			ds = c.defaults[0]
		}
		c.ChangeDataSource(ds)
		c.state.RawHash = hash
	}
	c.state.View = view
	c.state.DrawerOpen = false

	c.logger.Debug("hash change applied",
		"hash", hash,
		"view", view,
		"data_source", c.state.Selected.Name)
	return true
}

// consumeEcho clears the pending echo and reports whether hash matched it.
func (c *Controller) consumeEcho(hash string) bool {
	if !c.echoSet {
		return false
	}
	c.echoSet = false
	return c.echo == hash
}

// ChangeDataSource switches to the cube view of ds. The selection is only
// replaced when ds differs from the current one; values that are not in the
// data-source list are ignored.
func (c *Controller) ChangeDataSource(ds DataSource) {
	if c.state.View != ViewCube {
		c.state.View = ViewCube
	}
	if c.state.Selected.Equal(ds) {
		return
	}
	i := indexOf(c.state.DataSources, ds)
	if i < 0 {
		c.logger.Warn("unknown data source selected", "data_source", ds.Name)
		return
	}
	c.state.Selected = &c.state.DataSources[i]
}

// SelectByName changes the data source to the first one named name. It
// reports false when no such data source exists.
func (c *Controller) SelectByName(name string) bool {
	for _, ds := range c.state.DataSources {
		if ds.Name == name {
			c.ChangeDataSource(ds)
			return true
		}
	}
	c.logger.Warn("unknown data source selected", "data_source", name)
	return false
}

// Commit writes the current state to the location. suffix is supplied by
// the embedded view and starts with "/" when non-empty. It returns the
// fragment written.
func (c *Controller) Commit(suffix string) string {
	c.updating = true

	name := ""
	if c.state.View == ViewCube {
		name = c.state.Selected.Name
	}
	hash := fragment.Serialize(c.state.View.Tag(), name, suffix)

	if hash != c.location.Hash() {
		c.echo = hash
		c.echoSet = true
	}
	c.location.SetHash(hash)
	c.state.RawHash = hash

	c.updating = false

	c.logger.Debug("hash committed", "hash", hash)
	return hash
}

// SetDrawerOpen shows or hides the side drawer.
func (c *Controller) SetDrawerOpen(open bool) {
	c.state.DrawerOpen = open
}
