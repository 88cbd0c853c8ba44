package nav

import (
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cubedash/internal/testutil"
)

var (
	wiki    = DataSource{Name: "wiki", Title: "Wikipedia Edits", Engine: "druid"}
	twitter = DataSource{Name: "twitter", Title: "Tweets", Engine: "druid"}
	sales   = DataSource{Name: "sales", Engine: "native"}
)

func newTestController(t *testing.T, hash string, sources ...DataSource) (*Controller, *MemoryLocation) {
	t.Helper()
	if len(sources) == 0 {
		sources = []DataSource{wiki, twitter}
	}
	loc := NewMemoryLocation(hash)
	c, err := NewController(sources, loc, testutil.NewTestLogger(t))
	require.NoError(t, err)
	return c, loc
}

func TestNewController_NoDataSources(t *testing.T) {
	_, err := NewController(nil, NewMemoryLocation(""), nil)
	require.ErrorIs(t, err, ErrNoDataSources)

	_, err = NewController([]DataSource{}, NewMemoryLocation("#cube/wiki/x/y"), nil)
	require.ErrorIs(t, err, ErrNoDataSources)
}

func TestNewController_Initialize(t *testing.T) {
	tests := []struct {
		name         string
		hash         string
		wantView     ViewType
		wantSelected string
	}{
		{"empty hash", "", ViewHome, "wiki"},
		{"home tag", "#home", ViewHome, "wiki"},
		{"cube with source", "#cube/twitter/x/y", ViewCube, "twitter"},
		{"cube with first source", "#cube/wiki/x/y", ViewCube, "wiki"},
		{"cube with unknown source", "#cube/unknown/x/y", ViewCube, "wiki"},
		{"cube too short", "#cube/twitter", ViewCube, "wiki"},
		{"cube three segments", "#cube/twitter/x", ViewCube, "wiki"},
		{"unknown view tag", "#settings/twitter/x/y", ViewHome, "twitter"},
		{"no marker", "cube/twitter/x/y", ViewCube, "twitter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, tt.hash)
			st := c.State()

			assert.Equal(t, tt.wantView, st.View)
			require.NotNil(t, st.Selected)
			assert.Equal(t, tt.wantSelected, st.Selected.Name)
			assert.Equal(t, NormalizeHash(tt.hash), st.RawHash)
			assert.False(t, st.DrawerOpen)
			assert.Equal(t, []DataSource{wiki, twitter}, st.DataSources)
		})
	}
}

func TestNewController_SelectionAlwaysMember(t *testing.T) {
	lists := [][]DataSource{
		{wiki},
		{wiki, twitter},
		{sales, twitter, wiki},
	}
	hashes := []string{"", "#", "#cube", "#cube/", "#cube/sales/a/b", "#cube/twitter//", "#//////", "#cube/wiki/x/y/z", "garbage"}

	for i, list := range lists {
		for _, h := range hashes {
			t.Run(fmt.Sprintf("%d_%s", i, h), func(t *testing.T) {
				c, err := NewController(list, NewMemoryLocation(h), nil)
				require.NoError(t, err)
				st := c.State()
				require.NotNil(t, st.Selected)
				assert.Contains(t, st.DataSources, *st.Selected)
			})
		}
	}
}

func TestNewController_CopiesHostList(t *testing.T) {
	sources := []DataSource{wiki, twitter}
	c, _ := newTestController(t, "", sources...)

	sources[0] = sales
	assert.Equal(t, "wiki", c.State().DataSources[0].Name)
	assert.Equal(t, "wiki", c.State().Selected.Name)
}

func TestHashChanged_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		start        string
		hash         string
		wantView     ViewType
		wantSelected string
		wantRawHash  string
	}{
		{"to cube with known source", "", "#cube/twitter/x/y", ViewCube, "twitter", "#cube/twitter/x/y"},
		{"to cube with unknown source falls back", "#cube/twitter/x/y", "#cube/unknown/x/y", ViewCube, "wiki", "#cube/unknown/x/y"},
		{"to cube without source falls back", "#cube/twitter/x/y", "#cube", ViewCube, "wiki", "#cube"},
		{"to home keeps selection", "#cube/twitter/x/y", "#home", ViewHome, "twitter", "#cube/twitter/x/y"},
		{"to empty is home", "#cube/twitter/x/y", "", ViewHome, "twitter", "#cube/twitter/x/y"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestController(t, tt.start)
			c.SetDrawerOpen(true)

			assert.True(t, c.HashChanged(tt.hash))

			st := c.State()
			assert.Equal(t, tt.wantView, st.View)
			assert.Equal(t, tt.wantSelected, st.Selected.Name)
			assert.Equal(t, tt.wantRawHash, st.RawHash)
			assert.False(t, st.DrawerOpen, "hash navigation closes the drawer")
		})
	}
}

func TestHashChanged_FallbackUsesConfiguredFirstSource(t *testing.T) {
	c, _ := newTestController(t, "#cube/twitter/x/y")

	c.HashChanged("#cube/nope/x/y")
	st := c.State()
	assert.Same(t, &st.DataSources[0], st.Selected)
}

func TestHashChanged_Idempotent(t *testing.T) {
	for _, h := range []string{"", "#home", "#cube/twitter/x/y", "#cube/unknown/a/b", "#cube"} {
		t.Run(h, func(t *testing.T) {
			c, _ := newTestController(t, "#cube/twitter/a/b")

			c.HashChanged(h)
			first := c.State()
			c.HashChanged(h)
			second := c.State()

			assert.Equal(t, first, second)
			assert.Same(t, first.Selected, second.Selected)
		})
	}
}

func TestChangeDataSource(t *testing.T) {
	c, _ := newTestController(t, "")
	require.Equal(t, ViewHome, c.State().View)

	before := c.State().Selected
	c.ChangeDataSource(DataSource{Name: "wiki", Title: "Wikipedia Edits", Engine: "druid"})

	st := c.State()
	assert.Equal(t, ViewCube, st.View, "selection always forces the cube view")
	assert.Same(t, before, st.Selected, "equal value keeps the selection untouched")

	c.ChangeDataSource(twitter)
	assert.Equal(t, "twitter", c.State().Selected.Name)
	assert.Same(t, &c.State().DataSources[1], c.State().Selected)
}

func TestChangeDataSource_UnknownValueKeepsSelection(t *testing.T) {
	c, _ := newTestController(t, "")

	c.ChangeDataSource(sales)
	st := c.State()
	assert.Equal(t, ViewCube, st.View)
	assert.Equal(t, "wiki", st.Selected.Name)

	// Same name but different content is a different value.
	c.ChangeDataSource(DataSource{Name: "twitter"})
	assert.Equal(t, "wiki", c.State().Selected.Name)
}

func TestSelectByName(t *testing.T) {
	c, _ := newTestController(t, "")

	assert.True(t, c.SelectByName("twitter"))
	assert.Equal(t, "twitter", c.State().Selected.Name)
	assert.Equal(t, ViewCube, c.State().View)

	assert.False(t, c.SelectByName("missing"))
	assert.Equal(t, "twitter", c.State().Selected.Name)
}

func TestSelectByName_WarnsOnUnknown(t *testing.T) {
	logger, records := testutil.NewRecordingLogger(t, slog.LevelWarn)
	c, err := NewController([]DataSource{wiki, twitter}, NewMemoryLocation(""), logger)
	require.NoError(t, err)

	c.Commit("")
	c.SelectByName("missing")

	assert.Equal(t, []string{"unknown data source selected"}, records.Messages())
}

func TestCommit_WritesFragment(t *testing.T) {
	c, loc := newTestController(t, "")

	assert.Equal(t, "#home", c.Commit(""))
	assert.Equal(t, "#home", loc.Hash())

	c.ChangeDataSource(twitter)
	assert.Equal(t, "#cube/twitter/totals/x", c.Commit("/totals/x"))
	assert.Equal(t, "#cube/twitter/totals/x", loc.Hash())
	assert.Equal(t, "#cube/twitter/totals/x", c.State().RawHash)
}

func TestCommit_SynchronousEchoIgnored(t *testing.T) {
	c, loc := newTestController(t, "#cube/wiki/a/b")
	var applied []bool
	loc.OnChange(func(h string) { applied = append(applied, c.HashChanged(h)) })

	c.SetDrawerOpen(true)
	before := c.State()
	c.Commit("/c/d")
	after := c.State()

	assert.Equal(t, []bool{false}, applied)
	assert.True(t, after.DrawerOpen, "echo must not close the drawer")
	assert.Same(t, before.Selected, after.Selected)
	assert.Equal(t, "#cube/wiki/c/d", after.RawHash)

	// A later user navigation is processed normally.
	loc.Navigate("#cube/twitter/x/y")
	assert.Equal(t, []bool{false, true}, applied)
	assert.Equal(t, "twitter", c.State().Selected.Name)
}

func TestCommit_AsynchronousEchoIgnored(t *testing.T) {
	c, loc := newTestController(t, "#cube/wiki/a/b")
	var queued []string
	loc.OnChange(func(h string) { queued = append(queued, h) })

	c.SetDrawerOpen(true)
	c.Commit("/c/d")
	before := c.State()

	require.Equal(t, []string{"#cube/wiki/c/d"}, queued)
	assert.False(t, c.HashChanged(queued[0]), "delayed echo of own write")
	assert.Equal(t, before, c.State())

	// The mark is spent: the same fragment from the user is processed.
	assert.True(t, c.HashChanged("#cube/wiki/c/d"))
	assert.False(t, c.State().DrawerOpen)
}

func TestCommit_UnchangedHashSetsNoEchoMark(t *testing.T) {
	c, loc := newTestController(t, "#cube/wiki/a/b")
	var notified int
	loc.OnChange(func(string) { notified++ })

	c.Commit("/a/b")
	assert.Equal(t, 0, notified, "unchanged hash emits no change")

	c.SetDrawerOpen(true)
	assert.True(t, c.HashChanged("#cube/wiki/a/b"))
	assert.False(t, c.State().DrawerOpen)
}

func TestCommit_OtherChangeClearsEchoMark(t *testing.T) {
	c, _ := newTestController(t, "")
	c.ChangeDataSource(twitter)
	c.Commit("/a/b")

	assert.True(t, c.HashChanged("#home"))
	assert.True(t, c.HashChanged("#cube/twitter/a/b"), "mark was cleared by the earlier change")
	assert.Equal(t, ViewCube, c.State().View)
}

func TestSetDrawerOpen(t *testing.T) {
	c, _ := newTestController(t, "")
	c.SetDrawerOpen(true)
	assert.True(t, c.State().DrawerOpen)
	c.SetDrawerOpen(false)
	assert.False(t, c.State().DrawerOpen)
}

func TestDataSource_DisplayTitle(t *testing.T) {
	assert.Equal(t, "Wikipedia Edits", wiki.DisplayTitle())
	assert.Equal(t, "Sales", sales.DisplayTitle())
}

func TestViewTypeFromTag(t *testing.T) {
	assert.Equal(t, ViewCube, ViewTypeFromTag("cube"))
	assert.Equal(t, ViewHome, ViewTypeFromTag(""))
	assert.Equal(t, ViewHome, ViewTypeFromTag("home"))
	assert.Equal(t, ViewHome, ViewTypeFromTag("CUBE"))
	assert.Equal(t, "cube", ViewCube.Tag())
	assert.Equal(t, "home", ViewHome.String())
}
