package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cubedash/internal/nav"
)

func newTestREPL(t *testing.T, hash string) *replSession {
	t.Helper()
	s, err := newREPLSession(testSources, hash, nil)
	require.NoError(t, err)
	return s
}

func execLine(t *testing.T, s *replSession, line string) string {
	t.Helper()
	var out bytes.Buffer
	quit, err := s.exec(&out, line)
	require.NoError(t, err)
	assert.False(t, quit)
	return out.String()
}

func TestREPL_NoDataSources(t *testing.T) {
	_, err := newREPLSession(nil, "", nil)
	assert.ErrorIs(t, err, nav.ErrNoDataSources)
}

func TestREPL_InitialState(t *testing.T) {
	s := newTestREPL(t, "#cube/twitter/split/user")

	out := execLine(t, s, "state")

	assert.Equal(t, "view=cube source=twitter drawer=false address=#cube/twitter/split/user\n", out)
}

func TestREPL_SelectCommitsWithoutReentry(t *testing.T) {
	s := newTestREPL(t, "")

	out := execLine(t, s, "select twitter")

	assert.Contains(t, out, "view=cube source=twitter")
	assert.Contains(t, out, "address=#cube/twitter/totals/")
	assert.Zero(t, s.applied, "synchronous echo must not be processed")
	assert.Equal(t, "#cube/twitter/totals/", s.ctrl.State().RawHash)
}

func TestREPL_AddressChangesApply(t *testing.T) {
	s := newTestREPL(t, "")
	execLine(t, s, "select twitter")

	out := execLine(t, s, "go #cube/wiki/split/page")
	assert.Contains(t, out, "source=wiki")
	assert.Equal(t, 1, s.applied)

	out = execLine(t, s, "back")
	assert.Contains(t, out, "source=twitter")
	assert.Equal(t, 2, s.applied)

	out = execLine(t, s, "forward")
	assert.Contains(t, out, "source=wiki")
	assert.Equal(t, 3, s.applied)
}

func TestREPL_CommitKeepsView(t *testing.T) {
	s := newTestREPL(t, "#cube/wiki")

	out := execLine(t, s, "commit split/page")

	assert.Contains(t, out, "address=#cube/wiki/split/page")
	assert.Zero(t, s.applied)
}

func TestREPL_HashChangeClosesDrawer(t *testing.T) {
	s := newTestREPL(t, "#cube/wiki")

	assert.Contains(t, execLine(t, s, "drawer open"), "drawer=true")
	out := execLine(t, s, "go #home")

	assert.Contains(t, out, "view=home")
	assert.Contains(t, out, "drawer=false")
}

func TestREPL_History(t *testing.T) {
	s := newTestREPL(t, "")
	execLine(t, s, "select wiki")
	execLine(t, s, "back")

	out := execLine(t, s, "history")

	assert.Equal(t, "> 0 (empty)\n  1 #cube/wiki/totals/\n", out)
}

func TestREPL_Errors(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{line: "select", want: "usage: select <name>"},
		{line: "select nope", want: `unknown data source "nope"`},
		{line: "back", want: "no earlier entry"},
		{line: "forward", want: "no later entry"},
		{line: "drawer sideways", want: "usage: drawer open|close"},
		{line: "jump", want: `unknown command "jump"`},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			s := newTestREPL(t, "")
			var out bytes.Buffer
			quit, err := s.exec(&out, tt.line)
			assert.False(t, quit)
			assert.ErrorContains(t, err, tt.want)
			assert.Empty(t, out.String())
		})
	}
}

func TestREPL_Quit(t *testing.T) {
	s := newTestREPL(t, "")

	for _, line := range []string{"quit", "exit"} {
		quit, err := s.exec(new(bytes.Buffer), line)
		require.NoError(t, err)
		assert.True(t, quit)
	}

	quit, err := s.exec(new(bytes.Buffer), "   ")
	require.NoError(t, err)
	assert.False(t, quit)
}
