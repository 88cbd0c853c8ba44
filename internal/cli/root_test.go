package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cubedash/internal/cli/testutil"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out, errOut := new(bytes.Buffer), new(bytes.Buffer)
	cmd.SetArgs(args)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestRoot_Subcommands(t *testing.T) {
	cmd := NewRootCmd()

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"serve", "tui", "repl", "sources", "fragment", "init", "version", "completion"} {
		assert.Contains(t, names, want)
	}
	for _, flag := range []string{"config", "verbose", "log-level"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRoot_VersionWithoutConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "cubedash v"+Version)
}

func TestRoot_FragmentWithoutConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := execute(t, "fragment", "format", "--source", "wiki", "--state", "/totals/")
	require.NoError(t, err)
	assert.Equal(t, "#cube/wiki/totals/\n", out)
}

func TestRoot_SourcesLoadsConfig(t *testing.T) {
	path := testutil.SetupTestProject(t, nil)

	out, _, err := execute(t, "--config", path, "sources")
	require.NoError(t, err)

	assert.Contains(t, out, "Wikipedia Edits")
	assert.Contains(t, out, "Twitter")
	testutil.AssertNoANSI(t, out)
}

func TestRoot_VerboseLogsConfigFile(t *testing.T) {
	path := testutil.SetupTestProject(t, nil)

	_, errOut, err := execute(t, "--config", path, "-v", "sources", "-f", "json")
	require.NoError(t, err)

	assert.Contains(t, errOut, "using config file")
	assert.Contains(t, errOut, path)
}

func TestRoot_InvalidConfig(t *testing.T) {
	path := testutil.SetupTestProject(t, map[string]any{"max_splits": 0})

	_, _, err := execute(t, "--config", path, "sources")
	assert.ErrorContains(t, err, "max_splits")
}

func TestRoot_MissingDataSources(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := execute(t, "sources")
	assert.Error(t, err)
}

func TestCompletion(t *testing.T) {
	out, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "cubedash")
}
