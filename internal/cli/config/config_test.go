package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/cubedash/internal/nav"
)

const sampleYAML = `
data_sources:
  - name: wiki
    title: Wikipedia
    engine: druid
  - name: twitter
home_link: https://example.com
max_filters: 10
server:
  port: 9000
  dev: true
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cubedash.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, sampleYAML)

	cfg, used, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, used)
	require.Len(t, cfg.DataSources, 2)
	assert.Equal(t, nav.DataSource{Name: "wiki", Title: "Wikipedia", Engine: "druid"}, cfg.DataSources[0])
	assert.Equal(t, "twitter", cfg.DataSources[1].Name)
	assert.Equal(t, "https://example.com", cfg.HomeLink)
	assert.Equal(t, 10, cfg.MaxFilters)
	assert.Equal(t, DefaultMaxSplits, cfg.MaxSplits, "unset keys keep defaults")
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.True(t, cfg.Server.Dev)
	assert.True(t, cfg.Server.AutoOpen)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	t.Setenv("CUBEDASH_SERVER__PORT", "9100")
	t.Setenv("CUBEDASH_LOG_LEVEL", "debug")

	cfg, _, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	path := writeConfig(t, sampleYAML)
	t.Setenv("CUBEDASH_SERVER__PORT", "9100")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	flags.Bool("verbose", false, "")
	flags.Int("max-splits", 0, "")
	require.NoError(t, flags.Parse([]string{"--port", "9200", "--max-splits", "5"}))

	cfg, _, err := Load(path, flags)
	require.NoError(t, err)

	assert.Equal(t, 9200, cfg.Server.Port)
	assert.Equal(t, 5, cfg.MaxSplits)
	assert.False(t, cfg.Verbose, "unset flags do not override")
}

func TestLoad_NoDataSources(t *testing.T) {
	path := writeConfig(t, "max_filters: 5\n")

	_, _, err := Load(path, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorIs(t, err, nav.ErrNoDataSources)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Sample()
		return c
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "sample is valid", mutate: func(*Config) {}},
		{name: "no data sources", mutate: func(c *Config) { c.DataSources = nil }, errSubstr: "must have data sources"},
		{name: "empty name", mutate: func(c *Config) { c.DataSources[0].Name = "" }, errSubstr: "has no name"},
		{name: "slash in name", mutate: func(c *Config) { c.DataSources[0].Name = "a/b" }, errSubstr: "must not contain"},
		{name: "hash in name", mutate: func(c *Config) { c.DataSources[0].Name = "a#b" }, errSubstr: "must not contain"},
		{name: "space in name", mutate: func(c *Config) { c.DataSources[0].Name = "my cube" }, errSubstr: "printable ASCII"},
		{name: "non-ASCII name", mutate: func(c *Config) { c.DataSources[0].Name = "café" }, errSubstr: "printable ASCII"},
		{name: "quote in name", mutate: func(c *Config) { c.DataSources[0].Name = `a"b` }, errSubstr: "printable ASCII"},
		{name: "angle bracket in name", mutate: func(c *Config) { c.DataSources[0].Name = "<b>" }, errSubstr: "printable ASCII"},
		{name: "backtick in name", mutate: func(c *Config) { c.DataSources[0].Name = "a`b" }, errSubstr: "printable ASCII"},
		{name: "tab in name", mutate: func(c *Config) { c.DataSources[0].Name = "a\tb" }, errSubstr: "printable ASCII"},
		{name: "punctuation kept as written", mutate: func(c *Config) { c.DataSources[0].Name = "sales_2024-eu.v2~x" }},
		{name: "duplicate name", mutate: func(c *Config) { c.DataSources[1].Name = c.DataSources[0].Name }, errSubstr: "duplicate"},
		{name: "zero max filters", mutate: func(c *Config) { c.MaxFilters = 0 }, errSubstr: "max_filters"},
		{name: "negative max splits", mutate: func(c *Config) { c.MaxSplits = -1 }, errSubstr: "max_splits"},
		{name: "port out of range", mutate: func(c *Config) { c.Server.Port = 70000 }, errSubstr: "server.port"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, errSubstr: "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestShellOptions(t *testing.T) {
	c := Sample()
	c.HomeLink = "https://example.com"
	c.HeaderBackground = "#123456"

	opts := c.ShellOptions("1.0.0")

	assert.Equal(t, "1.0.0", opts.Version)
	assert.Equal(t, "https://example.com", opts.HomeLink)
	assert.Equal(t, DefaultMaxFilters, opts.MaxFilters)
	assert.Equal(t, "#123456", opts.HeaderBackground)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := Sample()

	NewLogger(c, &buf).Debug("hidden")
	assert.Empty(t, buf.String())

	c.Verbose = true
	NewLogger(c, &buf).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}
