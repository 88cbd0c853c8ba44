// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/leapstack-labs/cubedash/internal/nav"
)

// DataSources are the data sources written by SetupTestProject.
var DataSources = []nav.DataSource{
	{Name: "wiki", Title: "Wikipedia Edits", Engine: "druid", Source: "wikipedia"},
	{Name: "twitter", Engine: "druid", Source: "twitter"},
}

// SetupTestProject creates a temporary directory holding a cubedash.yaml
// with DataSources and any extra top-level settings. It returns the path of
// the config file.
func SetupTestProject(t *testing.T, extra map[string]any) string {
	t.Helper()

	doc := map[string]any{"data_sources": DataSources}
	for k, v := range extra {
		doc[k] = v
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to encode config: %v", err)
	}

	path := filepath.Join(t.TempDir(), "cubedash.yaml")
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}
