package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/cubedash/internal/fragment"
	"github.com/leapstack-labs/cubedash/internal/nav"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.DataSources) == 0 {
		return fmt.Errorf("%w: %w: add at least one entry under data_sources", ErrInvalidConfig, nav.ErrNoDataSources)
	}

	seen := make(map[string]bool, len(c.DataSources))
	for i, ds := range c.DataSources {
		switch {
		case ds.Name == "":
			return fmt.Errorf("%w: data_sources[%d] has no name", ErrInvalidConfig, i)
		case strings.ContainsAny(ds.Name, "/"+fragment.Marker):
			return fmt.Errorf("%w: data source name %q must not contain '/' or '#'", ErrInvalidConfig, ds.Name)
		case !fragmentSafe(ds.Name):
			return fmt.Errorf("%w: data source name %q must be printable ASCII without spaces or any of %s", ErrInvalidConfig, ds.Name, fragmentEncoded)
		case seen[ds.Name]:
			return fmt.Errorf("%w: duplicate data source name %q", ErrInvalidConfig, ds.Name)
		}
		seen[ds.Name] = true
	}

	if c.MaxFilters <= 0 {
		return fmt.Errorf("%w: max_filters must be positive, got %d", ErrInvalidConfig, c.MaxFilters)
	}
	if c.MaxSplits <= 0 {
		return fmt.Errorf("%w: max_splits must be positive, got %d", ErrInvalidConfig, c.MaxSplits)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server.port out of range: %d", ErrInvalidConfig, c.Server.Port)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// fragmentEncoded are the printable ASCII characters browsers percent-encode
// in location.hash.
const fragmentEncoded = "\"<>`"

// fragmentSafe reports whether name reads back from location.hash exactly as
// written. Names that the browser percent-encodes would not match the data
// source when the fragment returns.
func fragmentSafe(name string) bool {
	for _, r := range name {
		if r <= ' ' || r > '~' || strings.ContainsRune(fragmentEncoded, r) {
			return false
		}
	}
	return true
}

// ParseLevel converts a log_level value to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}
	return level, nil
}
