// Package config provides configuration management for the cubedash CLI.
package config

import (
	"github.com/leapstack-labs/cubedash/internal/nav"
	"github.com/leapstack-labs/cubedash/internal/shell"
)

// Default configuration values.
const (
	DefaultPort       = 8765
	DefaultMaxFilters = 20
	DefaultMaxSplits  = 3
	DefaultLogLevel   = "info"
	DefaultHomeLink   = ""
	DefaultBackground = ""
)

// ServerConfig holds configuration for the web shell server.
type ServerConfig struct {
	Port          int    `koanf:"port" yaml:"port"`
	AutoOpen      bool   `koanf:"auto_open" yaml:"auto_open"`
	Watch         bool   `koanf:"watch" yaml:"watch"`
	SessionSecret string `koanf:"session_secret" yaml:"session_secret,omitempty"`
	Dev           bool   `koanf:"dev" yaml:"dev"`
}

// Config holds all CLI configuration options.
type Config struct {
	DataSources      []nav.DataSource `koanf:"data_sources" yaml:"data_sources"`
	HomeLink         string           `koanf:"home_link" yaml:"home_link,omitempty"`
	MaxFilters       int              `koanf:"max_filters" yaml:"max_filters"`
	MaxSplits        int              `koanf:"max_splits" yaml:"max_splits"`
	ShowLastUpdated  bool             `koanf:"show_last_updated" yaml:"show_last_updated"`
	HideGitHubIcon   bool             `koanf:"hide_github_icon" yaml:"hide_github_icon"`
	HeaderBackground string           `koanf:"header_background" yaml:"header_background,omitempty"`
	Server           ServerConfig     `koanf:"server" yaml:"server"`
	LogLevel         string           `koanf:"log_level" yaml:"log_level"`
	Verbose          bool             `koanf:"verbose" yaml:"-"`
}

// ShellOptions returns the display settings handed to the shell.
func (c *Config) ShellOptions(version string) shell.Options {
	return shell.Options{
		Version:          version,
		HomeLink:         c.HomeLink,
		MaxFilters:       c.MaxFilters,
		MaxSplits:        c.MaxSplits,
		ShowLastUpdated:  c.ShowLastUpdated,
		HideGitHubIcon:   c.HideGitHubIcon,
		HeaderBackground: c.HeaderBackground,
	}
}

// Sample returns the configuration written by `cubedash init`.
func Sample() *Config {
	return &Config{
		DataSources: []nav.DataSource{
			{Name: "wiki", Title: "Wikipedia Edits", Engine: "druid", Source: "wikipedia", Description: "Edits made to Wikipedia"},
			{Name: "twitter", Title: "Twitter", Engine: "druid", Source: "twitter"},
		},
		MaxFilters: DefaultMaxFilters,
		MaxSplits:  DefaultMaxSplits,
		Server: ServerConfig{
			Port:     DefaultPort,
			AutoOpen: true,
			Watch:    false,
		},
		LogLevel: DefaultLogLevel,
	}
}
