// Package nav holds the navigation state of one dashboard shell and the
// controller that keeps it in step with the address fragment.
package nav

import (
	"github.com/leapstack-labs/cubedash/internal/fragment"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DataSource is a queryable data cube offered by the host application.
// All fields are strings so values compare structurally.
type DataSource struct {
	Name        string `koanf:"name" yaml:"name" json:"name"`
	Title       string `koanf:"title" yaml:"title,omitempty" json:"title,omitempty"`
	Engine      string `koanf:"engine" yaml:"engine,omitempty" json:"engine,omitempty"`
	Source      string `koanf:"source" yaml:"source,omitempty" json:"source,omitempty"`
	Description string `koanf:"description" yaml:"description,omitempty" json:"description,omitempty"`
}

// Equal reports whether two data sources carry the same content.
func (d DataSource) Equal(other DataSource) bool {
	return d == other
}

// DisplayTitle returns the title, or the name in title case when unset.
func (d DataSource) DisplayTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return cases.Title(language.English).String(d.Name)
}

// DataSourceOf resolves the data source named by a fragment. It reports
// false when the fragment is too short or names no known source.
func DataSourceOf(f string, sources []DataSource) (DataSource, bool) {
	return fragment.Lookup(f, sources, func(d DataSource) string { return d.Name })
}

func indexOf(sources []DataSource, ds DataSource) int {
	for i := range sources {
		if sources[i].Equal(ds) {
			return i
		}
	}
	return -1
}
