package fragment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type source struct{ name string }

func nameOf(s source) string { return s.name }

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		want     []string
	}{
		{"empty", "", []string{""}},
		{"marker only", "#", []string{""}},
		{"view only", "#home", []string{"home"}},
		{"no marker", "cube/wiki/x/y", []string{"cube", "wiki", "x", "y"}},
		{"single marker stripped", "##cube", []string{"#cube"}},
		{"empty segments kept", "#cube//x/", []string{"cube", "", "x", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.fragment))
		})
	}
}

func TestViewTag(t *testing.T) {
	assert.Equal(t, "", ViewTag(""))
	assert.Equal(t, "cube", ViewTag("#cube/wiki/x/y"))
	assert.Equal(t, "home", ViewTag("home"))
	assert.Equal(t, "Cube", ViewTag("#Cube/wiki"))
}

func TestLookup(t *testing.T) {
	items := []source{{"wiki"}, {"twitter"}, {"twitter"}}

	tests := []struct {
		name     string
		fragment string
		wantOK   bool
		want     string
	}{
		{"found", "#cube/twitter/x/y", true, "twitter"},
		{"unknown", "#cube/unknown/x/y", false, ""},
		{"case sensitive", "#cube/Twitter/x/y", false, ""},
		{"three segments", "#cube/twitter/x", false, ""},
		{"two segments", "#cube/twitter", false, ""},
		{"empty", "", false, ""},
		{"any view tag", "#home/wiki/a/b", true, "wiki"},
		{"empty trailing segments count", "#cube/wiki//", true, "wiki"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Lookup(tt.fragment, items, nameOf)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.name)
		})
	}
}

func TestLookup_FirstMatchWins(t *testing.T) {
	type tagged struct{ name, id string }
	items := []tagged{{"a", "1"}, {"b", "2"}, {"b", "3"}}

	got, ok := Lookup("#cube/b/x/y", items, func(i tagged) string { return i.name })
	assert.True(t, ok)
	assert.Equal(t, "2", got.id)
}

func TestSerialize(t *testing.T) {
	assert.Equal(t, "#cube/wiki/totals/x", Serialize(CubeTag, "wiki", "/totals/x"))
	assert.Equal(t, "#cube/wiki", Serialize(CubeTag, "wiki", ""))
	assert.Equal(t, "#home", Serialize("home", "wiki", ""))
	assert.Equal(t, "#home/about", Serialize("home", "", "/about"))
}

func TestSerializeParseRoundTrip(t *testing.T) {
	items := []source{{"wiki"}, {"twitter"}}
	suffixes := []string{"/x/y", "/totals/", "//", "/a/b/c/d"}

	for _, it := range items {
		for _, suffix := range suffixes {
			f := Serialize(CubeTag, it.name, suffix)
			assert.Equal(t, CubeTag, ViewTag(f), f)

			got, ok := Lookup(f, items, nameOf)
			assert.True(t, ok, f)
			assert.Equal(t, it.name, got.name, f)
			assert.Equal(t, suffix, Suffix(f), f)
		}
	}
}

func TestSuffix(t *testing.T) {
	assert.Equal(t, "", Suffix(""))
	assert.Equal(t, "", Suffix("#cube/wiki"))
	assert.Equal(t, "/about", Suffix("#home/about"))
	assert.Equal(t, "", Suffix("#home"))
}
