// Package fragment converts between address fragments ("#cube/wiki/...")
// and the navigation parts the shell cares about.
//
// The fragment format is
//
//	#<viewType>[/<dataSourceName><viewInternalSuffix>]
//
// Reading is tolerant: nothing here ever fails. Short or malformed fragments
// simply yield empty tags or "not found", and callers fall back to defaults.
package fragment

import "strings"

// Marker is the leading fragment character stripped by Parse.
const Marker = "#"

// CubeTag is the view tag that carries a data-source segment.
const CubeTag = "cube"

// MinCubeSegments is the minimum number of segments a fragment needs before
// its second segment is trusted as a data-source name: view type, data
// source, and at least two segments owned by the embedded view.
const MinCubeSegments = 4

// Parse strips a single leading marker and splits the remainder on "/".
// Empty segments are kept in place.
func Parse(fragment string) []string {
	fragment = strings.TrimPrefix(fragment, Marker)
	return strings.Split(fragment, "/")
}

// ViewTag returns the first segment of the fragment, or "" for an empty one.
func ViewTag(fragment string) string {
	return Parse(fragment)[0]
}

// DataSourceName returns the data-source segment of the fragment. It reports
// false when the fragment has fewer than MinCubeSegments segments.
func DataSourceName(fragment string) (string, bool) {
	parts := Parse(fragment)
	if len(parts) < MinCubeSegments {
		return "", false
	}
	return parts[1], true
}

// Lookup returns the first item whose name equals the fragment's data-source
// segment. Matching is exact and case-sensitive.
func Lookup[T any](fragment string, items []T, nameOf func(T) string) (T, bool) {
	var zero T
	name, ok := DataSourceName(fragment)
	if !ok {
		return zero, false
	}
	for _, item := range items {
		if nameOf(item) == name {
			return item, true
		}
	}
	return zero, false
}

// Serialize builds a fragment. The cube tag gets a data-source segment,
// every other tag does not. suffix is owned by the embedded view and starts
// with "/" when non-empty.
func Serialize(viewTag, dataSourceName, suffix string) string {
	if viewTag == CubeTag {
		return Marker + viewTag + "/" + dataSourceName + suffix
	}
	return Marker + viewTag + suffix
}

// Suffix returns everything after the data-source segment of a cube
// fragment, or after the view tag otherwise. It is the inverse of Serialize
// for well-formed fragments.
func Suffix(fragment string) string {
	parts := Parse(fragment)
	skip := 1
	if parts[0] == CubeTag {
		skip = 2
	}
	if len(parts) <= skip {
		return ""
	}
	return "/" + strings.Join(parts[skip:], "/")
}
