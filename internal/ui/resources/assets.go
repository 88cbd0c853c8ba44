// Package resources serves the shell's static assets and acquires the
// lazily loaded overlay bundles from them.
package resources

// StaticDirectoryPath is the path to static assets from the project root.
const StaticDirectoryPath = "internal/ui/resources/static"

// OverlayDir is the directory holding one sub-directory per overlay bundle.
const OverlayDir = "overlay"

const staticPrefix = "/static/"

// StaticPath returns the URL path of a static asset.
func StaticPath(path string) string {
	return staticPrefix + path
}
