//go:build !dev

package resources

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// FS returns the embedded asset tree rooted at the static directory.
func FS() fs.FS {
	fsys, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return fsys
}

// Dir returns "": embedded builds have no directory to watch.
func Dir() string {
	return ""
}

// Handler serves the embedded assets with long-lived caching.
func Handler() http.Handler {
	files := http.StripPrefix(staticPrefix, http.FileServerFS(FS()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		files.ServeHTTP(w, r)
	})
}
