//go:build dev

package resources

import (
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Dir is the static directory next to this source file, so dev builds read
// the working tree wherever the binary runs from.
func Dir() string {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// FS returns the static asset tree, read live from disk.
func FS() fs.FS {
	return os.DirFS(Dir())
}

// Handler serves assets from disk. Responses are revalidated on every
// request so edits show up on reload.
func Handler() http.Handler {
	slog.Info("static assets served from filesystem", "path", Dir())
	files := http.StripPrefix(staticPrefix, http.FileServerFS(FS()))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		files.ServeHTTP(w, r)
	})
}
