package resources

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"path"

	"github.com/leapstack-labs/cubedash/internal/overlay"
)

// BundleFetcher acquires overlay bundles from fsys. A bundle is every file
// under overlay/<resource>/, in lexical order.
func BundleFetcher(fsys fs.FS) overlay.Fetcher {
	return overlay.FetchFunc(func(ctx context.Context, id overlay.Resource) (overlay.Bundle, error) {
		dir := path.Join(OverlayDir, string(id))
		entries, err := fs.ReadDir(fsys, dir)
		if err != nil {
			return overlay.Bundle{}, fmt.Errorf("read bundle %s: %w", id, err)
		}

		bundle := overlay.Bundle{ID: id}
		for _, e := range entries {
			if err := ctx.Err(); err != nil {
				return overlay.Bundle{}, err
			}
			if e.IsDir() {
				continue
			}
			p := path.Join(dir, e.Name())
			body, err := fs.ReadFile(fsys, p)
			if err != nil {
				return overlay.Bundle{}, fmt.Errorf("read bundle asset %s: %w", p, err)
			}
			bundle.Assets = append(bundle.Assets, overlay.Asset{
				Path:        p,
				ContentType: mime.TypeByExtension(path.Ext(p)),
				Body:        body,
			})
		}
		if len(bundle.Assets) == 0 {
			return overlay.Bundle{}, fmt.Errorf("bundle %s is empty", id)
		}
		return bundle, nil
	})
}
