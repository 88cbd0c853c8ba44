// Package router sets up HTTP routes for the UI server.
package router

import (
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/cubedash/internal/ui/features/navigation"
	"github.com/leapstack-labs/cubedash/internal/ui/resources"
)

// Reloader tells open dev pages to reload.
type Reloader struct {
	reloadChan    chan struct{}
	hotReloadOnce sync.Once
}

// NewReloader creates a Reloader.
func NewReloader() *Reloader {
	return &Reloader{reloadChan: make(chan struct{}, 1)}
}

// Trigger queues a reload. Pending reloads are coalesced.
func (rl *Reloader) Trigger() {
	select {
	case rl.reloadChan <- struct{}{}:
	default:
	}
}

// SetupRoutes configures all routes for the UI server. reloader is nil
// outside dev mode.
func SetupRoutes(router chi.Router, nav *navigation.Handlers, reloader *Reloader) {
	if reloader != nil {
		setupReload(router, reloader)
	}

	router.Handle("/static/*", resources.Handler())

	navigation.SetupRoutes(router, nav)
}

func setupReload(router chi.Router, rl *Reloader) {
	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		// The first page after a restart reloads once to pick up new assets.
		rl.hotReloadOnce.Do(reload)
		select {
		case <-rl.reloadChan:
			reload()
		case <-r.Context().Done():
		}
	})

	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		rl.Trigger()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
