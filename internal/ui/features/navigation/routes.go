package navigation

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes configures routes for the navigation shell.
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Get("/", h.Page)
	router.Get("/updates", h.Updates)

	router.Route("/nav", func(r chi.Router) {
		r.Post("/mount", h.Mount)
		r.Post("/hash", h.Hash)
		r.Post("/select", h.Select)
		r.Post("/commit", h.Commit)
		r.Post("/drawer/open", h.OpenDrawer)
		r.Post("/drawer/close", h.CloseDrawer)
	})
}
