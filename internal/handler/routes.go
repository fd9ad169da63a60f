package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// API bundles the handlers so the server and the tests mount the exact same
// routing table.
type API struct {
	Snippets   *SnippetHandler
	Categories *CategoryHandler
	Tags       *TagHandler
	Dashboard  *DashboardHandler
}

// Mount registers every route on r.
//
// guard wraps the routes that change data. Pass nil to leave them open, which
// is the default for a single local user with no api_secret configured.
//
// ROUTE GROUPS:
// chi's r.Group creates an inline sub-router sharing the parent's path but
// with its own middleware stack, so reads and writes can sit side by side
// under the same /api/snippets prefix while only writes are guarded.
func (a *API) Mount(r chi.Router, guard func(http.Handler) http.Handler) {
	r.Get("/healthz", a.Dashboard.HandleHealth)

	r.Route("/api", func(r chi.Router) {
		// Reads.
		r.Get("/snippets", a.Snippets.HandleList)
		r.Get("/snippets/{id}", a.Snippets.HandleGet)
		r.Get("/categories", a.Categories.HandleList)
		r.Get("/categories/{id}", a.Categories.HandleGet)
		r.Get("/tags", a.Tags.HandleList)
		r.Get("/tags/{id}", a.Tags.HandleGet)
		r.Get("/settings", a.Dashboard.HandleGetSettings)
		r.Get("/stats", a.Dashboard.HandleStats)

		// Writes.
		r.Group(func(r chi.Router) {
			if guard != nil {
				r.Use(guard)
			}

			r.Post("/snippets", a.Snippets.HandleCreate)
			r.Put("/snippets/{id}", a.Snippets.HandleUpdate)
			r.Delete("/snippets/{id}", a.Snippets.HandleDelete)

			r.Post("/categories", a.Categories.HandleCreate)
			r.Put("/categories/{id}", a.Categories.HandleUpdate)
			r.Delete("/categories/{id}", a.Categories.HandleDelete)

			r.Post("/tags", a.Tags.HandleCreate)
			r.Delete("/tags", a.Tags.HandleBulkDelete)
			r.Put("/tags/{id}", a.Tags.HandleUpdate)
			r.Delete("/tags/{id}", a.Tags.HandleDelete)

			r.Put("/settings", a.Dashboard.HandleUpdateSettings)
		})
	})
}
