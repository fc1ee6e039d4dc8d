/*
Package api exposes the profit pipeline and the cost table over HTTP.

ROUTES:

	POST   /api/analyze                multipart orders + settlements -> JSON report
	POST   /api/report                 multipart orders + settlements -> xlsx download
	POST   /api/compare                multipart files (four exports) -> comparison JSON
	GET    /api/costs                  cost table in insertion order
	GET    /api/costs/stats            count, average, min, max
	PUT    /api/costs/{product}        set one unit cost
	DELETE /api/costs/{product}        remove one product
	POST   /api/costs/import           merge a flat JSON object
	GET    /api/costs/export           download the table as JSON
	POST   /api/costs/refresh          bypass the cache and reload from the sheet
	GET    /healthz
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured. An empty
// allowedOrigins list allows every origin.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/healthz", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", h.Analyze)
		r.Post("/report", h.Report)
		r.Post("/compare", h.Compare)

		r.Route("/costs", func(r chi.Router) {
			r.Get("/", h.ListCosts)
			r.Get("/stats", h.CostStats)
			r.Get("/export", h.ExportCosts)
			r.Post("/import", h.ImportCosts)
			r.Post("/refresh", h.RefreshCosts)
			r.Put("/{product}", h.SetCost)
			r.Delete("/{product}", h.DeleteCost)
		})
	})

	return r
}
