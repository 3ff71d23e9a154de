// internal/app/features/health/routes.go
package health

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the router for health endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Check)
	return r
}
