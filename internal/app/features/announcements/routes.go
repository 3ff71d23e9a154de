// internal/app/features/announcements/routes.go
package announcements

import (
	"github.com/morteam/server/internal/app/system/auth"

	"github.com/go-chi/chi/v5"
)

// Routes returns the announcement router. Everything requires a
// signed-in user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Delete("/{announcementID}", h.Delete)
	return r
}
