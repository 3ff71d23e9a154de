// internal/app/features/groups/routes.go
package groups

import (
	"github.com/morteam/server/internal/app/system/auth"

	"github.com/go-chi/chi/v5"
)

// Routes returns the groups router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Post("/", h.Create)
	r.Get("/mine", h.ListMine)
	r.Put("/{groupID}/members", h.UpdateMembers)
	r.Delete("/{groupID}", h.Delete)
	return r
}
