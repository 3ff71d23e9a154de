// internal/app/features/events/routes.go
package events

import (
	"github.com/morteam/server/internal/app/system/auth"

	"github.com/go-chi/chi/v5"
)

// Routes returns the events router. Everything requires a signed-in
// user; mutating routes additionally check the leader capability.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Post("/", h.Create)
	r.Get("/", h.ListMonth)
	r.Get("/upcoming", h.ListUpcoming)
	r.Delete("/{eventID}", h.Delete)
	r.Get("/{eventID}/attendees", h.Attendees)
	r.Put("/{eventID}/attendance", h.RecordAttendance)
	r.Put("/{eventID}/attendance/{userID}/excuse", h.Excuse)
	r.Get("/absences/{userID}", h.Absences)
	return r
}
