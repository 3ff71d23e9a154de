// internal/app/features/chats/routes.go
package chats

import (
	"github.com/morteam/server/internal/app/system/auth"

	"github.com/go-chi/chi/v5"
)

// Routes returns the chat router. Everything requires a signed-in
// user.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/{chatID}/messages", h.Messages)
	r.Post("/{chatID}/messages", h.SendMessage)
	r.Get("/{chatID}/members", h.Members)
	r.Post("/{chatID}/audience/add", h.AddToAudience)
	r.Post("/{chatID}/audience/remove", h.RemoveFromAudience)
	r.Put("/{chatID}/name", h.Rename)
	r.Delete("/{chatID}", h.Delete)
	return r
}
