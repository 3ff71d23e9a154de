// internal/app/features/chats/list.go
package chats

import (
	"net/http"

	"github.com/morteam/server/internal/app/system/audience"
	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/app/system/membership"
)

// List returns the caller's chats, most recently active first, each
// carrying at most its newest message as a preview.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	snap, err := h.Snapshots.ForUser(ctx, user.ID, membership.Scope{MultiTeam: true})
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	list, err := h.Store.ListVisible(ctx, audience.Query(snap))
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}
