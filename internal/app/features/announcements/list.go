// internal/app/features/announcements/list.go
package announcements

import (
	"net/http"
	"strconv"

	"github.com/morteam/server/internal/app/system/audience"
	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/app/system/membership"
)

// List returns the page of announcements visible to the caller,
// filtered in the store by the visibility predicate rather than by
// expanding every candidate's audience.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	snap, err := h.Snapshots.ForUser(ctx, user.ID, membership.Scope{MultiTeam: true})
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	list, err := h.Store.ListVisible(ctx, audience.Query(snap), skip)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, list)
}
