// internal/app/features/events/list.go
package events

import (
	"net/http"
	"strconv"
	"time"

	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/audience"
	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/app/system/membership"
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ListMonth returns the caller's visible events for one calendar month,
// given as ?year=2026&month=8. Visibility is the storage predicate, not
// a client-side expansion.
func (h *Handler) ListMonth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad year"))
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil || month < 1 || month > 12 {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad month"))
		return
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	visibility, err := h.callerVisibility(r)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	events, err := h.Store.FindBetween(ctx, visibility, start, end)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	httpjson.Write(w, http.StatusOK, events)
}

// ListUpcoming returns the caller's visible events from now on.
func (h *Handler) ListUpcoming(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	visibility, err := h.callerVisibility(r)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	events, err := h.Store.FindUpcoming(ctx, visibility)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if events == nil {
		events = []models.Event{}
	}
	httpjson.Write(w, http.StatusOK, events)
}

func (h *Handler) callerVisibility(r *http.Request) (bson.M, error) {
	ctx := r.Context()
	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		return nil, err
	}
	snap, err := h.Snapshots.ForUser(ctx, user.ID, membership.Scope{MultiTeam: true})
	if err != nil {
		return nil, err
	}
	return audience.Query(snap), nil
}
