// internal/app/features/events/delete.go
package events

import (
	"errors"
	"net/http"

	"github.com/morteam/server/internal/app/policy/audiencepolicy"
	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Delete removes an event and its attendance record in one cascade.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad event id"))
		return
	}

	event, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = apperr.NotFoundf("event %s", id.Hex())
		}
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	if !audiencepolicy.CanManageEvents(user, event.TeamID) {
		h.Log.Warn("refused event delete",
			zap.String("user_id", user.ID.Hex()),
			zap.String("event_id", id.Hex()))
		httpjson.WriteError(w, h.Log, r, apperr.Permissionf("only team leaders can delete events"))
		return
	}

	if err := h.Store.Delete(ctx, id); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, nil)
}
