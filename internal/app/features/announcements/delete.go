// internal/app/features/announcements/delete.go
package announcements

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

// Delete removes an announcement. Only the author or an admin may do
// this; anyone else gets logged and refused.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "announcementID"))
	if err != nil {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad announcement id"))
		return
	}

	ann, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = apperr.NotFoundf("announcement %s", id.Hex())
		}
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	if !audiencepolicy.CanDeleteAnnouncement(user, ann) {
		h.Log.Warn("refused announcement delete",
			zap.String("user_id", user.ID.Hex()),
			zap.String("announcement_id", id.Hex()))
		httpjson.WriteError(w, h.Log, r, apperr.Permissionf("you do not have permission to delete this announcement"))
		return
	}

	if err := h.Store.Delete(ctx, id); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, nil)
}
