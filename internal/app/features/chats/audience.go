// internal/app/features/chats/audience.go
package chats

import (
	"errors"
	"net/http"

	"github.com/morteam/server/internal/app/policy/audiencepolicy"
	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type audienceDeltaRequest struct {
	Users  []primitive.ObjectID `json:"users"`
	Groups []primitive.ObjectID `json:"groups"`
}

// loadChatForAudienceEdit fetches the chat and checks the caller may
// change its membership. Two-person chats have fixed membership.
func (h *Handler) loadChatForAudienceEdit(r *http.Request, user models.User) (models.Chat, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "chatID"))
	if err != nil {
		return models.Chat{}, apperr.Validationf("bad chat id")
	}
	chat, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Chat{}, apperr.NotFoundf("chat %s", id.Hex())
		}
		return models.Chat{}, err
	}
	if chat.IsTwoPeople {
		return models.Chat{}, apperr.Validationf("two-person chats have a fixed membership")
	}
	if !audiencepolicy.CanEditAudience(user, chat.Creator) {
		h.Log.Warn("refused chat audience edit",
			zap.String("user_id", user.ID.Hex()),
			zap.String("chat_id", chat.ID.Hex()))
		return models.Chat{}, apperr.Permissionf("only the chat's creator or an admin can change its members")
	}
	return chat, nil
}

// AddToAudience unions the given users and groups into the chat's
// audience. Idempotent: re-adding present ids is a no-op.
func (h *Handler) AddToAudience(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	chat, err := h.loadChatForAudienceEdit(r, user)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	var req audienceDeltaRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if len(req.Users) == 0 && len(req.Groups) == 0 {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("nothing to add"))
		return
	}

	delta := models.Audience{Users: req.Users, Groups: req.Groups}
	if err := h.Store.AddToAudience(ctx, chat.ID, delta); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, nil)

	chat.Audience.Users = append(chat.Audience.Users, req.Users...)
	chat.Audience.Groups = append(chat.Audience.Groups, req.Groups...)
	h.broadcastChatEvent(ctx, chat, "chat_members_changed")
}

// RemoveFromAudience pulls the given users and groups from the chat's
// audience. A removal that would leave the chat with no members is
// rejected atomically in the store.
func (h *Handler) RemoveFromAudience(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	chat, err := h.loadChatForAudienceEdit(r, user)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	var req audienceDeltaRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if len(req.Users) == 0 && len(req.Groups) == 0 {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("nothing to remove"))
		return
	}

	delta := models.Audience{Users: req.Users, Groups: req.Groups}
	if err := h.Store.RemoveFromAudience(ctx, chat.ID, delta); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, nil)

	// Notify the pre-removal audience so removed members see the change.
	h.broadcastChatEvent(ctx, chat, "chat_members_changed")
}
