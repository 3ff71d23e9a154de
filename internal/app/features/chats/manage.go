// internal/app/features/chats/manage.go
package chats

import (
	"errors"
	"net/http"
	"strings"

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

type renameRequest struct {
	Name string `json:"name"`
}

// Rename changes a group chat's display name. Any member may rename;
// two-person chats derive their display name from the other user and
// cannot be renamed.
func (h *Handler) Rename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	chat, err := h.loadChatForMember(r, user)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if chat.IsTwoPeople {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("two-person chats cannot be renamed"))
		return
	}

	var req renameRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	name := strings.TrimSpace(h.sanitizer.Sanitize(req.Name))
	if name == "" {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("chat name is empty"))
		return
	}
	if len(name) > models.MaxChatNameLength {
		httpjson.WriteError(w, h.Log, r,
			apperr.Validationf("the chat name has to be %d characters or fewer", models.MaxChatNameLength))
		return
	}

	if err := h.Store.Rename(ctx, chat.ID, name); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, nil)

	chat.Name = name
	h.broadcastChatEvent(ctx, chat, "chat_renamed")
}

// Delete removes a chat and its messages.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "chatID"))
	if err != nil {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad chat id"))
		return
	}
	chat, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = apperr.NotFoundf("chat %s", id.Hex())
		}
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	if !audiencepolicy.CanDeleteChat(user, chat) {
		h.Log.Warn("refused chat delete",
			zap.String("user_id", user.ID.Hex()),
			zap.String("chat_id", chat.ID.Hex()))
		httpjson.WriteError(w, h.Log, r, apperr.Permissionf("you do not have permission to delete this chat"))
		return
	}

	if err := h.Store.Delete(ctx, chat.ID); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, nil)

	h.broadcastChatEvent(ctx, chat, "chat_deleted")
}
