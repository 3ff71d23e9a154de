// internal/app/features/chats/create.go
package chats

import (
	"errors"
	"net/http"

	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type createRequest struct {
	IsTwoPeople bool   `json:"is_two_people"`
	OtherUser   string `json:"other_user,omitempty"`

	Name     string          `json:"name,omitempty"`
	Audience models.Audience `json:"audience,omitempty"`
}

// Create opens a chat: a private two-person chat keyed by the user
// pair, or a named group chat whose audience must include its creator.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	if req.IsTwoPeople {
		h.createTwoPerson(w, r, user, req)
		return
	}
	h.createGroup(w, r, user, req)
}

func (h *Handler) createTwoPerson(w http.ResponseWriter, r *http.Request, user models.User, req createRequest) {
	ctx := r.Context()

	otherID, err := primitive.ObjectIDFromHex(req.OtherUser)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad other_user id"))
		return
	}
	if _, err := h.Users.GetByID(ctx, otherID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			err = apperr.NotFoundf("user %s", req.OtherUser)
		}
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	exists, err := h.Store.TwoPersonChatExists(ctx, user.ID, otherID)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if exists {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("this chat already exists"))
		return
	}

	chat, err := h.Store.Create(ctx, models.Chat{
		IsTwoPeople: true,
		Audience: models.Audience{
			Users:  []primitive.ObjectID{otherID, user.ID},
			Groups: []primitive.ObjectID{},
		},
	})
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	httpjson.Write(w, http.StatusOK, chat)
	h.broadcastChatEvent(ctx, chat, "chat_created")
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request, user models.User, req createRequest) {
	ctx := r.Context()

	if len(req.Name) > models.MaxChatNameLength {
		httpjson.WriteError(w, h.Log, r,
			apperr.Validationf("the chat name has to be %d characters or fewer", models.MaxChatNameLength))
		return
	}

	scope := authutil.ScopeFor(user)
	aud, err := h.Resolver.EnsureIncludes(ctx, req.Audience, user, scope)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	chat, err := h.Store.Create(ctx, models.Chat{
		Name:     req.Name,
		Creator:  user.ID,
		Audience: aud,
	})
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	httpjson.Write(w, http.StatusOK, chat)
	h.broadcastChatEvent(ctx, chat, "chat_created")
}
