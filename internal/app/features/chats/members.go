// internal/app/features/chats/members.go
package chats

import (
	"net/http"

	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/domain/models"
)

type membersResponse struct {
	Members []models.User `json:"members"`
}

// Members expands the chat's audience and returns the member users.
// Group references are flattened, so the response reflects who can
// actually read the chat right now.
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
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

	ids, err := h.Resolver.Expand(ctx, chat.Audience, authutil.ScopeFor(user))
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	members, err := h.Users.FindByIDs(ctx, ids)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if members == nil {
		members = []models.User{}
	}
	httpjson.Write(w, http.StatusOK, membersResponse{Members: members})
}
