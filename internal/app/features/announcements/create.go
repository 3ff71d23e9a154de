// internal/app/features/announcements/create.go
package announcements

import (
	"net/http"

	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/app/system/mailer"
	"github.com/morteam/server/internal/app/system/notify"
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createRequest struct {
	Content  string          `json:"content"`
	Audience models.Audience `json:"audience"`
}

// Create posts an announcement. The audience is forced to include the
// author, so the author can always see their own post. Email and push
// fan-out happen after the insert committed and cannot fail the
// request.
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

	scope := authutil.ScopeFor(user)
	aud, err := h.Resolver.EnsureIncludes(ctx, req.Audience, user, scope)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	ann, err := h.Store.Create(ctx, models.Announcement{
		Author:   user.ID,
		Content:  h.sanitizer.Sanitize(req.Content),
		Audience: aud,
		TeamID:   user.CurrentTeam,
	})
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	httpjson.Write(w, http.StatusOK, ann)

	// Fire-and-forget fan-out, after the response is committed.
	recipients, err := h.Resolver.Expand(ctx, aud, scope)
	if err != nil {
		h.Log.Warn("announcement fan-out expansion failed; skipping notifications")
		return
	}

	if user.HasCapability(models.Admin()) {
		users, err := h.Users.FindByIDs(ctx, recipients)
		if err == nil {
			h.Notify.Enqueue(notify.NewEmail(
				mailer.RecipientList(users),
				"New Announcement By "+user.FullName(),
				ann.Content,
			))
		}
	}
	h.Notify.Enqueue(notify.NewPush(
		hexIDs(recipients),
		"New Announcement",
		user.FullName()+" has posted an announcement",
	))
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
