// internal/app/features/groups/groups.go
package groups

import (
	"net/http"
	"strings"

	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type createRequest struct {
	Name   string               `json:"name"`
	Users  []primitive.ObjectID `json:"users"`
	Groups []primitive.ObjectID `json:"groups"`
}

// Create makes a group in the caller's current team. Admins only;
// groups are an audience-targeting tool, not user-managed lists.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if !user.HasCapability(models.Admin()) {
		httpjson.WriteError(w, h.Log, r, apperr.Permissionf("only admins can create groups"))
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("group name is empty"))
		return
	}

	group, err := h.Store.Create(ctx, models.Group{
		Name:   name,
		Users:  req.Users,
		Groups: req.Groups,
		TeamID: user.CurrentTeam,
	})
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, group)
}

// ListMine returns the groups that list the caller directly. Transitive
// membership is an expansion concern, not a listing one.
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	groups, err := h.Store.ListContainingUser(ctx, user.ID)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if groups == nil {
		groups = []models.Group{}
	}
	httpjson.Write(w, http.StatusOK, groups)
}

type updateMembersRequest struct {
	Users  []primitive.ObjectID `json:"users"`
	Groups []primitive.ObjectID `json:"groups"`
}

// UpdateMembers replaces a group's user and nested-group lists.
func (h *Handler) UpdateMembers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if !user.HasCapability(models.Admin()) {
		httpjson.WriteError(w, h.Log, r, apperr.Permissionf("only admins can edit groups"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad group id"))
		return
	}

	var req updateMembersRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	// A group may not nest itself; deeper cycles are tolerated by the
	// resolver but a self-loop is always a caller mistake.
	for _, gid := range req.Groups {
		if gid == id {
			httpjson.WriteError(w, h.Log, r, apperr.Validationf("a group cannot contain itself"))
			return
		}
	}

	if err := h.Store.UpdateMembers(ctx, id, req.Users, req.Groups); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, nil)
}

// Delete removes a group. References from audiences and other groups
// become dangling and are skipped during expansion.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if !user.HasCapability(models.Admin()) {
		h.Log.Warn("refused group delete", zap.String("user_id", user.ID.Hex()))
		httpjson.WriteError(w, h.Log, r, apperr.Permissionf("only admins can delete groups"))
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "groupID"))
	if err != nil {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad group id"))
		return
	}

	n, err := h.Store.Delete(ctx, id)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if n == 0 {
		httpjson.WriteError(w, h.Log, r, apperr.NotFoundf("group %s", id.Hex()))
		return
	}
	httpjson.Write(w, http.StatusOK, nil)
}
