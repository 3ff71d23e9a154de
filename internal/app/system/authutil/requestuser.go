// internal/app/system/authutil/requestuser.go
package authutil

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/morteam/server/internal/app/store/users"
	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/auth"
	"github.com/morteam/server/internal/app/system/membership"
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// RequestUser loads the full user document for the signed-in session.
// Role and membership changes take effect on the next request because
// this is a fresh read, not session state.
func RequestUser(ctx context.Context, r *http.Request, users *userstore.Store) (models.User, error) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		return models.User{}, apperr.Permissionf("not signed in")
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		return models.User{}, apperr.Validationf("bad session user id %q", su.ID)
	}
	u, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, apperr.NotFoundf("user %s", su.ID)
		}
		return models.User{}, err
	}
	return *u, nil
}

// ScopeFor builds the resolution scope for a user: the current team
// first, then the rest of their teams (consulted only by multi-team
// audiences).
func ScopeFor(u models.User) membership.Scope {
	scope := membership.Scope{}
	if !u.CurrentTeam.IsZero() {
		scope.TeamIDs = append(scope.TeamIDs, u.CurrentTeam)
	}
	for _, m := range u.Teams {
		if m.TeamID != u.CurrentTeam {
			scope.TeamIDs = append(scope.TeamIDs, m.TeamID)
		}
	}
	return scope
}
