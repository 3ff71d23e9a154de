// internal/app/system/membership/membership.go
package membership

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Scope bounds a resolution to a set of teams. TeamIDs is the parent
// entity's team (or teams, when MultiTeam widens the view to every
// team the caller belongs to).
type Scope struct {
	TeamIDs   []primitive.ObjectID
	MultiTeam bool
}

// ScopeForTeam is the common single-team scope.
func ScopeForTeam(teamID primitive.ObjectID) Scope {
	return Scope{TeamIDs: []primitive.ObjectID{teamID}}
}

// Snapshot is a point-in-time view of one user's place in the
// membership graph, built fresh per request. Reads over a snapshot are
// pure and need no locking.
//
// CurrentTeam is the team the user is operating as; entire-team
// visibility binds to it, not to TeamIDs order.
type Snapshot struct {
	UserID         primitive.ObjectID
	CurrentTeam    primitive.ObjectID
	TeamIDs        []primitive.ObjectID
	SubdivisionIDs []primitive.ObjectID

	// GroupIDs holds every group that contains the user, directly or
	// through nested groups. Computed with a visited set so a corrupt
	// cyclic graph cannot hang snapshot construction.
	GroupIDs []primitive.ObjectID
}

// InTeam reports whether the snapshot covers the given team.
func (s Snapshot) InTeam(teamID primitive.ObjectID) bool {
	for _, id := range s.TeamIDs {
		if id == teamID {
			return true
		}
	}
	return false
}

// Provider yields membership snapshots. Implementations must reflect
// committed state at call time; caching beyond a single request is not
// tolerated.
type Provider interface {
	ForUser(ctx context.Context, userID primitive.ObjectID, scope Scope) (Snapshot, error)
}
