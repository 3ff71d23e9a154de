// internal/app/store/users/snapshot.go
package userstore

import (
	"context"

	"github.com/morteam/server/internal/app/system/membership"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// maxReverseDepth bounds the reverse group walk the same way forward
// expansion is bounded.
const maxReverseDepth = 16

// SnapshotProvider builds per-request membership snapshots from the
// users and groups collections. It implements membership.Provider and
// always reads committed state; nothing is cached between calls.
type SnapshotProvider struct {
	users  *mongo.Collection
	groups *mongo.Collection
}

func NewSnapshotProvider(db *mongo.Database) *SnapshotProvider {
	return &SnapshotProvider{
		users:  db.Collection("users"),
		groups: db.Collection("groups"),
	}
}

// ForUser returns the user's teams, subdivisions, and the ids of every
// group containing the user directly or through nested groups. The
// reverse walk carries a visited set, so cyclic group graphs terminate.
func (p *SnapshotProvider) ForUser(ctx context.Context, userID primitive.ObjectID, scope membership.Scope) (membership.Snapshot, error) {
	snap := membership.Snapshot{UserID: userID}

	var u struct {
		CurrentTeam primitive.ObjectID `bson:"current_team"`
		Teams       []struct {
			TeamID         primitive.ObjectID   `bson:"team_id"`
			SubdivisionIDs []primitive.ObjectID `bson:"subdivision_ids"`
		} `bson:"teams"`
	}
	if err := p.users.FindOne(ctx, bson.M{"_id": userID},
		options.FindOne().SetProjection(bson.M{"teams": 1, "current_team": 1}),
	).Decode(&u); err != nil {
		return membership.Snapshot{}, err
	}

	snap.CurrentTeam = u.CurrentTeam
	for _, m := range u.Teams {
		if !scope.MultiTeam && len(scope.TeamIDs) > 0 && !containsOID(scope.TeamIDs, m.TeamID) {
			continue
		}
		snap.TeamIDs = append(snap.TeamIDs, m.TeamID)
		snap.SubdivisionIDs = append(snap.SubdivisionIDs, m.SubdivisionIDs...)
	}

	groupIDs, err := p.groupsContaining(ctx, userID)
	if err != nil {
		return membership.Snapshot{}, err
	}
	snap.GroupIDs = groupIDs

	return snap, nil
}

// groupsContaining walks the group graph backwards: first the groups
// listing the user directly, then any group listing one of those, until
// a fixed point.
func (p *SnapshotProvider) groupsContaining(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	visited := make(map[primitive.ObjectID]struct{})

	frontier, err := p.groupIDsMatching(ctx, bson.M{"users": userID}, visited)
	if err != nil {
		return nil, err
	}

	all := append([]primitive.ObjectID(nil), frontier...)
	for depth := 0; len(frontier) > 0 && depth < maxReverseDepth; depth++ {
		frontier, err = p.groupIDsMatching(ctx, bson.M{"groups": bson.M{"$in": frontier}}, visited)
		if err != nil {
			return nil, err
		}
		all = append(all, frontier...)
	}
	return all, nil
}

func (p *SnapshotProvider) groupIDsMatching(ctx context.Context, filter bson.M, visited map[primitive.ObjectID]struct{}) ([]primitive.ObjectID, error) {
	cur, err := p.groups.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	var fresh []primitive.ObjectID
	for _, d := range docs {
		if _, seen := visited[d.ID]; seen {
			continue
		}
		visited[d.ID] = struct{}{}
		fresh = append(fresh, d.ID)
	}
	return fresh, nil
}

func containsOID(ids []primitive.ObjectID, want primitive.ObjectID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}
