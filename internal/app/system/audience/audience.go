// internal/app/system/audience/audience.go
//
// Audience resolution: turning the user/group targeting set embedded in
// an announcement, chat, or event into concrete recipients, and
// producing the equivalent visibility filter for store queries.
package audience

import (
	"context"
	"sort"

	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/membership"
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxTraversalDepth bounds group expansion even if the visited set is
// somehow defeated (e.g. ids mutating mid-traversal).
const maxTraversalDepth = 16

// GroupFetcher loads groups by id. Unknown ids are silently omitted
// from the result; a bad reference must not fail the whole expansion.
type GroupFetcher interface {
	FetchGroups(ctx context.Context, ids []primitive.ObjectID) ([]models.Group, error)
}

// Roster lists user ids by team and by subdivision. Both live in user
// documents, so the user store serves this.
type Roster interface {
	TeamMemberIDs(ctx context.Context, teamID primitive.ObjectID) ([]primitive.ObjectID, error)
	SubdivisionMemberIDs(ctx context.Context, subdivisionIDs []primitive.ObjectID) ([]primitive.ObjectID, error)
}

// Resolver expands audiences against the membership graph. All methods
// are pure reads over committed state and are safe to call from
// concurrent request handlers.
type Resolver struct {
	Groups GroupFetcher
	Roster Roster
}

// NewResolver builds a resolver over the given collaborators.
func NewResolver(groups GroupFetcher, roster Roster) *Resolver {
	return &Resolver{Groups: groups, Roster: roster}
}

// Validate checks structural validity: an audience must name at least
// one user or group, or be flagged entire-team.
func Validate(aud models.Audience) error {
	if aud.IsZero() {
		return apperr.Validationf("audience targets no users, groups, or team")
	}
	return nil
}

// Expand resolves the audience to a deduplicated set of user ids,
// sorted for deterministic output. The result is independent of the
// order groups are listed in and of traversal order.
//
// Group traversal is iterative with a visited set: a repeated group id
// (a cycle, or the same group reachable twice) is skipped, not an
// error. scope.TeamIDs[0] is the caller's current team; the remaining
// entries are consulted only when the audience is multi-team.
func (r *Resolver) Expand(ctx context.Context, aud models.Audience, scope membership.Scope) ([]primitive.ObjectID, error) {
	set := make(map[primitive.ObjectID]struct{})

	for _, id := range aud.Users {
		set[id] = struct{}{}
	}

	if err := r.expandGroups(ctx, aud.Groups, set); err != nil {
		return nil, err
	}

	if aud.EntireTeam {
		for _, teamID := range scopeTeams(aud, scope) {
			ids, err := r.Roster.TeamMemberIDs(ctx, teamID)
			if err != nil {
				return nil, err
			}
			for _, id := range ids {
				set[id] = struct{}{}
			}
		}
	}

	out := make([]primitive.ObjectID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hex() < out[j].Hex() })
	return out, nil
}

// expandGroups unions group members into set, following nested groups
// breadth-first. An audience's groups field holds group ids and
// subdivision ids interchangeably: ids that never resolve to a group
// document are tried as subdivisions against the user rosters, and an
// id that is neither matches no users and drops out silently.
func (r *Resolver) expandGroups(ctx context.Context, roots []primitive.ObjectID, set map[primitive.ObjectID]struct{}) error {
	visited := make(map[primitive.ObjectID]struct{})
	frontier := make([]primitive.ObjectID, 0, len(roots))

	for _, id := range roots {
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		frontier = append(frontier, id)
	}

	var unresolved []primitive.ObjectID
	for depth := 0; len(frontier) > 0 && depth < maxTraversalDepth; depth++ {
		groups, err := r.Groups.FetchGroups(ctx, frontier)
		if err != nil {
			return err
		}
		found := make(map[primitive.ObjectID]struct{}, len(groups))
		var next []primitive.ObjectID
		for _, g := range groups {
			found[g.ID] = struct{}{}
			for _, uid := range g.Users {
				set[uid] = struct{}{}
			}
			for _, gid := range g.Groups {
				if _, seen := visited[gid]; seen {
					continue
				}
				visited[gid] = struct{}{}
				next = append(next, gid)
			}
		}
		for _, id := range frontier {
			if _, ok := found[id]; !ok {
				unresolved = append(unresolved, id)
			}
		}
		frontier = next
	}

	if len(unresolved) > 0 {
		ids, err := r.Roster.SubdivisionMemberIDs(ctx, unresolved)
		if err != nil {
			return err
		}
		for _, id := range ids {
			set[id] = struct{}{}
		}
	}
	return nil
}

func scopeTeams(aud models.Audience, scope membership.Scope) []primitive.ObjectID {
	if len(scope.TeamIDs) == 0 {
		return nil
	}
	if aud.IsMultiTeam || scope.MultiTeam {
		return scope.TeamIDs
	}
	return scope.TeamIDs[:1]
}

// Query builds the storage-layer visibility predicate for the given
// membership snapshot: an $or of containment clauses equivalent to
// "expand(item.audience) contains the user". Resolving candidate items
// client-side does not scale, so this is part of the contract, not an
// optimization.
func Query(snap membership.Snapshot) bson.M {
	or := []bson.M{
		{"audience.users": snap.UserID},
	}
	// Subdivision ids share the audience.groups field with group ids,
	// so one $in covers direct group and subdivision containment.
	containers := append(append([]primitive.ObjectID(nil), snap.GroupIDs...), snap.SubdivisionIDs...)
	if len(containers) > 0 {
		or = append(or, bson.M{"audience.groups": bson.M{"$in": containers}})
	}
	if !snap.CurrentTeam.IsZero() {
		// Entire-team items are visible within the user's current team.
		or = append(or, bson.M{"audience.entire_team": true, "team_id": snap.CurrentTeam})
	}
	if len(snap.TeamIDs) > 0 {
		// Multi-team items are visible within any of the user's teams.
		or = append(or, bson.M{"audience.is_multi_team": true, "team_id": bson.M{"$in": snap.TeamIDs}})
	}
	return bson.M{"$or": or}
}

// IsUserIncluded reports whether the user satisfies the audience. It
// takes the cheap direct paths (explicit user entry, entire-team
// membership) before falling back to full expansion. Used as an
// authorization gate, e.g. "can this user post with this audience".
func (r *Resolver) IsUserIncluded(ctx context.Context, aud models.Audience, user models.User, scope membership.Scope) (bool, error) {
	if aud.HasUser(user.ID) {
		return true, nil
	}
	if aud.EntireTeam {
		for _, teamID := range scopeTeams(aud, scope) {
			if user.InTeam(teamID) {
				return true, nil
			}
		}
	}
	if len(aud.Groups) == 0 {
		return false, nil
	}
	// A subdivision id listed under groups includes its members without
	// any graph walk.
	if subs := user.SubdivisionIDs(); len(subs) > 0 {
		for _, gid := range aud.Groups {
			for _, sid := range subs {
				if gid == sid {
					return true, nil
				}
			}
		}
	}
	ids, err := r.Expand(ctx, models.Audience{Groups: aud.Groups}, scope)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == user.ID {
			return true, nil
		}
	}
	return false, nil
}

// EnsureIncludes returns an audience guaranteed to include the user
// after expansion, appending the user id when needed. Authors are run
// through this at construction time so an item is always visible to
// its creator. Structurally invalid audiences fail validation.
func (r *Resolver) EnsureIncludes(ctx context.Context, aud models.Audience, user models.User, scope membership.Scope) (models.Audience, error) {
	if err := Validate(aud); err != nil {
		return models.Audience{}, err
	}
	included, err := r.IsUserIncluded(ctx, aud, user, scope)
	if err != nil {
		return models.Audience{}, err
	}
	if included {
		return aud, nil
	}
	out := aud
	out.Users = append(append([]primitive.ObjectID(nil), aud.Users...), user.ID)
	return out, nil
}
