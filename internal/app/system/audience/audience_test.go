package audience_test

import (
	"context"
	"errors"
	"testing"

	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/audience"
	"github.com/morteam/server/internal/app/system/membership"
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeGroups serves groups from a map, silently omitting unknown ids
// like the real group store does.
type fakeGroups struct {
	groups map[primitive.ObjectID]models.Group
	calls  int
}

func (f *fakeGroups) FetchGroups(_ context.Context, ids []primitive.ObjectID) ([]models.Group, error) {
	f.calls++
	var out []models.Group
	for _, id := range ids {
		if g, ok := f.groups[id]; ok {
			out = append(out, g)
		}
	}
	return out, nil
}

type fakeRoster struct {
	members      map[primitive.ObjectID][]primitive.ObjectID
	subdivisions map[primitive.ObjectID][]primitive.ObjectID
}

func (f *fakeRoster) TeamMemberIDs(_ context.Context, teamID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return f.members[teamID], nil
}

func (f *fakeRoster) SubdivisionMemberIDs(_ context.Context, ids []primitive.ObjectID) ([]primitive.ObjectID, error) {
	var out []primitive.ObjectID
	for _, id := range ids {
		out = append(out, f.subdivisions[id]...)
	}
	return out, nil
}

func oid() primitive.ObjectID { return primitive.NewObjectID() }

func newResolver(groups map[primitive.ObjectID]models.Group, roster map[primitive.ObjectID][]primitive.ObjectID) *audience.Resolver {
	return audience.NewResolver(&fakeGroups{groups: groups}, &fakeRoster{members: roster})
}

func containsID(ids []primitive.ObjectID, want primitive.ObjectID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

func TestExpandDeduplicatesAcrossNestedGroups(t *testing.T) {
	u1, u2, u3 := oid(), oid(), oid()
	g1, g2 := oid(), oid()

	r := newResolver(map[primitive.ObjectID]models.Group{
		g1: {ID: g1, Users: []primitive.ObjectID{u2}, Groups: []primitive.ObjectID{g2}},
		g2: {ID: g2, Users: []primitive.ObjectID{u1, u3}},
	}, nil)

	aud := models.Audience{
		Users:  []primitive.ObjectID{u1},
		Groups: []primitive.ObjectID{g1},
	}

	got, err := r.Expand(context.Background(), aud, membership.Scope{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 unique ids, got %d: %v", len(got), got)
	}
	for _, want := range []primitive.ObjectID{u1, u2, u3} {
		if !containsID(got, want) {
			t.Errorf("expanded set missing %s", want.Hex())
		}
	}
}

func TestExpandOrderInvariant(t *testing.T) {
	u1, u2 := oid(), oid()
	g1, g2 := oid(), oid()

	groups := map[primitive.ObjectID]models.Group{
		g1: {ID: g1, Users: []primitive.ObjectID{u1}},
		g2: {ID: g2, Users: []primitive.ObjectID{u2}},
	}

	forward := models.Audience{Groups: []primitive.ObjectID{g1, g2}}
	reverse := models.Audience{Groups: []primitive.ObjectID{g2, g1}}

	a, err := newResolver(groups, nil).Expand(context.Background(), forward, membership.Scope{})
	if err != nil {
		t.Fatalf("Expand forward: %v", err)
	}
	b, err := newResolver(groups, nil).Expand(context.Background(), reverse, membership.Scope{})
	if err != nil {
		t.Fatalf("Expand reverse: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("order-dependent sizes: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("order-dependent result at %d: %s vs %s", i, a[i].Hex(), b[i].Hex())
		}
	}
}

func TestExpandTerminatesOnCycle(t *testing.T) {
	u1, u2 := oid(), oid()
	g1, g2 := oid(), oid()

	// g1 -> g2 -> g1: the graph contains a cycle and a group that
	// transitively contains itself.
	fg := &fakeGroups{groups: map[primitive.ObjectID]models.Group{
		g1: {ID: g1, Users: []primitive.ObjectID{u1}, Groups: []primitive.ObjectID{g2}},
		g2: {ID: g2, Users: []primitive.ObjectID{u2}, Groups: []primitive.ObjectID{g1}},
	}}
	r := audience.NewResolver(fg, &fakeRoster{})

	got, err := r.Expand(context.Background(), models.Audience{Groups: []primitive.ObjectID{g1}}, membership.Scope{})
	if err != nil {
		t.Fatalf("Expand on cyclic graph failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected finite set of 2, got %v", got)
	}
	// Two fetch rounds reach both groups; the visited set stops the third.
	if fg.calls > 3 {
		t.Errorf("traversal did not terminate promptly: %d fetch rounds", fg.calls)
	}
}

func TestExpandSkipsUnknownGroups(t *testing.T) {
	u1 := oid()
	known, unknown := oid(), oid()

	r := newResolver(map[primitive.ObjectID]models.Group{
		known: {ID: known, Users: []primitive.ObjectID{u1}},
	}, nil)

	got, err := r.Expand(context.Background(), models.Audience{
		Groups: []primitive.ObjectID{unknown, known},
	}, membership.Scope{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 1 || got[0] != u1 {
		t.Fatalf("expected just %s, got %v", u1.Hex(), got)
	}
}

func TestExpandResolvesSubdivisionIDs(t *testing.T) {
	u1, u2, u3 := oid(), oid(), oid()
	g1, sd := oid(), oid()

	// The audience lists a real group and a subdivision id in the same
	// groups field; both must contribute members.
	fg := &fakeGroups{groups: map[primitive.ObjectID]models.Group{
		g1: {ID: g1, Users: []primitive.ObjectID{u1}},
	}}
	roster := &fakeRoster{subdivisions: map[primitive.ObjectID][]primitive.ObjectID{
		sd: {u2, u3},
	}}
	r := audience.NewResolver(fg, roster)

	got, err := r.Expand(context.Background(), models.Audience{
		Groups: []primitive.ObjectID{g1, sd},
	}, membership.Scope{})
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 ids (group member plus subdivision members), got %v", got)
	}
	for _, want := range []primitive.ObjectID{u1, u2, u3} {
		if !containsID(got, want) {
			t.Errorf("expanded set missing %s", want.Hex())
		}
	}
}

func TestExpandEntireTeam(t *testing.T) {
	team := oid()
	u1, u2, u3 := oid(), oid(), oid()

	r := newResolver(nil, map[primitive.ObjectID][]primitive.ObjectID{
		team: {u1, u2, u3},
	})

	got, err := r.Expand(context.Background(), models.Audience{EntireTeam: true}, membership.ScopeForTeam(team))
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected full roster of 3, got %v", got)
	}
}

func TestExpandMultiTeamWidensScope(t *testing.T) {
	teamA, teamB := oid(), oid()
	u1, u2 := oid(), oid()

	roster := map[primitive.ObjectID][]primitive.ObjectID{
		teamA: {u1},
		teamB: {u2},
	}
	scope := membership.Scope{TeamIDs: []primitive.ObjectID{teamA, teamB}}

	r := newResolver(nil, roster)

	single, err := r.Expand(context.Background(), models.Audience{EntireTeam: true}, scope)
	if err != nil {
		t.Fatalf("Expand single-team: %v", err)
	}
	if len(single) != 1 || single[0] != u1 {
		t.Fatalf("single-team expansion should stay in the current team, got %v", single)
	}

	multi, err := r.Expand(context.Background(), models.Audience{EntireTeam: true, IsMultiTeam: true}, scope)
	if err != nil {
		t.Fatalf("Expand multi-team: %v", err)
	}
	if len(multi) != 2 {
		t.Fatalf("multi-team expansion should cover both teams, got %v", multi)
	}
}

func TestIsUserIncludedDirectPath(t *testing.T) {
	u := models.User{ID: oid()}
	aud := models.Audience{Users: []primitive.ObjectID{u.ID}}

	// No group fetches should be needed for an explicit entry.
	fg := &fakeGroups{}
	r := audience.NewResolver(fg, &fakeRoster{})

	ok, err := r.IsUserIncluded(context.Background(), aud, u, membership.Scope{})
	if err != nil {
		t.Fatalf("IsUserIncluded: %v", err)
	}
	if !ok {
		t.Fatal("explicit user entry should be included")
	}
	if fg.calls != 0 {
		t.Errorf("direct path should not fetch groups, got %d fetches", fg.calls)
	}
}

func TestIsUserIncludedViaNestedGroup(t *testing.T) {
	u := models.User{ID: oid()}
	g1, g2 := oid(), oid()

	r := newResolver(map[primitive.ObjectID]models.Group{
		g1: {ID: g1, Groups: []primitive.ObjectID{g2}},
		g2: {ID: g2, Users: []primitive.ObjectID{u.ID}},
	}, nil)

	ok, err := r.IsUserIncluded(context.Background(), models.Audience{Groups: []primitive.ObjectID{g1}}, u, membership.Scope{})
	if err != nil {
		t.Fatalf("IsUserIncluded: %v", err)
	}
	if !ok {
		t.Fatal("user reachable through nested group should be included")
	}
}

func TestIsUserIncludedViaSubdivision(t *testing.T) {
	team, sd := oid(), oid()
	u := models.User{ID: oid(), Teams: []models.TeamMembership{
		{TeamID: team, SubdivisionIDs: []primitive.ObjectID{sd}},
	}}

	// No group fetches needed: the subdivision id matches the user's own
	// memberships directly.
	fg := &fakeGroups{}
	r := audience.NewResolver(fg, &fakeRoster{})

	ok, err := r.IsUserIncluded(context.Background(), models.Audience{
		Groups: []primitive.ObjectID{sd},
	}, u, membership.ScopeForTeam(team))
	if err != nil {
		t.Fatalf("IsUserIncluded: %v", err)
	}
	if !ok {
		t.Fatal("subdivision member should satisfy a subdivision-targeted audience")
	}
	if fg.calls != 0 {
		t.Errorf("subdivision path should not fetch groups, got %d fetches", fg.calls)
	}
}

func TestIsUserIncludedEntireTeam(t *testing.T) {
	team := oid()
	u := models.User{ID: oid(), Teams: []models.TeamMembership{{TeamID: team}}}

	r := newResolver(nil, nil)
	ok, err := r.IsUserIncluded(context.Background(), models.Audience{EntireTeam: true}, u, membership.ScopeForTeam(team))
	if err != nil {
		t.Fatalf("IsUserIncluded: %v", err)
	}
	if !ok {
		t.Fatal("team member should satisfy an entire-team audience")
	}
}

func TestEnsureIncludesAppendsAuthor(t *testing.T) {
	author := models.User{ID: oid()}
	other := oid()
	aud := models.Audience{Users: []primitive.ObjectID{other}}

	r := newResolver(nil, nil)
	got, err := r.EnsureIncludes(context.Background(), aud, author, membership.Scope{})
	if err != nil {
		t.Fatalf("EnsureIncludes: %v", err)
	}
	if !got.HasUser(author.ID) {
		t.Fatal("author not added to audience")
	}
	// The input must not be mutated.
	if aud.HasUser(author.ID) {
		t.Fatal("EnsureIncludes mutated its input")
	}

	ok, err := r.IsUserIncluded(context.Background(), got, author, membership.Scope{})
	if err != nil {
		t.Fatalf("IsUserIncluded: %v", err)
	}
	if !ok {
		t.Fatal("EnsureIncludes result does not include the author")
	}
}

func TestEnsureIncludesNoOpWhenPresent(t *testing.T) {
	author := models.User{ID: oid()}
	aud := models.Audience{Users: []primitive.ObjectID{author.ID}}

	r := newResolver(nil, nil)
	got, err := r.EnsureIncludes(context.Background(), aud, author, membership.Scope{})
	if err != nil {
		t.Fatalf("EnsureIncludes: %v", err)
	}
	if len(got.Users) != 1 {
		t.Fatalf("expected unchanged audience, got %v", got.Users)
	}
}

func TestEnsureIncludesRejectsEmptyAudience(t *testing.T) {
	r := newResolver(nil, nil)
	_, err := r.EnsureIncludes(context.Background(), models.Audience{}, models.User{ID: oid()}, membership.Scope{})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestQueryShape(t *testing.T) {
	current := oid()
	snap := membership.Snapshot{
		UserID:      oid(),
		CurrentTeam: current,
		TeamIDs:     []primitive.ObjectID{oid(), current},
		GroupIDs:    []primitive.ObjectID{oid()},
	}

	q := audience.Query(snap)
	or, ok := q["$or"].([]bson.M)
	if !ok {
		t.Fatalf("expected $or query, got %v", q)
	}
	if len(or) != 4 {
		t.Fatalf("expected 4 clauses (users, groups, entire-team, multi-team), got %d", len(or))
	}
	if or[0]["audience.users"] != snap.UserID {
		t.Errorf("first clause should match explicit user entries")
	}
}

func TestQueryMatchesSubdivisionContainment(t *testing.T) {
	sd := oid()
	snap := membership.Snapshot{
		UserID:         oid(),
		SubdivisionIDs: []primitive.ObjectID{sd},
	}

	q := audience.Query(snap)
	or := q["$or"].([]bson.M)
	if len(or) != 2 {
		t.Fatalf("expected user and groups clauses, got %d: %v", len(or), or)
	}
	in, ok := or[1]["audience.groups"].(bson.M)
	if !ok {
		t.Fatalf("second clause should filter audience.groups, got %v", or[1])
	}
	ids, ok := in["$in"].([]primitive.ObjectID)
	if !ok || !containsID(ids, sd) {
		t.Errorf("subdivision id missing from groups containment clause: %v", in)
	}
}

func TestQueryEntireTeamBindsCurrentTeam(t *testing.T) {
	first, current := oid(), oid()
	snap := membership.Snapshot{
		UserID:      oid(),
		CurrentTeam: current,
		TeamIDs:     []primitive.ObjectID{first, current},
	}

	q := audience.Query(snap)
	or := q["$or"].([]bson.M)

	var entireTeam bson.M
	for _, clause := range or {
		if clause["audience.entire_team"] == true {
			entireTeam = clause
		}
	}
	if entireTeam == nil {
		t.Fatalf("no entire-team clause in %v", or)
	}
	// The user's current team need not be first in their teams list.
	if entireTeam["team_id"] != current {
		t.Errorf("entire-team clause bound to %v, want the current team %s", entireTeam["team_id"], current.Hex())
	}
}

func TestQueryOmitsGroupClauseWhenUserHasNoGroups(t *testing.T) {
	snap := membership.Snapshot{UserID: oid()}
	q := audience.Query(snap)
	or := q["$or"].([]bson.M)
	if len(or) != 1 {
		t.Fatalf("expected only the user clause, got %d clauses", len(or))
	}
}
