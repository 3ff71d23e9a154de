package userstore_test

import (
	"testing"

	userstore "github.com/morteam/server/internal/app/store/users"
	"github.com/morteam/server/internal/app/system/membership"
	"github.com/morteam/server/internal/testutil"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func containsID(ids []primitive.ObjectID, want primitive.ObjectID) bool {
	for _, id := range ids {
		if id == want {
			return true
		}
	}
	return false
}

func TestSnapshotProvider_TransitiveGroups(t *testing.T) {
	db := testutil.SetupTestDB(t)
	provider := userstore.NewSnapshotProvider(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fixtures.CreateTeam(ctx, "Test Team")
	member := fixtures.CreateUser(ctx, "Alex", team.ID)

	// member is in inner; inner is nested in outer. Both must appear in
	// the snapshot so the visibility query matches outer-targeted items.
	inner := fixtures.CreateGroup(ctx, "Inner", team.ID,
		[]primitive.ObjectID{member.ID}, nil)
	outer := fixtures.CreateGroup(ctx, "Outer", team.ID,
		nil, []primitive.ObjectID{inner.ID})
	unrelated := fixtures.CreateGroup(ctx, "Unrelated", team.ID, nil, nil)

	snap, err := provider.ForUser(ctx, member.ID, membership.Scope{MultiTeam: true})
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}

	if !containsID(snap.GroupIDs, inner.ID) {
		t.Error("expected direct group in snapshot")
	}
	if !containsID(snap.GroupIDs, outer.ID) {
		t.Error("expected containing group in snapshot")
	}
	if containsID(snap.GroupIDs, unrelated.ID) {
		t.Error("unrelated group must not appear in snapshot")
	}
	if !containsID(snap.TeamIDs, team.ID) {
		t.Error("expected team id in snapshot")
	}
}

func TestSnapshotProvider_CyclicGroupsTerminate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	provider := userstore.NewSnapshotProvider(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fixtures.CreateTeam(ctx, "Test Team")
	member := fixtures.CreateUser(ctx, "Alex", team.ID)

	a := fixtures.CreateGroup(ctx, "A", team.ID, []primitive.ObjectID{member.ID}, nil)
	b := fixtures.CreateGroup(ctx, "B", team.ID, nil, []primitive.ObjectID{a.ID})
	// Close the cycle: A nests B.
	_, err := db.Collection("groups").UpdateByID(ctx, a.ID,
		bson.M{"$set": bson.M{"groups": []primitive.ObjectID{b.ID}}})
	if err != nil {
		t.Fatalf("closing group cycle failed: %v", err)
	}

	snap, err := provider.ForUser(ctx, member.ID, membership.Scope{MultiTeam: true})
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if !containsID(snap.GroupIDs, a.ID) || !containsID(snap.GroupIDs, b.ID) {
		t.Errorf("expected both cycle members in snapshot, got %v", snap.GroupIDs)
	}
}

func TestSnapshotProvider_ScopeFiltersTeams(t *testing.T) {
	db := testutil.SetupTestDB(t)
	provider := userstore.NewSnapshotProvider(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teamA := fixtures.CreateTeam(ctx, "Team A")
	teamB := fixtures.CreateTeam(ctx, "Team B")
	member := fixtures.CreateUser(ctx, "Alex", teamA.ID)

	// Add a second team membership directly.
	_, err := db.Collection("users").UpdateByID(ctx, member.ID,
		bson.M{"$push": bson.M{"teams": bson.M{"team_id": teamB.ID}}})
	if err != nil {
		t.Fatalf("adding second team failed: %v", err)
	}

	snap, err := provider.ForUser(ctx, member.ID, membership.Scope{
		TeamIDs: []primitive.ObjectID{teamA.ID},
	})
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if !containsID(snap.TeamIDs, teamA.ID) {
		t.Error("expected scoped team in snapshot")
	}
	if containsID(snap.TeamIDs, teamB.ID) {
		t.Error("out-of-scope team must be filtered when not multi-team")
	}

	wide, err := provider.ForUser(ctx, member.ID, membership.Scope{MultiTeam: true})
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if !containsID(wide.TeamIDs, teamA.ID) || !containsID(wide.TeamIDs, teamB.ID) {
		t.Errorf("multi-team scope must include every team, got %v", wide.TeamIDs)
	}
}

func TestSnapshotProvider_CurrentTeamAndSubdivisions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	provider := userstore.NewSnapshotProvider(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	teamA := fixtures.CreateTeam(ctx, "Team A")
	teamB := fixtures.CreateTeam(ctx, "Team B")
	member := fixtures.CreateUser(ctx, "Alex", teamA.ID)
	sd := primitive.NewObjectID()

	// Put another team first in the teams array; current_team stays on
	// teamA, so the snapshot must carry it independently of array order.
	_, err := db.Collection("users").UpdateByID(ctx, member.ID, bson.M{"$set": bson.M{
		"teams": bson.A{
			bson.M{"team_id": teamB.ID},
			bson.M{"team_id": teamA.ID, "subdivision_ids": bson.A{sd}},
		},
	}})
	if err != nil {
		t.Fatalf("reordering team memberships failed: %v", err)
	}

	snap, err := provider.ForUser(ctx, member.ID, membership.Scope{MultiTeam: true})
	if err != nil {
		t.Fatalf("ForUser failed: %v", err)
	}
	if snap.CurrentTeam != teamA.ID {
		t.Errorf("current team: got %s, want %s", snap.CurrentTeam.Hex(), teamA.ID.Hex())
	}
	if !containsID(snap.SubdivisionIDs, sd) {
		t.Errorf("expected subdivision id in snapshot, got %v", snap.SubdivisionIDs)
	}
}
