package chats_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/morteam/server/internal/app/features/chats"
	"github.com/morteam/server/internal/app/system/notify"
	"github.com/morteam/server/internal/domain/models"
	"github.com/morteam/server/internal/testutil"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*chats.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	dispatcher := notify.NewDispatcher(nil, nil, nil, zap.NewNop())
	h := chats.NewHandler(db, dispatcher, zap.NewNop())
	return h, db
}

func TestCreate_GroupChat_CreatorEnsuredInAudience(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fixtures.CreateTeam(ctx, "Test Team")
	creator := fixtures.CreateUser(ctx, "Alex", team.ID)
	other := fixtures.CreateUser(ctx, "Blake", team.ID)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"name": "strategy",
		"audience": map[string]any{
			"users": []string{other.ID.Hex()},
		},
	})
	req = testutil.WithSessionUser(req, creator)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	var created models.Chat
	testutil.DecodeJSON(t, rec, &created)
	if !created.Audience.HasUser(creator.ID) {
		t.Error("creator must be in the stored audience")
	}
	if !created.Audience.HasUser(other.ID) {
		t.Error("requested member missing from audience")
	}
}

func TestCreate_GroupChat_NameTooLong(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fixtures.CreateTeam(ctx, "Test Team")
	creator := fixtures.CreateUser(ctx, "Alex", team.ID)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", map[string]any{
		"name": "this name is way too long for a chat",
		"audience": map[string]any{
			"users": []string{creator.ID.Hex()},
		},
	})
	req = testutil.WithSessionUser(req, creator)
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreate_TwoPerson_DuplicateRejected(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fixtures.CreateTeam(ctx, "Test Team")
	a := fixtures.CreateUser(ctx, "Alex", team.ID)
	b := fixtures.CreateUser(ctx, "Blake", team.ID)

	body := map[string]any{"is_two_people": true, "other_user": b.ID.Hex()}

	first := testutil.WithSessionUser(testutil.NewJSONRequest(t, http.MethodPost, "/", body), a)
	rec := httptest.NewRecorder()
	h.Create(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first create: got %d (body: %s)", rec.Code, rec.Body.String())
	}

	// The same pair initiated by the other user is still a duplicate.
	second := testutil.WithSessionUser(testutil.NewJSONRequest(t, http.MethodPost, "/",
		map[string]any{"is_two_people": true, "other_user": a.ID.Hex()}), b)
	rec = httptest.NewRecorder()
	h.Create(rec, second)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("duplicate create: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestRemoveFromAudience_NonCreatorForbidden(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fixtures.CreateTeam(ctx, "Test Team")
	creator := fixtures.CreateUser(ctx, "Alex", team.ID)
	member := fixtures.CreateUser(ctx, "Blake", team.ID)
	chat := fixtures.CreateChat(ctx, "pit", creator.ID, models.Audience{
		Users: []primitive.ObjectID{creator.ID, member.ID},
	})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+chat.ID.Hex()+"/audience/remove",
		map[string]any{"users": []string{creator.ID.Hex()}})
	req = testutil.WithSessionUser(req, member)
	req = testutil.WithChiURLParam(req, "chatID", chat.ID.Hex())
	rec := httptest.NewRecorder()
	h.RemoveFromAudience(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRemoveFromAudience_AdminAllowed(t *testing.T) {
	h, db := newTestHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	team := fixtures.CreateTeam(ctx, "Test Team")
	creator := fixtures.CreateUser(ctx, "Alex", team.ID)
	member := fixtures.CreateUser(ctx, "Blake", team.ID)
	admin := fixtures.CreateAdmin(ctx, "Drew", team.ID)
	chat := fixtures.CreateChat(ctx, "pit", creator.ID, models.Audience{
		Users: []primitive.ObjectID{creator.ID, member.ID},
	})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+chat.ID.Hex()+"/audience/remove",
		map[string]any{"users": []string{member.ID.Hex()}})
	req = testutil.WithSessionUser(req, admin)
	req = testutil.WithChiURLParam(req, "chatID", chat.ID.Hex())
	rec := httptest.NewRecorder()
	h.RemoveFromAudience(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d (body: %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
}
