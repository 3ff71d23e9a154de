package testutil

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/morteam/server/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	if rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context); ok {
		rctx.URLParams.Add(key, value)
		return r
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
	n  int
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) nextEmail(name string) string {
	f.n++
	return fmt.Sprintf("%s%d@test.com", name, f.n)
}

// CreateTeam creates a test team.
func (f *Fixtures) CreateTeam(ctx context.Context, name string) models.Team {
	f.t.Helper()

	team := models.Team{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Number:    1234,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("teams").InsertOne(ctx, team); err != nil {
		f.t.Fatalf("failed to create test team: %v", err)
	}
	return team
}

// CreateUser creates a test user belonging to the given team.
func (f *Fixtures) CreateUser(ctx context.Context, firstName string, teamID primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:          primitive.NewObjectID(),
		FirstName:   firstName,
		LastName:    "Tester",
		Email:       f.nextEmail(firstName),
		Teams:       []models.TeamMembership{{TeamID: teamID}},
		CurrentTeam: teamID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateLeader creates a test user leading the given team.
func (f *Fixtures) CreateLeader(ctx context.Context, firstName string, teamID primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:          primitive.NewObjectID(),
		FirstName:   firstName,
		LastName:    "Leader",
		Email:       f.nextEmail(firstName),
		Teams:       []models.TeamMembership{{TeamID: teamID, Leader: true}},
		CurrentTeam: teamID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test leader: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user on the given team.
func (f *Fixtures) CreateAdmin(ctx context.Context, firstName string, teamID primitive.ObjectID) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:          primitive.NewObjectID(),
		FirstName:   firstName,
		LastName:    "Admin",
		Email:       f.nextEmail(firstName),
		IsAdmin:     true,
		Teams:       []models.TeamMembership{{TeamID: teamID, Leader: true}},
		CurrentTeam: teamID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}
	return user
}

// CreateGroup creates a test group containing the given users and
// nested groups.
func (f *Fixtures) CreateGroup(ctx context.Context, name string, teamID primitive.ObjectID, users, groups []primitive.ObjectID) models.Group {
	f.t.Helper()

	if users == nil {
		users = []primitive.ObjectID{}
	}
	if groups == nil {
		groups = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	group := models.Group{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Users:     users,
		Groups:    groups,
		TeamID:    teamID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateChat creates a group chat with the given audience.
func (f *Fixtures) CreateChat(ctx context.Context, name string, creator primitive.ObjectID, aud models.Audience) models.Chat {
	f.t.Helper()

	if aud.Users == nil {
		aud.Users = []primitive.ObjectID{}
	}
	if aud.Groups == nil {
		aud.Groups = []primitive.ObjectID{}
	}
	now := time.Now().UTC()
	chat := models.Chat{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Creator:   creator,
		Audience:  aud,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("chats").InsertOne(ctx, chat); err != nil {
		f.t.Fatalf("failed to create test chat: %v", err)
	}
	return chat
}

// CreateEvent creates an event on the given date for the team.
func (f *Fixtures) CreateEvent(ctx context.Context, name string, teamID, creator primitive.ObjectID, date time.Time, aud models.Audience) models.Event {
	f.t.Helper()

	if aud.Users == nil {
		aud.Users = []primitive.ObjectID{}
	}
	if aud.Groups == nil {
		aud.Groups = []primitive.ObjectID{}
	}
	event := models.Event{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Date:      date,
		TeamID:    teamID,
		Creator:   creator,
		Audience:  aud,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection("events").InsertOne(ctx, event); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return event
}
