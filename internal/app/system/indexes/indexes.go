// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureGroups(ctx, db); err != nil {
		problems = append(problems, "groups: "+err.Error())
	}
	if err := ensureAnnouncements(ctx, db); err != nil {
		problems = append(problems, "announcements: "+err.Error())
	}
	if err := ensureChats(ctx, db); err != nil {
		problems = append(problems, "chats: "+err.Error())
	}
	if err := ensureEvents(ctx, db); err != nil {
		problems = append(problems, "events: "+err.Error())
	}
	if err := ensureAttendance(ctx, db); err != nil {
		problems = append(problems, "attendance: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func create(ctx context.Context, db *mongo.Database, collection string, models []mongo.IndexModel) error {
	_, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
	return err
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "users", []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "teams.team_id", Value: 1}}},
	})
}

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	// The reverse membership walk filters on both arrays.
	return create(ctx, db, "groups", []mongo.IndexModel{
		{Keys: bson.D{{Key: "users", Value: 1}}},
		{Keys: bson.D{{Key: "groups", Value: 1}}},
	})
}

func ensureAnnouncements(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "announcements", []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "audience.users", Value: 1}}},
		{Keys: bson.D{{Key: "audience.groups", Value: 1}}},
		{Keys: bson.D{{Key: "team_id", Value: 1}}},
	})
}

func ensureChats(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "chats", []mongo.IndexModel{
		{Keys: bson.D{{Key: "updated_at", Value: -1}}},
		{Keys: bson.D{{Key: "audience.users", Value: 1}}},
		{Keys: bson.D{{Key: "audience.groups", Value: 1}}},
	})
}

func ensureEvents(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "events", []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "audience.users", Value: 1}}},
		{Keys: bson.D{{Key: "audience.groups", Value: 1}}},
		{Keys: bson.D{{Key: "team_id", Value: 1}}},
	})
}

func ensureAttendance(ctx context.Context, db *mongo.Database) error {
	return create(ctx, db, "attendance", []mongo.IndexModel{
		{Keys: bson.D{{Key: "event", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "event_date", Value: 1}, {Key: "attendees.user", Value: 1}}},
	})
}
