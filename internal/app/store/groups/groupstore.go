// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"time"

	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	if g.Users == nil {
		g.Users = []primitive.ObjectID{}
	}
	if g.Groups == nil {
		g.Groups = []primitive.ObjectID{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// FetchGroups loads the groups whose ids are listed. Unknown ids are
// silently omitted; one dangling reference must not fail an audience
// expansion. Satisfies audience.GroupFetcher.
func (s *Store) FetchGroups(ctx context.Context, ids []primitive.ObjectID) ([]models.Group, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListContainingUser returns the groups that list the user directly.
func (s *Store) ListContainingUser(ctx context.Context, userID primitive.ObjectID) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, bson.M{"users": userID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// UpdateMembers replaces the group's user and nested-group lists.
func (s *Store) UpdateMembers(ctx context.Context, id primitive.ObjectID, users, groups []primitive.ObjectID) error {
	if users == nil {
		users = []primitive.ObjectID{}
	}
	if groups == nil {
		groups = []primitive.ObjectID{}
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"users":      users,
		"groups":     groups,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a group by ID. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
