// internal/app/store/announcements/announcementstore.go
package announcementstore

import (
	"context"
	"time"

	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PageSize is the fixed announcement page length; skip moves the
// window, the length is not caller-tunable.
const PageSize = 20

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("announcements")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Announcement, error) {
	var a models.Announcement
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

func (s *Store) Create(ctx context.Context, a models.Announcement) (models.Announcement, error) {
	a.ID = primitive.NewObjectID()
	if a.Audience.Users == nil {
		a.Audience.Users = []primitive.ObjectID{}
	}
	if a.Audience.Groups == nil {
		a.Audience.Groups = []primitive.ObjectID{}
	}
	a.Timestamp = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Announcement{}, err
	}
	return a, nil
}

// ListVisible returns a page of the announcements matching the caller's
// visibility predicate, newest first.
func (s *Store) ListVisible(ctx context.Context, visibility bson.M, skip int) ([]models.Announcement, error) {
	cur, err := s.c.Find(ctx, visibility, options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(PageSize),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var list []models.Announcement
	if err := cur.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFoundf("announcement %s", id.Hex())
	}
	return nil
}
