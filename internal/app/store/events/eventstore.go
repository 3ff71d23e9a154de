// internal/app/store/events/eventstore.go
package eventstore

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

type Store struct {
	c          *mongo.Collection
	attendance *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:          db.Collection("events"),
		attendance: db.Collection("attendance"),
	}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.ID = primitive.NewObjectID()
	if e.Audience.Users == nil {
		e.Audience.Users = []primitive.ObjectID{}
	}
	if e.Audience.Groups == nil {
		e.Audience.Groups = []primitive.ObjectID{}
	}
	e.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// FindBetween returns the events visible to the caller with dates in
// [start, end], soonest first.
func (s *Store) FindBetween(ctx context.Context, visibility bson.M, start, end time.Time) ([]models.Event, error) {
	filter := bson.M{
		"$and": bson.A{
			visibility,
			bson.M{"date": bson.M{"$gte": start, "$lte": end}},
		},
	}
	return s.find(ctx, filter)
}

// FindUpcoming returns the caller's visible events from now on.
func (s *Store) FindUpcoming(ctx context.Context, visibility bson.M) ([]models.Event, error) {
	filter := bson.M{
		"$and": bson.A{
			visibility,
			bson.M{"date": bson.M{"$gte": time.Now().UTC()}},
		},
	}
	return s.find(ctx, filter)
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var events []models.Event
	if err := cur.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// Delete removes the event and cascades to its attendance record.
// Attendance records have no independent lifecycle.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFoundf("event %s", id.Hex())
	}
	_, err = s.attendance.DeleteOne(ctx, bson.M{"event": id})
	return err
}
