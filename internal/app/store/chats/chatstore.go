// internal/app/store/chats/chatstore.go
package chatstore

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
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("chats")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Chat, error) {
	var c models.Chat
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Chat{}, err
	}
	return c, nil
}

func (s *Store) Create(ctx context.Context, c models.Chat) (models.Chat, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	if c.Audience.Users == nil {
		c.Audience.Users = []primitive.ObjectID{}
	}
	if c.Audience.Groups == nil {
		c.Audience.Groups = []primitive.ObjectID{}
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Chat{}, err
	}
	return c, nil
}

// TwoPersonChatExists reports whether a private chat between the two
// users already exists, regardless of who created it.
func (s *Store) TwoPersonChatExists(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{
		"is_two_people":  true,
		"audience.users": bson.M{"$all": bson.A{a, b}},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListVisible returns the chats matching the caller's visibility
// predicate, most recently active first, with only the newest message
// kept for previews.
func (s *Store) ListVisible(ctx context.Context, visibility bson.M) ([]models.Chat, error) {
	cur, err := s.c.Find(ctx, visibility, options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.M{"messages": bson.M{"$slice": 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var chats []models.Chat
	if err := cur.All(ctx, &chats); err != nil {
		return nil, err
	}
	return chats, nil
}

// Messages returns a window of the chat's messages, newest first.
func (s *Store) Messages(ctx context.Context, id primitive.ObjectID, skip, limit int) ([]models.Message, error) {
	var c models.Chat
	err := s.c.FindOne(ctx, bson.M{"_id": id}, options.FindOne().
		SetProjection(bson.M{"messages": bson.M{"$slice": bson.A{skip, limit}}}),
	).Decode(&c)
	if err != nil {
		return nil, err
	}
	return c.Messages, nil
}

// AppendMessage prepends the message (messages are stored newest first)
// and bumps the activity timestamp in one update.
func (s *Store) AppendMessage(ctx context.Context, id primitive.ObjectID, m models.Message) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"messages": bson.M{
			"$each":     bson.A{m},
			"$position": 0,
		}},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("chat %s", id.Hex())
	}
	return nil
}

// Rename sets the chat's display name.
func (s *Store) Rename(ctx context.Context, id primitive.ObjectID, name string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"name":       name,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("chat %s", id.Hex())
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFoundf("chat %s", id.Hex())
	}
	return nil
}

// AddToAudience unions the delta into the stored audience. A single
// $addToSet makes the operation idempotent and commutative with
// concurrent adds; re-adding a present id is a no-op.
func (s *Store) AddToAudience(ctx context.Context, id primitive.ObjectID, delta models.Audience) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{
			"audience.users":  bson.M{"$each": oidArray(delta.Users)},
			"audience.groups": bson.M{"$each": oidArray(delta.Groups)},
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("chat %s", id.Hex())
	}
	return nil
}

// RemoveFromAudience pulls the delta from the stored audience. The
// never-empty invariant is a $expr predicate on the same update: the
// filter only matches when the post-difference audience still has at
// least one entry, so the check and the pull are a single atomic
// operation and check-then-act races cannot empty a chat.
func (s *Store) RemoveFromAudience(ctx context.Context, id primitive.ObjectID, delta models.Audience) error {
	filter := bson.M{
		"_id": id,
		"$expr": bson.M{"$gte": bson.A{
			bson.M{"$add": bson.A{
				bson.M{"$size": bson.M{"$setDifference": bson.A{"$audience.users", oidArray(delta.Users)}}},
				bson.M{"$size": bson.M{"$setDifference": bson.A{"$audience.groups", oidArray(delta.Groups)}}},
			}},
			1,
		}},
	}
	update := bson.M{
		"$pull": bson.M{
			"audience.users":  bson.M{"$in": oidArray(delta.Users)},
			"audience.groups": bson.M{"$in": oidArray(delta.Groups)},
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}

	res, err := s.c.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	// No match: either the chat is gone, or the removal would have
	// emptied its audience.
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.NotFoundf("chat %s", id.Hex())
	}
	return apperr.Invariantf("cannot remove all members of chat %s", id.Hex())
}

func oidArray(ids []primitive.ObjectID) bson.A {
	arr := make(bson.A, 0, len(ids))
	for _, id := range ids {
		arr = append(arr, id)
	}
	return arr
}
