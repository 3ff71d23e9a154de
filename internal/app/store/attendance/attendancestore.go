// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"time"

	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("attendance")}
}

// Initialize creates the attendance record for an event from its
// resolved audience: one attendee per id, every status starting as
// absent. Called once, at event creation, only when the event tracks
// attendance.
func (s *Store) Initialize(ctx context.Context, event models.Event, attendeeIDs []primitive.ObjectID) (models.AttendanceRecord, error) {
	if len(attendeeIDs) == 0 {
		return models.AttendanceRecord{}, apperr.Validationf("event %s resolves to no attendees", event.ID.Hex())
	}

	attendees := make([]models.Attendee, 0, len(attendeeIDs))
	for _, id := range attendeeIDs {
		attendees = append(attendees, models.Attendee{UserID: id, Status: models.StatusAbsent})
	}

	rec := models.AttendanceRecord{
		ID:         primitive.NewObjectID(),
		EventID:    event.ID,
		EventDate:  event.Date,
		EntireTeam: event.Audience.EntireTeam,
		Attendees:  attendees,
	}
	if _, err := s.c.InsertOne(ctx, rec); err != nil {
		return models.AttendanceRecord{}, err
	}
	return rec, nil
}

// GetByEvent loads the record backing an event.
func (s *Store) GetByEvent(ctx context.Context, eventID primitive.ObjectID) (models.AttendanceRecord, error) {
	var rec models.AttendanceRecord
	if err := s.c.FindOne(ctx, bson.M{"event": eventID}).Decode(&rec); err != nil {
		if err == mongo.ErrNoDocuments {
			return models.AttendanceRecord{}, apperr.NotFoundf("no attendance record for event %s", eventID.Hex())
		}
		return models.AttendanceRecord{}, err
	}
	return rec, nil
}

// SetStatuses bulk-overwrites the attendee list in a single $set.
// Statuses are validated before anything is written.
func (s *Store) SetStatuses(ctx context.Context, eventID primitive.ObjectID, updates []models.Attendee) error {
	for _, a := range updates {
		if !a.Status.Valid() {
			return apperr.Validationf("unknown attendance status %q", a.Status)
		}
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"event": eventID},
		bson.M{"$set": bson.M{"attendees": updates}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("no attendance record for event %s", eventID.Hex())
	}
	return nil
}

// Excuse marks exactly one attendee excused via the positional
// operator; the filter and write are one atomic update.
func (s *Store) Excuse(ctx context.Context, eventID, userID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"event": eventID, "attendees.user": userID},
		bson.M{"$set": bson.M{"attendees.$.status": models.StatusExcused}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return apperr.NotFoundf("user %s has no attendee entry for event %s", userID.Hex(), eventID.Hex())
	}
	return nil
}

// FindForUser returns the records in the date range that carry an
// attendee entry for the user.
func (s *Store) FindForUser(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.AttendanceRecord, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"event_date":     bson.M{"$gte": start, "$lte": end},
		"attendees.user": userID,
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var recs []models.AttendanceRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}
