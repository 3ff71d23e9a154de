// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event is a calendar entry targeted at an audience, optionally with
// attendance tracking. Its AttendanceRecord (if any) is looked up by
// event id and deleted with the event.
type Event struct {
	ID            primitive.ObjectID `bson:"_id" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Date          time.Time          `bson:"date" json:"date"`
	TeamID        primitive.ObjectID `bson:"team_id" json:"team_id"`
	Creator       primitive.ObjectID `bson:"creator" json:"creator"`
	Audience      Audience           `bson:"audience" json:"audience"`
	HasAttendance bool               `bson:"has_attendance" json:"has_attendance"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
