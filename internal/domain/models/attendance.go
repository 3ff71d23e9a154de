// internal/domain/models/attendance.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttendanceStatus is the per-attendee state for one event.
type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "present"
	StatusAbsent  AttendanceStatus = "absent"
	StatusExcused AttendanceStatus = "excused"
)

// Valid reports whether s is one of the three known statuses.
func (s AttendanceStatus) Valid() bool {
	return s == StatusPresent || s == StatusAbsent || s == StatusExcused
}

// Attendee is one user's status within an attendance record.
type Attendee struct {
	UserID primitive.ObjectID `bson:"user" json:"user"`
	Status AttendanceStatus   `bson:"status" json:"status"`
}

// AttendanceRecord tracks who showed up to one event. It is created at
// event-creation time from the event's resolved audience, with every
// attendee starting as absent, and is removed when the event is.
type AttendanceRecord struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	EventID    primitive.ObjectID `bson:"event" json:"event"`
	EventDate  time.Time          `bson:"event_date" json:"event_date"`
	EntireTeam bool               `bson:"entire_team" json:"entire_team"`
	Attendees  []Attendee         `bson:"attendees" json:"attendees"`
}
