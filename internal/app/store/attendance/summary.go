// internal/app/store/attendance/summary.go
package attendancestore

import (
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Summary is a user's presence/absence rollup over a set of records.
type Summary struct {
	PresentCount int                  `json:"present"`
	Absences     []primitive.ObjectID `json:"absences"`
}

// Summarize scans the records for the user's attendee entries:
// "present" increments the count, "absent" appends the owning event id,
// and "excused" counts toward neither bucket. The asymmetry is the
// domain rule, not an oversight.
//
// An attendee never explicitly marked keeps the "absent" status set at
// record creation, so unmarked users show up in Absences; there is no
// separate "not yet recorded" state.
func Summarize(records []models.AttendanceRecord, userID primitive.ObjectID) Summary {
	sum := Summary{Absences: []primitive.ObjectID{}}
	for _, rec := range records {
		for _, a := range rec.Attendees {
			if a.UserID != userID {
				continue
			}
			switch a.Status {
			case models.StatusPresent:
				sum.PresentCount++
			case models.StatusAbsent:
				sum.Absences = append(sum.Absences, rec.EventID)
			}
		}
	}
	return sum
}
