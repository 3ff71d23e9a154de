package attendancestore_test

import (
	"testing"

	attendancestore "github.com/morteam/server/internal/app/store/attendance"
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSummarizeBuckets(t *testing.T) {
	user := primitive.NewObjectID()
	e1, e2, e3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	records := []models.AttendanceRecord{
		{EventID: e1, Attendees: []models.Attendee{{UserID: user, Status: models.StatusPresent}}},
		{EventID: e2, Attendees: []models.Attendee{{UserID: user, Status: models.StatusAbsent}}},
		{EventID: e3, Attendees: []models.Attendee{{UserID: user, Status: models.StatusExcused}}},
	}

	sum := attendancestore.Summarize(records, user)
	if sum.PresentCount != 1 {
		t.Errorf("PresentCount = %d, want 1", sum.PresentCount)
	}
	if len(sum.Absences) != 1 || sum.Absences[0] != e2 {
		t.Errorf("Absences = %v, want [%s]", sum.Absences, e2.Hex())
	}
}

func TestSummarizeExcusedCountsNowhere(t *testing.T) {
	user := primitive.NewObjectID()
	rec := models.AttendanceRecord{
		EventID: primitive.NewObjectID(),
		Attendees: []models.Attendee{
			{UserID: user, Status: models.StatusExcused},
			{UserID: primitive.NewObjectID(), Status: models.StatusAbsent},
		},
	}

	sum := attendancestore.Summarize([]models.AttendanceRecord{rec}, user)
	if sum.PresentCount != 0 {
		t.Errorf("excused entry raised PresentCount to %d", sum.PresentCount)
	}
	if len(sum.Absences) != 0 {
		t.Errorf("excused entry landed in Absences: %v", sum.Absences)
	}
}

func TestSummarizeIgnoresOtherUsers(t *testing.T) {
	user := primitive.NewObjectID()
	other := primitive.NewObjectID()
	e1 := primitive.NewObjectID()

	records := []models.AttendanceRecord{
		{EventID: e1, Attendees: []models.Attendee{
			{UserID: other, Status: models.StatusAbsent},
			{UserID: user, Status: models.StatusAbsent},
		}},
	}

	sum := attendancestore.Summarize(records, user)
	if len(sum.Absences) != 1 {
		t.Fatalf("expected exactly one absence for %s, got %v", user.Hex(), sum.Absences)
	}
}

func TestSummarizeAbsenceRecordedOncePerEvent(t *testing.T) {
	user := primitive.NewObjectID()
	e1 := primitive.NewObjectID()

	// Default-absent semantics: a never-marked attendee stays absent
	// and the owning event id appears exactly once.
	rec := models.AttendanceRecord{
		EventID:   e1,
		Attendees: []models.Attendee{{UserID: user, Status: models.StatusAbsent}},
	}
	sum := attendancestore.Summarize([]models.AttendanceRecord{rec}, user)
	if len(sum.Absences) != 1 || sum.Absences[0] != e1 {
		t.Fatalf("Absences = %v, want exactly [%s]", sum.Absences, e1.Hex())
	}
}
