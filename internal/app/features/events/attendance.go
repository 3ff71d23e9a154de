// internal/app/features/events/attendance.go
package events

import (
	"errors"
	"net/http"
	"time"

	"github.com/morteam/server/internal/app/policy/audiencepolicy"
	attendancestore "github.com/morteam/server/internal/app/store/attendance"
	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// loadEventForLeader fetches the event and checks the caller holds the
// leader capability for its team.
func (h *Handler) loadEventForLeader(r *http.Request, user models.User) (models.Event, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "eventID"))
	if err != nil {
		return models.Event{}, apperr.Validationf("bad event id")
	}
	event, err := h.Store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, apperr.NotFoundf("event %s", id.Hex())
		}
		return models.Event{}, err
	}
	if !audiencepolicy.CanManageEvents(user, event.TeamID) {
		h.Log.Warn("refused attendance edit",
			zap.String("user_id", user.ID.Hex()),
			zap.String("event_id", event.ID.Hex()))
		return models.Event{}, apperr.Permissionf("only team leaders can manage attendance")
	}
	return event, nil
}

// Attendees returns the attendance record's entries, joined with the
// attendee users so the roster renders without a second round trip.
func (h *Handler) Attendees(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	event, err := h.loadEventForLeader(r, user)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	rec, err := h.Attendance.GetByEvent(ctx, event.ID)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	ids := make([]primitive.ObjectID, 0, len(rec.Attendees))
	for _, a := range rec.Attendees {
		ids = append(ids, a.UserID)
	}
	users, err := h.Users.FindByIDs(ctx, ids)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	type attendeeView struct {
		User   models.User             `json:"user"`
		Status models.AttendanceStatus `json:"status"`
	}
	out := make([]attendeeView, 0, len(rec.Attendees))
	for _, a := range rec.Attendees {
		u, ok := byID[a.UserID]
		if !ok {
			// Deleted account; keep the row with just the id.
			u = models.User{ID: a.UserID}
		}
		out = append(out, attendeeView{User: u, Status: a.Status})
	}
	httpjson.Write(w, http.StatusOK, out)
}

type recordAttendanceRequest struct {
	Attendees []models.Attendee `json:"attendees"`
}

// RecordAttendance overwrites the event's attendee statuses in bulk.
// Anyone left off the list keeps the default absent status.
func (h *Handler) RecordAttendance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	event, err := h.loadEventForLeader(r, user)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	var req recordAttendanceRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if len(req.Attendees) == 0 {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("no attendees given"))
		return
	}

	if err := h.Attendance.SetStatuses(ctx, event.ID, req.Attendees); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, nil)
}

// Excuse marks one attendee excused. Excused absences count toward
// neither presence nor absence in summaries.
func (h *Handler) Excuse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	event, err := h.loadEventForLeader(r, user)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad user id"))
		return
	}

	if err := h.Attendance.Excuse(ctx, event.ID, userID); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, nil)
}

// Absences rolls up a user's attendance over a date range, defaulting
// to the trailing year. Excused entries land in neither bucket.
func (h *Handler) Absences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	caller, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
	if err != nil {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad user id"))
		return
	}
	// A user may always see their own record; anyone else's needs the
	// leader capability.
	if userID != caller.ID && !audiencepolicy.CanManageEvents(caller, caller.CurrentTeam) {
		httpjson.WriteError(w, h.Log, r, apperr.Permissionf("you cannot view this user's attendance"))
		return
	}

	end := time.Now().UTC()
	start := end.AddDate(-1, 0, 0)
	if v := r.URL.Query().Get("start"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad start time"))
			return
		}
		start = t
	}
	if v := r.URL.Query().Get("end"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpjson.WriteError(w, h.Log, r, apperr.Validationf("bad end time"))
			return
		}
		end = t
	}

	records, err := h.Attendance.FindForUser(ctx, userID, start, end)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, attendancestore.Summarize(records, userID))
}
