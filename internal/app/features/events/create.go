// internal/app/features/events/create.go
package events

import (
	"net/http"
	"strings"
	"time"

	"github.com/morteam/server/internal/app/policy/audiencepolicy"
	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/app/system/mailer"
	"github.com/morteam/server/internal/app/system/notify"
	"github.com/morteam/server/internal/domain/models"

	"go.uber.org/zap"
)

type createRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	Audience      models.Audience `json:"audience"`
	HasAttendance bool            `json:"has_attendance"`
	SendEmail     bool            `json:"send_email"`
}

// Create schedules an event for the leader's current team. When
// attendance tracking is requested, the audience is expanded once at
// creation and frozen into an attendance record with every attendee
// starting absent. Later audience edits do not rewrite history.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if !audiencepolicy.CanManageEvents(user, user.CurrentTeam) {
		h.Log.Warn("refused event create", zap.String("user_id", user.ID.Hex()))
		httpjson.WriteError(w, h.Log, r, apperr.Permissionf("only team leaders can create events"))
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	name := strings.TrimSpace(h.sanitizer.Sanitize(req.Name))
	if name == "" {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("event name is empty"))
		return
	}
	if req.Date.IsZero() {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("event date is required"))
		return
	}

	scope := authutil.ScopeFor(user)
	aud, err := h.Resolver.EnsureIncludes(ctx, req.Audience, user, scope)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	event, err := h.Store.Create(ctx, models.Event{
		Name:          name,
		Description:   h.sanitizer.Sanitize(req.Description),
		Date:          req.Date.UTC(),
		TeamID:        user.CurrentTeam,
		Creator:       user.ID,
		Audience:      aud,
		HasAttendance: req.HasAttendance,
	})
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	attendeeIDs, err := h.Resolver.Expand(ctx, aud, scope)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	if event.HasAttendance {
		if _, err := h.Attendance.Initialize(ctx, event, attendeeIDs); err != nil {
			httpjson.WriteError(w, h.Log, r, err)
			return
		}
	}

	httpjson.Write(w, http.StatusOK, event)

	if req.SendEmail {
		attendees, err := h.Users.FindByIDs(ctx, attendeeIDs)
		if err != nil {
			h.Log.Warn("event email fan-out lookup failed; skipping")
			return
		}
		h.Notify.Enqueue(notify.NewEmail(
			mailer.RecipientList(attendees),
			"New Event on "+event.Date.Format("January 2, 2006"),
			event.Name+"<br>"+event.Description,
		))
	}
}
