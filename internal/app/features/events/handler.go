// internal/app/features/events/handler.go
package events

import (
	attendancestore "github.com/morteam/server/internal/app/store/attendance"
	eventstore "github.com/morteam/server/internal/app/store/events"
	groupstore "github.com/morteam/server/internal/app/store/groups"
	userstore "github.com/morteam/server/internal/app/store/users"
	"github.com/morteam/server/internal/app/system/audience"
	"github.com/morteam/server/internal/app/system/notify"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the calendar and attendance handlers.
type Handler struct {
	Store      *eventstore.Store
	Attendance *attendancestore.Store
	Users      *userstore.Store
	Snapshots  *userstore.SnapshotProvider
	Resolver   *audience.Resolver
	Notify     *notify.Dispatcher
	Log        *zap.Logger

	sanitizer *bluemonday.Policy
}

// NewHandler constructs an events Handler.
func NewHandler(db *mongo.Database, dispatcher *notify.Dispatcher, logger *zap.Logger) *Handler {
	users := userstore.New(db)
	groups := groupstore.New(db)
	return &Handler{
		Store:      eventstore.New(db),
		Attendance: attendancestore.New(db),
		Users:      users,
		Snapshots:  userstore.NewSnapshotProvider(db),
		Resolver:   audience.NewResolver(groups, users),
		Notify:     dispatcher,
		Log:        logger,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}
