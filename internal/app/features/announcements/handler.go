// internal/app/features/announcements/handler.go
package announcements

import (
	announcementstore "github.com/morteam/server/internal/app/store/announcements"
	groupstore "github.com/morteam/server/internal/app/store/groups"
	userstore "github.com/morteam/server/internal/app/store/users"
	"github.com/morteam/server/internal/app/system/audience"
	"github.com/morteam/server/internal/app/system/notify"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all announcement handlers.
type Handler struct {
	Store     *announcementstore.Store
	Users     *userstore.Store
	Snapshots *userstore.SnapshotProvider
	Resolver  *audience.Resolver
	Notify    *notify.Dispatcher
	Log       *zap.Logger

	sanitizer *bluemonday.Policy
}

// NewHandler constructs an announcements Handler.
func NewHandler(db *mongo.Database, dispatcher *notify.Dispatcher, logger *zap.Logger) *Handler {
	users := userstore.New(db)
	groups := groupstore.New(db)
	return &Handler{
		Store:     announcementstore.New(db),
		Users:     users,
		Snapshots: userstore.NewSnapshotProvider(db),
		Resolver:  audience.NewResolver(groups, users),
		Notify:    dispatcher,
		Log:       logger,
		sanitizer: bluemonday.UGCPolicy(),
	}
}
