// internal/app/features/chats/handler.go
package chats

import (
	chatstore "github.com/morteam/server/internal/app/store/chats"
	groupstore "github.com/morteam/server/internal/app/store/groups"
	userstore "github.com/morteam/server/internal/app/store/users"
	"github.com/morteam/server/internal/app/system/audience"
	"github.com/morteam/server/internal/app/system/notify"

	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns all chat handlers.
type Handler struct {
	Store     *chatstore.Store
	Users     *userstore.Store
	Groups    *groupstore.Store
	Snapshots *userstore.SnapshotProvider
	Resolver  *audience.Resolver
	Notify    *notify.Dispatcher
	Log       *zap.Logger

	sanitizer *bluemonday.Policy
}

// NewHandler constructs a chats Handler.
func NewHandler(db *mongo.Database, dispatcher *notify.Dispatcher, logger *zap.Logger) *Handler {
	users := userstore.New(db)
	groups := groupstore.New(db)
	return &Handler{
		Store:     chatstore.New(db),
		Users:     users,
		Groups:    groups,
		Snapshots: userstore.NewSnapshotProvider(db),
		Resolver:  audience.NewResolver(groups, users),
		Notify:    dispatcher,
		Log:       logger,
		sanitizer: bluemonday.StrictPolicy(),
	}
}
