// internal/app/features/groups/handler.go
package groups

import (
	groupstore "github.com/morteam/server/internal/app/store/groups"
	userstore "github.com/morteam/server/internal/app/store/users"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the group management handlers.
type Handler struct {
	Store *groupstore.Store
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a groups Handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		Store: groupstore.New(db),
		Users: userstore.New(db),
		Log:   logger,
	}
}
