// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/morteam/server/internal/app/system/httpjson"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler serves the liveness endpoint for load balancers.
type Handler struct {
	Client *mongo.Client
	Log    *zap.Logger
}

// NewHandler creates a health Handler.
func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Client: client, Log: logger}
}

type status struct {
	Status string `json:"status"`
	Mongo  string `json:"mongo"`
}

// Check pings Mongo with a short deadline. The process is "degraded"
// rather than down when the database is unreachable, so orchestrators
// can tell the two states apart.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	out := status{Status: "ok", Mongo: "ok"}
	code := http.StatusOK
	if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health check mongo ping failed", zap.Error(err))
		out = status{Status: "degraded", Mongo: "unreachable"}
		code = http.StatusServiceUnavailable
	}
	httpjson.Write(w, code, out)
}
