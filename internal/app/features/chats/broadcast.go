// internal/app/features/chats/broadcast.go
package chats

import (
	"context"
	"encoding/json"

	"github.com/morteam/server/internal/app/system/membership"
	"github.com/morteam/server/internal/app/system/notify"
	"github.com/morteam/server/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// socketEvent is the realtime frame shape pushed to chat members.
type socketEvent struct {
	Type   string          `json:"type"`
	ChatID string          `json:"chat_id"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// broadcastChatEvent resolves the chat's audience and queues a socket
// frame for every member. Resolution failure only costs the realtime
// hint; the committed state is already durable.
func (h *Handler) broadcastChatEvent(ctx context.Context, chat models.Chat, eventType string) {
	h.broadcast(ctx, chat, socketEvent{Type: eventType, ChatID: chat.ID.Hex()})
}

func (h *Handler) broadcast(ctx context.Context, chat models.Chat, ev socketEvent) {
	// Chat audiences only ever target users and groups, so no team
	// scope is needed for expansion.
	memberIDs, err := h.Resolver.Expand(ctx, chat.Audience, membership.Scope{})
	if err != nil {
		h.Log.Warn("chat broadcast expansion failed; skipping socket frame")
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.Notify.Enqueue(notify.NewSocket(hexIDs(memberIDs), payload))
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
