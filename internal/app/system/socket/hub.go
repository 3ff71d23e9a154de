// internal/app/system/socket/hub.go
package socket

import (
	"sync"

	"go.uber.org/zap"
)

// Hub tracks connected clients per user id and fans frames out to
// them. A user may hold several connections (phone and laptop); each
// gets every frame. Satisfies notify.Broadcaster.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
	log     *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
		log:     logger,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*Client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, present := set[c]; !present {
		return
	}
	delete(set, c)
	close(c.send)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
}

// SendToUsers queues the payload for every connection the listed users
// hold. A connection with a full send buffer is dropped; a slow reader
// must not back up broadcast for everyone else.
func (h *Hub) SendToUsers(userIDs []string, payload []byte) {
	h.mu.RLock()
	var stale []*Client
	for _, id := range userIDs {
		for c := range h.clients[id] {
			select {
			case c.send <- payload:
			default:
				stale = append(stale, c)
			}
		}
	}
	h.mu.RUnlock()

	for _, c := range stale {
		h.log.Warn("dropping slow socket client", zap.String("user_id", c.userID))
		h.unregister(c)
		c.conn.Close()
	}
}

// ConnectedUsers returns how many distinct users hold connections.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
