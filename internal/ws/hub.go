package ws

import (
	"sync"

	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/observability"
)

// Hub is the in-memory room registry: a mapping from room id to the set of
// live connections. Rooms are created lazily on first join and dropped when
// empty. Delivery is best effort while the process is alive.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[Client]struct{}
	joined map[Client]map[string]struct{}
	logger *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]map[Client]struct{}),
		joined: make(map[Client]map[string]struct{}),
		logger: logger,
	}
}

// Join adds the client to a room. Idempotent.
func (h *Hub) Join(roomID string, c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.rooms[roomID]; !ok {
		h.rooms[roomID] = make(map[Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
	if _, ok := h.joined[c]; !ok {
		h.joined[c] = make(map[string]struct{})
	}
	h.joined[c][roomID] = struct{}{}
}

// Leave removes the client from a room, dropping the room once empty.
func (h *Hub) Leave(roomID string, c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(roomID, c)
}

func (h *Hub) leaveLocked(roomID string, c Client) {
	if members, ok := h.rooms[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if rooms, ok := h.joined[c]; ok {
		delete(rooms, roomID)
		if len(rooms) == 0 {
			delete(h.joined, c)
		}
	}
}

// RemoveClient removes the client from every room it joined, in a single pass.
func (h *Hub) RemoveClient(c Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID := range h.joined[c] {
		if members, ok := h.rooms[roomID]; ok {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	delete(h.joined, c)
}

// RoomSize reports the current number of members in a room.
func (h *Hub) RoomSize(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

// Broadcast delivers an event to every member of a room except the optional
// excluded client. Members whose write fails are closed and evicted.
func (h *Hub) Broadcast(roomID, event string, payload any, exclude Client) {
	h.mu.RLock()
	members := make([]Client, 0, len(h.rooms[roomID]))
	for member := range h.rooms[roomID] {
		if member != exclude {
			members = append(members, member)
		}
	}
	h.mu.RUnlock()

	for _, member := range members {
		h.deliver(member, event, payload)
	}
}

// BroadcastAll delivers an event once to every connected client except the
// optional excluded one. Used for global presence fanout.
func (h *Hub) BroadcastAll(event string, payload any, exclude Client) {
	h.mu.RLock()
	clients := make([]Client, 0, len(h.joined))
	for c := range h.joined {
		if c != exclude {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		h.deliver(c, event, payload)
	}
}

func (h *Hub) deliver(c Client, event string, payload any) {
	if err := c.Send(event, payload); err != nil {
		h.logger.Warn("websocket write failed, evicting connection",
			zap.String("conn_id", c.ID()),
			zap.Int64("user_id", c.UserID()),
			zap.Error(err))
		_ = c.Close()
		h.RemoveClient(c)
		observability.IncWSEvent("ws_error")
	}
}
