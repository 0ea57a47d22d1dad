package ws

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/repositories"
)

// PresenceTracker derives a user's online state from the set of their live
// connections. A user with several simultaneous connections goes online once,
// and offline only when the last connection drops.
type PresenceTracker struct {
	mu          sync.Mutex
	connections map[int64]map[string]struct{}
	users       repositories.UserRepository
	hub         *Hub
	logger      *zap.Logger
}

// NewPresenceTracker constructs a PresenceTracker.
func NewPresenceTracker(hub *Hub, users repositories.UserRepository, logger *zap.Logger) *PresenceTracker {
	return &PresenceTracker{
		connections: make(map[int64]map[string]struct{}),
		users:       users,
		hub:         hub,
		logger:      logger,
	}
}

// Connected records a new connection and broadcasts the online transition if
// it is the user's first.
func (p *PresenceTracker) Connected(ctx context.Context, c Client) {
	p.mu.Lock()
	set, ok := p.connections[c.UserID()]
	if !ok {
		set = make(map[string]struct{})
		p.connections[c.UserID()] = set
	}
	first := len(set) == 0
	set[c.ID()] = struct{}{}
	p.mu.Unlock()

	if first {
		p.transition(ctx, c, models.StatusOnline)
	}
}

// Disconnected removes a connection and broadcasts the offline transition if
// it was the user's last.
func (p *PresenceTracker) Disconnected(ctx context.Context, c Client) {
	p.mu.Lock()
	set, ok := p.connections[c.UserID()]
	if ok {
		delete(set, c.ID())
		if len(set) == 0 {
			delete(p.connections, c.UserID())
		}
	}
	last := ok && len(set) == 0
	p.mu.Unlock()

	if last {
		p.transition(ctx, c, models.StatusOffline)
	}
}

// Online reports whether the user currently has at least one live connection.
func (p *PresenceTracker) Online(userID int64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.connections[userID]) > 0
}

// transition persists the last-active timestamp and announces the new status
// to every other connected user. Persistence is best effort: a store failure
// must not make connecting or disconnecting fail.
func (p *PresenceTracker) transition(ctx context.Context, c Client, status string) {
	now := time.Now().UTC()
	if err := p.users.TouchLastActive(ctx, c.UserID(), now); err != nil {
		p.logger.Error("persist last active failed",
			zap.Int64("user_id", c.UserID()),
			zap.Error(err))
	}

	p.hub.BroadcastAll(models.EventUserStatus, models.UserStatusEvent{
		UserID:     c.UserID(),
		Status:     status,
		Username:   c.Username(),
		LastActive: now,
	}, c)
}
