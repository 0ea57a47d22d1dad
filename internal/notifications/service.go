package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/cache"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/observability"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/repositories"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/ws"
)

// ErrUnknownType rejects notification types outside the closed enumeration.
var ErrUnknownType = errors.New("unknown notification type")

const (
	// rateWindow and rateLimit bound identical-type notifications per user:
	// at most rateLimit notifications of one (user, type) pair per window.
	rateWindow = 60 * time.Second
	rateLimit  = 5

	cacheTTL = 24 * time.Hour
)

// Service persists, caches and delivers notifications to a user's room under
// the fixed-window rate-limiting policy. It is invoked by other backend
// workflows (likes, comments, follows), not by websocket clients.
type Service struct {
	store  repositories.NotificationRepository
	cache  cache.Cache
	hub    *ws.Hub
	logger *zap.Logger
}

// NewService constructs a Service.
func NewService(store repositories.NotificationRepository, c cache.Cache, hub *ws.Hub, logger *zap.Logger) *Service {
	return &Service{store: store, cache: c, hub: hub, logger: logger}
}

// Send runs the full fanout: validate, rate-limit, persist, cache, deliver.
// A rate-limited call is a silent no-op returning (nil, nil); store and cache
// failures are logged and returned to the invoking workflow.
func (s *Service) Send(ctx context.Context, input models.NotificationInput) (*models.Notification, error) {
	if !input.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, input.Type)
	}

	// The increment itself is the atomic primitive; there is no separate
	// read-compare-increment sequence to race against.
	count, err := s.cache.Increment(ctx, rateKey(input.UserID, input.Type), rateWindow)
	if err != nil {
		s.logger.Error("rate limit counter failed",
			zap.Int64("user_id", input.UserID),
			zap.String("type", string(input.Type)),
			zap.Error(err))
		observability.IncNotification(string(input.Type), observability.NotificationFailed)
		return nil, err
	}
	if count > rateLimit {
		s.logger.Warn("notification rate limit exceeded, dropping",
			zap.Int64("user_id", input.UserID),
			zap.String("type", string(input.Type)),
			zap.Int64("count", count))
		observability.IncNotification(string(input.Type), observability.NotificationDropped)
		return nil, nil
	}

	notification, err := s.store.Create(ctx, input)
	if err != nil {
		s.logger.Error("persist notification failed",
			zap.Int64("user_id", input.UserID),
			zap.String("type", string(input.Type)),
			zap.Error(err))
		observability.IncNotification(string(input.Type), observability.NotificationFailed)
		return nil, err
	}

	// Read-path cache for the REST layer; delivery does not depend on it
	// having readers, but a failed write is surfaced to the caller.
	if err := s.cache.SetWithTTL(ctx, cacheKey(notification.ID), notification, cacheTTL); err != nil {
		s.logger.Error("cache notification failed",
			zap.Int64("notification_id", notification.ID),
			zap.Error(err))
		observability.IncNotification(string(input.Type), observability.NotificationFailed)
		return nil, err
	}

	s.hub.Broadcast(ws.UserRoom(input.UserID), models.EventNotification, notification, nil)
	observability.IncNotification(string(input.Type), observability.NotificationDelivered)
	return &notification, nil
}

func rateKey(userID int64, t models.NotificationType) string {
	return fmt.Sprintf("notifications:rate:%d:%s", userID, t)
}

func cacheKey(id int64) string {
	return fmt.Sprintf("notifications:%d", id)
}
