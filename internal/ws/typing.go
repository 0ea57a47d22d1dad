package ws

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/repositories"
)

// TypingBroadcaster relays typing signals to a conversation room. The signal
// is never persisted and has no acknowledgement channel: an unauthorized or
// failed relay is silently dropped.
type TypingBroadcaster struct {
	conversations repositories.ConversationRepository
	hub           *Hub
	logger        *zap.Logger
}

// NewTypingBroadcaster constructs a TypingBroadcaster.
func NewTypingBroadcaster(conversations repositories.ConversationRepository, hub *Hub, logger *zap.Logger) *TypingBroadcaster {
	return &TypingBroadcaster{conversations: conversations, hub: hub, logger: logger}
}

// Handle relays the typing signal to everyone in the conversation except the
// sender's own connection.
func (t *TypingBroadcaster) Handle(ctx context.Context, sender Client, req models.TypingRequest) {
	member, err := isParticipant(ctx, t.conversations, req.ConversationID, sender.UserID())
	if err != nil {
		t.logger.Warn("typing authorization check failed",
			zap.Int64("conversation_id", req.ConversationID),
			zap.Error(err))
		return
	}
	if !member {
		return
	}

	t.hub.Broadcast(ConversationRoom(req.ConversationID), models.EventTyping, models.TypingEvent{
		UserID:    sender.UserID(),
		IsTyping:  req.IsTyping,
		Username:  sender.Username(),
		Timestamp: time.Now().UTC(),
	}, sender)
}
