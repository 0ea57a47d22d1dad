package ws

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/repositories"
)

const errFailedMarkRead = "Failed to mark messages as read"

// ReadReceiptAggregator applies batched read-state updates and notifies each
// affected sender once, regardless of how many of their messages the batch
// covered.
type ReadReceiptAggregator struct {
	messages repositories.MessageRepository
	hub      *Hub
	logger   *zap.Logger
}

// NewReadReceiptAggregator constructs a ReadReceiptAggregator.
func NewReadReceiptAggregator(messages repositories.MessageRepository, hub *Hub, logger *zap.Logger) *ReadReceiptAggregator {
	return &ReadReceiptAggregator{messages: messages, hub: hub, logger: logger}
}

// Handle marks the messages read and emits one messagesRead event per distinct
// sender other than the caller. Failures surface as an error event on the
// caller's connection; partial updates are accepted and not retried.
func (a *ReadReceiptAggregator) Handle(ctx context.Context, caller Client, req models.MarkReadRequest) {
	if len(req.MessageIDs) == 0 {
		return
	}

	now := time.Now().UTC()
	if err := a.messages.MarkRead(ctx, req.MessageIDs, now); err != nil {
		a.fail(caller, err)
		return
	}

	refs, err := a.messages.GetByIDs(ctx, req.MessageIDs)
	if err != nil {
		a.fail(caller, err)
		return
	}

	notified := make(map[int64]struct{}, len(refs))
	for _, ref := range refs {
		if ref.SenderID == caller.UserID() {
			continue
		}
		if _, seen := notified[ref.SenderID]; seen {
			continue
		}
		notified[ref.SenderID] = struct{}{}

		a.hub.Broadcast(UserRoom(ref.SenderID), models.EventMessagesRead, models.MessagesReadEvent{
			ConversationID: ref.ConversationID,
			ReaderID:       caller.UserID(),
			Timestamp:      now,
		}, nil)
	}
}

func (a *ReadReceiptAggregator) fail(caller Client, err error) {
	a.logger.Error("mark messages read failed",
		zap.Int64("reader_id", caller.UserID()),
		zap.Error(err))
	if sendErr := caller.Send(models.EventError, models.ErrorEvent{Message: errFailedMarkRead}); sendErr != nil {
		a.logger.Warn("error event delivery failed", zap.Error(sendErr))
	}
}
