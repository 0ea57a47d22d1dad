package ws

import (
	"context"

	"go.uber.org/zap"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/repositories"
	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/uploads"
)

// Caller-visible error acknowledgements.
const (
	errUnauthorizedConversation = "Unauthorized access to conversation"
	errFailedToSend             = "Failed to send message"
	errFailedToUpload           = "Failed to upload attachment"
)

// ConversationRouter handles sendMessage requests on established connections.
type ConversationRouter struct {
	conversations repositories.ConversationRepository
	messages      repositories.MessageRepository
	uploader      uploads.Service
	hub           *Hub
	logger        *zap.Logger
}

// NewConversationRouter constructs a ConversationRouter.
func NewConversationRouter(
	conversations repositories.ConversationRepository,
	messages repositories.MessageRepository,
	uploader uploads.Service,
	hub *Hub,
	logger *zap.Logger,
) *ConversationRouter {
	return &ConversationRouter{
		conversations: conversations,
		messages:      messages,
		uploader:      uploader,
		hub:           hub,
		logger:        logger,
	}
}

// HandleSend authorizes, uploads, persists and fans out a message, returning
// the acknowledgement for the caller. The broadcast happens only after the
// message is persisted; an unauthorized caller causes no side effect at all.
func (r *ConversationRouter) HandleSend(ctx context.Context, sender Client, req models.SendMessageRequest) models.Ack {
	// Room membership was established at connect time and is never trusted
	// here: the participant set is re-read on every send.
	member, err := isParticipant(ctx, r.conversations, req.ConversationID, sender.UserID())
	if err != nil {
		r.logger.Error("load participants failed",
			zap.Int64("conversation_id", req.ConversationID),
			zap.Error(err),
			zap.Stack("stacktrace"))
		return models.Ack{Error: errFailedToSend}
	}
	if !member {
		return models.Ack{Error: errUnauthorizedConversation}
	}

	params := repositories.CreateMessageParams{
		ConversationID: req.ConversationID,
		SenderID:       sender.UserID(),
		Content:        req.Content,
		ReplyToID:      req.ReplyToID,
	}

	if req.Attachment != nil {
		kind := uploads.KindForContentType(req.Attachment.ContentType)
		up, err := r.uploader.Upload(ctx, req.Attachment.Data, "messages", kind, req.Attachment.ContentType)
		if err != nil {
			r.logger.Error("attachment upload failed",
				zap.Int64("conversation_id", req.ConversationID),
				zap.Error(err))
			return models.Ack{Error: errFailedToUpload}
		}
		kindStr := string(kind)
		params.AttachmentURL = &up.URL
		params.AttachmentType = &kindStr
	}

	msg, err := r.messages.CreateMessage(ctx, params)
	if err != nil {
		r.logger.Error("create message failed",
			zap.Int64("conversation_id", req.ConversationID),
			zap.Int64("sender_id", sender.UserID()),
			zap.Error(err),
			zap.Stack("stacktrace"))
		return models.Ack{Error: errFailedToSend}
	}

	// All participants receive the broadcast, including the sender's other
	// devices; the caller additionally gets the acknowledgement.
	r.hub.Broadcast(ConversationRoom(req.ConversationID), models.EventNewMessage, msg, nil)
	return models.Ack{Success: true, Message: &msg}
}

// isParticipant re-reads the conversation's participant set and checks the user.
func isParticipant(ctx context.Context, repo repositories.ConversationRepository, conversationID, userID int64) (bool, error) {
	participants, err := repo.GetParticipants(ctx, conversationID)
	if err != nil {
		return false, err
	}
	for _, id := range participants {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}
