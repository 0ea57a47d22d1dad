package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// ConversationRepository abstracts conversation membership queries. Participant
// sets are fixed at conversation creation, but the router still re-reads them on
// every event rather than trusting connect-time room membership.
type ConversationRepository interface {
	GetParticipants(ctx context.Context, conversationID int64) ([]int64, error)
	ListConversationsFor(ctx context.Context, userID int64) ([]int64, error)
}

// ConversationRepo is a sqlx implementation of ConversationRepository.
type ConversationRepo struct {
	db *sqlx.DB
}

// NewConversationRepo constructs a ConversationRepo.
func NewConversationRepo(db *sqlx.DB) *ConversationRepo {
	return &ConversationRepo{db: db}
}

// GetParticipants returns the user ids belonging to a conversation.
func (r *ConversationRepo) GetParticipants(ctx context.Context, conversationID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM conversation_participants WHERE conversation_id=$1`, conversationID)
	return ids, err
}

// ListConversationsFor returns the ids of every conversation the user participates in.
func (r *ConversationRepo) ListConversationsFor(ctx context.Context, userID int64) ([]int64, error) {
	var ids []int64
	err := r.db.SelectContext(ctx, &ids, `SELECT conversation_id FROM conversation_participants WHERE user_id=$1`, userID)
	return ids, err
}
