package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// CreateMessageParams carries everything needed to persist a message.
type CreateMessageParams struct {
	ConversationID int64
	SenderID       int64
	Content        *string
	ReplyToID      *int64
	AttachmentURL  *string
	AttachmentType *string
}

// MessageRepository defines interactions with the message store.
type MessageRepository interface {
	CreateMessage(ctx context.Context, p CreateMessageParams) (models.Message, error)
	MarkRead(ctx context.Context, messageIDs []int64, at time.Time) error
	GetByIDs(ctx context.Context, messageIDs []int64) ([]models.MessageRef, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a message and returns it hydrated with the denormalized
// sender projection so it can be broadcast without a second round trip.
func (r *MessageRepo) CreateMessage(ctx context.Context, p CreateMessageParams) (models.Message, error) {
	query := `WITH inserted AS (
            INSERT INTO messages (conversation_id, sender_id, content, reply_to_id, attachment_url, attachment_type)
            VALUES ($1, $2, $3, $4, $5, $6)
            RETURNING id, conversation_id, sender_id, content, attachment_url, attachment_type, reply_to_id, read_at, created_at
        )
        SELECT i.id, i.conversation_id, i.sender_id, i.content, i.attachment_url, i.attachment_type,
               i.reply_to_id, i.read_at, i.created_at,
               u.username AS sender_username, u.avatar_url AS sender_avatar_url
        FROM inserted i
        JOIN users u ON u.id = i.sender_id`

	var msg models.Message
	err := r.db.QueryRowxContext(ctx, query,
		p.ConversationID, p.SenderID, p.Content, p.ReplyToID, p.AttachmentURL, p.AttachmentType,
	).StructScan(&msg)
	return msg, err
}

// MarkRead sets the read timestamp on all matching unread messages. Re-marking
// an already-read message is a no-op, which keeps the operation idempotent.
func (r *MessageRepo) MarkRead(ctx context.Context, messageIDs []int64, at time.Time) error {
	if len(messageIDs) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET read_at=$2 WHERE id = ANY($1) AND read_at IS NULL`, pq.Array(messageIDs), at)
	return err
}

// GetByIDs returns the minimal sender/conversation projection for the given messages.
func (r *MessageRepo) GetByIDs(ctx context.Context, messageIDs []int64) ([]models.MessageRef, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	var refs []models.MessageRef
	err := r.db.SelectContext(ctx, &refs, `SELECT id, sender_id, conversation_id FROM messages WHERE id = ANY($1)`, pq.Array(messageIDs))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMessageNotFound
	}
	return refs, err
}
