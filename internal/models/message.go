package models

import "time"

// Message represents a chat message hydrated with its sender projection,
// ready to be broadcast to a conversation room.
type Message struct {
	ID              int64      `db:"id" json:"id"`
	ConversationID  int64      `db:"conversation_id" json:"conversationId"`
	SenderID        int64      `db:"sender_id" json:"senderId"`
	Content         *string    `db:"content" json:"content,omitempty"`
	AttachmentURL   *string    `db:"attachment_url" json:"attachmentUrl,omitempty"`
	AttachmentType  *string    `db:"attachment_type" json:"attachmentType,omitempty"`
	ReplyToID       *int64     `db:"reply_to_id" json:"replyToId,omitempty"`
	ReadAt          *time.Time `db:"read_at" json:"readAt,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	SenderUsername  string     `db:"sender_username" json:"senderUsername"`
	SenderAvatarURL *string    `db:"sender_avatar_url" json:"senderAvatarUrl,omitempty"`
}

// MessageRef is the minimal projection used by the read-receipt aggregator.
type MessageRef struct {
	ID             int64 `db:"id" json:"id"`
	SenderID       int64 `db:"sender_id" json:"senderId"`
	ConversationID int64 `db:"conversation_id" json:"conversationId"`
}
