package models

import (
	"encoding/json"
	"time"
)

// NotificationType enumerates the notification kinds the fanout service accepts.
type NotificationType string

const (
	NotificationLike          NotificationType = "like"
	NotificationComment       NotificationType = "comment"
	NotificationFollow        NotificationType = "follow"
	NotificationMessage       NotificationType = "message"
	NotificationFriendRequest NotificationType = "friend_request"
	NotificationMention       NotificationType = "mention"
)

// Valid reports whether the type belongs to the closed enumeration.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationLike, NotificationComment, NotificationFollow,
		NotificationMessage, NotificationFriendRequest, NotificationMention:
		return true
	}
	return false
}

// Notification is a persisted notification row delivered to a user room.
type Notification struct {
	ID        int64            `db:"id" json:"id"`
	UserID    int64            `db:"user_id" json:"userId"`
	Type      NotificationType `db:"type" json:"type"`
	Content   string           `db:"content" json:"content"`
	Metadata  json.RawMessage  `db:"metadata" json:"metadata,omitempty"`
	IsRead    bool             `db:"is_read" json:"isRead"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}

// NotificationInput is what the invoking backend workflows hand to the fanout service.
type NotificationInput struct {
	UserID   int64            `json:"userId" binding:"required"`
	Type     NotificationType `json:"type" binding:"required"`
	Content  string           `json:"content"`
	Metadata json.RawMessage  `json:"metadata,omitempty"`
}
