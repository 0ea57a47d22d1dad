package models

import (
	"encoding/json"
	"time"
)

// Event is the envelope for every server-to-client websocket frame.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// Frame is a client-to-server websocket frame. Acknowledged actions carry an
// id that the matching ack event echoes back.
type Frame struct {
	Action string          `json:"action"`
	ID     string          `json:"id,omitempty"`
	Data   json.RawMessage `json:"data"`
}

// Client-invoked actions.
const (
	ActionSendMessage = "sendMessage"
	ActionTyping      = "typing"
	ActionMarkRead    = "markRead"
)

// Server-emitted event names.
const (
	EventAck          = "ack"
	EventUserStatus   = "userStatus"
	EventNewMessage   = "newMessage"
	EventTyping       = "typing"
	EventMessagesRead = "messagesRead"
	EventNotification = "notification"
	EventError        = "error"
)

// AttachmentPayload carries raw attachment bytes with their declared media type.
// Data is base64 on the wire via encoding/json.
type AttachmentPayload struct {
	Data        []byte `json:"data"`
	ContentType string `json:"contentType"`
}

// SendMessageRequest is the payload of a sendMessage frame.
type SendMessageRequest struct {
	ConversationID int64              `json:"conversationId"`
	Content        *string            `json:"content,omitempty"`
	ReplyToID      *int64             `json:"replyToId,omitempty"`
	Attachment     *AttachmentPayload `json:"attachment,omitempty"`
}

// TypingRequest is the payload of a typing frame. Fire-and-forget, never acked.
type TypingRequest struct {
	ConversationID int64 `json:"conversationId"`
	IsTyping       bool  `json:"isTyping"`
}

// MarkReadRequest is the payload of a markRead frame.
type MarkReadRequest struct {
	MessageIDs []int64 `json:"messageIds"`
}

// Ack is the result of an acknowledged action, exactly one of Message or Error set.
type Ack struct {
	Success bool     `json:"success,omitempty"`
	Message *Message `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// AckEvent echoes the caller's frame id together with the operation result.
type AckEvent struct {
	ID string `json:"id,omitempty"`
	Ack
}

// UserStatusEvent announces a presence transition to all other connected users.
type UserStatusEvent struct {
	UserID     int64     `json:"userId"`
	Status     string    `json:"status"`
	Username   string    `json:"username"`
	LastActive time.Time `json:"lastActive"`
}

// Presence statuses.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// TypingEvent is relayed to a conversation room, excluding the sender.
type TypingEvent struct {
	UserID    int64     `json:"userId"`
	IsTyping  bool      `json:"isTyping"`
	Username  string    `json:"username"`
	Timestamp time.Time `json:"timestamp"`
}

// MessagesReadEvent tells a sender that a reader caught up in a conversation.
type MessagesReadEvent struct {
	ConversationID int64     `json:"conversationId"`
	ReaderID       int64     `json:"readerId"`
	Timestamp      time.Time `json:"timestamp"`
}

// ErrorEvent is an unsolicited error notice for fire-and-forget operations.
type ErrorEvent struct {
	Message string `json:"message"`
}
