package ws

import "fmt"

// UserRoom names the room every connection of a user joins.
func UserRoom(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// ConversationRoom names the room shared by a conversation's participants.
func ConversationRoom(conversationID int64) string {
	return fmt.Sprintf("conversation:%d", conversationID)
}
