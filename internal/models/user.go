package models

import "time"

// User is the public identity projection cached on each connection at handshake.
type User struct {
	ID         int64     `db:"id" json:"id"`
	Username   string    `db:"username" json:"username"`
	AvatarURL  *string   `db:"avatar_url" json:"avatarUrl,omitempty"`
	LastActive time.Time `db:"last_active" json:"lastActive"`
}
