package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
)

// NotificationRepository abstracts notification persistence.
type NotificationRepository interface {
	Create(ctx context.Context, input models.NotificationInput) (models.Notification, error)
}

// NotificationRepo is a sqlx implementation of NotificationRepository.
type NotificationRepo struct {
	db *sqlx.DB
}

// NewNotificationRepo constructs a NotificationRepo.
func NewNotificationRepo(db *sqlx.DB) *NotificationRepo {
	return &NotificationRepo{db: db}
}

// Create persists a notification row.
func (r *NotificationRepo) Create(ctx context.Context, input models.NotificationInput) (models.Notification, error) {
	var n models.Notification
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (user_id, type, content, metadata)
         VALUES ($1, $2, $3, $4)
         RETURNING id, user_id, type, content, metadata, is_read, created_at`,
		input.UserID, input.Type, input.Content, []byte(input.Metadata),
	).StructScan(&n)
	return n, err
}
