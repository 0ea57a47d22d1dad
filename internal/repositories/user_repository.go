package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Mahmoudramadan21/14.LinkUp-sub003/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository abstracts the user projection store.
type UserRepository interface {
	GetUser(ctx context.Context, userID int64) (models.User, error)
	TouchLastActive(ctx context.Context, userID int64, at time.Time) error
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetUser loads the public identity projection for a user.
func (r *UserRepo) GetUser(ctx context.Context, userID int64) (models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT id, username, avatar_url, last_active FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// TouchLastActive persists the last-active timestamp on a presence transition.
func (r *UserRepo) TouchLastActive(ctx context.Context, userID int64, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_active=$2 WHERE id=$1`, userID, at)
	return err
}
