// internal/notification/repository.go

package notification

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrContactNotFound      = errors.New("contact not found")
)

type Repository interface {
	CreateNotification(ctx context.Context, notification *Notification) error
	GetUserNotifications(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*Notification, error)
	MarkAsRead(ctx context.Context, notificationID, userID string) error
	GetContact(ctx context.Context, userID string) (*Contact, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) CreateNotification(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, type, related_user_id, content, read)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	return r.db.QueryRowxContext(
		ctx, query,
		n.ID, n.UserID, n.Type, n.RelatedUserID, n.Content, n.Read,
	).Scan(&n.CreatedAt)
}

func (r *postgresRepository) GetUserNotifications(ctx context.Context, userID string, limit int, unreadOnly bool) ([]*Notification, error) {
	query := `
		SELECT id, user_id, type, COALESCE(related_user_id, '') AS related_user_id,
		       content, created_at, read
		FROM notifications
		WHERE user_id = $1 AND ($2 = FALSE OR read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3
	`

	notifications := []*Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, userID, unreadOnly, limit); err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *postgresRepository) MarkAsRead(ctx context.Context, notificationID, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`,
		notificationID, userID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}

func (r *postgresRepository) GetContact(ctx context.Context, userID string) (*Contact, error) {
	var contact Contact
	err := r.db.GetContext(ctx, &contact,
		`SELECT id, name, email, phone FROM users WHERE id = $1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, err
	}

	return &contact, nil
}
