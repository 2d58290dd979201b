package postgresql

import (
	"context"
	"fmt"

	"github.com/buildcrew/sitework-backend-go/internal/domain/notification"
	"github.com/buildcrew/sitework-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type notificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// CreateBatch implements notification.Repository using pgx batching inside
// one transaction, so a flush is all-or-nothing and one round trip.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	query := `
		INSERT INTO notifications (id, recipient_id, type, title, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	for _, n := range notifications {
		batch.Queue(query, n.ID, n.RecipientID, n.Type, n.Title, n.Message, n.IsRead, n.CreatedAt)
	}

	return WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		tx, _ := txFromContext(txCtx)
		results := tx.SendBatch(txCtx, batch)
		defer results.Close()

		for range notifications {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("failed to insert notification batch: %w", err)
			}
		}
		return nil
	})
}

// ListByRecipient implements notification.Repository.
func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notification.Notification, error) {
	q := GetQuerier(ctx, r.db)

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := `
		SELECT id, recipient_id, type, title, message, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []notification.Notification
	for rows.Next() {
		var n notification.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Type, &n.Title, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
