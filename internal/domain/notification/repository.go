package notification

import "context"

type Repository interface {
	// CreateBatch inserts a batch of notifications in one round trip.
	CreateBatch(ctx context.Context, notifications []*Notification) error

	// ListByRecipient returns a recipient's most recent notifications.
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error)
}
