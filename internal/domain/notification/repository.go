package notification

import "context"

// Repository describes notification persistence needs from use cases.
type Repository interface {
	ListByPlayer(ctx context.Context, playerID string) ([]Notification, error)
	Create(ctx context.Context, n Notification) error
	// MarkRead flips the read flag. Returns false when the notification
	// does not exist or belongs to another player.
	MarkRead(ctx context.Context, notificationID, playerID string) (bool, error)
}
