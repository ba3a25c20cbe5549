package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
)

type NotificationRepository struct {
	mu    sync.RWMutex
	items map[string]notification.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{items: make(map[string]notification.Notification)}
}

func (r *NotificationRepository) ListByPlayer(_ context.Context, playerID string) ([]notification.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]notification.Notification, 0, 8)
	for _, n := range r.items {
		if n.PlayerID == playerID {
			out = append(out, cloneNotification(n))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})

	return out, nil
}

func (r *NotificationRepository) Create(_ context.Context, n notification.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[n.ID] = cloneNotification(n)
	return nil
}

func (r *NotificationRepository) MarkRead(_ context.Context, notificationID, playerID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.items[notificationID]
	if !ok || n.PlayerID != playerID {
		return false, nil
	}

	n.Read = true
	r.items[notificationID] = n
	return true, nil
}

func cloneNotification(n notification.Notification) notification.Notification {
	copied := n
	if n.ContestID != nil {
		contestID := *n.ContestID
		copied.ContestID = &contestID
	}
	return copied
}
