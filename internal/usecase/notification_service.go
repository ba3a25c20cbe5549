package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
	idgen "github.com/shreddi/WallStreetRivals/internal/platform/id"
)

type NotificationService struct {
	notificationRepo notification.Repository
	idGen            idgen.Generator
	now              func() time.Time
}

func NewNotificationService(notificationRepo notification.Repository, idGen idgen.Generator) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		idGen:            idGen,
		now:              time.Now,
	}
}

// ListNotifications returns a player's notifications, newest first.
func (s *NotificationService) ListNotifications(ctx context.Context, playerID string) ([]notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.ListNotifications")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	items, err := s.notificationRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return items, nil
}

// Notify records a new notification for a player.
func (s *NotificationService) Notify(ctx context.Context, playerID string, contestID *string, kind notification.Type, message string) (notification.Notification, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.Notify")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	message = strings.TrimSpace(message)
	if playerID == "" {
		return notification.Notification{}, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}
	if message == "" {
		return notification.Notification{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if !kind.Valid() {
		return notification.Notification{}, fmt.Errorf("%w: unknown notification type %q", ErrInvalidInput, kind)
	}

	id, err := s.idGen.NewID()
	if err != nil {
		return notification.Notification{}, fmt.Errorf("generate notification id: %w", err)
	}

	note := notification.Notification{
		ID:        id,
		PlayerID:  playerID,
		ContestID: contestID,
		Type:      kind,
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.notificationRepo.Create(ctx, note); err != nil {
		return notification.Notification{}, fmt.Errorf("create notification: %w", err)
	}

	return note, nil
}

// MarkRead flags one of the caller's notifications as read. Notifications
// belonging to other players behave as if they do not exist.
func (s *NotificationService) MarkRead(ctx context.Context, playerID, notificationID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.NotificationService.MarkRead")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	notificationID = strings.TrimSpace(notificationID)
	if playerID == "" || notificationID == "" {
		return fmt.Errorf("%w: player id and notification id are required", ErrInvalidInput)
	}

	marked, err := s.notificationRepo.MarkRead(ctx, notificationID, playerID)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	if !marked {
		return fmt.Errorf("%w: notification=%s", ErrNotFound, notificationID)
	}

	return nil
}
