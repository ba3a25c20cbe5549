package usecase

import (
	"errors"
	"testing"

	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
	"github.com/shreddi/WallStreetRivals/internal/infrastructure/repository/memory"
)

func newNotificationService() *NotificationService {
	svc := NewNotificationService(memory.NewNotificationRepository(), &seqIDGen{prefix: "note"})
	svc.now = fixedClock
	return svc
}

func TestNotificationService_NotifyAndList(t *testing.T) {
	svc := newNotificationService()

	contestID := memory.ContestIDDemoWeekly
	created, err := svc.Notify(t.Context(), memory.PlayerIDDemoBull, &contestID, notification.TypeContestStarted, "Weekly Open is live")
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}
	if created.ID != "note-1" || created.Read {
		t.Fatalf("unexpected notification: %+v", created)
	}

	items, err := svc.ListNotifications(t.Context(), memory.PlayerIDDemoBull)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].Message != "Weekly Open is live" {
		t.Fatalf("unexpected notifications: %+v", items)
	}

	other, err := svc.ListNotifications(t.Context(), memory.PlayerIDDemoBear)
	if err != nil {
		t.Fatalf("list for other player failed: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("notifications must not leak across players, got %d", len(other))
	}
}

func TestNotificationService_Notify_RejectUnknownType(t *testing.T) {
	svc := newNotificationService()

	_, err := svc.Notify(t.Context(), memory.PlayerIDDemoBull, nil, notification.Type("carrier_pigeon"), "hello")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNotificationService_MarkRead(t *testing.T) {
	svc := newNotificationService()

	created, err := svc.Notify(t.Context(), memory.PlayerIDDemoBull, nil, notification.TypeRankChange, "You moved up to #2")
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if err := svc.MarkRead(t.Context(), memory.PlayerIDDemoBull, created.ID); err != nil {
		t.Fatalf("mark read failed: %v", err)
	}

	items, err := svc.ListNotifications(t.Context(), memory.PlayerIDDemoBull)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !items[0].Read {
		t.Fatalf("notification still unread: %+v", items[0])
	}
}

func TestNotificationService_MarkRead_ForeignNotificationLooksAbsent(t *testing.T) {
	svc := newNotificationService()

	created, err := svc.Notify(t.Context(), memory.PlayerIDDemoBull, nil, notification.TypeRankChange, "You moved up to #2")
	if err != nil {
		t.Fatalf("notify failed: %v", err)
	}

	if err := svc.MarkRead(t.Context(), memory.PlayerIDDemoBear, created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
