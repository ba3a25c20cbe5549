package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
)

func (h *Handler) ListMyNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyNotifications")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	notifications, err := h.notificationService.ListNotifications(ctx, callerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list notifications failed", "player_id", callerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]notificationDTO, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, notificationToDTO(n))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.MarkNotificationRead")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	notificationID := strings.TrimSpace(r.PathValue("notificationID"))
	if err := h.notificationService.MarkRead(ctx, callerID, notificationID); err != nil {
		h.logger.WarnContext(ctx, "mark notification read failed", "notification_id", notificationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "read"})
}

type notificationDTO struct {
	ID           string  `json:"id"`
	ContestID    *string `json:"contest_id,omitempty"`
	Type         string  `json:"type"`
	Message      string  `json:"message"`
	Read         bool    `json:"read"`
	CreatedAtUTC string  `json:"created_at_utc"`
}

func notificationToDTO(n notification.Notification) notificationDTO {
	return notificationDTO{
		ID:           n.ID,
		ContestID:    n.ContestID,
		Type:         string(n.Type),
		Message:      n.Message,
		Read:         n.Read,
		CreatedAtUTC: n.CreatedAt.UTC().Format(time.RFC3339),
	}
}
