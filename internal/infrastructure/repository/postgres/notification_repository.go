package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
	qb "github.com/shreddi/WallStreetRivals/internal/platform/querybuilder"
)

type NotificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ListByPlayer(ctx context.Context, playerID string) ([]notification.Notification, error) {
	query, args, err := qb.Select("*").From("notifications").
		Where(
			qb.Eq("player_public_id", playerID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select notifications query: %w", err)
	}

	var rows []notificationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select notifications: %w", err)
	}

	out := make([]notification.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) error {
	model := notificationInsertModel{
		PublicID:       n.ID,
		PlayerPublicID: n.PlayerID,
		Type:           string(n.Type),
		Message:        n.Message,
		Read:           n.Read,
	}
	if n.ContestID != nil {
		model.ContestPublicID = sql.NullString{String: *n.ContestID, Valid: true}
	}

	query, args, err := qb.InsertModel("notifications", model, "")
	if err != nil {
		return fmt.Errorf("build insert notification query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, notificationID, playerID string) (bool, error) {
	const query = `
UPDATE notifications
SET read = TRUE
WHERE public_id = $1
  AND player_public_id = $2
  AND deleted_at IS NULL`

	result, err := r.db.ExecContext(ctx, query, notificationID, playerID)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark notification read rows affected: %w", err)
	}

	return affected > 0, nil
}
