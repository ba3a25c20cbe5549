package postgres

import (
	"database/sql"
	"time"

	"github.com/shreddi/WallStreetRivals/internal/domain/notification"
)

type notificationTableModel struct {
	ID              int64          `db:"id"`
	PublicID        string         `db:"public_id"`
	PlayerPublicID  string         `db:"player_public_id"`
	ContestPublicID sql.NullString `db:"contest_public_id"`
	Type            string         `db:"type"`
	Message         string         `db:"message"`
	Read            bool           `db:"read"`
	CreatedAt       time.Time      `db:"created_at"`
	DeletedAt       *time.Time     `db:"deleted_at"`
}

type notificationInsertModel struct {
	PublicID        string         `db:"public_id"`
	PlayerPublicID  string         `db:"player_public_id"`
	ContestPublicID sql.NullString `db:"contest_public_id"`
	Type            string         `db:"type"`
	Message         string         `db:"message"`
	Read            bool           `db:"read"`
}

func (m notificationTableModel) toDomain() notification.Notification {
	out := notification.Notification{
		ID:        m.PublicID,
		PlayerID:  m.PlayerPublicID,
		Type:      notification.Type(m.Type),
		Message:   m.Message,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
	if m.ContestPublicID.Valid {
		contestID := m.ContestPublicID.String
		out.ContestID = &contestID
	}
	return out
}
