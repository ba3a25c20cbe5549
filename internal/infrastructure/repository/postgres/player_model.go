package postgres

import (
	"time"

	"github.com/shreddi/WallStreetRivals/internal/domain/player"
)

type playerTableModel struct {
	ID              int64      `db:"id"`
	PublicID        string     `db:"public_id"`
	Username        string     `db:"username"`
	Email           string     `db:"email"`
	PasswordHash    string     `db:"password_hash"`
	FirstName       string     `db:"first_name"`
	LastName        string     `db:"last_name"`
	ProfilePicture  string     `db:"profile_picture"`
	Birthday        *time.Time `db:"birthday"`
	Education       string     `db:"education"`
	Gender          string     `db:"gender"`
	Location        string     `db:"location"`
	HereFor         string     `db:"here_for"`
	AlertWeekly     bool       `db:"alert_weekly_summary"`
	AlertDaily      bool       `db:"alert_daily_summary"`
	AlertRankChange bool       `db:"alert_rank_change"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

type playerInsertModel struct {
	PublicID        string     `db:"public_id"`
	Username        string     `db:"username"`
	Email           string     `db:"email"`
	PasswordHash    string     `db:"password_hash"`
	FirstName       string     `db:"first_name"`
	LastName        string     `db:"last_name"`
	ProfilePicture  string     `db:"profile_picture"`
	Birthday        *time.Time `db:"birthday"`
	Education       string     `db:"education"`
	Gender          string     `db:"gender"`
	Location        string     `db:"location"`
	HereFor         string     `db:"here_for"`
	AlertWeekly     bool       `db:"alert_weekly_summary"`
	AlertDaily      bool       `db:"alert_daily_summary"`
	AlertRankChange bool       `db:"alert_rank_change"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:             m.PublicID,
		Username:       m.Username,
		Email:          m.Email,
		PasswordHash:   m.PasswordHash,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		ProfilePicture: m.ProfilePicture,
		Birthday:       m.Birthday,
		Education:      m.Education,
		Gender:         m.Gender,
		Location:       m.Location,
		HereFor:        player.HereFor(m.HereFor),
		Alerts: player.AlertPreferences{
			WeeklySummary:     m.AlertWeekly,
			DailySummary:      m.AlertDaily,
			ContestRankChange: m.AlertRankChange,
		},
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func playerToInsertModel(p player.Player) playerInsertModel {
	return playerInsertModel{
		PublicID:        p.ID,
		Username:        p.Username,
		Email:           p.Email,
		PasswordHash:    p.PasswordHash,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		ProfilePicture:  p.ProfilePicture,
		Birthday:        p.Birthday,
		Education:       p.Education,
		Gender:          p.Gender,
		Location:        p.Location,
		HereFor:         string(p.HereFor),
		AlertWeekly:     p.Alerts.WeeklySummary,
		AlertDaily:      p.Alerts.DailySummary,
		AlertRankChange: p.Alerts.ContestRankChange,
	}
}
