package postgres

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/contest"
)

type contestTableModel struct {
	ID               int64           `db:"id"`
	PublicID         string          `db:"public_id"`
	Name             string          `db:"name"`
	OwnerPublicID    sql.NullString  `db:"owner_public_id"`
	Picture          string          `db:"picture"`
	IsTournament     bool            `db:"is_tournament"`
	LeagueType       string          `db:"league_type"`
	CashInterestRate decimal.Decimal `db:"cash_interest_rate"`
	Duration         string          `db:"duration"`
	StartDate        time.Time       `db:"start_date"`
	EndDate          time.Time       `db:"end_date"`
	PlayerLimit      int             `db:"player_limit"`
	NYSE             bool            `db:"nyse"`
	NASDAQ           bool            `db:"nasdaq"`
	Crypto           bool            `db:"crypto"`
	CreatedAt        time.Time       `db:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at"`
	DeletedAt        *time.Time      `db:"deleted_at"`
}

type contestInsertModel struct {
	PublicID         string          `db:"public_id"`
	Name             string          `db:"name"`
	OwnerPublicID    sql.NullString  `db:"owner_public_id"`
	Picture          string          `db:"picture"`
	IsTournament     bool            `db:"is_tournament"`
	LeagueType       string          `db:"league_type"`
	CashInterestRate decimal.Decimal `db:"cash_interest_rate"`
	Duration         string          `db:"duration"`
	StartDate        time.Time       `db:"start_date"`
	EndDate          time.Time       `db:"end_date"`
	PlayerLimit      int             `db:"player_limit"`
	NYSE             bool            `db:"nyse"`
	NASDAQ           bool            `db:"nasdaq"`
	Crypto           bool            `db:"crypto"`
}

func (m contestTableModel) toDomain() contest.Contest {
	out := contest.Contest{
		ID:               m.PublicID,
		Name:             m.Name,
		Picture:          m.Picture,
		IsTournament:     m.IsTournament,
		LeagueType:       contest.LeagueType(m.LeagueType),
		CashInterestRate: m.CashInterestRate,
		Duration:         contest.Duration(m.Duration),
		StartDate:        m.StartDate,
		EndDate:          m.EndDate,
		PlayerLimit:      m.PlayerLimit,
		NYSE:             m.NYSE,
		NASDAQ:           m.NASDAQ,
		Crypto:           m.Crypto,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
	if m.OwnerPublicID.Valid {
		ownerID := m.OwnerPublicID.String
		out.OwnerID = &ownerID
	}
	return out
}

func contestToInsertModel(c contest.Contest) contestInsertModel {
	model := contestInsertModel{
		PublicID:         c.ID,
		Name:             c.Name,
		Picture:          c.Picture,
		IsTournament:     c.IsTournament,
		LeagueType:       string(c.LeagueType),
		CashInterestRate: c.CashInterestRate,
		Duration:         string(c.Duration),
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		PlayerLimit:      c.PlayerLimit,
		NYSE:             c.NYSE,
		NASDAQ:           c.NASDAQ,
		Crypto:           c.Crypto,
	}
	if c.OwnerID != nil {
		model.OwnerPublicID = sql.NullString{String: *c.OwnerID, Valid: true}
	}
	return model
}
