package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
)

type portfolioTableModel struct {
	ID              int64           `db:"id"`
	PublicID        string          `db:"public_id"`
	PlayerPublicID  string          `db:"player_public_id"`
	ContestPublicID string          `db:"contest_public_id"`
	Cash            decimal.Decimal `db:"cash"`
	Active          bool            `db:"active"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	DeletedAt       *time.Time      `db:"deleted_at"`
}

type portfolioInsertModel struct {
	PublicID        string          `db:"public_id"`
	PlayerPublicID  string          `db:"player_public_id"`
	ContestPublicID string          `db:"contest_public_id"`
	Cash            decimal.Decimal `db:"cash"`
	Active          bool            `db:"active"`
}

type holdingTableModel struct {
	ID                int64      `db:"id"`
	PublicID          string     `db:"public_id"`
	PortfolioPublicID string     `db:"portfolio_public_id"`
	Ticker            string     `db:"ticker"`
	Shares            int64      `db:"shares"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
	DeletedAt         *time.Time `db:"deleted_at"`
}

func (m portfolioTableModel) toDomain() portfolio.Portfolio {
	return portfolio.Portfolio{
		ID:        m.PublicID,
		PlayerID:  m.PlayerPublicID,
		ContestID: m.ContestPublicID,
		Cash:      m.Cash,
		Active:    m.Active,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (m holdingTableModel) toDomain() portfolio.Holding {
	return portfolio.Holding{
		ID:          m.PublicID,
		PortfolioID: m.PortfolioPublicID,
		Ticker:      m.Ticker,
		Shares:      m.Shares,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
