package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
)

type stockTableModel struct {
	ID          int64           `db:"id"`
	PublicID    string          `db:"public_id"`
	Ticker      string          `db:"ticker"`
	CompanyName string          `db:"company_name"`
	TradePrice  decimal.Decimal `db:"trade_price"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
	DeletedAt   *time.Time      `db:"deleted_at"`
}

type stockInsertModel struct {
	PublicID    string          `db:"public_id"`
	Ticker      string          `db:"ticker"`
	CompanyName string          `db:"company_name"`
	TradePrice  decimal.Decimal `db:"trade_price"`
}

func (m stockTableModel) toDomain() stock.Stock {
	return stock.Stock{
		ID:          m.PublicID,
		Ticker:      m.Ticker,
		CompanyName: m.CompanyName,
		TradePrice:  m.TradePrice,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
