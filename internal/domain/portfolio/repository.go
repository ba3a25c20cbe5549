package portfolio

import (
	"context"

	"github.com/shopspring/decimal"
)

// BuyTrade is the input of an atomic purchase. Price is the quote read at
// order time; the repository re-checks funds inside its own transaction.
type BuyTrade struct {
	PortfolioID string
	HoldingID   string
	Ticker      string
	Quantity    int64
	Price       decimal.Decimal
}

// Repository describes portfolio persistence needs from use cases.
//
// Buy and Sell must be atomic: the funds check, the cash movement, and the
// holding change either all land or none do. Buy returns
// ErrInsufficientFunds when cash cannot cover the order.
type Repository interface {
	GetByID(ctx context.Context, portfolioID string) (Portfolio, bool, error)
	GetByPlayerAndContest(ctx context.Context, playerID, contestID string) (Portfolio, bool, error)
	ListByPlayer(ctx context.Context, playerID string) ([]Portfolio, error)
	ListByContest(ctx context.Context, contestID string) ([]Portfolio, error)
	Create(ctx context.Context, p Portfolio) error
	CountByContest(ctx context.Context, contestID string) (int, error)

	ListHoldings(ctx context.Context, portfolioID string) ([]Holding, error)
	GetHolding(ctx context.Context, holdingID string) (Holding, bool, error)

	Buy(ctx context.Context, trade BuyTrade) (TradeResult, error)
	Sell(ctx context.Context, holdingID string, price decimal.Decimal) (TradeResult, error)
}
