package stock

import (
	"context"

	"github.com/shopspring/decimal"
)

// Repository describes stock persistence needs from use cases.
type Repository interface {
	List(ctx context.Context, tickerFilter string) ([]Stock, error)
	GetByID(ctx context.Context, stockID string) (Stock, bool, error)
	GetByTicker(ctx context.Context, ticker string) (Stock, bool, error)
	ListTickers(ctx context.Context) ([]string, error)
	Create(ctx context.Context, s Stock) error
	UpsertPrice(ctx context.Context, ticker string, price decimal.Decimal) error
}

// PriceLookup resolves current prices for valuation. Implementations decide
// where prices come from; valuation never caches the result.
type PriceLookup interface {
	PricesByTicker(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error)
}
