package cache

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
	basecache "github.com/shreddi/WallStreetRivals/internal/platform/cache"
)

// StockRepository caches reads of the stock catalog. Writes go straight
// through and drop the affected keys so valuations never see a stale quote
// window longer than the store TTL.
type StockRepository struct {
	next  stock.Repository
	cache *basecache.Store
}

func NewStockRepository(next stock.Repository, cache *basecache.Store) *StockRepository {
	return &StockRepository{next: next, cache: cache}
}

func (r *StockRepository) List(ctx context.Context, tickerFilter string) ([]stock.Stock, error) {
	key := "stock:list:" + stock.NormalizeTicker(tickerFilter)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		items, err := r.next.List(ctx, tickerFilter)
		if err != nil {
			return nil, err
		}
		return append([]stock.Stock(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}

	items, _ := v.([]stock.Stock)
	return append([]stock.Stock(nil), items...), nil
}

func (r *StockRepository) GetByID(ctx context.Context, stockID string) (stock.Stock, bool, error) {
	key := "stock:id:" + stockID
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByID(ctx, stockID)
		if err != nil {
			return nil, err
		}
		return cachedStock{value: item, exists: exists}, nil
	})
	if err != nil {
		return stock.Stock{}, false, err
	}

	cached, _ := v.(cachedStock)
	return cached.value, cached.exists, nil
}

func (r *StockRepository) GetByTicker(ctx context.Context, ticker string) (stock.Stock, bool, error) {
	key := "stock:ticker:" + stock.NormalizeTicker(ticker)
	v, err := r.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetByTicker(ctx, ticker)
		if err != nil {
			return nil, err
		}
		return cachedStock{value: item, exists: exists}, nil
	})
	if err != nil {
		return stock.Stock{}, false, err
	}

	cached, _ := v.(cachedStock)
	return cached.value, cached.exists, nil
}

func (r *StockRepository) ListTickers(ctx context.Context) ([]string, error) {
	v, err := r.cache.GetOrLoad(ctx, "stock:tickers", func(ctx context.Context) (any, error) {
		tickers, err := r.next.ListTickers(ctx)
		if err != nil {
			return nil, err
		}
		return append([]string(nil), tickers...), nil
	})
	if err != nil {
		return nil, err
	}

	tickers, _ := v.([]string)
	return append([]string(nil), tickers...), nil
}

func (r *StockRepository) Create(ctx context.Context, s stock.Stock) error {
	if err := r.next.Create(ctx, s); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "stock:")

	return nil
}

func (r *StockRepository) UpsertPrice(ctx context.Context, ticker string, price decimal.Decimal) error {
	if err := r.next.UpsertPrice(ctx, ticker, price); err != nil {
		return err
	}
	r.cache.DeletePrefix(ctx, "stock:")

	return nil
}

type cachedStock struct {
	value  stock.Stock
	exists bool
}
