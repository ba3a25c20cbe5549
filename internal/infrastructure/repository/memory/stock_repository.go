package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
)

type StockRepository struct {
	mu    sync.RWMutex
	items map[string]stock.Stock
	now   func() time.Time
}

func NewStockRepository(seed ...stock.Stock) *StockRepository {
	items := make(map[string]stock.Stock, len(seed))
	for _, s := range seed {
		items[s.ID] = s
	}
	return &StockRepository{items: items, now: time.Now}
}

func (r *StockRepository) List(_ context.Context, tickerFilter string) ([]stock.Stock, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filter := stock.NormalizeTicker(tickerFilter)
	out := make([]stock.Stock, 0, len(r.items))
	for _, s := range r.items {
		if filter != "" && s.Ticker != filter {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })

	return out, nil
}

func (r *StockRepository) GetByID(_ context.Context, stockID string) (stock.Stock, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.items[stockID]
	if !ok {
		return stock.Stock{}, false, nil
	}

	return s, true, nil
}

func (r *StockRepository) GetByTicker(_ context.Context, ticker string) (stock.Stock, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := stock.NormalizeTicker(ticker)
	for _, s := range r.items {
		if s.Ticker == normalized {
			return s, true, nil
		}
	}

	return stock.Stock{}, false, nil
}

func (r *StockRepository) ListTickers(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tickers := make([]string, 0, len(r.items))
	for _, s := range r.items {
		tickers = append(tickers, s.Ticker)
	}
	sort.Strings(tickers)

	return tickers, nil
}

func (r *StockRepository) Create(_ context.Context, s stock.Stock) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[s.ID] = s
	return nil
}

func (r *StockRepository) UpsertPrice(_ context.Context, ticker string, price decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	normalized := stock.NormalizeTicker(ticker)
	for id, s := range r.items {
		if s.Ticker == normalized {
			s.TradePrice = price
			s.UpdatedAt = r.now().UTC()
			r.items[id] = s
			return nil
		}
	}

	return nil
}
