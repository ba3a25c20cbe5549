package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
)

const (
	// Market data providers cap symbol query strings, so refreshes run in
	// fixed-size ticker batches.
	priceSyncBatchSize  = 200
	defaultPriceWorkers = 4
)

// MarketData fetches latest trade prices for a batch of tickers. Tickers the
// provider does not know are simply absent from the returned map.
type MarketData interface {
	LatestPrices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error)
}

type noopMarketData struct{}

func (noopMarketData) LatestPrices(context.Context, []string) (map[string]decimal.Decimal, error) {
	return nil, fmt.Errorf("%w: no market data provider configured", ErrDependencyUnavailable)
}

// NewNoopMarketData stands in when no provider is configured. Every refresh
// batch fails with ErrDependencyUnavailable.
func NewNoopMarketData() MarketData {
	return noopMarketData{}
}

type PriceSyncResult struct {
	TickerCount  int      `json:"ticker_count"`
	BatchCount   int      `json:"batch_count"`
	UpdatedCount int      `json:"updated_count"`
	MissingCount int      `json:"missing_count"`
	FailedCount  int      `json:"failed_count"`
	WorkerCount  int      `json:"worker_count"`
	Missing      []string `json:"missing,omitempty"`
	Errors       []string `json:"errors,omitempty"`
	DurationMs   int64    `json:"duration_ms"`
}

type PriceSyncService struct {
	stockRepo  stock.Repository
	market     MarketData
	logger     *slog.Logger
	maxWorkers int
	now        func() time.Time
}

func NewPriceSyncService(stockRepo stock.Repository, market MarketData, logger *slog.Logger) *PriceSyncService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PriceSyncService{
		stockRepo:  stockRepo,
		market:     market,
		logger:     logger,
		maxWorkers: defaultPriceWorkers,
		now:        time.Now,
	}
}

// WithMaxWorkers bounds how many provider batches run concurrently.
func (s *PriceSyncService) WithMaxWorkers(n int) *PriceSyncService {
	if n > 0 {
		s.maxWorkers = n
	}
	return s
}

// RefreshPrices pulls the latest trade price for every tracked ticker and
// writes the changed quotes back. Provider outages fail the affected batch,
// never the whole run.
func (s *PriceSyncService) RefreshPrices(ctx context.Context) (PriceSyncResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PriceSyncService.RefreshPrices")
	defer span.End()

	start := s.now()

	tickers, err := s.stockRepo.ListTickers(ctx)
	if err != nil {
		return PriceSyncResult{}, fmt.Errorf("list tickers: %w", err)
	}

	batches := batchTickers(tickers, priceSyncBatchSize)
	result := PriceSyncResult{
		TickerCount: len(tickers),
		BatchCount:  len(batches),
		WorkerCount: s.maxWorkers,
	}
	if len(batches) == 0 {
		result.DurationMs = time.Since(start).Milliseconds()
		return result, nil
	}

	var updatedCount atomic.Int32
	missing := make(chan string, len(tickers))
	// Workers report one failure per unfetchable batch plus one per ticker
	// whose upsert fails, and the channel is drained only after Wait.
	failures := make(chan string, len(tickers)+len(batches))

	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return PriceSyncResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, batch := range batches {
		batch := batch
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			prices, err := s.market.LatestPrices(ctx, batch)
			if err != nil {
				s.logger.ErrorContext(ctx, "price batch fetch failed",
					"batch_size", len(batch),
					"error", err,
				)
				failures <- err.Error()
				return
			}

			for _, ticker := range batch {
				price, ok := prices[ticker]
				if !ok {
					missing <- ticker
					continue
				}
				if err := s.stockRepo.UpsertPrice(ctx, ticker, price); err != nil {
					s.logger.ErrorContext(ctx, "price upsert failed",
						"ticker", ticker,
						"error", err,
					)
					failures <- fmt.Sprintf("upsert %s: %v", ticker, err)
					continue
				}
				updatedCount.Add(1)
			}
		}); err != nil {
			workers.Done()
			return PriceSyncResult{}, fmt.Errorf("submit batch to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(missing)
	close(failures)

	for ticker := range missing {
		result.Missing = append(result.Missing, ticker)
	}
	for msg := range failures {
		result.Errors = append(result.Errors, msg)
	}
	sort.Strings(result.Missing)
	sort.Strings(result.Errors)

	result.UpdatedCount = int(updatedCount.Load())
	result.MissingCount = len(result.Missing)
	result.FailedCount = len(result.Errors)
	result.DurationMs = time.Since(start).Milliseconds()

	s.logger.InfoContext(ctx, "price refresh finished",
		"tickers", result.TickerCount,
		"updated", result.UpdatedCount,
		"missing", result.MissingCount,
		"failed", result.FailedCount,
		"duration_ms", result.DurationMs,
	)

	return result, nil
}

func batchTickers(tickers []string, size int) [][]string {
	if size < 1 || len(tickers) == 0 {
		return nil
	}

	batches := make([][]string, 0, (len(tickers)+size-1)/size)
	for start := 0; start < len(tickers); start += size {
		end := start + size
		if end > len(tickers) {
			end = len(tickers)
		}
		batches = append(batches, tickers[start:end])
	}

	return batches
}
