package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/infrastructure/repository/memory"
)

func TestPriceSyncService_RefreshPrices(t *testing.T) {
	stockRepo := memory.NewStockRepository(memory.SeedStocks()...)
	market := mapMarketData{prices: map[string]decimal.Decimal{
		"AAPL": decimal.NewFromFloat(240.00),
		"MSFT": decimal.NewFromFloat(431.10),
		"NVDA": decimal.NewFromFloat(130.05),
		"AMZN": decimal.NewFromFloat(190.00),
		"GOOG": decimal.NewFromFloat(175.50),
		"TSLA": decimal.NewFromFloat(225.00),
	}}
	svc := NewPriceSyncService(stockRepo, market, nil).WithMaxWorkers(2)
	svc.now = fixedClock

	result, err := svc.RefreshPrices(t.Context())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if result.TickerCount != 6 || result.UpdatedCount != 6 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if result.MissingCount != 0 || result.FailedCount != 0 {
		t.Fatalf("unexpected failures: %+v", result)
	}
	if result.WorkerCount != 2 {
		t.Fatalf("unexpected worker count: %d", result.WorkerCount)
	}

	item, exists, err := stockRepo.GetByTicker(t.Context(), "AAPL")
	if err != nil || !exists {
		t.Fatalf("stock lookup failed: exists=%v err=%v", exists, err)
	}
	if !item.TradePrice.Equal(decimal.NewFromFloat(240.00)) {
		t.Fatalf("price not written back: %s", item.TradePrice)
	}
}

func TestPriceSyncService_RefreshPrices_ReportsMissingTickers(t *testing.T) {
	stockRepo := memory.NewStockRepository(memory.SeedStocks()...)
	market := mapMarketData{prices: map[string]decimal.Decimal{
		"AAPL": decimal.NewFromFloat(240.00),
	}}
	svc := NewPriceSyncService(stockRepo, market, nil)
	svc.now = fixedClock

	result, err := svc.RefreshPrices(t.Context())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	if result.UpdatedCount != 1 {
		t.Fatalf("expected one update, got %d", result.UpdatedCount)
	}
	if result.MissingCount != 5 || len(result.Missing) != 5 {
		t.Fatalf("unexpected missing set: %+v", result.Missing)
	}

	// Quotes the provider skipped keep their previous price.
	item, _, err := stockRepo.GetByTicker(t.Context(), "MSFT")
	if err != nil {
		t.Fatalf("stock lookup failed: %v", err)
	}
	if !item.TradePrice.Equal(decimal.NewFromFloat(428.55)) {
		t.Fatalf("skipped ticker must keep its price, got %s", item.TradePrice)
	}
}

func TestPriceSyncService_RefreshPrices_ProviderOutage(t *testing.T) {
	stockRepo := memory.NewStockRepository(memory.SeedStocks()...)
	svc := NewPriceSyncService(stockRepo, mapMarketData{}, nil)
	svc.now = fixedClock

	result, err := svc.RefreshPrices(t.Context())
	if err != nil {
		t.Fatalf("outage must not fail the run: %v", err)
	}

	if result.UpdatedCount != 0 {
		t.Fatalf("no prices should update during an outage, got %d", result.UpdatedCount)
	}
	if result.FailedCount != 1 || len(result.Errors) != 1 {
		t.Fatalf("unexpected error set: %+v", result.Errors)
	}
}

type brokenWriteStockRepo struct {
	*memory.StockRepository
}

func (brokenWriteStockRepo) UpsertPrice(context.Context, string, decimal.Decimal) error {
	return errors.New("stocks table unavailable")
}

func TestPriceSyncService_RefreshPrices_EveryUpsertFails(t *testing.T) {
	stockRepo := brokenWriteStockRepo{memory.NewStockRepository(memory.SeedStocks()...)}
	market := mapMarketData{prices: map[string]decimal.Decimal{
		"AAPL": decimal.NewFromFloat(240.00),
		"MSFT": decimal.NewFromFloat(431.10),
		"NVDA": decimal.NewFromFloat(130.05),
		"AMZN": decimal.NewFromFloat(190.00),
		"GOOG": decimal.NewFromFloat(175.50),
		"TSLA": decimal.NewFromFloat(225.00),
	}}
	svc := NewPriceSyncService(stockRepo, market, nil)
	svc.now = fixedClock

	done := make(chan struct{})
	var result PriceSyncResult
	var runErr error
	go func() {
		defer close(done)
		result, runErr = svc.RefreshPrices(context.Background())
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh never returned with several failed writes in one batch")
	}

	if runErr != nil {
		t.Fatalf("failed writes must not fail the run: %v", runErr)
	}
	if result.UpdatedCount != 0 {
		t.Fatalf("no price should count as updated, got %d", result.UpdatedCount)
	}
	if result.FailedCount != 6 || len(result.Errors) != 6 {
		t.Fatalf("every write failure must be reported: %+v", result.Errors)
	}
}

func TestPriceSyncService_RefreshPrices_NoTrackedStocks(t *testing.T) {
	svc := NewPriceSyncService(memory.NewStockRepository(), mapMarketData{}, nil)
	svc.now = fixedClock

	result, err := svc.RefreshPrices(t.Context())
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if result.TickerCount != 0 || result.BatchCount != 0 || result.UpdatedCount != 0 {
		t.Fatalf("unexpected result for empty store: %+v", result)
	}
}

func TestNoopMarketData(t *testing.T) {
	_, err := NewNoopMarketData().LatestPrices(t.Context(), []string{"AAPL"})
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}
}
