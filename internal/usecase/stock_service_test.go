package usecase

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/infrastructure/repository/memory"
)

func newStockService() *StockService {
	svc := NewStockService(memory.NewStockRepository(memory.SeedStocks()...), &seqIDGen{prefix: "stk"})
	svc.now = fixedClock
	return svc
}

func TestStockService_CreateStock(t *testing.T) {
	svc := newStockService()

	created, err := svc.CreateStock(t.Context(), CreateStockInput{
		Ticker:      " shop ",
		CompanyName: "Shopify Inc.",
		TradePrice:  decimal.NewFromFloat(71.25),
	})
	if err != nil {
		t.Fatalf("create stock failed: %v", err)
	}

	if created.Ticker != "SHOP" {
		t.Fatalf("ticker not normalized: %s", created.Ticker)
	}
	if created.ID != "stk-1" {
		t.Fatalf("unexpected stock id: %s", created.ID)
	}

	fetched, err := svc.GetStock(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("get stock failed: %v", err)
	}
	if !fetched.TradePrice.Equal(decimal.NewFromFloat(71.25)) {
		t.Fatalf("unexpected trade price: %s", fetched.TradePrice)
	}
}

func TestStockService_CreateStock_RejectDuplicateTicker(t *testing.T) {
	svc := newStockService()

	_, err := svc.CreateStock(t.Context(), CreateStockInput{
		Ticker:     "aapl",
		TradePrice: decimal.NewFromInt(1),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStockService_ListStocks_Filter(t *testing.T) {
	svc := newStockService()

	items, err := svc.ListStocks(t.Context(), "aapl")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 1 || items[0].Ticker != "AAPL" {
		t.Fatalf("unexpected filter result: %+v", items)
	}

	all, err := svc.ListStocks(t.Context(), "")
	if err != nil {
		t.Fatalf("list all failed: %v", err)
	}
	if len(all) != len(memory.SeedStocks()) {
		t.Fatalf("unexpected stock count: %d", len(all))
	}
}

func TestStockService_GetStock_NotFound(t *testing.T) {
	svc := newStockService()

	if _, err := svc.GetStock(t.Context(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
