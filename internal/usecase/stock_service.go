package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
	idgen "github.com/shreddi/WallStreetRivals/internal/platform/id"
)

// CreateStockInput is the incoming payload for adding an instrument.
type CreateStockInput struct {
	Ticker      string
	CompanyName string
	TradePrice  decimal.Decimal
}

type StockService struct {
	stockRepo stock.Repository
	idGen     idgen.Generator
	now       func() time.Time
}

func NewStockService(stockRepo stock.Repository, idGen idgen.Generator) *StockService {
	return &StockService{
		stockRepo: stockRepo,
		idGen:     idGen,
		now:       time.Now,
	}
}

func (s *StockService) ListStocks(ctx context.Context, tickerFilter string) ([]stock.Stock, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StockService.ListStocks")
	defer span.End()

	items, err := s.stockRepo.List(ctx, stock.NormalizeTicker(tickerFilter))
	if err != nil {
		return nil, fmt.Errorf("list stocks: %w", err)
	}

	return items, nil
}

func (s *StockService) GetStock(ctx context.Context, stockID string) (stock.Stock, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StockService.GetStock")
	defer span.End()

	stockID = strings.TrimSpace(stockID)
	if stockID == "" {
		return stock.Stock{}, fmt.Errorf("%w: stock id is required", ErrInvalidInput)
	}

	item, exists, err := s.stockRepo.GetByID(ctx, stockID)
	if err != nil {
		return stock.Stock{}, fmt.Errorf("get stock: %w", err)
	}
	if !exists {
		return stock.Stock{}, fmt.Errorf("%w: stock=%s", ErrNotFound, stockID)
	}

	return item, nil
}

func (s *StockService) CreateStock(ctx context.Context, input CreateStockInput) (stock.Stock, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StockService.CreateStock")
	defer span.End()

	ticker := stock.NormalizeTicker(input.Ticker)
	if ticker == "" {
		return stock.Stock{}, fmt.Errorf("%w: ticker is required", ErrInvalidInput)
	}

	if _, exists, err := s.stockRepo.GetByTicker(ctx, ticker); err != nil {
		return stock.Stock{}, fmt.Errorf("check ticker: %w", err)
	} else if exists {
		return stock.Stock{}, fmt.Errorf("%w: ticker %s already exists", ErrInvalidInput, ticker)
	}

	stockID, err := s.idGen.NewID()
	if err != nil {
		return stock.Stock{}, fmt.Errorf("generate stock id: %w", err)
	}

	now := s.now().UTC()
	created := stock.Stock{
		ID:          stockID,
		Ticker:      ticker,
		CompanyName: strings.TrimSpace(input.CompanyName),
		TradePrice:  input.TradePrice,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := created.Validate(); err != nil {
		return stock.Stock{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.stockRepo.Create(ctx, created); err != nil {
		return stock.Stock{}, fmt.Errorf("create stock: %w", err)
	}

	return created, nil
}
