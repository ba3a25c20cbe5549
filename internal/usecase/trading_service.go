package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
	idgen "github.com/shreddi/WallStreetRivals/internal/platform/id"
)

// BuyHoldingInput is the incoming payload for a purchase.
type BuyHoldingInput struct {
	PlayerID    string
	PortfolioID string
	Ticker      string
	Quantity    int64
}

// SellResult reports the outcome of closing a holding.
type SellResult struct {
	Credited decimal.Decimal
	Cash     decimal.Decimal
}

type TradingService struct {
	portfolioRepo portfolio.Repository
	stockRepo     stock.Repository
	idGen         idgen.Generator
	logger        *slog.Logger
	now           func() time.Time
}

func NewTradingService(
	portfolioRepo portfolio.Repository,
	stockRepo stock.Repository,
	idGen idgen.Generator,
	logger *slog.Logger,
) *TradingService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TradingService{
		portfolioRepo: portfolioRepo,
		stockRepo:     stockRepo,
		idGen:         idGen,
		logger:        logger,
		now:           time.Now,
	}
}

// Buy purchases quantity shares of a ticker at the current quote. Repeat
// buys of the same ticker coalesce into the existing holding. The funds
// check and debit happen atomically in the repository.
func (s *TradingService) Buy(ctx context.Context, input BuyHoldingInput) (portfolio.TradeResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TradingService.Buy")
	defer span.End()

	input.PortfolioID = strings.TrimSpace(input.PortfolioID)
	ticker := stock.NormalizeTicker(input.Ticker)

	if input.PortfolioID == "" {
		return portfolio.TradeResult{}, fmt.Errorf("%w: portfolio id is required", ErrInvalidInput)
	}
	if ticker == "" {
		return portfolio.TradeResult{}, fmt.Errorf("%w: ticker is required", ErrInvalidInput)
	}
	if input.Quantity < 1 {
		return portfolio.TradeResult{}, fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	p, exists, err := s.portfolioRepo.GetByID(ctx, input.PortfolioID)
	if err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("get portfolio: %w", err)
	}
	if !exists {
		return portfolio.TradeResult{}, fmt.Errorf("%w: portfolio=%s", ErrNotFound, input.PortfolioID)
	}
	if input.PlayerID != "" && p.PlayerID != input.PlayerID {
		return portfolio.TradeResult{}, fmt.Errorf("%w: portfolio=%s", ErrNotFound, input.PortfolioID)
	}
	if !p.Active {
		return portfolio.TradeResult{}, fmt.Errorf("%w: portfolio is inactive", ErrInvalidInput)
	}

	item, exists, err := s.stockRepo.GetByTicker(ctx, ticker)
	if err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("get stock: %w", err)
	}
	if !exists {
		return portfolio.TradeResult{}, fmt.Errorf("%w: stock=%s", ErrNotFound, ticker)
	}

	holdingID, err := s.idGen.NewID()
	if err != nil {
		return portfolio.TradeResult{}, fmt.Errorf("generate holding id: %w", err)
	}

	result, err := s.portfolioRepo.Buy(ctx, portfolio.BuyTrade{
		PortfolioID: p.ID,
		HoldingID:   holdingID,
		Ticker:      item.Ticker,
		Quantity:    input.Quantity,
		Price:       item.TradePrice,
	})
	if err != nil {
		if errors.Is(err, portfolio.ErrInsufficientFunds) {
			return portfolio.TradeResult{}, fmt.Errorf("%w: cash cannot cover %d x %s at %s", ErrInsufficientFunds, input.Quantity, item.Ticker, item.TradePrice)
		}
		return portfolio.TradeResult{}, fmt.Errorf("execute buy: %w", err)
	}

	s.logger.InfoContext(ctx, "holding bought",
		"portfolio_id", p.ID,
		"ticker", item.Ticker,
		"quantity", input.Quantity,
		"amount", result.Amount.String(),
	)

	return result, nil
}

// Sell closes a holding at the current quote and credits the proceeds back
// to the portfolio's cash, atomically with the holding removal.
func (s *TradingService) Sell(ctx context.Context, playerID, holdingID string) (SellResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TradingService.Sell")
	defer span.End()

	holdingID = strings.TrimSpace(holdingID)
	if holdingID == "" {
		return SellResult{}, fmt.Errorf("%w: holding id is required", ErrInvalidInput)
	}

	holding, exists, err := s.portfolioRepo.GetHolding(ctx, holdingID)
	if err != nil {
		return SellResult{}, fmt.Errorf("get holding: %w", err)
	}
	if !exists {
		return SellResult{}, fmt.Errorf("%w: holding=%s", ErrNotFound, holdingID)
	}

	p, exists, err := s.portfolioRepo.GetByID(ctx, holding.PortfolioID)
	if err != nil {
		return SellResult{}, fmt.Errorf("get portfolio: %w", err)
	}
	if !exists {
		return SellResult{}, fmt.Errorf("%w: portfolio=%s", ErrNotFound, holding.PortfolioID)
	}
	if playerID != "" && p.PlayerID != playerID {
		return SellResult{}, fmt.Errorf("%w: holding=%s", ErrNotFound, holdingID)
	}

	item, exists, err := s.stockRepo.GetByTicker(ctx, holding.Ticker)
	if err != nil {
		return SellResult{}, fmt.Errorf("get stock: %w", err)
	}

	price := decimal.Zero
	if exists {
		price = item.TradePrice
	}

	result, err := s.portfolioRepo.Sell(ctx, holdingID, price)
	if err != nil {
		return SellResult{}, fmt.Errorf("execute sell: %w", err)
	}

	s.logger.InfoContext(ctx, "holding sold",
		"portfolio_id", p.ID,
		"ticker", holding.Ticker,
		"shares", holding.Shares,
		"credited", result.Amount.String(),
	)

	return SellResult{
		Credited: result.Amount,
		Cash:     result.Cash,
	}, nil
}

func (s *TradingService) GetHolding(ctx context.Context, playerID, holdingID string) (portfolio.Holding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TradingService.GetHolding")
	defer span.End()

	holding, exists, err := s.portfolioRepo.GetHolding(ctx, strings.TrimSpace(holdingID))
	if err != nil {
		return portfolio.Holding{}, fmt.Errorf("get holding: %w", err)
	}
	if !exists {
		return portfolio.Holding{}, fmt.Errorf("%w: holding=%s", ErrNotFound, holdingID)
	}

	if playerID != "" {
		p, exists, err := s.portfolioRepo.GetByID(ctx, holding.PortfolioID)
		if err != nil {
			return portfolio.Holding{}, fmt.Errorf("get portfolio: %w", err)
		}
		if !exists || p.PlayerID != playerID {
			return portfolio.Holding{}, fmt.Errorf("%w: holding=%s", ErrNotFound, holdingID)
		}
	}

	return holding, nil
}

func (s *TradingService) ListHoldings(ctx context.Context, playerID, portfolioID string) ([]portfolio.Holding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TradingService.ListHoldings")
	defer span.End()

	portfolioID = strings.TrimSpace(portfolioID)
	if portfolioID == "" {
		return nil, fmt.Errorf("%w: portfolio id is required", ErrInvalidInput)
	}

	p, exists, err := s.portfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("get portfolio: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: portfolio=%s", ErrNotFound, portfolioID)
	}
	if playerID != "" && p.PlayerID != playerID {
		return nil, fmt.Errorf("%w: portfolio=%s", ErrNotFound, portfolioID)
	}

	holdings, err := s.portfolioRepo.ListHoldings(ctx, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("list holdings: %w", err)
	}

	return holdings, nil
}
