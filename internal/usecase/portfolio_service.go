package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/contest"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
	idgen "github.com/shreddi/WallStreetRivals/internal/platform/id"
)

// PortfolioDetail bundles a portfolio with its holdings and on-demand value.
type PortfolioDetail struct {
	Portfolio portfolio.Portfolio
	Holdings  []portfolio.Holding
	Value     decimal.Decimal
}

type PortfolioService struct {
	portfolioRepo portfolio.Repository
	contestRepo   contest.Repository
	prices        stock.PriceLookup
	idGen         idgen.Generator
	now           func() time.Time
}

func NewPortfolioService(
	portfolioRepo portfolio.Repository,
	contestRepo contest.Repository,
	prices stock.PriceLookup,
	idGen idgen.Generator,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		contestRepo:   contestRepo,
		prices:        prices,
		idGen:         idGen,
		now:           time.Now,
	}
}

func (s *PortfolioService) ListByPlayer(ctx context.Context, playerID string) ([]portfolio.Portfolio, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PortfolioService.ListByPlayer")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return nil, fmt.Errorf("%w: player id is required", ErrInvalidInput)
	}

	items, err := s.portfolioRepo.ListByPlayer(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("list portfolios: %w", err)
	}

	return items, nil
}

// Join creates a portfolio for a player inside a contest. Each player holds
// at most one portfolio per contest and the contest must still have seats.
func (s *PortfolioService) Join(ctx context.Context, playerID, contestID string) (portfolio.Portfolio, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PortfolioService.Join")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	contestID = strings.TrimSpace(contestID)
	if playerID == "" || contestID == "" {
		return portfolio.Portfolio{}, fmt.Errorf("%w: player id and contest id are required", ErrInvalidInput)
	}

	c, exists, err := s.contestRepo.GetByID(ctx, contestID)
	if err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("get contest: %w", err)
	}
	if !exists {
		return portfolio.Portfolio{}, fmt.Errorf("%w: contest=%s", ErrNotFound, contestID)
	}

	now := s.now().UTC()
	if c.StateAt(now) == contest.StateCompleted {
		return portfolio.Portfolio{}, fmt.Errorf("%w: contest has already ended", ErrInvalidInput)
	}

	if _, exists, err := s.portfolioRepo.GetByPlayerAndContest(ctx, playerID, contestID); err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("check existing portfolio: %w", err)
	} else if exists {
		return portfolio.Portfolio{}, fmt.Errorf("%w: player already joined contest=%s", ErrInvalidInput, contestID)
	}

	seats, err := s.portfolioRepo.CountByContest(ctx, contestID)
	if err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("count contest portfolios: %w", err)
	}
	if seats >= c.PlayerLimit {
		return portfolio.Portfolio{}, fmt.Errorf("%w: contest is full", ErrInvalidInput)
	}

	portfolioID, err := s.idGen.NewID()
	if err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("generate portfolio id: %w", err)
	}

	created := portfolio.Portfolio{
		ID:        portfolioID,
		PlayerID:  playerID,
		ContestID: contestID,
		Cash:      portfolio.DefaultStartingCash,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := created.Validate(); err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.portfolioRepo.Create(ctx, created); err != nil {
		return portfolio.Portfolio{}, fmt.Errorf("create portfolio: %w", err)
	}

	return created, nil
}

func (s *PortfolioService) GetDetail(ctx context.Context, portfolioID string) (PortfolioDetail, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PortfolioService.GetDetail")
	defer span.End()

	portfolioID = strings.TrimSpace(portfolioID)
	if portfolioID == "" {
		return PortfolioDetail{}, fmt.Errorf("%w: portfolio id is required", ErrInvalidInput)
	}

	p, exists, err := s.portfolioRepo.GetByID(ctx, portfolioID)
	if err != nil {
		return PortfolioDetail{}, fmt.Errorf("get portfolio: %w", err)
	}
	if !exists {
		return PortfolioDetail{}, fmt.Errorf("%w: portfolio=%s", ErrNotFound, portfolioID)
	}

	holdings, err := s.portfolioRepo.ListHoldings(ctx, portfolioID)
	if err != nil {
		return PortfolioDetail{}, fmt.Errorf("list holdings: %w", err)
	}

	value, err := valueOf(ctx, s.prices, p, holdings)
	if err != nil {
		return PortfolioDetail{}, err
	}

	return PortfolioDetail{
		Portfolio: p,
		Holdings:  holdings,
		Value:     value,
	}, nil
}

// valueOf prices a portfolio against current quotes. Tickers without a
// quote count as zero so a delisted stock never blocks valuation.
func valueOf(ctx context.Context, prices stock.PriceLookup, p portfolio.Portfolio, holdings []portfolio.Holding) (decimal.Decimal, error) {
	if len(holdings) == 0 {
		return p.Cash, nil
	}

	tickers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		tickers = append(tickers, h.Ticker)
	}

	quotes, err := prices.PricesByTicker(ctx, tickers)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("resolve prices: %w", err)
	}

	return portfolio.ValueOf(p, holdings, quotes), nil
}

// RepositoryPriceLookup serves quotes straight from the stock store.
type RepositoryPriceLookup struct {
	stocks stock.Repository
}

func NewRepositoryPriceLookup(stocks stock.Repository) *RepositoryPriceLookup {
	return &RepositoryPriceLookup{stocks: stocks}
}

func (l *RepositoryPriceLookup) PricesByTicker(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(tickers))
	for _, ticker := range tickers {
		item, exists, err := l.stocks.GetByTicker(ctx, ticker)
		if err != nil {
			return nil, fmt.Errorf("get stock %s: %w", ticker, err)
		}
		if !exists {
			continue
		}
		out[item.Ticker] = item.TradePrice
	}

	return out, nil
}
