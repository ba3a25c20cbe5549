package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
)

type PortfolioRepository struct {
	mu         sync.Mutex
	portfolios map[string]portfolio.Portfolio
	holdings   map[string]portfolio.Holding
	now        func() time.Time
}

func NewPortfolioRepository(seed ...portfolio.Portfolio) *PortfolioRepository {
	portfolios := make(map[string]portfolio.Portfolio, len(seed))
	for _, p := range seed {
		portfolios[p.ID] = p
	}
	return &PortfolioRepository{
		portfolios: portfolios,
		holdings:   make(map[string]portfolio.Holding),
		now:        time.Now,
	}
}

// SeedHolding places a holding directly, bypassing the trade path. Test
// fixtures and dev seeds only.
func (r *PortfolioRepository) SeedHolding(h portfolio.Holding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.holdings[h.ID] = h
}

func (r *PortfolioRepository) GetByID(_ context.Context, portfolioID string) (portfolio.Portfolio, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.portfolios[portfolioID]
	if !ok {
		return portfolio.Portfolio{}, false, nil
	}

	return p, true, nil
}

func (r *PortfolioRepository) GetByPlayerAndContest(_ context.Context, playerID, contestID string) (portfolio.Portfolio, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.portfolios {
		if p.PlayerID == playerID && p.ContestID == contestID {
			return p, true, nil
		}
	}

	return portfolio.Portfolio{}, false, nil
}

func (r *PortfolioRepository) ListByPlayer(_ context.Context, playerID string) ([]portfolio.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]portfolio.Portfolio, 0, 4)
	for _, p := range r.portfolios {
		if p.PlayerID == playerID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PortfolioRepository) ListByContest(_ context.Context, contestID string) ([]portfolio.Portfolio, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]portfolio.Portfolio, 0, 8)
	for _, p := range r.portfolios {
		if p.ContestID == contestID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *PortfolioRepository) Create(_ context.Context, p portfolio.Portfolio) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.portfolios[p.ID] = p
	return nil
}

func (r *PortfolioRepository) CountByContest(_ context.Context, contestID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, p := range r.portfolios {
		if p.ContestID == contestID {
			count++
		}
	}

	return count, nil
}

func (r *PortfolioRepository) ListHoldings(_ context.Context, portfolioID string) ([]portfolio.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]portfolio.Holding, 0, 8)
	for _, h := range r.holdings {
		if h.PortfolioID == portfolioID {
			out = append(out, h)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Ticker < out[j].Ticker })

	return out, nil
}

func (r *PortfolioRepository) GetHolding(_ context.Context, holdingID string) (portfolio.Holding, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holdings[holdingID]
	if !ok {
		return portfolio.Holding{}, false, nil
	}

	return h, true, nil
}

func (r *PortfolioRepository) Buy(_ context.Context, trade portfolio.BuyTrade) (portfolio.TradeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.portfolios[trade.PortfolioID]
	if !ok {
		return portfolio.TradeResult{}, fmt.Errorf("buy: portfolio %s not found", trade.PortfolioID)
	}

	cost := trade.Price.Mul(decimal.NewFromInt(trade.Quantity))
	if p.Cash.LessThan(cost) {
		return portfolio.TradeResult{}, fmt.Errorf("%w: cash %s cannot cover %s", portfolio.ErrInsufficientFunds, p.Cash, cost)
	}

	now := r.now().UTC()
	p.Cash = p.Cash.Sub(cost)
	p.UpdatedAt = now
	r.portfolios[p.ID] = p

	var held portfolio.Holding
	for id, h := range r.holdings {
		if h.PortfolioID == trade.PortfolioID && h.Ticker == trade.Ticker {
			h.Shares += trade.Quantity
			h.UpdatedAt = now
			r.holdings[id] = h
			held = h
			break
		}
	}
	if held.ID == "" {
		held = portfolio.Holding{
			ID:          trade.HoldingID,
			PortfolioID: trade.PortfolioID,
			Ticker:      trade.Ticker,
			Shares:      trade.Quantity,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		r.holdings[held.ID] = held
	}

	return portfolio.TradeResult{Holding: held, Amount: cost, Cash: p.Cash}, nil
}

func (r *PortfolioRepository) Sell(_ context.Context, holdingID string, price decimal.Decimal) (portfolio.TradeResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	h, ok := r.holdings[holdingID]
	if !ok {
		return portfolio.TradeResult{}, fmt.Errorf("sell: holding %s not found", holdingID)
	}
	p, ok := r.portfolios[h.PortfolioID]
	if !ok {
		return portfolio.TradeResult{}, fmt.Errorf("sell: portfolio %s not found", h.PortfolioID)
	}

	proceeds := price.Mul(decimal.NewFromInt(h.Shares))
	p.Cash = p.Cash.Add(proceeds)
	p.UpdatedAt = r.now().UTC()
	r.portfolios[p.ID] = p
	delete(r.holdings, holdingID)

	return portfolio.TradeResult{Holding: h, Amount: proceeds, Cash: p.Cash}, nil
}
