package portfolio

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInsufficientFunds is returned when a buy costs more than the
// portfolio's cash balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// DefaultStartingCash is the cash balance every new portfolio begins with.
var DefaultStartingCash = decimal.NewFromInt(10000)

// Portfolio is one player's position inside a single contest.
type Portfolio struct {
	ID        string
	PlayerID  string
	ContestID string
	Cash      decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Holding is an accumulated position in one ticker. A portfolio carries at
// most one holding per ticker; repeat buys coalesce into it.
type Holding struct {
	ID          string
	PortfolioID string
	Ticker      string
	Shares      int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TradeResult reports the cash movement of a buy or sell.
type TradeResult struct {
	Holding Holding
	Amount  decimal.Decimal
	Cash    decimal.Decimal
}

func (p Portfolio) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("portfolio id is required")
	}
	if p.PlayerID == "" {
		return fmt.Errorf("portfolio player id is required")
	}
	if p.ContestID == "" {
		return fmt.Errorf("portfolio contest id is required")
	}
	if p.Cash.IsNegative() {
		return fmt.Errorf("portfolio cash cannot be negative")
	}

	return nil
}

func (h Holding) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("holding id is required")
	}
	if h.PortfolioID == "" {
		return fmt.Errorf("holding portfolio id is required")
	}
	if h.Ticker == "" {
		return fmt.Errorf("holding ticker is required")
	}
	if h.Shares < 1 {
		return fmt.Errorf("holding shares must be at least 1")
	}

	return nil
}

// ValueOf computes cash plus the market value of every holding. Tickers
// missing from prices contribute zero. Computed on demand, never stored.
func ValueOf(p Portfolio, holdings []Holding, prices map[string]decimal.Decimal) decimal.Decimal {
	total := p.Cash
	for _, h := range holdings {
		price, ok := prices[h.Ticker]
		if !ok {
			continue
		}
		total = total.Add(price.Mul(decimal.NewFromInt(h.Shares)))
	}

	return total
}
