package stock

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Stock is a tradable instrument tracked by the platform. TradePrice holds
// the latest quote pulled from the market data provider.
type Stock struct {
	ID          string
	Ticker      string
	CompanyName string
	TradePrice  decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (s Stock) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("stock id is required")
	}
	if strings.TrimSpace(s.Ticker) == "" {
		return fmt.Errorf("stock ticker is required")
	}
	if s.Ticker != strings.ToUpper(s.Ticker) {
		return fmt.Errorf("stock ticker must be uppercase: %s", s.Ticker)
	}
	if s.TradePrice.IsNegative() {
		return fmt.Errorf("stock trade price cannot be negative")
	}

	return nil
}

// NormalizeTicker uppercases and trims a raw ticker symbol.
func NormalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}
