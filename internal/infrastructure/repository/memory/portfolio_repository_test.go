package memory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
	"github.com/stretchr/testify/require"
)

func TestPortfolioRepository_Buy_DebitsCashAndCoalesces(t *testing.T) {
	t.Parallel()

	repo := NewPortfolioRepository(portfolio.Portfolio{
		ID:        "pf-1",
		PlayerID:  "player-1",
		ContestID: "contest-1",
		Cash:      decimal.NewFromInt(1000),
		Active:    true,
	})

	first, err := repo.Buy(t.Context(), portfolio.BuyTrade{
		PortfolioID: "pf-1",
		HoldingID:   "hold-1",
		Ticker:      "AAPL",
		Quantity:    2,
		Price:       decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	require.True(t, first.Amount.Equal(decimal.NewFromInt(200)))
	require.True(t, first.Cash.Equal(decimal.NewFromInt(800)))
	require.Equal(t, "hold-1", first.Holding.ID)

	// A second buy of the same ticker grows the existing holding and
	// ignores the fresh holding id.
	second, err := repo.Buy(t.Context(), portfolio.BuyTrade{
		PortfolioID: "pf-1",
		HoldingID:   "hold-2",
		Ticker:      "AAPL",
		Quantity:    3,
		Price:       decimal.NewFromInt(100),
	})
	require.NoError(t, err)
	require.Equal(t, "hold-1", second.Holding.ID)
	require.Equal(t, int64(5), second.Holding.Shares)
	require.True(t, second.Cash.Equal(decimal.NewFromInt(500)))

	holdings, err := repo.ListHoldings(t.Context(), "pf-1")
	require.NoError(t, err)
	require.Len(t, holdings, 1)
}

func TestPortfolioRepository_Buy_InsufficientFunds(t *testing.T) {
	t.Parallel()

	repo := NewPortfolioRepository(portfolio.Portfolio{
		ID:        "pf-1",
		PlayerID:  "player-1",
		ContestID: "contest-1",
		Cash:      decimal.NewFromInt(100),
		Active:    true,
	})

	_, err := repo.Buy(t.Context(), portfolio.BuyTrade{
		PortfolioID: "pf-1",
		HoldingID:   "hold-1",
		Ticker:      "AAPL",
		Quantity:    2,
		Price:       decimal.NewFromInt(100),
	})
	require.ErrorIs(t, err, portfolio.ErrInsufficientFunds)

	// A failed buy must not touch cash.
	p, exists, err := repo.GetByID(t.Context(), "pf-1")
	require.NoError(t, err)
	require.True(t, exists)
	require.True(t, p.Cash.Equal(decimal.NewFromInt(100)))
}

func TestPortfolioRepository_Sell_CreditsProceedsAndRemovesHolding(t *testing.T) {
	t.Parallel()

	repo := NewPortfolioRepository(portfolio.Portfolio{
		ID:        "pf-1",
		PlayerID:  "player-1",
		ContestID: "contest-1",
		Cash:      decimal.NewFromInt(500),
		Active:    true,
	})
	repo.SeedHolding(portfolio.Holding{
		ID:          "hold-1",
		PortfolioID: "pf-1",
		Ticker:      "TSLA",
		Shares:      4,
	})

	result, err := repo.Sell(t.Context(), "hold-1", decimal.NewFromInt(150))
	require.NoError(t, err)
	require.True(t, result.Amount.Equal(decimal.NewFromInt(600)))
	require.True(t, result.Cash.Equal(decimal.NewFromInt(1100)))

	_, exists, err := repo.GetHolding(t.Context(), "hold-1")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestPortfolioRepository_Sell_UnknownHolding(t *testing.T) {
	t.Parallel()

	repo := NewPortfolioRepository()

	_, err := repo.Sell(t.Context(), "missing", decimal.NewFromInt(1))
	require.Error(t, err)
}

func TestPortfolioRepository_GetByPlayerAndContest(t *testing.T) {
	t.Parallel()

	repo := NewPortfolioRepository(
		portfolio.Portfolio{ID: "pf-1", PlayerID: "player-1", ContestID: "contest-1", Cash: decimal.Zero, Active: true},
		portfolio.Portfolio{ID: "pf-2", PlayerID: "player-1", ContestID: "contest-2", Cash: decimal.Zero, Active: true},
	)

	p, exists, err := repo.GetByPlayerAndContest(t.Context(), "player-1", "contest-2")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, "pf-2", p.ID)

	_, exists, err = repo.GetByPlayerAndContest(t.Context(), "player-2", "contest-1")
	require.NoError(t, err)
	require.False(t, exists)
}
