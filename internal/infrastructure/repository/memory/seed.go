package memory

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/contest"
	"github.com/shreddi/WallStreetRivals/internal/domain/player"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
)

const (
	PlayerIDDemoBull = "demo-bull"
	PlayerIDDemoBear = "demo-bear"

	ContestIDDemoWeekly = "demo-weekly-open"
)

func SeedStocks() []stock.Stock {
	return []stock.Stock{
		{ID: "stk-aapl", Ticker: "AAPL", CompanyName: "Apple Inc.", TradePrice: decimal.NewFromFloat(232.10)},
		{ID: "stk-msft", Ticker: "MSFT", CompanyName: "Microsoft Corporation", TradePrice: decimal.NewFromFloat(428.55)},
		{ID: "stk-nvda", Ticker: "NVDA", CompanyName: "NVIDIA Corporation", TradePrice: decimal.NewFromFloat(124.72)},
		{ID: "stk-amzn", Ticker: "AMZN", CompanyName: "Amazon.com Inc.", TradePrice: decimal.NewFromFloat(186.33)},
		{ID: "stk-goog", Ticker: "GOOG", CompanyName: "Alphabet Inc.", TradePrice: decimal.NewFromFloat(172.98)},
		{ID: "stk-tsla", Ticker: "TSLA", CompanyName: "Tesla Inc.", TradePrice: decimal.NewFromFloat(219.41)},
	}
}

func SeedPlayers() []player.Player {
	return []player.Player{
		{
			ID:       PlayerIDDemoBull,
			Username: "demo_bull",
			Email:    "bull@example.com",
			// "demo-password" hashed with bcrypt cost 10.
			PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
			FirstName:    "Demi",
			LastName:     "Bull",
			HereFor:      player.HereForInvesting,
			Alerts:       player.DefaultAlertPreferences(),
		},
		{
			ID:           PlayerIDDemoBear,
			Username:     "demo_bear",
			Email:        "bear@example.com",
			PasswordHash: "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy",
			FirstName:    "Berry",
			LastName:     "Bear",
			HereFor:      player.HereForLearning,
			Alerts:       player.DefaultAlertPreferences(),
		},
	}
}

func SeedContests(now time.Time) []contest.Contest {
	start := now.UTC().AddDate(0, 0, 1)
	end, _ := contest.EndDateFor(start, contest.DurationWeek)
	ownerID := PlayerIDDemoBull

	return []contest.Contest{
		{
			ID:               ContestIDDemoWeekly,
			Name:             "Weekly Open",
			OwnerID:          &ownerID,
			LeagueType:       contest.LeagueTypePublic,
			CashInterestRate: decimal.Zero,
			Duration:         contest.DurationWeek,
			StartDate:        start,
			EndDate:          end,
			PlayerLimit:      50,
			NYSE:             true,
			NASDAQ:           true,
		},
	}
}
