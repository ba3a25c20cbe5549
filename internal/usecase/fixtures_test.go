package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/player"
)

var fixedNow = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// seqIDGen hands out deterministic ids so tests can assert on them.
type seqIDGen struct {
	prefix string
	n      int
}

func (g *seqIDGen) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n), nil
}

// fakeHasher makes password hashes readable in fixtures.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("password mismatch")
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) IssueAccessToken(p player.Principal) (string, time.Time, error) {
	return "access-" + p.PlayerID, fixedNow.Add(15 * time.Minute), nil
}

func (fakeTokens) IssueRefreshToken(p player.Principal) (string, time.Time, error) {
	return "refresh-" + p.PlayerID, fixedNow.Add(7 * 24 * time.Hour), nil
}

func (fakeTokens) VerifyRefreshToken(token string) (string, error) {
	playerID, ok := strings.CutPrefix(token, "refresh-")
	if !ok || playerID == "" {
		return "", fmt.Errorf("%w: invalid refresh token", ErrUnauthorized)
	}
	return playerID, nil
}

func (fakeTokens) IssuePasswordResetToken(playerID string) (string, error) {
	return "reset-" + playerID, nil
}

func (fakeTokens) VerifyPasswordResetToken(playerID, token string) error {
	if token != "reset-"+playerID {
		return fmt.Errorf("%w: invalid password reset token", ErrUnauthorized)
	}
	return nil
}

// mapMarketData serves quotes from a fixed map. Nil maps fail every call.
type mapMarketData struct {
	prices map[string]decimal.Decimal
}

func (m mapMarketData) LatestPrices(_ context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	if m.prices == nil {
		return nil, fmt.Errorf("market data provider is down")
	}

	out := make(map[string]decimal.Decimal, len(tickers))
	for _, ticker := range tickers {
		if price, ok := m.prices[ticker]; ok {
			out[ticker] = price
		}
	}
	return out, nil
}
