package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shreddi/WallStreetRivals/internal/domain/player"
	"github.com/shreddi/WallStreetRivals/internal/infrastructure/repository/memory"
	"github.com/shreddi/WallStreetRivals/internal/usecase"
)

type staticVerifier struct {
	token string
}

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (player.Principal, error) {
	if token != v.token {
		return player.Principal{}, fmt.Errorf("unknown token")
	}
	return player.Principal{PlayerID: memory.PlayerIDDemoBull}, nil
}

type fixedIDGen struct{ n int }

func (g *fixedIDGen) NewID() (string, error) {
	g.n++
	return fmt.Sprintf("route-%d", g.n), nil
}

func newTestRouter() http.Handler {
	stockRepo := memory.NewStockRepository(memory.SeedStocks()...)
	contestRepo := memory.NewContestRepository()
	portfolioRepo := memory.NewPortfolioRepository()
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers()...)
	ids := &fixedIDGen{}
	handler := NewHandler(
		nil,
		usecase.NewStockService(stockRepo, ids),
		nil,
		nil,
		usecase.NewContestService(contestRepo, portfolioRepo, playerRepo, usecase.NewRepositoryPriceLookup(stockRepo), ids, nil),
		nil,
		nil,
		nil,
	)
	return NewRouter(handler, staticVerifier{token: "good"}, nil, false, nil, "")
}

func TestRouter_MarketReadsRequireAuth(t *testing.T) {
	router := newTestRouter()

	paths := []string{
		"/v1/stocks",
		"/v1/stocks/some-id",
		"/v1/contests",
		"/v1/contests/open",
		"/v1/contests/some-id",
		"/v1/contests/some-id/leaderboard",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("GET %s without a token: expected %d, got %d", path, http.StatusUnauthorized, rec.Code)
		}
	}
}

func TestRouter_MarketReadsServeAuthenticatedCallers(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/v1/stocks", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestRouter_HealthzStaysPublic(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected %d, got %d", http.StatusOK, rec.Code)
	}
}
