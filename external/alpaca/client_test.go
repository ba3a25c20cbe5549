package alpaca

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/platform/logging"
	"github.com/shreddi/WallStreetRivals/internal/platform/resilience"
	"github.com/shreddi/WallStreetRivals/internal/usecase"
)

func TestClient_LatestPrices(t *testing.T) {
	var gotPath, gotSymbols, gotFeed, gotKey, gotSecret string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSymbols = r.URL.Query().Get("symbols")
		gotFeed = r.URL.Query().Get("feed")
		gotKey = r.Header.Get("APCA-API-KEY-ID")
		gotSecret = r.Header.Get("APCA-API-SECRET-KEY")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"trades":{"AAPL":{"p":123.45},"MSFT":{"p":430.10}}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		DataBaseURL: server.URL,
		KeyID:       "key-id",
		SecretKey:   "secret-key",
		Feed:        "sip",
		Logger:      logging.NewNop(),
	})

	prices, err := client.LatestPrices(t.Context(), []string{"AAPL", "MSFT", "GONE"})
	if err != nil {
		t.Fatalf("latest prices failed: %v", err)
	}

	if gotPath != "/v2/stocks/trades/latest" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotSymbols != "AAPL,MSFT,GONE" {
		t.Fatalf("unexpected symbols: %s", gotSymbols)
	}
	if gotFeed != "sip" {
		t.Fatalf("unexpected feed: %s", gotFeed)
	}
	if gotKey != "key-id" || gotSecret != "secret-key" {
		t.Fatalf("auth headers not sent: key=%s secret=%s", gotKey, gotSecret)
	}

	if len(prices) != 2 {
		t.Fatalf("unexpected price count: %d", len(prices))
	}
	if !prices["AAPL"].Equal(decimal.NewFromFloat(123.45)) {
		t.Fatalf("unexpected AAPL price: %s", prices["AAPL"])
	}
	if _, ok := prices["GONE"]; ok {
		t.Fatalf("unquoted ticker must be absent from the result")
	}
}

func TestClient_LatestPrices_EmptyTickers(t *testing.T) {
	client := NewClient(ClientConfig{Logger: logging.NewNop()})

	prices, err := client.LatestPrices(t.Context(), nil)
	if err != nil {
		t.Fatalf("empty ticker list must not error: %v", err)
	}
	if len(prices) != 0 {
		t.Fatalf("expected empty result, got %d", len(prices))
	}
}

func TestClient_LatestPrices_NonRetryableStatus(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, `{"message":"forbidden"}`, http.StatusForbidden)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		DataBaseURL: server.URL,
		MaxRetries:  2,
		Logger:      logging.NewNop(),
	})

	if _, err := client.LatestPrices(t.Context(), []string{"AAPL"}); err == nil {
		t.Fatalf("expected error for 403 response")
	}
	if calls != 1 {
		t.Fatalf("client errors must not retry, got %d calls", calls)
	}
}

func TestClient_LatestPrices_RetriesServerErrors(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, `{"message":"upstream blew up"}`, http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"trades":{"AAPL":{"p":200}}}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		DataBaseURL: server.URL,
		MaxRetries:  1,
		Logger:      logging.NewNop(),
	})

	prices, err := client.LatestPrices(t.Context(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("retried request failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected one retry, got %d calls", calls)
	}
	if !prices["AAPL"].Equal(decimal.NewFromInt(200)) {
		t.Fatalf("unexpected price: %s", prices["AAPL"])
	}
}

func TestClient_CircuitBreakerOpensAfterFailures(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, `{"message":"unavailable"}`, http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		DataBaseURL: server.URL,
		Logger:      logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	// Distinct symbols keep the calls from coalescing in flight.
	if _, err := client.LatestPrices(t.Context(), []string{"AAPL"}); err == nil {
		t.Fatalf("expected failure")
	}
	if _, err := client.LatestPrices(t.Context(), []string{"MSFT"}); err == nil {
		t.Fatalf("expected failure")
	}

	_, err := client.LatestPrices(t.Context(), []string{"NVDA"})
	if !errors.Is(err, usecase.ErrDependencyUnavailable) {
		t.Fatalf("expected open circuit to shed the request, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("open circuit must not reach the provider, got %d calls", calls)
	}
}

func TestClient_ListAssets_FiltersUntradable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/assets" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"symbol":"aapl","name":" Apple Inc. ","exchange":"NASDAQ","tradable":true},
			{"symbol":"HALT","name":"Halted Corp","exchange":"NYSE","tradable":false}
		]`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{
		BrokerBaseURL: server.URL,
		Logger:        logging.NewNop(),
	})

	assets, err := client.ListAssets(t.Context())
	if err != nil {
		t.Fatalf("list assets failed: %v", err)
	}
	if len(assets) != 1 {
		t.Fatalf("untradable listings must be dropped, got %d", len(assets))
	}
	if assets[0].Symbol != "AAPL" || assets[0].Name != "Apple Inc." {
		t.Fatalf("unexpected asset: %+v", assets[0])
	}
}
