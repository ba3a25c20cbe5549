package alpaca

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/platform/logging"
	"github.com/shreddi/WallStreetRivals/internal/platform/resilience"
	"github.com/shreddi/WallStreetRivals/internal/usecase"
)

const (
	defaultDataBaseURL   = "https://data.alpaca.markets"
	defaultBrokerBaseURL = "https://api.alpaca.markets"
	defaultPriceFeed     = "iex"

	keyIDHeader     = "APCA-API-KEY-ID"
	secretKeyHeader = "APCA-API-SECRET-KEY"
)

var errAlpacaTransient = crerr.New("alpaca transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	DataBaseURL    string
	BrokerBaseURL  string
	KeyID          string
	SecretKey      string
	Feed           string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the Alpaca market data and broker APIs. Trade quotes come
// from the data host, the tradable asset catalog from the broker host.
type Client struct {
	httpClient     *http.Client
	dataBaseURL    string
	brokerBaseURL  string
	keyID          string
	secretKey      string
	feed           string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	dataBaseURL := strings.TrimRight(strings.TrimSpace(cfg.DataBaseURL), "/")
	if dataBaseURL == "" {
		dataBaseURL = defaultDataBaseURL
	}
	brokerBaseURL := strings.TrimRight(strings.TrimSpace(cfg.BrokerBaseURL), "/")
	if brokerBaseURL == "" {
		brokerBaseURL = defaultBrokerBaseURL
	}
	feed := strings.TrimSpace(cfg.Feed)
	if feed == "" {
		feed = defaultPriceFeed
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		dataBaseURL:    dataBaseURL,
		brokerBaseURL:  brokerBaseURL,
		keyID:          strings.TrimSpace(cfg.KeyID),
		secretKey:      strings.TrimSpace(cfg.SecretKey),
		feed:           feed,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type latestTradesEnvelope struct {
	Trades map[string]latestTrade `json:"trades"`
}

type latestTrade struct {
	Price decimal.Decimal `json:"p"`
}

// LatestPrices fetches last trade prices for the given tickers. Tickers the
// feed has no trade for are absent from the result.
func (c *Client) LatestPrices(ctx context.Context, tickers []string) (map[string]decimal.Decimal, error) {
	if len(tickers) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	query := map[string]string{
		"symbols": strings.Join(tickers, ","),
		"feed":    c.feed,
	}

	var envelope latestTradesEnvelope
	if err := c.doJSON(ctx, c.dataBaseURL, "/v2/stocks/trades/latest", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch latest trades: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(envelope.Trades))
	for symbol, trade := range envelope.Trades {
		prices[symbol] = trade.Price
	}

	return prices, nil
}

type assetItem struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"`
	Tradable bool   `json:"tradable"`
}

// Asset is one tradable listing from the broker catalog.
type Asset struct {
	Symbol   string
	Name     string
	Exchange string
}

// ListAssets returns the active, tradable US equity listings.
func (c *Client) ListAssets(ctx context.Context) ([]Asset, error) {
	query := map[string]string{
		"status":      "active",
		"asset_class": "us_equity",
	}

	var items []assetItem
	if err := c.doJSON(ctx, c.brokerBaseURL, "/v2/assets", query, &items); err != nil {
		return nil, fmt.Errorf("fetch assets: %w", err)
	}

	assets := make([]Asset, 0, len(items))
	for _, item := range items {
		if !item.Tradable {
			continue
		}
		assets = append(assets, Asset{
			Symbol:   strings.ToUpper(strings.TrimSpace(item.Symbol)),
			Name:     strings.TrimSpace(item.Name),
			Exchange: item.Exchange,
		})
	}

	return assets, nil
}

func (c *Client) doJSON(ctx context.Context, baseURL, path string, query map[string]string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "alpaca circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: market data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && stderrors.Is(reqErr, errAlpacaTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(keyIDHeader, c.keyID)
		req.Header.Set(secretKeyHeader, c.secretKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errAlpacaTransient, c.sanitize(err.Error()))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, 6<<20))
			_ = resp.Body.Close()
			if readErr != nil {
				lastErr = fmt.Errorf("%w: read response body: %v", errAlpacaTransient, readErr)
			} else if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return raw, nil
			} else if isRetryableStatus(resp.StatusCode) {
				lastErr = fmt.Errorf("%w: provider status=%d body=%s", errAlpacaTransient, resp.StatusCode, abbreviateBody(raw))
			} else {
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "alpaca request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func (c *Client) sanitize(value string) string {
	value = strings.TrimSpace(value)
	if c.keyID != "" {
		value = strings.ReplaceAll(value, c.keyID, "REDACTED")
	}
	if c.secretKey != "" {
		value = strings.ReplaceAll(value, c.secretKey, "REDACTED")
	}
	return value
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
