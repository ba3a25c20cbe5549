package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/stock"
	"github.com/shreddi/WallStreetRivals/internal/usecase"
)

func (h *Handler) ListStocks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStocks")
	defer span.End()

	tickerFilter := strings.TrimSpace(r.URL.Query().Get("ticker"))
	stocks, err := h.stockService.ListStocks(ctx, tickerFilter)
	if err != nil {
		h.logger.ErrorContext(ctx, "list stocks failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]stockDTO, 0, len(stocks))
	for _, s := range stocks {
		items = append(items, stockToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStock")
	defer span.End()

	stockID := strings.TrimSpace(r.PathValue("stockID"))
	s, err := h.stockService.GetStock(ctx, stockID)
	if err != nil {
		h.logger.WarnContext(ctx, "get stock failed", "stock_id", stockID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, stockToDTO(s))
}

func (h *Handler) CreateStock(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateStock")
	defer span.End()

	var req createStockRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	price, err := decimal.NewFromString(req.TradePrice)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: trade_price must be a decimal string", usecase.ErrInvalidInput))
		return
	}

	created, err := h.stockService.CreateStock(ctx, usecase.CreateStockInput{
		Ticker:      req.Ticker,
		CompanyName: req.CompanyName,
		TradePrice:  price,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create stock failed", "ticker", req.Ticker, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, stockToDTO(created))
}

type createStockRequest struct {
	Ticker      string `json:"ticker" validate:"required,max=10"`
	CompanyName string `json:"company_name" validate:"required,max=120"`
	TradePrice  string `json:"trade_price" validate:"required"`
}

type stockDTO struct {
	ID           string `json:"id"`
	Ticker       string `json:"ticker"`
	CompanyName  string `json:"company_name"`
	TradePrice   string `json:"trade_price"`
	UpdatedAtUTC string `json:"updated_at_utc"`
}

func stockToDTO(s stock.Stock) stockDTO {
	return stockDTO{
		ID:           s.ID,
		Ticker:       s.Ticker,
		CompanyName:  s.CompanyName,
		TradePrice:   s.TradePrice.String(),
		UpdatedAtUTC: s.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
