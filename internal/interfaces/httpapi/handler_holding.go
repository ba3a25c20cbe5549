package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shreddi/WallStreetRivals/internal/domain/portfolio"
	"github.com/shreddi/WallStreetRivals/internal/usecase"
)

func (h *Handler) ListHoldings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListHoldings")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	portfolioID := strings.TrimSpace(r.URL.Query().Get("portfolio_id"))
	if err := h.validateRequest(ctx, listHoldingsRequest{PortfolioID: portfolioID}); err != nil {
		writeError(ctx, w, err)
		return
	}

	holdings, err := h.tradingService.ListHoldings(ctx, callerID, portfolioID)
	if err != nil {
		h.logger.WarnContext(ctx, "list holdings failed", "portfolio_id", portfolioID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]holdingDTO, 0, len(holdings))
	for _, holding := range holdings {
		items = append(items, holdingToDTO(holding))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// BuyHolding places a purchase order at the current quote.
func (h *Handler) BuyHolding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.BuyHolding")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req buyHoldingRequest
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

	result, err := h.tradingService.Buy(ctx, usecase.BuyHoldingInput{
		PlayerID:    callerID,
		PortfolioID: req.PortfolioID,
		Ticker:      req.Ticker,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "buy failed",
			"portfolio_id", req.PortfolioID,
			"ticker", req.Ticker,
			"quantity", req.Quantity,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tradeResultDTO{
		Holding: holdingToDTO(result.Holding),
		Amount:  result.Amount.String(),
		Cash:    result.Cash.String(),
	})
}

func (h *Handler) GetHolding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHolding")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	holdingID := strings.TrimSpace(r.PathValue("holdingID"))
	holding, err := h.tradingService.GetHolding(ctx, callerID, holdingID)
	if err != nil {
		h.logger.WarnContext(ctx, "get holding failed", "holding_id", holdingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, holdingToDTO(holding))
}

// SellHolding closes the whole position at the current quote and credits the
// proceeds.
func (h *Handler) SellHolding(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SellHolding")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	holdingID := strings.TrimSpace(r.PathValue("holdingID"))
	result, err := h.tradingService.Sell(ctx, callerID, holdingID)
	if err != nil {
		h.logger.WarnContext(ctx, "sell failed", "holding_id", holdingID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sellResultDTO{
		Credited: result.Credited.String(),
		Cash:     result.Cash.String(),
	})
}

type listHoldingsRequest struct {
	PortfolioID string `validate:"required"`
}

type buyHoldingRequest struct {
	PortfolioID string `json:"portfolio_id" validate:"required"`
	Ticker      string `json:"ticker" validate:"required,max=10"`
	Quantity    int64  `json:"quantity" validate:"required,min=1"`
}

type holdingDTO struct {
	ID           string `json:"id"`
	PortfolioID  string `json:"portfolio_id"`
	Ticker       string `json:"ticker"`
	Shares       int64  `json:"shares"`
	CreatedAtUTC string `json:"created_at_utc"`
	UpdatedAtUTC string `json:"updated_at_utc"`
}

type tradeResultDTO struct {
	Holding holdingDTO `json:"holding"`
	Amount  string     `json:"amount"`
	Cash    string     `json:"cash"`
}

type sellResultDTO struct {
	Credited string `json:"credited"`
	Cash     string `json:"cash"`
}

func holdingToDTO(h portfolio.Holding) holdingDTO {
	return holdingDTO{
		ID:           h.ID,
		PortfolioID:  h.PortfolioID,
		Ticker:       h.Ticker,
		Shares:       h.Shares,
		CreatedAtUTC: h.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC: h.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
