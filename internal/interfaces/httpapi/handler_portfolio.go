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

func (h *Handler) ListMyPortfolios(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyPortfolios")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	portfolios, err := h.portfolioService.ListByPlayer(ctx, callerID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list portfolios failed", "player_id", callerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]portfolioDTO, 0, len(portfolios))
	for _, p := range portfolios {
		items = append(items, portfolioToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// JoinContest creates the caller's portfolio inside a contest.
func (h *Handler) JoinContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinContest")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req joinContestRequest
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

	created, err := h.portfolioService.Join(ctx, callerID, req.ContestID)
	if err != nil {
		h.logger.WarnContext(ctx, "join contest failed", "player_id", callerID, "contest_id", req.ContestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, portfolioToDTO(created))
}

func (h *Handler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPortfolio")
	defer span.End()

	portfolioID := strings.TrimSpace(r.PathValue("portfolioID"))
	detail, err := h.portfolioService.GetDetail(ctx, portfolioID)
	if err != nil {
		h.logger.WarnContext(ctx, "get portfolio failed", "portfolio_id", portfolioID, "error", err)
		writeError(ctx, w, err)
		return
	}

	holdings := make([]holdingDTO, 0, len(detail.Holdings))
	for _, holding := range detail.Holdings {
		holdings = append(holdings, holdingToDTO(holding))
	}

	writeSuccess(ctx, w, http.StatusOK, portfolioDetailDTO{
		portfolioDTO: portfolioToDTO(detail.Portfolio),
		Holdings:     holdings,
		Value:        detail.Value.String(),
	})
}

func (h *Handler) GetPortfolioRank(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPortfolioRank")
	defer span.End()

	portfolioID := strings.TrimSpace(r.PathValue("portfolioID"))
	rank, err := h.contestService.PortfolioRank(ctx, portfolioID)
	if err != nil {
		h.logger.WarnContext(ctx, "get portfolio rank failed", "portfolio_id", portfolioID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"rank": rank})
}

type joinContestRequest struct {
	ContestID string `json:"contest_id" validate:"required"`
}

type portfolioDTO struct {
	ID           string `json:"id"`
	PlayerID     string `json:"player_id"`
	ContestID    string `json:"contest_id"`
	Cash         string `json:"cash"`
	Active       bool   `json:"active"`
	CreatedAtUTC string `json:"created_at_utc"`
	UpdatedAtUTC string `json:"updated_at_utc"`
}

type portfolioDetailDTO struct {
	portfolioDTO
	Holdings []holdingDTO `json:"holdings"`
	Value    string       `json:"value"`
}

func portfolioToDTO(p portfolio.Portfolio) portfolioDTO {
	return portfolioDTO{
		ID:           p.ID,
		PlayerID:     p.PlayerID,
		ContestID:    p.ContestID,
		Cash:         p.Cash.String(),
		Active:       p.Active,
		CreatedAtUTC: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
