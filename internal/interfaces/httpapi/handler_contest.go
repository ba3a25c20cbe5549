package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
	"github.com/shreddi/WallStreetRivals/internal/domain/contest"
	"github.com/shreddi/WallStreetRivals/internal/usecase"
)

func (h *Handler) ListContests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContests")
	defer span.End()

	contests, err := h.contestService.ListContests(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list contests failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestsToDTOs(contests, time.Now()))
}

func (h *Handler) ListOpenContests(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOpenContests")
	defer span.End()

	contests, err := h.contestService.ListOpenContests(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list open contests failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestsToDTOs(contests, time.Now()))
}

func (h *Handler) GetContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContest")
	defer span.End()

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	c, err := h.contestService.GetContest(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "get contest failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestToDTO(c, time.Now()))
}

func (h *Handler) CreateContest(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateContest")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	var req createContestRequest
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

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: start_date must be YYYY-MM-DD", usecase.ErrInvalidInput))
		return
	}

	interestRate := decimal.Zero
	if strings.TrimSpace(req.CashInterestRate) != "" {
		interestRate, err = decimal.NewFromString(req.CashInterestRate)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: cash_interest_rate must be a decimal string", usecase.ErrInvalidInput))
			return
		}
	}

	created, err := h.contestService.CreateContest(ctx, usecase.CreateContestInput{
		Name:             req.Name,
		OwnerID:          callerID,
		Picture:          req.Picture,
		IsTournament:     req.IsTournament,
		LeagueType:       req.LeagueType,
		CashInterestRate: interestRate,
		Duration:         req.Duration,
		StartDate:        startDate,
		PlayerLimit:      req.PlayerLimit,
		NYSE:             req.NYSE,
		NASDAQ:           req.NASDAQ,
		Crypto:           req.Crypto,
		InvitedPlayerIDs: req.InvitedPlayerIDs,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create contest failed", "name", req.Name, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, contestToDTO(created, time.Now()))
}

func (h *Handler) GetContestLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetContestLeaderboard")
	defer span.End()

	contestID := strings.TrimSpace(r.PathValue("contestID"))
	entries, err := h.contestService.Leaderboard(ctx, contestID)
	if err != nil {
		h.logger.WarnContext(ctx, "contest leaderboard failed", "contest_id", contestID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rankEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, rankEntryDTO{
			Rank:        entry.Rank,
			PortfolioID: entry.PortfolioID,
			PlayerID:    entry.PlayerID,
			Value:       entry.Value.String(),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type createContestRequest struct {
	Name             string   `json:"name" validate:"required,min=3,max=50"`
	Picture          string   `json:"picture"`
	IsTournament     bool     `json:"is_tournament"`
	LeagueType       string   `json:"league_type" validate:"required,oneof=public private self"`
	CashInterestRate string   `json:"cash_interest_rate"`
	Duration         string   `json:"duration" validate:"required,oneof=day week month"`
	StartDate        string   `json:"start_date" validate:"required"`
	PlayerLimit      int      `json:"player_limit" validate:"required,min=1"`
	NYSE             bool     `json:"nyse"`
	NASDAQ           bool     `json:"nasdaq"`
	Crypto           bool     `json:"crypto"`
	InvitedPlayerIDs []string `json:"invited_player_ids" validate:"dive,required"`
}

type contestDTO struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	OwnerID          *string `json:"owner_id,omitempty"`
	Picture          string  `json:"picture,omitempty"`
	IsTournament     bool    `json:"is_tournament"`
	LeagueType       string  `json:"league_type"`
	CashInterestRate string  `json:"cash_interest_rate"`
	Duration         string  `json:"duration"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	State            string  `json:"state"`
	PlayerLimit      int     `json:"player_limit"`
	NYSE             bool    `json:"nyse"`
	NASDAQ           bool    `json:"nasdaq"`
	Crypto           bool    `json:"crypto"`
}

type rankEntryDTO struct {
	Rank        int    `json:"rank"`
	PortfolioID string `json:"portfolio_id"`
	PlayerID    string `json:"player_id"`
	Value       string `json:"value"`
}

func contestsToDTOs(contests []contest.Contest, now time.Time) []contestDTO {
	items := make([]contestDTO, 0, len(contests))
	for _, c := range contests {
		items = append(items, contestToDTO(c, now))
	}
	return items
}

func contestToDTO(c contest.Contest, now time.Time) contestDTO {
	return contestDTO{
		ID:               c.ID,
		Name:             c.Name,
		OwnerID:          c.OwnerID,
		Picture:          c.Picture,
		IsTournament:     c.IsTournament,
		LeagueType:       string(c.LeagueType),
		CashInterestRate: c.CashInterestRate.String(),
		Duration:         string(c.Duration),
		StartDate:        c.StartDate.UTC().Format(time.RFC3339),
		EndDate:          c.EndDate.UTC().Format(time.RFC3339),
		State:            string(c.StateAt(now)),
		PlayerLimit:      c.PlayerLimit,
		NYSE:             c.NYSE,
		NASDAQ:           c.NASDAQ,
		Crypto:           c.Crypto,
	}
}
