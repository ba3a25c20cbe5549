package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/shreddi/WallStreetRivals/internal/domain/player"
	"github.com/shreddi/WallStreetRivals/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	players, err := h.accountService.ListPlayers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(players))
	for _, p := range players {
		items = append(items, playerToDTO(p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayer")
	defer span.End()

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	p, err := h.accountService.GetPlayer(ctx, playerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(p))
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMe")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	p, err := h.accountService.GetPlayer(ctx, callerID)
	if err != nil {
		h.logger.WarnContext(ctx, "get current player failed", "player_id", callerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(p))
}

func (h *Handler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdatePlayer")
	defer span.End()

	callerID, ok := requirePrincipal(ctx, w)
	if !ok {
		return
	}

	playerID := strings.TrimSpace(r.PathValue("playerID"))
	var req updatePlayerRequest
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

	input := usecase.UpdatePlayerInput{
		Username:          req.Username,
		Email:             req.Email,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		ProfilePicture:    req.ProfilePicture,
		Education:         req.Education,
		Gender:            req.Gender,
		Location:          req.Location,
		HereFor:           req.HereFor,
		WeeklySummary:     req.WeeklySummary,
		DailySummary:      req.DailySummary,
		ContestRankChange: req.ContestRankChange,
	}
	if req.Birthday != nil {
		birthday, err := time.Parse("2006-01-02", *req.Birthday)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: birthday must be YYYY-MM-DD", usecase.ErrInvalidInput))
			return
		}
		input.Birthday = &birthday
	}

	updated, err := h.accountService.UpdatePlayer(ctx, callerID, playerID, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update player failed", "player_id", playerID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(updated))
}

type updatePlayerRequest struct {
	Username          *string `json:"username" validate:"omitempty,max=25"`
	Email             *string `json:"email" validate:"omitempty,email"`
	FirstName         *string `json:"first_name" validate:"omitempty,max=25"`
	LastName          *string `json:"last_name" validate:"omitempty,max=25"`
	ProfilePicture    *string `json:"profile_picture"`
	Birthday          *string `json:"birthday"`
	Education         *string `json:"education"`
	Gender            *string `json:"gender"`
	Location          *string `json:"location"`
	HereFor           *string `json:"here_for" validate:"omitempty,oneof=investing networking learning"`
	WeeklySummary     *bool   `json:"weekly_summary"`
	DailySummary      *bool   `json:"daily_summary"`
	ContestRankChange *bool   `json:"contest_rank_change"`
}

type playerDTO struct {
	ID             string        `json:"id"`
	Username       string        `json:"username"`
	Email          string        `json:"email"`
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	ProfilePicture string        `json:"profile_picture,omitempty"`
	Birthday       *string       `json:"birthday,omitempty"`
	Education      string        `json:"education,omitempty"`
	Gender         string        `json:"gender,omitempty"`
	Location       string        `json:"location,omitempty"`
	HereFor        string        `json:"here_for,omitempty"`
	Alerts         alertsDTO     `json:"alerts"`
	CreatedAtUTC   string        `json:"created_at_utc"`
	UpdatedAtUTC   string        `json:"updated_at_utc"`
}

type alertsDTO struct {
	WeeklySummary     bool `json:"weekly_summary"`
	DailySummary      bool `json:"daily_summary"`
	ContestRankChange bool `json:"contest_rank_change"`
}

func playerToDTO(p player.Player) playerDTO {
	dto := playerDTO{
		ID:             p.ID,
		Username:       p.Username,
		Email:          p.Email,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		ProfilePicture: p.ProfilePicture,
		Education:      p.Education,
		Gender:         p.Gender,
		Location:       p.Location,
		HereFor:        string(p.HereFor),
		Alerts: alertsDTO{
			WeeklySummary:     p.Alerts.WeeklySummary,
			DailySummary:      p.Alerts.DailySummary,
			ContestRankChange: p.Alerts.ContestRankChange,
		},
		CreatedAtUTC: p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC: p.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if p.Birthday != nil {
		birthday := p.Birthday.UTC().Format("2006-01-02")
		dto.Birthday = &birthday
	}
	return dto
}
