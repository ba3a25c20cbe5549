package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/shreddi/WallStreetRivals/internal/usecase"
)

type Handler struct {
	accountService      *usecase.AccountService
	stockService        *usecase.StockService
	portfolioService    *usecase.PortfolioService
	tradingService      *usecase.TradingService
	contestService      *usecase.ContestService
	notificationService *usecase.NotificationService
	priceSyncService    *usecase.PriceSyncService
	logger              *slog.Logger
	validator           *validator.Validate
}

func NewHandler(
	accountService *usecase.AccountService,
	stockService *usecase.StockService,
	portfolioService *usecase.PortfolioService,
	tradingService *usecase.TradingService,
	contestService *usecase.ContestService,
	notificationService *usecase.NotificationService,
	priceSyncService *usecase.PriceSyncService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		accountService:      accountService,
		stockService:        stockService,
		portfolioService:    portfolioService,
		tradingService:      tradingService,
		contestService:      contestService,
		notificationService: notificationService,
		priceSyncService:    priceSyncService,
		logger:              logger,
		validator:           validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func requirePrincipal(ctx context.Context, w http.ResponseWriter) (string, bool) {
	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return "", false
	}

	return principal.PlayerID, true
}
