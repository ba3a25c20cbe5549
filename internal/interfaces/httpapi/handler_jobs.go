package httpapi

import (
	"net/http"
)

// RunPriceRefreshJob pulls latest quotes for all tracked tickers. Guarded by
// the internal job token, triggered by the platform scheduler.
func (h *Handler) RunPriceRefreshJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunPriceRefreshJob")
	defer span.End()

	result, err := h.priceSyncService.RefreshPrices(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "price refresh job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
