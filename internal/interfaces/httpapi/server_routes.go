package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /swagger", handler.SwaggerUI)
	mux.HandleFunc("GET /swagger/", handler.SwaggerUI)
	mux.HandleFunc("GET /swagger/openapi.yaml", handler.OpenAPI)
}

func registerAuthRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/auth/register", handler.Register)
	mux.HandleFunc("POST /v1/auth/login", handler.Login)
	mux.HandleFunc("POST /v1/auth/token/refresh", handler.RefreshToken)
	mux.HandleFunc("POST /v1/auth/password-reset", handler.RequestPasswordReset)
	mux.HandleFunc("POST /v1/auth/password-reset/confirm/{playerID}/{token}", handler.ConfirmPasswordReset)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedPlayerRoutes(mux, handler, verifier)
	registerAuthorizedTradingRoutes(mux, handler, verifier)
	registerAuthorizedContestRoutes(mux, handler, verifier)
	registerAuthorizedNotificationRoutes(mux, handler, verifier)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /internal/v1/jobs/price-refresh", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunPriceRefreshJob)))
}

func registerAuthorizedPlayerRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/players", RequireAuth(verifier, http.HandlerFunc(handler.ListPlayers)))
	mux.Handle("GET /v1/players/me", RequireAuth(verifier, http.HandlerFunc(handler.GetMe)))
	mux.Handle("GET /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPlayer)))
	mux.Handle("PATCH /v1/players/{playerID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdatePlayer)))
}

func registerAuthorizedTradingRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/stocks", RequireAuth(verifier, http.HandlerFunc(handler.ListStocks)))
	mux.Handle("GET /v1/stocks/{stockID}", RequireAuth(verifier, http.HandlerFunc(handler.GetStock)))
	mux.Handle("POST /v1/stocks", RequireAuth(verifier, http.HandlerFunc(handler.CreateStock)))
	mux.Handle("GET /v1/portfolios", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPortfolios)))
	mux.Handle("POST /v1/portfolios", RequireAuth(verifier, http.HandlerFunc(handler.JoinContest)))
	mux.Handle("GET /v1/portfolios/{portfolioID}", RequireAuth(verifier, http.HandlerFunc(handler.GetPortfolio)))
	mux.Handle("GET /v1/portfolios/{portfolioID}/rank", RequireAuth(verifier, http.HandlerFunc(handler.GetPortfolioRank)))
	mux.Handle("GET /v1/holdings", RequireAuth(verifier, http.HandlerFunc(handler.ListHoldings)))
	mux.Handle("POST /v1/holdings", RequireAuth(verifier, http.HandlerFunc(handler.BuyHolding)))
	mux.Handle("GET /v1/holdings/{holdingID}", RequireAuth(verifier, http.HandlerFunc(handler.GetHolding)))
	mux.Handle("DELETE /v1/holdings/{holdingID}", RequireAuth(verifier, http.HandlerFunc(handler.SellHolding)))
}

func registerAuthorizedContestRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/contests", RequireAuth(verifier, http.HandlerFunc(handler.ListContests)))
	mux.Handle("GET /v1/contests/open", RequireAuth(verifier, http.HandlerFunc(handler.ListOpenContests)))
	mux.Handle("GET /v1/contests/{contestID}", RequireAuth(verifier, http.HandlerFunc(handler.GetContest)))
	mux.Handle("GET /v1/contests/{contestID}/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.GetContestLeaderboard)))
	mux.Handle("POST /v1/contests", RequireAuth(verifier, http.HandlerFunc(handler.CreateContest)))
}

func registerAuthorizedNotificationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/notifications", RequireAuth(verifier, http.HandlerFunc(handler.ListMyNotifications)))
	mux.Handle("POST /v1/notifications/{notificationID}/read", RequireAuth(verifier, http.HandlerFunc(handler.MarkNotificationRead)))
}
