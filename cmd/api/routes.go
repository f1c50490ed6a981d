package main

import (
	"log"
	"net/http"

	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/config"
	"horizon/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleMe)))
	mux.Handle("/api/users/device", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleRegisterDevice)))
	mux.Handle("/api/link/token", authMiddleware(http.HandlerFunc(deps.LinkHandler.HandleCreateLinkToken)))
	mux.Handle("/api/link/exchange", authMiddleware(http.HandlerFunc(deps.LinkHandler.HandleExchange)))
	mux.Handle("/api/accounts", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandlePortfolio)))
	mux.Handle("/api/accounts/{id}/transactions", authMiddleware(http.HandlerFunc(deps.AccountHandler.HandleAccountLedger)))
	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.TransactionHandler.HandleListTransactions)))
	mux.Handle("/api/transfers", authMiddleware(http.HandlerFunc(deps.TransferHandler.HandleCreateTransfer)))

	// Apply global middleware
	handler := middleware.Logging(mux)
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}
