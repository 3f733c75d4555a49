package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	httphandlers "starsync/internal/interfaces/http"
	"starsync/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler
// with the middleware chain applied.
func SetupRoutes(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", httphandlers.HandleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/accounts", deps.AccountsHandler.HandleAccounts)
	mux.HandleFunc("/api/transactions/{identity}/{account}", deps.TransactionsHandler.HandleTransactions)

	return middleware.Telemetry(middleware.Logging(middleware.RequestID(mux)))
}
