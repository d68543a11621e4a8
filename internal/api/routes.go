package api

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tradewatch/signal-service/internal/metrics"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler, reg *metrics.Registry) *mux.Router {
	r := mux.NewRouter()

	if reg != nil {
		r.Use(metrics.HTTPMiddleware(reg))
		r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")
	}

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Signal routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/signals", handler.ListSignals).Methods("GET")
	api.HandleFunc("/signals", handler.CreateSignal).Methods("POST")
	api.HandleFunc("/signals/export", handler.ExportSignals).Methods("GET")
	api.HandleFunc("/signals/{id}", handler.GetSignal).Methods("GET")
	api.HandleFunc("/signals/{id}", handler.UpdateSignal).Methods("PATCH")
	api.HandleFunc("/signals/{id}/history", handler.GetSignalHistory).Methods("GET")
	api.HandleFunc("/signals/{id}/history", handler.RecordOutcome).Methods("POST")
	api.HandleFunc("/stats", handler.GetStats).Methods("GET")
	api.HandleFunc("/assets", handler.GetAssets).Methods("GET")

	return r
}
