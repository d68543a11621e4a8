package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/tradewatch/signal-service/internal/models"
	"github.com/tradewatch/signal-service/internal/signals"
)

// SignalService is the application surface the HTTP layer exposes.
type SignalService interface {
	Submit(ctx context.Context, sub models.SignalSubmission) (*models.Signal, error)
	List(ctx context.Context, f models.SignalListFilter) ([]*models.Signal, error)
	Stats(ctx context.Context) (*models.SignalStats, error)
	Get(ctx context.Context, id int) (*models.Signal, error)
	Update(ctx context.Context, id int, u models.SignalUpdate) error
	RecordOutcome(ctx context.Context, signalID int, entry *models.SignalHistory) (*models.SignalHistory, error)
	History(ctx context.Context, signalID int) ([]*models.SignalHistory, error)
	Assets(ctx context.Context) ([]*models.AssetConfig, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	service SignalService
	logger  zerolog.Logger
}

// NewHandler creates a new Handler
func NewHandler(service SignalService, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger.With().Str("component", "api").Logger(),
	}
}

// CreateSignal handles POST /api/v1/signals
func (h *Handler) CreateSignal(w http.ResponseWriter, r *http.Request) {
	var sub models.SignalSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	sig, err := h.service.Submit(r.Context(), sub)
	if err != nil {
		var verr *signals.ValidationError
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Error(), verr.Fields)
			return
		}
		h.logger.Error().Err(err).Msg("signal submission failed")
		respondError(w, http.StatusInternalServerError, "failed to store signal", nil)
		return
	}

	respondJSON(w, http.StatusCreated, sig)
}

// ListSignals handles GET /api/v1/signals
func (h *Handler) ListSignals(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), listFilterFromQuery(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("signal listing failed")
		respondError(w, http.StatusInternalServerError, "failed to retrieve signals", nil)
		return
	}

	respondJSON(w, http.StatusOK, list)
}

// GetSignal handles GET /api/v1/signals/{id}
func (h *Handler) GetSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := signalID(w, r)
	if !ok {
		return
	}

	sig, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "signal not found", nil)
			return
		}
		h.logger.Error().Err(err).Int("id", id).Msg("signal lookup failed")
		respondError(w, http.StatusInternalServerError, "failed to retrieve signal", nil)
		return
	}

	respondJSON(w, http.StatusOK, sig)
}

// UpdateSignal handles PATCH /api/v1/signals/{id}
func (h *Handler) UpdateSignal(w http.ResponseWriter, r *http.Request) {
	id, ok := signalID(w, r)
	if !ok {
		return
	}

	var update models.SignalUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	if err := h.service.Update(r.Context(), id, update); err != nil {
		var verr *signals.ValidationError
		switch {
		case errors.As(err, &verr):
			respondError(w, http.StatusBadRequest, verr.Error(), verr.Fields)
		case errors.Is(err, sql.ErrNoRows):
			respondError(w, http.StatusNotFound, "signal not found", nil)
		default:
			h.logger.Error().Err(err).Int("id", id).Msg("signal update failed")
			respondError(w, http.StatusInternalServerError, "failed to update signal", nil)
		}
		return
	}

	sig, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int("id", id).Msg("failed to reload updated signal")
		respondError(w, http.StatusInternalServerError, "failed to retrieve signal", nil)
		return
	}
	respondJSON(w, http.StatusOK, sig)
}

// RecordOutcome handles POST /api/v1/signals/{id}/history
func (h *Handler) RecordOutcome(w http.ResponseWriter, r *http.Request) {
	id, ok := signalID(w, r)
	if !ok {
		return
	}

	var entry models.SignalHistory
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	created, err := h.service.RecordOutcome(r.Context(), id, &entry)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "signal not found", nil)
			return
		}
		h.logger.Error().Err(err).Int("id", id).Msg("outcome recording failed")
		respondError(w, http.StatusInternalServerError, "failed to record outcome", nil)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

// GetSignalHistory handles GET /api/v1/signals/{id}/history
func (h *Handler) GetSignalHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := signalID(w, r)
	if !ok {
		return
	}

	history, err := h.service.History(r.Context(), id)
	if err != nil {
		h.logger.Error().Err(err).Int("id", id).Msg("history listing failed")
		respondError(w, http.StatusInternalServerError, "failed to retrieve history", nil)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// GetStats handles GET /api/v1/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("stats computation failed")
		respondError(w, http.StatusInternalServerError, "failed to retrieve stats", nil)
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// GetAssets handles GET /api/v1/assets
func (h *Handler) GetAssets(w http.ResponseWriter, r *http.Request) {
	assets, err := h.service.Assets(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("asset listing failed")
		respondError(w, http.StatusInternalServerError, "failed to retrieve assets", nil)
		return
	}

	respondJSON(w, http.StatusOK, assets)
}

// HealthCheck handles GET /health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func listFilterFromQuery(r *http.Request) models.SignalListFilter {
	q := r.URL.Query()
	f := models.SignalListFilter{
		Asset:     q.Get("asset"),
		Direction: q.Get("direction"),
		Status:    q.Get("status"),
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			f.Limit = n
		}
	}
	if offset := q.Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			f.Offset = n
		}
	}
	return f
}

func signalID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid signal id", nil)
		return 0, false
	}
	return id, true
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, fields []string) {
	body := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	respondJSON(w, status, body)
}
