package api

import (
	"encoding/csv"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradewatch/signal-service/internal/models"
)

var exportHeader = []string{
	"timestamp", "asset", "direction", "price", "confidence", "strength", "status", "result",
}

// ExportSignals handles GET /api/v1/signals/export. It renders the same
// filtered listing as CSV with a fixed column order.
func (h *Handler) ExportSignals(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), listFilterFromQuery(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("signal export failed")
		respondError(w, http.StatusInternalServerError, "failed to retrieve signals", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="signals.csv"`)

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		h.logger.Error().Err(err).Msg("failed to write csv header")
		return
	}
	for _, s := range list {
		if err := writer.Write(exportRow(s)); err != nil {
			h.logger.Error().Err(err).Int("id", s.ID).Msg("failed to write csv row")
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.Error().Err(err).Msg("failed to flush csv")
	}
}

func exportRow(s *models.Signal) []string {
	return []string{
		s.CreatedAt.UTC().Format(time.RFC3339),
		s.Asset,
		s.Direction,
		s.EntryPrice.StringFixed(5),
		s.Confidence.StringFixed(1) + "%",
		s.Strength.Mul(decimal.NewFromInt(100)).StringFixed(0) + "%",
		s.Status,
		s.Result,
	}
}
