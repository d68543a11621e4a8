package signals

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tradewatch/signal-service/internal/models"
)

// Query filters, sorts and pages a signal set in memory. Filter fields are
// conjunctive exact matches; absent fields impose no constraint. Results are
// ordered most recent first with ID descending as the tiebreak. Used as the
// fallback when the store cannot push the predicate down.
func Query(all []*models.Signal, f models.SignalListFilter) []*models.Signal {
	filtered := make([]*models.Signal, 0, len(all))
	for _, s := range all {
		if f.Asset != "" && s.Asset != f.Asset {
			continue
		}
		if f.Direction != "" && s.Direction != f.Direction {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		filtered = append(filtered, s)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(filtered) {
		return []*models.Signal{}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = models.DefaultListLimit
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end]
}

// Aggregate computes summary statistics over the full signal set in a single
// pass. An empty set yields zero counts, zero mean confidence and an empty
// (non-nil) per-asset map.
func Aggregate(all []*models.Signal) *models.SignalStats {
	stats := &models.SignalStats{
		AvgConfidence: decimal.Zero,
		ByAsset:       map[string]int{},
	}

	var sum decimal.Decimal
	for _, s := range all {
		stats.TotalSignals++
		switch s.Direction {
		case models.DirectionCall:
			stats.CallSignals++
		case models.DirectionPut:
			stats.PutSignals++
		}
		sum = sum.Add(s.Confidence)
		stats.ByAsset[s.Asset]++
	}

	if stats.TotalSignals > 0 {
		stats.AvgConfidence = sum.Div(decimal.NewFromInt(int64(stats.TotalSignals))).Round(2)
	}
	return stats
}
