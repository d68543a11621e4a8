package signals

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewatch/signal-service/internal/models"
)

func testSignal(id int, asset, direction string, confidence float64, createdAt time.Time) *models.Signal {
	return &models.Signal{
		ID:         id,
		Asset:      asset,
		Direction:  direction,
		EntryPrice: decimal.NewFromFloat(1.085),
		Confidence: decimal.NewFromFloat(confidence),
		Strength:   decimal.NewFromFloat(0.9),
		Timeframe:  models.DefaultTimeframe,
		Status:     models.StatusPending,
		Result:     models.ResultPending,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func TestQueryFiltering(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	all := []*models.Signal{
		testSignal(1, "EURUSD_otc", models.DirectionCall, 80, base),
		testSignal(2, "EURUSD_otc", models.DirectionPut, 60, base.Add(time.Minute)),
		testSignal(3, "Gold_otc", models.DirectionCall, 75, base.Add(2*time.Minute)),
		testSignal(4, "Gold_otc", models.DirectionCall, 65, base.Add(3*time.Minute)),
		testSignal(5, "GBPUSD_otc", models.DirectionPut, 70, base.Add(4*time.Minute)),
	}
	all[3].Status = models.StatusClosed

	t.Run("no filters returns everything", func(t *testing.T) {
		got := Query(all, models.SignalListFilter{})
		assert.Len(t, got, 5)
	})

	t.Run("filters are conjunctive exact matches", func(t *testing.T) {
		got := Query(all, models.SignalListFilter{Asset: "Gold_otc", Direction: models.DirectionCall, Status: models.StatusPending})
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].ID)
		for _, s := range got {
			assert.Equal(t, "Gold_otc", s.Asset)
			assert.Equal(t, models.DirectionCall, s.Direction)
			assert.Equal(t, models.StatusPending, s.Status)
		}
	})

	t.Run("asset match is case sensitive", func(t *testing.T) {
		got := Query(all, models.SignalListFilter{Asset: "gold_otc"})
		assert.Empty(t, got)
	})

	t.Run("no matching record is excluded", func(t *testing.T) {
		got := Query(all, models.SignalListFilter{Direction: models.DirectionCall})
		assert.Len(t, got, 3)
	})
}

func TestQueryOrdering(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	all := []*models.Signal{
		testSignal(1, "EURUSD_otc", models.DirectionCall, 80, base.Add(time.Minute)),
		testSignal(2, "EURUSD_otc", models.DirectionCall, 80, base.Add(3*time.Minute)),
		testSignal(3, "EURUSD_otc", models.DirectionCall, 80, base),
		testSignal(4, "EURUSD_otc", models.DirectionCall, 80, base.Add(2*time.Minute)),
	}

	got := Query(all, models.SignalListFilter{})
	require.Len(t, got, 4)
	for i := 1; i < len(got); i++ {
		assert.False(t, got[i-1].CreatedAt.Before(got[i].CreatedAt),
			"result must be sorted most recent first")
	}
	assert.Equal(t, []int{2, 4, 1, 3}, []int{got[0].ID, got[1].ID, got[2].ID, got[3].ID})
}

func TestQueryOrderingTiebreak(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	all := []*models.Signal{
		testSignal(7, "EURUSD_otc", models.DirectionCall, 80, base),
		testSignal(9, "EURUSD_otc", models.DirectionCall, 80, base),
		testSignal(8, "EURUSD_otc", models.DirectionCall, 80, base),
	}

	got := Query(all, models.SignalListFilter{})
	require.Len(t, got, 3)
	assert.Equal(t, []int{9, 8, 7}, []int{got[0].ID, got[1].ID, got[2].ID})
}

func TestQueryPagination(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var all []*models.Signal
	for i := 1; i <= 60; i++ {
		all = append(all, testSignal(i, "EURUSD_otc", models.DirectionCall, 80, base.Add(time.Duration(i)*time.Second)))
	}

	t.Run("default limit is 50", func(t *testing.T) {
		got := Query(all, models.SignalListFilter{})
		assert.Len(t, got, 50)
	})

	t.Run("limit and offset page through the sorted set", func(t *testing.T) {
		first := Query(all, models.SignalListFilter{Limit: 10})
		second := Query(all, models.SignalListFilter{Limit: 10, Offset: 10})
		require.Len(t, first, 10)
		require.Len(t, second, 10)
		assert.Equal(t, 60, first[0].ID)
		assert.Equal(t, 50, second[0].ID)
	})

	t.Run("offset beyond the result size yields empty", func(t *testing.T) {
		got := Query(all, models.SignalListFilter{Offset: 100})
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("short final page", func(t *testing.T) {
		got := Query(all, models.SignalListFilter{Limit: 50, Offset: 55})
		assert.Len(t, got, 5)
	})
}

func TestQueryGoldScenario(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	all := []*models.Signal{
		testSignal(1, "Gold_otc", models.DirectionCall, 80, base),
		testSignal(2, "EURUSD_otc", models.DirectionPut, 60, base.Add(time.Minute)),
		testSignal(3, "Gold_otc", models.DirectionPut, 75, base.Add(2*time.Minute)),
		testSignal(4, "GBPUSD_otc", models.DirectionCall, 65, base.Add(3*time.Minute)),
		testSignal(5, "Gold_otc", models.DirectionCall, 70, base.Add(4*time.Minute)),
	}

	got := Query(all, models.SignalListFilter{Asset: "Gold_otc", Limit: 10, Offset: 0})
	require.Len(t, got, 3)
	for _, s := range got {
		assert.Equal(t, "Gold_otc", s.Asset)
	}
}

func TestAggregateEmpty(t *testing.T) {
	stats := Aggregate(nil)

	assert.Equal(t, 0, stats.TotalSignals)
	assert.Equal(t, 0, stats.CallSignals)
	assert.Equal(t, 0, stats.PutSignals)
	assert.True(t, stats.AvgConfidence.IsZero())
	assert.NotNil(t, stats.ByAsset)
	assert.Empty(t, stats.ByAsset)
}

func TestAggregateDirectionsSumToTotal(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	var all []*models.Signal
	for i := 1; i <= 9; i++ {
		direction := models.DirectionCall
		if i%3 == 0 {
			direction = models.DirectionPut
		}
		all = append(all, testSignal(i, fmt.Sprintf("ASSET_%d", i%4), direction, 50, base))
	}

	stats := Aggregate(all)
	assert.Equal(t, 9, stats.TotalSignals)
	assert.Equal(t, stats.TotalSignals, stats.CallSignals+stats.PutSignals)
}

func TestAggregateAvgConfidence(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("ten signals summing to 785 average 78.5", func(t *testing.T) {
		confidences := []float64{85.5, 75, 80, 70, 90, 78, 82, 76, 74.5, 74}
		var all []*models.Signal
		for i, c := range confidences {
			direction := models.DirectionCall
			if i >= 6 {
				direction = models.DirectionPut
			}
			all = append(all, testSignal(i+1, "EURUSD_otc", direction, c, base))
		}

		stats := Aggregate(all)
		assert.Equal(t, 10, stats.TotalSignals)
		assert.Equal(t, 6, stats.CallSignals)
		assert.Equal(t, 4, stats.PutSignals)
		assert.True(t, stats.AvgConfidence.Equal(decimal.NewFromFloat(78.5)),
			"expected 78.5, got %s", stats.AvgConfidence)
	})

	t.Run("mean is rounded to two decimals", func(t *testing.T) {
		all := []*models.Signal{
			testSignal(1, "A", models.DirectionCall, 70, base),
			testSignal(2, "A", models.DirectionCall, 70, base),
			testSignal(3, "A", models.DirectionCall, 71, base),
		}
		stats := Aggregate(all)
		assert.Equal(t, "70.33", stats.AvgConfidence.StringFixed(2))
	})
}

func TestAggregateByAsset(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	all := []*models.Signal{
		testSignal(1, "Gold_otc", models.DirectionCall, 80, base),
		testSignal(2, "Gold_otc", models.DirectionPut, 60, base),
		testSignal(3, "EURUSD_otc", models.DirectionCall, 75, base),
	}

	stats := Aggregate(all)
	assert.Equal(t, map[string]int{"Gold_otc": 2, "EURUSD_otc": 1}, stats.ByAsset)
}
