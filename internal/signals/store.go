package signals

import (
	"context"
	"time"

	"github.com/tradewatch/signal-service/internal/models"
)

// Store is the persistence contract the service consumes.
type Store interface {
	CreateSignal(s *models.Signal) error
	GetSignalByID(id int) (*models.Signal, error)
	UpdateSignal(id int, u models.SignalUpdate) error
	ListAllSignals() ([]*models.Signal, error)

	CreateSignalHistory(h *models.SignalHistory) error
	GetSignalHistoryBySignalID(signalID int) ([]*models.SignalHistory, error)

	TouchAssetConfig(asset string, at time.Time) error
	ListAssetConfigs() ([]*models.AssetConfig, error)
}

// FilteredLister is an optional Store capability: filtering, ordering and
// pagination pushed down to the store instead of scanning the full set.
type FilteredLister interface {
	ListSignals(f models.SignalListFilter) ([]*models.Signal, error)
}

// StatsAggregator is an optional Store capability for store-side aggregation.
type StatsAggregator interface {
	GetSignalStats() (*models.SignalStats, error)
}

// Notifier delivers a (title, content) pair to the configured owner.
// Delivery is best effort and never blocks a successful write.
type Notifier interface {
	Notify(ctx context.Context, title, content string) error
}

// EventPublisher announces stored signals to downstream consumers.
type EventPublisher interface {
	PublishSignalCreated(ctx context.Context, s *models.Signal) error
}

// StatsCache holds a short-lived copy of computed statistics. GetStats
// returns (nil, nil) on a miss; failures degrade to recomputation.
type StatsCache interface {
	GetStats(ctx context.Context) (*models.SignalStats, error)
	SetStats(ctx context.Context, stats *models.SignalStats) error
}
