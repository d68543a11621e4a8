package signals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tradewatch/signal-service/internal/metrics"
	"github.com/tradewatch/signal-service/internal/models"
)

// DefaultConfidenceThreshold gates the owner notification: strictly above
// this value notifies, at or below does not.
var DefaultConfidenceThreshold = decimal.NewFromInt(70)

// Config wires the service dependencies. Notifier, Events, StatsCache and
// Metrics are optional.
type Config struct {
	Store               Store
	Notifier            Notifier
	Events              EventPublisher
	StatsCache          StatsCache
	Metrics             *metrics.Registry
	Logger              zerolog.Logger
	ConfidenceThreshold decimal.Decimal
}

// Service validates, persists and serves trading signals.
type Service struct {
	store     Store
	notifier  Notifier
	events    EventPublisher
	cache     StatsCache
	metrics   *metrics.Registry
	logger    zerolog.Logger
	threshold decimal.Decimal
}

// New creates a Service. A zero confidence threshold falls back to the
// default of 70.
func New(cfg Config) *Service {
	threshold := cfg.ConfidenceThreshold
	if threshold.IsZero() {
		threshold = DefaultConfidenceThreshold
	}
	return &Service{
		store:     cfg.Store,
		notifier:  cfg.Notifier,
		events:    cfg.Events,
		cache:     cfg.StatsCache,
		metrics:   cfg.Metrics,
		logger:    cfg.Logger.With().Str("component", "signals").Logger(),
		threshold: threshold,
	}
}

// Submit validates and persists an incoming signal submission. The insert is
// attempted exactly once; the notification, event publication and asset
// bookkeeping run after a successful insert and never fail the call.
func (s *Service) Submit(ctx context.Context, sub models.SignalSubmission) (*models.Signal, error) {
	if err := validateSubmission(sub); err != nil {
		return nil, err
	}

	sig := signalFromSubmission(sub)
	if err := s.store.CreateSignal(sig); err != nil {
		return nil, &StorageError{Op: "create signal", Err: err}
	}
	s.metrics.SignalIngested(sig.Direction)
	s.logger.Info().
		Int("id", sig.ID).
		Str("asset", sig.Asset).
		Str("direction", sig.Direction).
		Str("confidence", sig.Confidence.String()).
		Msg("signal stored")

	if s.notifier != nil && sig.Confidence.GreaterThan(s.threshold) {
		s.notifyHighConfidence(ctx, sig)
	}

	if s.events != nil {
		if err := s.events.PublishSignalCreated(ctx, sig); err != nil {
			s.logger.Warn().Err(err).Int("id", sig.ID).Msg("failed to publish signal event")
		}
	}

	if err := s.store.TouchAssetConfig(sig.Asset, sig.CreatedAt); err != nil {
		s.logger.Warn().Err(err).Str("asset", sig.Asset).Msg("failed to update asset config")
	}

	return sig, nil
}

// List returns signals matching the filter, most recent first. The store's
// pushdown path is preferred; otherwise the full set is scanned and filtered
// in memory.
func (s *Service) List(ctx context.Context, f models.SignalListFilter) ([]*models.Signal, error) {
	if lister, ok := s.store.(FilteredLister); ok {
		out, err := lister.ListSignals(f)
		if err != nil {
			return nil, &StorageError{Op: "list signals", Err: err}
		}
		if out == nil {
			out = []*models.Signal{}
		}
		return out, nil
	}

	all, err := s.store.ListAllSignals()
	if err != nil {
		return nil, &StorageError{Op: "list signals", Err: err}
	}
	return Query(all, f), nil
}

// Stats returns summary statistics over the full signal set. A cached copy
// is served when available; cache failures fall back to recomputation.
func (s *Service) Stats(ctx context.Context) (*models.SignalStats, error) {
	if s.cache != nil {
		cached, err := s.cache.GetStats(ctx)
		if err != nil {
			s.logger.Debug().Err(err).Msg("stats cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	var stats *models.SignalStats
	if agg, ok := s.store.(StatsAggregator); ok {
		var err error
		stats, err = agg.GetSignalStats()
		if err != nil {
			return nil, &StorageError{Op: "aggregate signals", Err: err}
		}
	} else {
		all, err := s.store.ListAllSignals()
		if err != nil {
			return nil, &StorageError{Op: "aggregate signals", Err: err}
		}
		stats = Aggregate(all)
	}

	if s.cache != nil {
		if err := s.cache.SetStats(ctx, stats); err != nil {
			s.logger.Debug().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}

// Get retrieves one signal by ID.
func (s *Service) Get(ctx context.Context, id int) (*models.Signal, error) {
	sig, err := s.store.GetSignalByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, &StorageError{Op: "get signal", Err: err}
	}
	return sig, nil
}

// Update applies a partial status/result update to a stored signal.
// Transition legality is not enforced; external updaters are trusted.
func (s *Service) Update(ctx context.Context, id int, u models.SignalUpdate) error {
	var fields []string
	if u.Status != nil && !validStatus(*u.Status) {
		fields = append(fields, "status")
	}
	if u.Result != nil && !validResult(*u.Result) {
		fields = append(fields, "result")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if err := s.store.UpdateSignal(id, u); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return &StorageError{Op: "update signal", Err: err}
	}
	return nil
}

// RecordOutcome stores an execution outcome for a signal. When the entry
// carries a profit figure the parent signal is closed with the matching
// result; the history row itself never mutates the parent beyond that.
func (s *Service) RecordOutcome(ctx context.Context, signalID int, entry *models.SignalHistory) (*models.SignalHistory, error) {
	if _, err := s.store.GetSignalByID(signalID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, &StorageError{Op: "get signal", Err: err}
	}

	entry.SignalID = signalID
	if err := s.store.CreateSignalHistory(entry); err != nil {
		return nil, &StorageError{Op: "create signal history", Err: err}
	}

	if entry.Profit != nil {
		result := models.ResultBreakEven
		switch {
		case entry.Profit.IsPositive():
			result = models.ResultWin
		case entry.Profit.IsNegative():
			result = models.ResultLoss
		}
		status := models.StatusClosed
		if err := s.store.UpdateSignal(signalID, models.SignalUpdate{Status: &status, Result: &result}); err != nil {
			s.logger.Warn().Err(err).Int("signal_id", signalID).Msg("failed to close signal after outcome")
		}
	}
	return entry, nil
}

// History returns the recorded outcomes for a signal.
func (s *Service) History(ctx context.Context, signalID int) ([]*models.SignalHistory, error) {
	history, err := s.store.GetSignalHistoryBySignalID(signalID)
	if err != nil {
		return nil, &StorageError{Op: "list signal history", Err: err}
	}
	if history == nil {
		history = []*models.SignalHistory{}
	}
	return history, nil
}

// Assets returns the monitored asset configurations ordered by symbol.
func (s *Service) Assets(ctx context.Context) ([]*models.AssetConfig, error) {
	configs, err := s.store.ListAssetConfigs()
	if err != nil {
		return nil, &StorageError{Op: "list asset configs", Err: err}
	}
	if configs == nil {
		configs = []*models.AssetConfig{}
	}
	return configs, nil
}

func (s *Service) notifyHighConfidence(ctx context.Context, sig *models.Signal) {
	title := fmt.Sprintf("New high-confidence signal: %s", sig.Asset)
	content := fmt.Sprintf(
		"Direction: %s\nConfidence: %s%%\nStrength: %s%%\nPrice: $%s\nTime: %s",
		strings.ToUpper(sig.Direction),
		sig.Confidence.StringFixed(1),
		sig.Strength.Mul(decimal.NewFromInt(100)).StringFixed(0),
		sig.EntryPrice.StringFixed(5),
		sig.CreatedAt.Format("15:04:05"),
	)

	if err := s.notifier.Notify(ctx, title, content); err != nil {
		s.metrics.NotificationSent(false)
		s.logger.Warn().Err(err).Str("asset", sig.Asset).Msg("notification failed")
		return
	}
	s.metrics.NotificationSent(true)
}

func validateSubmission(sub models.SignalSubmission) error {
	var fields []string
	if sub.Asset == "" {
		fields = append(fields, "asset")
	}
	if sub.Direction != models.DirectionCall && sub.Direction != models.DirectionPut {
		fields = append(fields, "direction")
	}
	if sub.EntryPrice == nil {
		fields = append(fields, "entry_price")
	}
	if sub.Confidence == nil {
		fields = append(fields, "confidence")
	}
	if sub.Strength == nil {
		fields = append(fields, "strength")
	}
	if sub.Reasons == nil {
		fields = append(fields, "reasons")
	}
	if sub.Filters == nil {
		fields = append(fields, "filters")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func signalFromSubmission(sub models.SignalSubmission) *models.Signal {
	timeframe := sub.Timeframe
	if timeframe == "" {
		timeframe = models.DefaultTimeframe
	}
	return &models.Signal{
		Asset:            sub.Asset,
		Direction:        sub.Direction,
		EntryPrice:       *sub.EntryPrice,
		Confidence:       *sub.Confidence,
		Strength:         *sub.Strength,
		Timeframe:        timeframe,
		Status:           models.StatusPending,
		Result:           models.ResultPending,
		EMA9:             sub.EMA9,
		EMA20:            sub.EMA20,
		EMA50:            sub.EMA50,
		RSI:              sub.RSI,
		ADX:              sub.ADX,
		BBUpper:          sub.BBUpper,
		BBMiddle:         sub.BBMiddle,
		BBLower:          sub.BBLower,
		VolumeRatio:      sub.VolumeRatio,
		CandlePattern:    sub.CandlePattern,
		PatternStrength:  sub.PatternStrength,
		Reasons:          sub.Reasons,
		Filters:          sub.Filters,
		SupportLevels:    sub.SupportLevels,
		ResistanceLevels: sub.ResistanceLevels,
	}
}

func validStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusActive, models.StatusClosed, models.StatusExpired:
		return true
	}
	return false
}

func validResult(result string) bool {
	switch result {
	case models.ResultWin, models.ResultLoss, models.ResultBreakEven, models.ResultPending:
		return true
	}
	return false
}
