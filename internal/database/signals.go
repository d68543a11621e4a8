package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tradewatch/signal-service/internal/models"
)

const signalColumns = `id, asset, direction, entry_price, confidence, strength, timeframe,
	       ema_9, ema_20, ema_50, rsi, adx, bb_upper, bb_middle, bb_lower, volume_ratio,
	       candle_pattern, pattern_strength, reasons, filters, support_levels, resistance_levels,
	       status, result, created_at, updated_at`

// CreateSignal inserts a new trading signal and assigns its ID
func (db *DB) CreateSignal(s *models.Signal) error {
	query := `
		INSERT INTO trading_signals (
			asset, direction, entry_price, confidence, strength, timeframe,
			ema_9, ema_20, ema_50, rsi, adx, bb_upper, bb_middle, bb_lower, volume_ratio,
			candle_pattern, pattern_strength, reasons, filters, support_levels, resistance_levels,
			status, result, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25
		)
		RETURNING id
	`
	now := time.Now()
	if s.Timeframe == "" {
		s.Timeframe = models.DefaultTimeframe
	}
	if s.Status == "" {
		s.Status = models.StatusPending
	}
	if s.Result == "" {
		s.Result = models.ResultPending
	}

	reasons, err := encodeReasons(s.Reasons)
	if err != nil {
		return err
	}
	filters, err := encodeFilters(s.Filters)
	if err != nil {
		return err
	}
	support, err := encodeLevels(s.SupportLevels)
	if err != nil {
		return err
	}
	resistance, err := encodeLevels(s.ResistanceLevels)
	if err != nil {
		return err
	}

	err = db.conn.QueryRow(query,
		s.Asset, s.Direction, s.EntryPrice, s.Confidence, s.Strength, s.Timeframe,
		nullDecimal(s.EMA9), nullDecimal(s.EMA20), nullDecimal(s.EMA50),
		nullDecimal(s.RSI), nullDecimal(s.ADX),
		nullDecimal(s.BBUpper), nullDecimal(s.BBMiddle), nullDecimal(s.BBLower),
		nullDecimal(s.VolumeRatio),
		nullString(s.CandlePattern), nullDecimal(s.PatternStrength),
		reasons, filters, support, resistance,
		s.Status, s.Result, now, now,
	).Scan(&s.ID)

	if err != nil {
		return fmt.Errorf("failed to create signal: %w", err)
	}
	s.CreatedAt = now
	s.UpdatedAt = now
	return nil
}

// GetSignalByID retrieves a signal by ID
func (db *DB) GetSignalByID(id int) (*models.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM trading_signals WHERE id = $1`

	s, err := scanSignal(db.conn.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("signal not found: %d: %w", id, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get signal: %w", err)
	}
	return s, nil
}

// ListAllSignals retrieves the full signal set, most recent first
func (db *DB) ListAllSignals() ([]*models.Signal, error) {
	query := `SELECT ` + signalColumns + ` FROM trading_signals ORDER BY created_at DESC, id DESC`
	return db.scanSignals(db.conn.Query(query))
}

// ListSignals retrieves signals matching the filter with the predicate pushed
// down to SQL, sorted most recent first and paged by limit/offset
func (db *DB) ListSignals(f models.SignalListFilter) ([]*models.Signal, error) {
	var conds []string
	var args []interface{}

	if f.Asset != "" {
		args = append(args, f.Asset)
		conds = append(conds, fmt.Sprintf("asset = $%d", len(args)))
	}
	if f.Direction != "" {
		args = append(args, f.Direction)
		conds = append(conds, fmt.Sprintf("direction = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + signalColumns + ` FROM trading_signals`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	limit := f.Limit
	if limit <= 0 {
		limit = models.DefaultListLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))
	args = append(args, offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	return db.scanSignals(db.conn.Query(query, args...))
}

// GetSignalStats aggregates counts and mean confidence across all signals
func (db *DB) GetSignalStats() (*models.SignalStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE direction = 'call'),
		       COUNT(*) FILTER (WHERE direction = 'put'),
		       COALESCE(AVG(confidence), 0)
		FROM trading_signals
	`
	stats := &models.SignalStats{ByAsset: map[string]int{}}
	var avg decimal.Decimal
	err := db.conn.QueryRow(query).Scan(
		&stats.TotalSignals, &stats.CallSignals, &stats.PutSignals, &avg,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get signal stats: %w", err)
	}
	stats.AvgConfidence = avg.Round(2)

	rows, err := db.conn.Query(`SELECT asset, COUNT(*) FROM trading_signals GROUP BY asset`)
	if err != nil {
		return nil, fmt.Errorf("failed to get signal counts by asset: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var asset string
		var count int
		if err := rows.Scan(&asset, &count); err != nil {
			return nil, fmt.Errorf("failed to scan asset count: %w", err)
		}
		stats.ByAsset[asset] = count
	}
	return stats, rows.Err()
}

// UpdateSignal applies a partial update and refreshes updated_at. Nil fields
// are left untouched.
func (db *DB) UpdateSignal(id int, u models.SignalUpdate) error {
	var sets []string
	args := []interface{}{id}

	if u.Status != nil {
		args = append(args, *u.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if u.Result != nil {
		args = append(args, *u.Result)
		sets = append(sets, fmt.Sprintf("result = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, time.Now())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := "UPDATE trading_signals SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	result, err := db.conn.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("failed to update signal: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("signal not found: %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

func (db *DB) scanSignals(rows *sql.Rows, err error) ([]*models.Signal, error) {
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var signals []*models.Signal
	for rows.Next() {
		s, err := scanSignal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		signals = append(signals, s)
	}
	return signals, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSignal(row rowScanner) (*models.Signal, error) {
	var s models.Signal
	var ema9, ema20, ema50, rsi, adx sql.NullString
	var bbUpper, bbMiddle, bbLower, volumeRatio, patternStrength sql.NullString
	var candlePattern sql.NullString
	var reasons, filters, support, resistance sql.NullString

	err := row.Scan(
		&s.ID, &s.Asset, &s.Direction, &s.EntryPrice, &s.Confidence, &s.Strength, &s.Timeframe,
		&ema9, &ema20, &ema50, &rsi, &adx, &bbUpper, &bbMiddle, &bbLower, &volumeRatio,
		&candlePattern, &patternStrength, &reasons, &filters, &support, &resistance,
		&s.Status, &s.Result, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.EMA9 = scanNullDecimal(ema9)
	s.EMA20 = scanNullDecimal(ema20)
	s.EMA50 = scanNullDecimal(ema50)
	s.RSI = scanNullDecimal(rsi)
	s.ADX = scanNullDecimal(adx)
	s.BBUpper = scanNullDecimal(bbUpper)
	s.BBMiddle = scanNullDecimal(bbMiddle)
	s.BBLower = scanNullDecimal(bbLower)
	s.VolumeRatio = scanNullDecimal(volumeRatio)
	s.PatternStrength = scanNullDecimal(patternStrength)
	if candlePattern.Valid {
		s.CandlePattern = candlePattern.String
	}

	if s.Reasons, err = decodeReasons(reasons); err != nil {
		return nil, err
	}
	if s.Filters, err = decodeFilters(filters); err != nil {
		return nil, err
	}
	if s.SupportLevels, err = decodeLevels(support); err != nil {
		return nil, err
	}
	if s.ResistanceLevels, err = decodeLevels(resistance); err != nil {
		return nil, err
	}
	return &s, nil
}

func nullDecimal(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
}

func scanNullDecimal(raw sql.NullString) *decimal.Decimal {
	if !raw.Valid {
		return nil
	}
	d, err := decimal.NewFromString(raw.String)
	if err != nil {
		return nil
	}
	return &d
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
