package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tradewatch/signal-service/internal/models"
)

// CreateSignalHistory records one execution outcome for a signal
func (db *DB) CreateSignalHistory(h *models.SignalHistory) error {
	query := `
		INSERT INTO signal_history (
			signal_id, executed_at, amount, entry_price, exit_price,
			profit, profit_percent, duration, notes, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	now := time.Now()
	err := db.conn.QueryRow(query,
		h.SignalID, h.ExecutedAt,
		nullDecimal(h.Amount), nullDecimal(h.EntryPrice), nullDecimal(h.ExitPrice),
		nullDecimal(h.Profit), nullDecimal(h.ProfitPercent),
		h.DurationSeconds, nullString(h.Notes), now, now,
	).Scan(&h.ID)

	if err != nil {
		return fmt.Errorf("failed to create signal history: %w", err)
	}
	h.CreatedAt = now
	h.UpdatedAt = now
	return nil
}

// GetSignalHistoryBySignalID retrieves all outcome rows for a signal
func (db *DB) GetSignalHistoryBySignalID(signalID int) ([]*models.SignalHistory, error) {
	query := `
		SELECT id, signal_id, executed_at, amount, entry_price, exit_price,
		       profit, profit_percent, duration, notes, created_at, updated_at
		FROM signal_history
		WHERE signal_id = $1
		ORDER BY created_at ASC
	`
	rows, err := db.conn.Query(query, signalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query signal history: %w", err)
	}
	defer rows.Close()

	var history []*models.SignalHistory
	for rows.Next() {
		var h models.SignalHistory
		var executedAt sql.NullTime
		var amount, entryPrice, exitPrice, profit, profitPercent sql.NullString
		var duration sql.NullInt64
		var notes sql.NullString

		err := rows.Scan(
			&h.ID, &h.SignalID, &executedAt, &amount, &entryPrice, &exitPrice,
			&profit, &profitPercent, &duration, &notes, &h.CreatedAt, &h.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal history: %w", err)
		}

		if executedAt.Valid {
			h.ExecutedAt = &executedAt.Time
		}
		h.Amount = scanNullDecimal(amount)
		h.EntryPrice = scanNullDecimal(entryPrice)
		h.ExitPrice = scanNullDecimal(exitPrice)
		h.Profit = scanNullDecimal(profit)
		h.ProfitPercent = scanNullDecimal(profitPercent)
		if duration.Valid {
			d := int(duration.Int64)
			h.DurationSeconds = &d
		}
		if notes.Valid {
			h.Notes = notes.String
		}

		history = append(history, &h)
	}
	return history, rows.Err()
}
