package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignalHistory records the real-world outcome of one executed signal.
// It references the parent signal by ID only; there is no lifecycle coupling.
type SignalHistory struct {
	ID              int              `json:"id"`
	SignalID        int              `json:"signal_id"`
	ExecutedAt      *time.Time       `json:"executed_at,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	EntryPrice      *decimal.Decimal `json:"entry_price,omitempty"`
	ExitPrice       *decimal.Decimal `json:"exit_price,omitempty"`
	Profit          *decimal.Decimal `json:"profit,omitempty"`
	ProfitPercent   *decimal.Decimal `json:"profit_percent,omitempty"`
	DurationSeconds *int             `json:"duration,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
