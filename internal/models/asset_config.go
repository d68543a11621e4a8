package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Monitoring flag constants
const (
	MonitoredYes = "yes"
	MonitoredNo  = "no"
)

// AssetConfig holds per-asset monitoring state. One row per asset symbol,
// upserted by symbol.
type AssetConfig struct {
	ID           int             `json:"id"`
	Asset        string          `json:"asset"`
	Name         string          `json:"name,omitempty"`
	IsMonitored  string          `json:"is_monitored"`
	Category     string          `json:"category,omitempty"`
	LastSignalAt *time.Time      `json:"last_signal_at,omitempty"`
	TotalSignals int             `json:"total_signals"`
	WinRate      decimal.Decimal `json:"win_rate"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
