package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction constants
const (
	DirectionCall = "call"
	DirectionPut  = "put"
)

// Status constants
const (
	StatusPending = "pending"
	StatusActive  = "active"
	StatusClosed  = "closed"
	StatusExpired = "expired"
)

// Result constants
const (
	ResultWin       = "win"
	ResultLoss      = "loss"
	ResultBreakEven = "break_even"
	ResultPending   = "pending"
)

// DefaultTimeframe is applied when a submission carries no timeframe.
const DefaultTimeframe = "1M"

// DefaultListLimit is the page size used when a listing omits limit.
const DefaultListLimit = 50

// Signal represents one detected trading opportunity as delivered by the robot
type Signal struct {
	ID         int             `json:"id"`
	Asset      string          `json:"asset"`
	Direction  string          `json:"direction"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	Confidence decimal.Decimal `json:"confidence"` // 0-100
	Strength   decimal.Decimal `json:"strength"`   // 0-1
	Timeframe  string          `json:"timeframe"`

	// Technical indicator snapshot, all optional
	EMA9        *decimal.Decimal `json:"ema_9,omitempty"`
	EMA20       *decimal.Decimal `json:"ema_20,omitempty"`
	EMA50       *decimal.Decimal `json:"ema_50,omitempty"`
	RSI         *decimal.Decimal `json:"rsi,omitempty"`
	ADX         *decimal.Decimal `json:"adx,omitempty"`
	BBUpper     *decimal.Decimal `json:"bb_upper,omitempty"`
	BBMiddle    *decimal.Decimal `json:"bb_middle,omitempty"`
	BBLower     *decimal.Decimal `json:"bb_lower,omitempty"`
	VolumeRatio *decimal.Decimal `json:"volume_ratio,omitempty"`

	CandlePattern   string           `json:"candle_pattern,omitempty"`
	PatternStrength *decimal.Decimal `json:"pattern_strength,omitempty"`

	Reasons          []string          `json:"reasons"`
	Filters          map[string]bool   `json:"filters"`
	SupportLevels    []decimal.Decimal `json:"support_levels,omitempty"`
	ResistanceLevels []decimal.Decimal `json:"resistance_levels,omitempty"`

	Status    string    `json:"status"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SignalUpdate describes a partial mutation of a stored signal.
// Nil fields are left untouched.
type SignalUpdate struct {
	Status *string `json:"status,omitempty"`
	Result *string `json:"result,omitempty"`
}

// SignalListFilter narrows and pages a signal listing. Zero-value string
// fields impose no constraint.
type SignalListFilter struct {
	Asset     string `json:"asset,omitempty"`
	Direction string `json:"direction,omitempty"`
	Status    string `json:"status,omitempty"`
	Limit     int    `json:"limit,omitempty"`
	Offset    int    `json:"offset,omitempty"`
}

// SignalStats summarises the full signal set
type SignalStats struct {
	TotalSignals  int             `json:"total_signals"`
	CallSignals   int             `json:"call_signals"`
	PutSignals    int             `json:"put_signals"`
	AvgConfidence decimal.Decimal `json:"avg_confidence"`
	ByAsset       map[string]int  `json:"by_asset"`
}
