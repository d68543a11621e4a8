package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event type constants
const (
	EventTypeSignalDetected = "SIGNAL_DETECTED"
	EventTypeSignalCreated  = "SIGNAL_CREATED"
)

// SignalSubmission is the shape the robot delivers, over HTTP or Kafka.
// Required numeric fields are pointers so a missing field is distinguishable
// from an explicit zero.
type SignalSubmission struct {
	Asset      string           `json:"asset"`
	Direction  string           `json:"direction"`
	EntryPrice *decimal.Decimal `json:"entry_price"`
	Confidence *decimal.Decimal `json:"confidence"`
	Strength   *decimal.Decimal `json:"strength"`
	Timeframe  string           `json:"timeframe,omitempty"`

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
}

// SignalEvent is the Kafka envelope for signal traffic. SIGNAL_DETECTED
// events carry a submission; SIGNAL_CREATED events carry the stored signal.
type SignalEvent struct {
	EventType  string            `json:"event_type"`
	EventID    string            `json:"event_id,omitempty"`
	Asset      string            `json:"asset"`
	Submission *SignalSubmission `json:"submission,omitempty"`
	Signal     *Signal           `json:"signal,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
}
