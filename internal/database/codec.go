package database

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// The robot's structured fields (reasons, applied filters, support and
// resistance levels) are stored as JSON text columns. Encoding and decoding
// must round-trip exactly; decimals stay in string form end to end.

func encodeReasons(reasons []string) (string, error) {
	if reasons == nil {
		reasons = []string{}
	}
	data, err := json.Marshal(reasons)
	if err != nil {
		return "", fmt.Errorf("failed to encode reasons: %w", err)
	}
	return string(data), nil
}

func decodeReasons(raw sql.NullString) ([]string, error) {
	if !raw.Valid || raw.String == "" {
		return []string{}, nil
	}
	var reasons []string
	if err := json.Unmarshal([]byte(raw.String), &reasons); err != nil {
		return nil, fmt.Errorf("failed to decode reasons: %w", err)
	}
	return reasons, nil
}

func encodeFilters(filters map[string]bool) (string, error) {
	if filters == nil {
		filters = map[string]bool{}
	}
	data, err := json.Marshal(filters)
	if err != nil {
		return "", fmt.Errorf("failed to encode filters: %w", err)
	}
	return string(data), nil
}

func decodeFilters(raw sql.NullString) (map[string]bool, error) {
	if !raw.Valid || raw.String == "" {
		return map[string]bool{}, nil
	}
	filters := map[string]bool{}
	if err := json.Unmarshal([]byte(raw.String), &filters); err != nil {
		return nil, fmt.Errorf("failed to decode filters: %w", err)
	}
	return filters, nil
}

// encodeLevels serialises price levels, keeping nil (absent) distinct from
// an empty sequence.
func encodeLevels(levels []decimal.Decimal) (sql.NullString, error) {
	if levels == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(levels)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode levels: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeLevels(raw sql.NullString) ([]decimal.Decimal, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	var levels []decimal.Decimal
	if err := json.Unmarshal([]byte(raw.String), &levels); err != nil {
		return nil, fmt.Errorf("failed to decode levels: %w", err)
	}
	return levels, nil
}
