package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tradewatch/signal-service/internal/models"
)

// TouchAssetConfig records that a signal arrived for an asset: inserts the
// row if absent, otherwise bumps total_signals and last_signal_at. Single
// statement, so concurrent submissions cannot lose an increment.
func (db *DB) TouchAssetConfig(asset string, at time.Time) error {
	query := `
		INSERT INTO asset_configs (
			asset, is_monitored, last_signal_at, total_signals, win_rate, created_at, updated_at
		) VALUES ($1, $2, $3, 1, 0, $3, $3)
		ON CONFLICT (asset) DO UPDATE SET
			last_signal_at = EXCLUDED.last_signal_at,
			total_signals = asset_configs.total_signals + 1,
			updated_at = EXCLUDED.updated_at
	`
	_, err := db.conn.Exec(query, asset, models.MonitoredYes, at)
	if err != nil {
		return fmt.Errorf("failed to touch asset config: %w", err)
	}
	return nil
}

// UpsertAssetConfig inserts or replaces the configuration for an asset
func (db *DB) UpsertAssetConfig(c *models.AssetConfig) error {
	query := `
		INSERT INTO asset_configs (
			asset, name, is_monitored, category, last_signal_at,
			total_signals, win_rate, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (asset) DO UPDATE SET
			name = EXCLUDED.name,
			is_monitored = EXCLUDED.is_monitored,
			category = EXCLUDED.category,
			win_rate = EXCLUDED.win_rate,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`
	now := time.Now()
	if c.IsMonitored == "" {
		c.IsMonitored = models.MonitoredYes
	}

	err := db.conn.QueryRow(query,
		c.Asset, nullString(c.Name), c.IsMonitored, nullString(c.Category),
		c.LastSignalAt, c.TotalSignals, c.WinRate, now,
	).Scan(&c.ID)

	if err != nil {
		return fmt.Errorf("failed to upsert asset config: %w", err)
	}
	c.UpdatedAt = now
	return nil
}

// GetAssetConfigByAsset retrieves one asset configuration
func (db *DB) GetAssetConfigByAsset(asset string) (*models.AssetConfig, error) {
	query := `
		SELECT id, asset, name, is_monitored, category, last_signal_at,
		       total_signals, win_rate, created_at, updated_at
		FROM asset_configs
		WHERE asset = $1
	`
	c, err := scanAssetConfig(db.conn.QueryRow(query, asset))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("asset config not found: %s: %w", asset, sql.ErrNoRows)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset config: %w", err)
	}
	return c, nil
}

// ListAssetConfigs retrieves all asset configurations ordered by symbol
func (db *DB) ListAssetConfigs() ([]*models.AssetConfig, error) {
	query := `
		SELECT id, asset, name, is_monitored, category, last_signal_at,
		       total_signals, win_rate, created_at, updated_at
		FROM asset_configs
		ORDER BY asset ASC
	`
	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query asset configs: %w", err)
	}
	defer rows.Close()

	var configs []*models.AssetConfig
	for rows.Next() {
		c, err := scanAssetConfig(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset config: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

func scanAssetConfig(row rowScanner) (*models.AssetConfig, error) {
	var c models.AssetConfig
	var name, category sql.NullString
	var lastSignalAt sql.NullTime

	err := row.Scan(
		&c.ID, &c.Asset, &name, &c.IsMonitored, &category, &lastSignalAt,
		&c.TotalSignals, &c.WinRate, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if name.Valid {
		c.Name = name.String
	}
	if category.Valid {
		c.Category = category.String
	}
	if lastSignalAt.Valid {
		c.LastSignalAt = &lastSignalAt.Time
	}
	return &c, nil
}
