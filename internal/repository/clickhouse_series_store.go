package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"MacroSignal/internal/domain/models"
	domrepo "MacroSignal/internal/domain/repository"
	applogger "MacroSignal/pkg/logger"
)

// ClickHouseSeriesStore reads observation series from ClickHouse. It serves
// as both the raw series provider and the volatility index provider.
type ClickHouseSeriesStore struct {
	db        *sql.DB
	table     string
	vixSymbol string
	vixMetric string
	l         *applogger.Logger
}

// NewClickHouseSeriesStore creates a series store over an observations table.
func NewClickHouseSeriesStore(db *sql.DB, table, vixSymbol, vixMetric string, l *applogger.Logger) *ClickHouseSeriesStore {
	return &ClickHouseSeriesStore{
		db:        db,
		table:     table,
		vixSymbol: vixSymbol,
		vixMetric: vixMetric,
		l:         l,
	}
}

// Schema returns the idempotent DDL for the observations table.
func Schema(database, table string) []string {
	return []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.%s (
			symbol String,
			metric String,
			asset_class String,
			obs_date Date,
			value Float64
		) ENGINE=ReplacingMergeTree ORDER BY (symbol, metric, obs_date)`, database, table),
	}
}

// FetchSeries returns all observations for one series, oldest first. Values
// are returned as stored; non-finite entries are the engine's concern.
func (s *ClickHouseSeriesStore) FetchSeries(ctx context.Context, symbol, metric string, assetClass models.AssetClass) ([]float64, error) {
	start := time.Now()
	q := fmt.Sprintf(`
        SELECT value
        FROM %s
        WHERE symbol = ? AND metric = ? AND asset_class = ?
        ORDER BY obs_date ASC
    `, s.table)

	rows, err := s.db.QueryContext(ctx, q, symbol, metric, string(assetClass))
	if err != nil {
		s.l.Error("clickhouse fetch_series query error",
			applogger.String("symbol", symbol),
			applogger.String("metric", metric),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("fetch series: %w", err)
	}
	defer rows.Close()

	values := make([]float64, 0, 1024)
	for rows.Next() {
		var v float64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan value: %w", err)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fetch series rows: %w", err)
	}

	s.l.Debug("series fetched",
		applogger.String("symbol", symbol),
		applogger.String("metric", metric),
		applogger.Int("points", len(values)),
		applogger.Duration("elapsed", time.Since(start)),
	)
	return values, nil
}

// CurrentVix returns the most recent volatility index observation.
func (s *ClickHouseSeriesStore) CurrentVix(ctx context.Context) (float64, error) {
	q := fmt.Sprintf(`
        SELECT value
        FROM %s
        WHERE symbol = ? AND metric = ?
        ORDER BY obs_date DESC
        LIMIT 1
    `, s.table)

	var v float64
	if err := s.db.QueryRowContext(ctx, q, s.vixSymbol, s.vixMetric).Scan(&v); err != nil {
		if err == sql.ErrNoRows {
			return 0, fmt.Errorf("no volatility index observations for %s", s.vixSymbol)
		}
		return 0, fmt.Errorf("current vix: %w", err)
	}
	return v, nil
}

// Health pings the backing database.
func (s *ClickHouseSeriesStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

var (
	_ domrepo.SeriesProvider = (*ClickHouseSeriesStore)(nil)
	_ domrepo.VixProvider    = (*ClickHouseSeriesStore)(nil)
)
