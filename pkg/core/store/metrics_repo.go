package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"fact_resolution/pkg/core/ttm"
)

// MetricsRepo persists computed TTM metrics and trend series. Results
// are cheap to recompute, so this is a convenience layer for dashboards
// querying "last known TTM revenue" without re-running the engine.
type MetricsRepo struct{}

// NewMetricsRepo creates a new repository instance.
func NewMetricsRepo() *MetricsRepo {
	return &MetricsRepo{}
}

// Schema assumption:
// CREATE TABLE IF NOT EXISTS ttm_metrics (
//   ticker TEXT NOT NULL,
//   concept TEXT NOT NULL,
//   metric_json JSONB,
//   trend_json JSONB,
//   updated_at TIMESTAMPTZ,
//   PRIMARY KEY (ticker, concept)
// );

// Save upserts a metric (and optionally its trend rows) keyed by ticker
// and concept.
func (r *MetricsRepo) Save(ctx context.Context, ticker string, metric *ttm.Metric, trend []ttm.TrendRow) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}
	if metric == nil {
		return fmt.Errorf("metric must not be nil")
	}

	metricJSON, err := json.Marshal(metric)
	if err != nil {
		return fmt.Errorf("failed to marshal metric: %w", err)
	}
	var trendJSON []byte
	if trend != nil {
		trendJSON, err = json.Marshal(trend)
		if err != nil {
			return fmt.Errorf("failed to marshal trend: %w", err)
		}
	}

	query := `
		INSERT INTO ttm_metrics (ticker, concept, metric_json, trend_json, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ticker, concept)
		DO UPDATE SET metric_json = $3, trend_json = $4, updated_at = $5
	`
	_, err = pool.Exec(ctx, query, ticker, metric.Concept, metricJSON, trendJSON, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save metric for %s/%s: %w", ticker, metric.Concept, err)
	}
	return nil
}

// Get loads the stored metric for a ticker and concept. Returns
// (nil, nil) when no row exists.
func (r *MetricsRepo) Get(ctx context.Context, ticker, concept string) (*ttm.Metric, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	var metricJSON []byte
	query := `SELECT metric_json FROM ttm_metrics WHERE ticker = $1 AND concept = $2`
	err := pool.QueryRow(ctx, query, ticker, concept).Scan(&metricJSON)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load metric for %s/%s: %w", ticker, concept, err)
	}

	var metric ttm.Metric
	if err := json.Unmarshal(metricJSON, &metric); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stored metric: %w", err)
	}
	return &metric, nil
}
