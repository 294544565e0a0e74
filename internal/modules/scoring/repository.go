package scoring

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/modules/performance"
)

// MetricScoreRepository handles points-per-unit configuration.
type MetricScoreRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewMetricScoreRepository creates a metric score repository.
func NewMetricScoreRepository(db *sql.DB, log zerolog.Logger) *MetricScoreRepository {
	return &MetricScoreRepository{
		db:  db,
		log: log.With().Str("repository", "metric_scores").Logger(),
	}
}

// ListScores returns every configured metric score ordered by key.
func (r *MetricScoreRepository) ListScores(ctx context.Context) ([]performance.MetricScore, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT metric_key, points_per_unit FROM metric_scores ORDER BY metric_key")
	if err != nil {
		return nil, fmt.Errorf("failed to list metric scores: %w", err)
	}
	defer rows.Close()

	scores := make([]performance.MetricScore, 0)
	for rows.Next() {
		var s performance.MetricScore
		if err := rows.Scan(&s.MetricKey, &s.PointsPerUnit); err != nil {
			return nil, fmt.Errorf("failed to scan metric score: %w", err)
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metric scores: %w", err)
	}

	return scores, nil
}

// SetScore inserts or updates the points per unit of a metric.
func (r *MetricScoreRepository) SetScore(ctx context.Context, metric string, points int) error {
	if !performance.IsKnownMetric(metric) {
		return fmt.Errorf("%w: %q", ErrInvalidMetric, metric)
	}
	if points < 0 {
		return fmt.Errorf("%w: points per unit must not be negative", ErrInvalidValue)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO metric_scores (metric_key, points_per_unit, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(metric_key) DO UPDATE SET
			points_per_unit = excluded.points_per_unit,
			updated_at = excluded.updated_at
	`, metric, points, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set score for %s: %w", metric, err)
	}

	r.log.Info().Str("metric", metric).Int("points_per_unit", points).Msg("Metric score updated")
	return nil
}

// MinimumsRepository handles per-owner weekly minimum overrides.
type MinimumsRepository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewMinimumsRepository creates a weekly minimums repository.
func NewMinimumsRepository(db *sql.DB, log zerolog.Logger) *MinimumsRepository {
	return &MinimumsRepository{
		db:  db,
		log: log.With().Str("repository", "weekly_minimums").Logger(),
	}
}

// Overrides returns the stored overrides of an owner.
func (r *MinimumsRepository) Overrides(ctx context.Context, ownerID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT metric_key, minimum FROM weekly_minimums WHERE owner_id = ?", ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list minimums for %s: %w", ownerID, err)
	}
	defer rows.Close()

	overrides := make(map[string]int)
	for rows.Next() {
		var key string
		var min int
		if err := rows.Scan(&key, &min); err != nil {
			return nil, fmt.Errorf("failed to scan minimum: %w", err)
		}
		overrides[key] = min
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating minimums: %w", err)
	}

	return overrides, nil
}

// Resolve returns the owner's effective minimums: each override replaces the
// default of its metric, other metrics keep the default.
func (r *MinimumsRepository) Resolve(ctx context.Context, ownerID string) (performance.WeeklyMinimums, error) {
	overrides, err := r.Overrides(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return performance.ResolveMinimums(overrides), nil
}

// Describe returns the resolved minimums with their defaults, ordered like
// performance.KnownMetrics.
func (r *MinimumsRepository) Describe(ctx context.Context, ownerID string) ([]ResolvedMinimum, error) {
	overrides, err := r.Overrides(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	resolved := performance.ResolveMinimums(overrides)
	defaults := performance.DefaultWeeklyMinimums()

	out := make([]ResolvedMinimum, 0, len(performance.KnownMetrics))
	for _, metric := range performance.KnownMetrics {
		_, overridden := overrides[metric]
		out = append(out, ResolvedMinimum{
			MetricKey:  metric,
			Minimum:    resolved[metric],
			Default:    defaults[metric],
			Overridden: overridden,
		})
	}
	return out, nil
}

// SetOverride stores an owner's minimum for a metric. A minimum of 0 means
// the metric has no minimum for that team.
func (r *MinimumsRepository) SetOverride(ctx context.Context, o MinimumOverride) error {
	if !performance.IsKnownMetric(o.MetricKey) {
		return fmt.Errorf("%w: %q", ErrInvalidMetric, o.MetricKey)
	}
	if o.Minimum < 0 {
		return fmt.Errorf("%w: minimum must not be negative", ErrInvalidValue)
	}
	if o.OwnerID == "" {
		return fmt.Errorf("%w: owner_id is required", ErrInvalidValue)
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO weekly_minimums (owner_id, metric_key, minimum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(owner_id, metric_key) DO UPDATE SET
			minimum = excluded.minimum,
			updated_at = excluded.updated_at
	`, o.OwnerID, o.MetricKey, o.Minimum, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to set minimum %s for %s: %w", o.MetricKey, o.OwnerID, err)
	}

	r.log.Info().
		Str("owner_id", o.OwnerID).
		Str("metric", o.MetricKey).
		Int("minimum", o.Minimum).
		Msg("Weekly minimum updated")
	return nil
}

// ClearOverride removes an owner's override so the default applies again.
func (r *MinimumsRepository) ClearOverride(ctx context.Context, ownerID, metric string) error {
	if _, err := r.db.ExecContext(ctx,
		"DELETE FROM weekly_minimums WHERE owner_id = ? AND metric_key = ?", ownerID, metric,
	); err != nil {
		return fmt.Errorf("failed to clear minimum %s for %s: %w", metric, ownerID, err)
	}
	return nil
}
