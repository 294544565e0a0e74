// Package snapshots persists closing-week stats so later reports can compare
// against a week as it stood when it ended.
package snapshots

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/salesops/advisorpulse/internal/calendar"
	"github.com/salesops/advisorpulse/internal/modules/performance"
)

// Store keeps msgpack-encoded AdvisorWeekStats in the cache database.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// NewStore creates a snapshot store over the cache database.
func NewStore(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{
		db:  db,
		log: log.With().Str("repository", "snapshots").Logger(),
		now: time.Now,
	}
}

// Put stores or replaces the snapshot of stats.AdvisorID for weekStart.
func (s *Store) Put(ctx context.Context, weekStart calendar.Date, stats performance.AdvisorWeekStats) error {
	if stats.AdvisorID == "" {
		return fmt.Errorf("snapshot requires an advisor id")
	}
	stats.WeekStart = weekStart

	payload, err := encode(stats)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO weekly_snapshots (advisor_id, week_start, payload, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(advisor_id, week_start) DO UPDATE SET
			payload = excluded.payload,
			created_at = excluded.created_at
	`, stats.AdvisorID, weekStart.String(), payload, s.now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}
	return nil
}

// Get returns the snapshot of advisorID for weekStart, or nil when none exists.
func (s *Store) Get(ctx context.Context, advisorID string, weekStart calendar.Date) (*performance.AdvisorWeekStats, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT payload FROM weekly_snapshots WHERE advisor_id = ? AND week_start = ?
	`, advisorID, weekStart.String()).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	stats, err := decode(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot of %s for %s: %w", advisorID, weekStart, err)
	}
	return stats, nil
}

// ListWeek returns every stored snapshot of weekStart ordered by advisor id.
// Undecodable rows are skipped and logged.
func (s *Store) ListWeek(ctx context.Context, weekStart calendar.Date) ([]performance.AdvisorWeekStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT advisor_id, payload FROM weekly_snapshots
		WHERE week_start = ?
		ORDER BY advisor_id
	`, weekStart.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	defer rows.Close()

	list := make([]performance.AdvisorWeekStats, 0)
	for rows.Next() {
		var (
			advisorID string
			payload   []byte
		)
		if err := rows.Scan(&advisorID, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		stats, err := decode(payload)
		if err != nil {
			s.log.Warn().Err(err).Str("advisor_id", advisorID).Msg("Skipping undecodable snapshot")
			continue
		}
		list = append(list, *stats)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshots: %w", err)
	}
	return list, nil
}

// Prune deletes snapshots of weeks starting before cutoff.
func (s *Store) Prune(ctx context.Context, cutoff calendar.Date) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM weekly_snapshots WHERE week_start < ?", cutoff.String())
	if err != nil {
		return 0, fmt.Errorf("failed to prune snapshots: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned snapshots: %w", err)
	}
	return n, nil
}

// encode uses the json tags as msgpack field names.
func encode(stats performance.AdvisorWeekStats) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(stats); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(payload []byte) (*performance.AdvisorWeekStats, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(payload))
	dec.SetCustomStructTag("json")

	var stats performance.AdvisorWeekStats
	if err := dec.Decode(&stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
