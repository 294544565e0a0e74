package activity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/modules/performance"
)

const defaultListLimit = 500

// Repository handles activity event persistence in the sales database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
	now func() time.Time
}

// NewRepository creates a new activity repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "activity").Logger(),
		now: time.Now,
	}
}

// Record validates and stores a new event.
func (r *Repository) Record(ctx context.Context, in NewEvent) (*Event, error) {
	if strings.TrimSpace(in.ActorUserID) == "" {
		return nil, fmt.Errorf("%w: actor_user_id is required", ErrInvalidValue)
	}
	if !performance.IsKnownMetric(in.MetricKey) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMetric, in.MetricKey)
	}
	if in.Value != nil && *in.Value < 0 {
		return nil, fmt.Errorf("%w: value must not be negative", ErrInvalidValue)
	}

	now := r.now()
	event := Event{
		ID:          uuid.New().String(),
		ActorUserID: in.ActorUserID,
		MetricKey:   in.MetricKey,
		Value:       in.Value,
		RecordedAt:  in.RecordedAt,
		Source:      in.Source,
		CreatedAt:   now.Truncate(time.Second),
	}
	if event.RecordedAt.IsZero() {
		event.RecordedAt = now
	}
	event.RecordedAt = event.RecordedAt.Truncate(time.Second)
	if event.Source == "" {
		event.Source = SourceManual
	}

	var value interface{}
	if event.Value != nil {
		value = *event.Value
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_events (id, actor_user_id, metric_key, value, recorded_at, source, voided, created_at)
		VALUES (?, ?, ?, ?, ?, ?, 0, ?)
	`, event.ID, event.ActorUserID, event.MetricKey, value, event.RecordedAt.Unix(), event.Source, event.CreatedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to record activity event: %w", err)
	}

	r.log.Debug().
		Str("event_id", event.ID).
		Str("actor", event.ActorUserID).
		Str("metric", event.MetricKey).
		Msg("Activity recorded")

	return &event, nil
}

// Get returns one event by id.
func (r *Repository) Get(ctx context.Context, id string) (*Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, actor_user_id, metric_key, value, recorded_at, source, voided, voided_at, created_at
		FROM activity_events WHERE id = ?
	`, id)

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity event %s: %w", id, err)
	}
	return event, nil
}

// Void marks an event voided. Voiding an already voided event is a no-op.
func (r *Repository) Void(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE activity_events SET voided = 1, voided_at = ?
		WHERE id = ? AND voided = 0
	`, r.now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to void activity event %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to void activity event %s: %w", id, err)
	}
	if affected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return err
		}
		return nil
	}

	r.log.Info().Str("event_id", id).Msg("Activity voided")
	return nil
}

// List returns events matching filter, newest first.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]Event, error) {
	var where []string
	var args []interface{}

	if filter.AdvisorID != "" {
		where = append(where, "actor_user_id = ?")
		args = append(args, filter.AdvisorID)
	}
	if !filter.From.IsZero() {
		where = append(where, "recorded_at >= ?")
		args = append(args, filter.From.Unix())
	}
	if !filter.To.IsZero() {
		where = append(where, "recorded_at < ?")
		args = append(args, filter.To.Unix())
	}
	if !filter.IncludeVoided {
		where = append(where, "voided = 0")
	}

	query := `SELECT id, actor_user_id, metric_key, value, recorded_at, source, voided, voided_at, created_at
		FROM activity_events`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query += " ORDER BY recorded_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity event: %w", err)
		}
		events = append(events, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity events: %w", err)
	}

	return events, nil
}

// ListCounted returns the events that count toward points: non-voided,
// manual-source events of the given advisors recorded in [from, to).
func (r *Repository) ListCounted(ctx context.Context, advisorIDs []string, from, to time.Time) ([]performance.ActivityEvent, error) {
	if len(advisorIDs) == 0 {
		return []performance.ActivityEvent{}, nil
	}

	placeholders := make([]string, len(advisorIDs))
	args := make([]interface{}, 0, len(advisorIDs)+3)
	for i, id := range advisorIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	args = append(args, SourceManual, from.Unix(), to.Unix())

	query := fmt.Sprintf(`
		SELECT id, actor_user_id, metric_key, value, recorded_at
		FROM activity_events
		WHERE actor_user_id IN (%s)
		  AND source = ?
		  AND voided = 0
		  AND recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at
	`, strings.Join(placeholders, ","))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list counted activity: %w", err)
	}
	defer rows.Close()

	events := make([]performance.ActivityEvent, 0)
	for rows.Next() {
		var (
			e          performance.ActivityEvent
			value      sql.NullInt64
			recordedAt int64
		)
		if err := rows.Scan(&e.ID, &e.ActorUserID, &e.MetricKey, &value, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan counted activity: %w", err)
		}
		if value.Valid {
			v := int(value.Int64)
			e.Value = &v
		}
		e.RecordedAt = time.Unix(recordedAt, 0).UTC()
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating counted activity: %w", err)
	}

	return events, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var (
		e          Event
		value      sql.NullInt64
		recordedAt int64
		voided     int
		voidedAt   sql.NullInt64
		createdAt  int64
	)
	if err := row.Scan(&e.ID, &e.ActorUserID, &e.MetricKey, &value, &recordedAt, &e.Source, &voided, &voidedAt, &createdAt); err != nil {
		return nil, err
	}
	if value.Valid {
		v := int(value.Int64)
		e.Value = &v
	}
	e.RecordedAt = time.Unix(recordedAt, 0).UTC()
	e.Voided = voided != 0
	if voidedAt.Valid {
		t := time.Unix(voidedAt.Int64, 0).UTC()
		e.VoidedAt = &t
	}
	e.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &e, nil
}
