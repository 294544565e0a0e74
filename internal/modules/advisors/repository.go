package advisors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const advisorColumns = "id, name, owner_id, role, active, created_at, updated_at"

// Repository handles roster persistence in the sales database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new advisor repository.
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repository", "advisors").Logger(),
	}
}

// Get returns one advisor by id.
func (r *Repository) Get(ctx context.Context, id string) (*Advisor, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+advisorColumns+" FROM advisors WHERE id = ?", id)
	advisor, err := scanAdvisor(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get advisor %s: %w", id, err)
	}
	return advisor, nil
}

// ListByOwner returns the active advisors of an owner's team ordered by name.
func (r *Repository) ListByOwner(ctx context.Context, ownerID string) ([]Advisor, error) {
	return r.query(ctx, `
		SELECT `+advisorColumns+` FROM advisors
		WHERE owner_id = ? AND active = 1 AND role = ?
		ORDER BY name, id
	`, ownerID, RoleAdvisor)
}

// ListActive returns every active advisor ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]Advisor, error) {
	return r.query(ctx, `
		SELECT `+advisorColumns+` FROM advisors
		WHERE active = 1 AND role = ?
		ORDER BY name, id
	`, RoleAdvisor)
}

// ListAll returns the full roster, including inactive entries and leads.
func (r *Repository) ListAll(ctx context.Context) ([]Advisor, error) {
	return r.query(ctx, "SELECT "+advisorColumns+" FROM advisors ORDER BY name, id")
}

// Upsert inserts or updates a roster entry.
func (r *Repository) Upsert(ctx context.Context, a Advisor) error {
	if a.Role == "" {
		a.Role = RoleAdvisor
	}
	if err := a.Validate(); err != nil {
		return err
	}

	now := time.Now().Unix()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO advisors (id, name, owner_id, role, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			owner_id = excluded.owner_id,
			role = excluded.role,
			active = excluded.active,
			updated_at = excluded.updated_at
	`, a.ID, a.Name, a.OwnerID, a.Role, boolToInt(a.Active), now, now)
	if err != nil {
		return fmt.Errorf("failed to upsert advisor %s: %w", a.ID, err)
	}

	r.log.Info().Str("advisor_id", a.ID).Str("owner_id", a.OwnerID).Bool("active", a.Active).Msg("Advisor saved")
	return nil
}

func (r *Repository) query(ctx context.Context, query string, args ...interface{}) ([]Advisor, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list advisors: %w", err)
	}
	defer rows.Close()

	advisors := make([]Advisor, 0)
	for rows.Next() {
		advisor, err := scanAdvisor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advisor: %w", err)
		}
		advisors = append(advisors, *advisor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating advisors: %w", err)
	}
	return advisors, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAdvisor(row rowScanner) (*Advisor, error) {
	var (
		a                    Advisor
		active               int
		createdAt, updatedAt int64
	)
	if err := row.Scan(&a.ID, &a.Name, &a.OwnerID, &a.Role, &active, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	a.Active = active != 0
	a.CreatedAt = time.Unix(createdAt, 0).UTC()
	a.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return &a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
