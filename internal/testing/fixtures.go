package testing

import (
	"database/sql"
	"testing"
	"time"
)

// AdvisorFixture is a roster row inserted by SeedAdvisors.
type AdvisorFixture struct {
	ID      string
	Name    string
	OwnerID string
	Role    string
	Active  bool
}

// NewTeamFixtures returns one owner with three advisors, one of them inactive.
func NewTeamFixtures() []AdvisorFixture {
	return []AdvisorFixture{
		{ID: "owner-1", Name: "Olga Treviño", OwnerID: "", Role: "owner", Active: true},
		{ID: "adv-1", Name: "Ana Garza", OwnerID: "owner-1", Role: "advisor", Active: true},
		{ID: "adv-2", Name: "Bruno Salinas", OwnerID: "owner-1", Role: "advisor", Active: true},
		{ID: "adv-3", Name: "Carla Ríos", OwnerID: "owner-1", Role: "advisor", Active: false},
	}
}

// SeedAdvisors inserts roster rows into a sales database.
func SeedAdvisors(t *testing.T, db *sql.DB, advisors []AdvisorFixture) {
	t.Helper()
	now := time.Now().Unix()
	for _, a := range advisors {
		role := a.Role
		if role == "" {
			role = "advisor"
		}
		_, err := db.Exec(`
			INSERT INTO advisors (id, name, owner_id, role, active, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, a.ID, a.Name, a.OwnerID, role, boolToInt(a.Active), now, now)
		if err != nil {
			t.Fatalf("Failed to seed advisor %s: %v", a.ID, err)
		}
	}
}

// EventFixture is an activity row inserted by SeedEvents.
type EventFixture struct {
	ID          string
	ActorUserID string
	MetricKey   string
	Value       *int
	RecordedAt  time.Time
	Source      string
	Voided      bool
}

// SeedEvents inserts activity rows into a sales database, bypassing validation.
func SeedEvents(t *testing.T, db *sql.DB, events []EventFixture) {
	t.Helper()
	for _, e := range events {
		source := e.Source
		if source == "" {
			source = "manual"
		}
		var value interface{}
		if e.Value != nil {
			value = *e.Value
		}
		_, err := db.Exec(`
			INSERT INTO activity_events (id, actor_user_id, metric_key, value, recorded_at, source, voided, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, e.ID, e.ActorUserID, e.MetricKey, value, e.RecordedAt.Unix(), source, boolToInt(e.Voided), e.RecordedAt.Unix())
		if err != nil {
			t.Fatalf("Failed to seed event %s: %v", e.ID, err)
		}
	}
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int {
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
