// Package activity stores the advisor activity log: one row per logged unit
// batch (calls made, meetings set, ...). Voided rows and rows from automated
// sources are kept for audit but never count toward points.
package activity

import (
	"errors"
	"time"
)

// Event sources. Only manual events count toward points.
const (
	SourceManual = "manual"
	SourceImport = "import"
	SourceSystem = "system"
)

var (
	// ErrNotFound is returned when an event id does not exist.
	ErrNotFound = errors.New("activity event not found")
	// ErrInvalidMetric is returned for metric keys outside the vocabulary.
	ErrInvalidMetric = errors.New("invalid metric key")
	// ErrInvalidValue is returned for negative values or a missing actor.
	ErrInvalidValue = errors.New("invalid activity value")
)

// Event is a stored activity row.
type Event struct {
	ID          string     `json:"id"`
	ActorUserID string     `json:"actor_user_id"`
	MetricKey   string     `json:"metric_key"`
	Value       *int       `json:"value"`
	RecordedAt  time.Time  `json:"recorded_at"`
	Source      string     `json:"source"`
	Voided      bool       `json:"voided"`
	VoidedAt    *time.Time `json:"voided_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewEvent is the input to Repository.Record.
type NewEvent struct {
	ActorUserID string    `json:"actor_user_id"`
	MetricKey   string    `json:"metric_key"`
	Value       *int      `json:"value"`
	RecordedAt  time.Time `json:"recorded_at"` // zero means now
	Source      string    `json:"source"`      // empty means manual
}

// ListFilter narrows Repository.List. Zero fields are ignored.
type ListFilter struct {
	AdvisorID     string
	From          time.Time // inclusive
	To            time.Time // exclusive
	IncludeVoided bool
	Limit         int
}
