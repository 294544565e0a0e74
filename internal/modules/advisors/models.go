// Package advisors manages the team roster: who the advisors are and which
// owner (team lead) each one reports to.
package advisors

import (
	"errors"
	"fmt"
	"time"
)

// Roles
const (
	RoleAdvisor = "advisor"
	RoleManager = "manager"
	RoleOwner   = "owner"
)

var (
	// ErrNotFound is returned when an advisor id does not exist.
	ErrNotFound = errors.New("advisor not found")
	// ErrInvalidValue is returned for a missing name or an unknown role.
	ErrInvalidValue = errors.New("invalid advisor")
)

// Advisor is a roster entry.
type Advisor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the fields Upsert relies on.
func (a Advisor) Validate() error {
	if a.ID == "" || a.Name == "" {
		return fmt.Errorf("%w: id and name are required", ErrInvalidValue)
	}
	switch a.Role {
	case RoleAdvisor, RoleManager, RoleOwner:
		return nil
	default:
		return fmt.Errorf("%w: role must be advisor, manager or owner", ErrInvalidValue)
	}
}
