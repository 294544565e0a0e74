package advisors

import (
	"context"
	"errors"

	"github.com/salesops/advisorpulse/internal/modules/performance"
)

// Roster exposes the repository to the performance service.
type Roster struct {
	repo *Repository
}

// NewRoster wraps repo as a performance.RosterSource.
func NewRoster(repo *Repository) *Roster {
	return &Roster{repo: repo}
}

// GetAdvisor returns performance.ErrAdvisorNotFound for unknown ids.
func (r *Roster) GetAdvisor(ctx context.Context, id string) (*performance.Advisor, error) {
	a, err := r.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, performance.ErrAdvisorNotFound
	}
	if err != nil {
		return nil, err
	}
	advisor := toPerformance(*a)
	return &advisor, nil
}

// ListTeam returns the active advisors of ownerID.
func (r *Roster) ListTeam(ctx context.Context, ownerID string) ([]performance.Advisor, error) {
	list, err := r.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return convert(list), nil
}

// ListActive returns every active advisor.
func (r *Roster) ListActive(ctx context.Context) ([]performance.Advisor, error) {
	list, err := r.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return convert(list), nil
}

func convert(list []Advisor) []performance.Advisor {
	out := make([]performance.Advisor, len(list))
	for i, a := range list {
		out[i] = toPerformance(a)
	}
	return out
}

func toPerformance(a Advisor) performance.Advisor {
	return performance.Advisor{ID: a.ID, Name: a.Name, OwnerID: a.OwnerID}
}
