package scoring

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/advisorpulse/internal/modules/performance"
	testingutil "github.com/salesops/advisorpulse/internal/testing"
)

func TestMetricScoreRepository(t *testing.T) {
	db := testingutil.NewMemoryDB(t, "sales")
	repo := NewMetricScoreRepository(db, zerolog.Nop())
	ctx := context.Background()

	scores, err := repo.ListScores(ctx)
	require.NoError(t, err)
	assert.Len(t, scores, 7, "schema seeds a score for every metric")

	require.NoError(t, repo.SetScore(ctx, performance.MetricCalls, 2))
	assert.ErrorIs(t, repo.SetScore(ctx, "naps", 2), ErrInvalidMetric)
	assert.ErrorIs(t, repo.SetScore(ctx, performance.MetricCalls, -1), ErrInvalidValue)

	scores, err = repo.ListScores(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, performance.BuildScoreMap(scores).Points(performance.MetricCalls))
}

func TestMinimumsRepository_Resolve(t *testing.T) {
	db := testingutil.NewMemoryDB(t, "sales")
	repo := NewMinimumsRepository(db, zerolog.Nop())
	ctx := context.Background()

	resolved, err := repo.Resolve(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, performance.DefaultWeeklyMinimums(), resolved)

	require.NoError(t, repo.SetOverride(ctx, MinimumOverride{OwnerID: "owner-1", MetricKey: performance.MetricCalls, Minimum: 50}))
	require.NoError(t, repo.SetOverride(ctx, MinimumOverride{OwnerID: "owner-1", MetricKey: performance.MetricReferrals, Minimum: 0}))
	require.NoError(t, repo.SetOverride(ctx, MinimumOverride{OwnerID: "owner-2", MetricKey: performance.MetricCalls, Minimum: 10}))

	resolved, err = repo.Resolve(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 50, resolved[performance.MetricCalls])
	assert.Equal(t, 0, resolved[performance.MetricReferrals], "a zero override is kept")
	assert.Equal(t, 10, resolved[performance.MetricMeetingsSet], "unset metrics keep the default")

	_, hasMinimum := resolved.Minimum(performance.MetricReferrals)
	assert.False(t, hasMinimum)

	require.NoError(t, repo.ClearOverride(ctx, "owner-1", performance.MetricCalls))
	resolved, err = repo.Resolve(ctx, "owner-1")
	require.NoError(t, err)
	assert.Equal(t, 30, resolved[performance.MetricCalls])
}

func TestMinimumsRepository_Validation(t *testing.T) {
	db := testingutil.NewMemoryDB(t, "sales")
	repo := NewMinimumsRepository(db, zerolog.Nop())
	ctx := context.Background()

	assert.ErrorIs(t, repo.SetOverride(ctx, MinimumOverride{OwnerID: "o", MetricKey: "naps", Minimum: 1}), ErrInvalidMetric)
	assert.ErrorIs(t, repo.SetOverride(ctx, MinimumOverride{OwnerID: "o", MetricKey: performance.MetricCalls, Minimum: -3}), ErrInvalidValue)
	assert.ErrorIs(t, repo.SetOverride(ctx, MinimumOverride{MetricKey: performance.MetricCalls, Minimum: 3}), ErrInvalidValue)
}

func TestMinimumsRepository_Describe(t *testing.T) {
	db := testingutil.NewMemoryDB(t, "sales")
	repo := NewMinimumsRepository(db, zerolog.Nop())
	ctx := context.Background()
	require.NoError(t, repo.SetOverride(ctx, MinimumOverride{OwnerID: "owner-1", MetricKey: performance.MetricPoliciesPaid, Minimum: 2}))

	described, err := repo.Describe(ctx, "owner-1")
	require.NoError(t, err)
	require.Len(t, described, len(performance.KnownMetrics))

	for _, m := range described {
		if m.MetricKey == performance.MetricPoliciesPaid {
			assert.Equal(t, 2, m.Minimum)
			assert.Equal(t, 1, m.Default)
			assert.True(t, m.Overridden)
		} else {
			assert.False(t, m.Overridden, m.MetricKey)
		}
	}
}
