package performance

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/require"

	"github.com/salesops/advisorpulse/internal/calendar"
)

// Week of Monday 2024-03-04 through Sunday 2024-03-10.
var (
	testWeekStart = calendar.MustParse("2024-03-04")
	testWeekEnd   = calendar.MustParse("2024-03-10")
)

func testLocation(t *testing.T) *time.Location {
	t.Helper()
	loc, err := calendar.LoadLocation("America/Monterrey")
	require.NoError(t, err)
	return loc
}

func intPtr(v int) *int {
	return &v
}

// eventAt builds an event recorded at local noon of day.
func eventAt(loc *time.Location, advisorID, day, metric string, value int) ActivityEvent {
	d := calendar.MustParse(day)
	return ActivityEvent{
		RecordedAt:  d.StartIn(loc).Add(12 * time.Hour),
		MetricKey:   metric,
		Value:       intPtr(value),
		ActorUserID: advisorID,
	}
}

func testScores() ScoreMap {
	return BuildScoreMap([]MetricScore{
		{MetricKey: MetricCalls, PointsPerUnit: 1},
		{MetricKey: MetricMeetingsSet, PointsPerUnit: 5},
		{MetricKey: MetricMeetingsHeld, PointsPerUnit: 8},
		{MetricKey: MetricProposalsPresented, PointsPerUnit: 10},
		{MetricKey: MetricApplicationsSubmitted, PointsPerUnit: 15},
		{MetricKey: MetricReferrals, PointsPerUnit: 2},
		{MetricKey: MetricPoliciesPaid, PointsPerUnit: 25},
	})
}
