package performance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salesops/advisorpulse/internal/calendar"
)

type fakeEvents struct {
	events   []ActivityEvent
	from, to time.Time
}

func (f *fakeEvents) ListCounted(_ context.Context, advisorIDs []string, from, to time.Time) ([]ActivityEvent, error) {
	f.from, f.to = from, to
	wanted := make(map[string]bool, len(advisorIDs))
	for _, id := range advisorIDs {
		wanted[id] = true
	}
	var out []ActivityEvent
	for _, e := range f.events {
		if wanted[e.ActorUserID] && !e.RecordedAt.Before(from) && e.RecordedAt.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeScores struct {
	err error
}

func (f fakeScores) ListScores(context.Context) ([]MetricScore, error) {
	if f.err != nil {
		return nil, f.err
	}
	var rows []MetricScore
	for metric, points := range testScores() {
		rows = append(rows, MetricScore{MetricKey: metric, PointsPerUnit: points})
	}
	return rows, nil
}

type fakeMinimums struct{}

func (fakeMinimums) Resolve(context.Context, string) (WeeklyMinimums, error) {
	return DefaultWeeklyMinimums(), nil
}

type fakeRoster struct {
	advisors []Advisor
}

func (f fakeRoster) GetAdvisor(_ context.Context, id string) (*Advisor, error) {
	for _, a := range f.advisors {
		if a.ID == id {
			a := a
			return &a, nil
		}
	}
	return nil, ErrAdvisorNotFound
}

func (f fakeRoster) ListTeam(_ context.Context, ownerID string) ([]Advisor, error) {
	var team []Advisor
	for _, a := range f.advisors {
		if a.OwnerID == ownerID {
			team = append(team, a)
		}
	}
	return team, nil
}

func (f fakeRoster) ListActive(context.Context) ([]Advisor, error) {
	return f.advisors, nil
}

type fakeSnapshots struct {
	points map[string]int
	err    error
}

func (f fakeSnapshots) Get(_ context.Context, advisorID string, _ calendar.Date) (*AdvisorWeekStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	points, ok := f.points[advisorID]
	if !ok {
		return nil, nil
	}
	return &AdvisorWeekStats{AdvisorID: advisorID, WeekPoints: points}, nil
}

func newTestService(t *testing.T, snapshots SnapshotSource) (*Service, *fakeEvents) {
	t.Helper()
	loc := testLocation(t)

	events := &fakeEvents{events: []ActivityEvent{
		eventAt(loc, "adv-1", "2024-03-04", MetricCalls, 20),
		eventAt(loc, "adv-1", "2024-03-04", MetricMeetingsSet, 2),
		eventAt(loc, "adv-1", "2024-03-05", MetricProposalsPresented, 3),
		eventAt(loc, "adv-1", "2024-02-28", MetricPoliciesPaid, 5),
		eventAt(loc, "adv-1", "2024-02-20", MetricApplicationsSubmitted, 2),
		eventAt(loc, "adv-1", "2023-11-01", MetricPoliciesPaid, 9), // outside the history window
		eventAt(loc, "adv-2", "2024-03-04", MetricCalls, 10),
	}}
	roster := fakeRoster{advisors: []Advisor{
		{ID: "adv-1", Name: "Ana Garza", OwnerID: "owner-1"},
		{ID: "adv-2", Name: "Bruno Salinas", OwnerID: "owner-1"},
	}}

	svc := NewService(events, fakeScores{}, fakeMinimums{}, roster, snapshots,
		Settings{DailyTarget: 25, WeeklyDays: 5, HistoryWeeks: 12, Location: loc}, zerolog.Nop())
	// Wednesday 2024-03-06, local noon
	svc.SetClock(func() time.Time { return time.Date(2024, 3, 6, 18, 0, 0, 0, time.UTC) })
	return svc, events
}

func TestService_AdvisorReport(t *testing.T) {
	svc, events := newTestService(t, nil)
	loc := testLocation(t)

	report, err := svc.AdvisorReport(context.Background(), "adv-1", "")
	require.NoError(t, err)

	assert.Equal(t, testWeekStart, report.Week.WeekStart)
	assert.Equal(t, calendar.MustParse("2024-03-06"), report.Today)
	assert.Equal(t, 125, report.WeeklyTarget)
	assert.Equal(t, calendar.MustParse("2023-12-11").StartIn(loc), events.from)
	assert.Equal(t, calendar.MustParse("2024-03-11").StartIn(loc), events.to)

	assert.Equal(t, "Ana Garza", report.Stats.AdvisorName)
	assert.Equal(t, 60, report.Stats.WeekPoints)
	assert.Equal(t, 2, report.Stats.DaysWithActivity)
	assert.Equal(t, StatusOnTrack, report.Stats.Status)

	assert.Equal(t, 2, report.History.WeeksObserved)
	assert.Equal(t, 1, report.History.WeeksCompleted)
	assert.Equal(t, 125, report.History.BestWeek)

	assert.Equal(t, 65, report.Insight.PointsRemaining)
	assert.Equal(t, 2, report.Insight.DaysRemaining)
	assert.Equal(t, 33, report.Insight.RequiredDailyAvg)
	assert.Equal(t, RiskOnTrack, report.Insight.RiskReason)

	assert.Equal(t, 33, report.TodayPlan.RequiredPoints)
	require.Len(t, report.FulfillmentPlan.Rows, 2)
	assert.Equal(t, calendar.MustParse("2024-03-06"), report.FulfillmentPlan.Rows[0].Date)
	assert.Equal(t, 32, report.FulfillmentPlan.Rows[1].RequiredDailyAvg)
	assert.NotEmpty(t, report.Profile.Key)
	assert.Equal(t, 30, report.Minimums[MetricCalls])
}

func TestService_AdvisorReport_FutureWeekPlansFromMonday(t *testing.T) {
	svc, _ := newTestService(t, nil)

	report, err := svc.AdvisorReport(context.Background(), "adv-1", "2024-03-11")
	require.NoError(t, err)

	assert.Equal(t, 0, report.Stats.WeekPoints)
	assert.Equal(t, calendar.MustParse("2024-03-11"), report.Stats.WeekStart)
	assert.Equal(t, RiskNoActivity, report.Insight.RiskReason)
	assert.Equal(t, 5, report.Insight.DaysRemaining)
	assert.Equal(t, 25, report.Insight.RequiredDailyAvg)
	require.NotEmpty(t, report.FulfillmentPlan.Rows)
	assert.Equal(t, calendar.MustParse("2024-03-11"), report.FulfillmentPlan.Rows[0].Date)
}

func TestService_AdvisorReport_Errors(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.AdvisorReport(context.Background(), "ghost", "")
	assert.ErrorIs(t, err, ErrAdvisorNotFound)

	boom := errors.New("boom")
	svc.scores = fakeScores{err: boom}
	_, err = svc.AdvisorReport(context.Background(), "adv-1", "")
	assert.ErrorIs(t, err, boom)
}

func TestService_TeamReport(t *testing.T) {
	svc, _ := newTestService(t, fakeSnapshots{points: map[string]int{"adv-2": 40}})

	report, err := svc.TeamReport(context.Background(), "owner-1", "2024-03-04")
	require.NoError(t, err)

	require.Len(t, report.Members, 2)
	assert.Equal(t, 60, report.Members[0].Stats.WeekPoints)
	assert.Equal(t, 10, report.Members[1].Stats.WeekPoints)
	assert.Equal(t, RiskLowRhythm, report.Members[1].Insight.RiskReason)

	assert.Equal(t, 2, report.Coaching.TotalAdvisors)
	assert.Equal(t, 1, report.Coaching.AtRiskCount)
	require.Len(t, report.Coaching.Queue, 1)
	entry := report.Coaching.Queue[0]
	assert.Equal(t, "adv-2", entry.AdvisorID)
	require.NotNil(t, entry.PreviousWeekPoints)
	assert.Equal(t, 40, *entry.PreviousWeekPoints)
	assert.Equal(t, -30, *entry.WeekOverWeekDelta)

	keys := make([]string, 0, len(report.Alerts))
	for _, a := range report.Alerts {
		keys = append(keys, a.Key)
	}
	assert.Equal(t, []string{AlertLowProjection, AlertTeamAverage}, keys)
	assert.Equal(t, "Team average: 35 points (28% of target)", report.Alerts[1].Text)
}

func TestService_PreviousWeekFallsBackToEvents(t *testing.T) {
	tests := []struct {
		name      string
		snapshots SnapshotSource
	}{
		{"no snapshot store", nil},
		{"snapshot missing", fakeSnapshots{points: map[string]int{}}},
		{"snapshot store failing", fakeSnapshots{err: errors.New("cache unavailable")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newTestService(t, tt.snapshots)

			summary, err := svc.Coaching(context.Background(), "owner-1", "")
			require.NoError(t, err)
			require.Len(t, summary.Queue, 1)
			require.NotNil(t, summary.Queue[0].PreviousWeekPoints)
			assert.Equal(t, 0, *summary.Queue[0].PreviousWeekPoints)
			assert.Equal(t, 10, *summary.Queue[0].WeekOverWeekDelta)
		})
	}
}

func TestService_EmptyTeam(t *testing.T) {
	svc, _ := newTestService(t, nil)

	report, err := svc.TeamReport(context.Background(), "owner-404", "")
	require.NoError(t, err)
	assert.Empty(t, report.Members)
	assert.Equal(t, 0, report.Coaching.TotalAdvisors)
	assert.Empty(t, report.Coaching.Queue)

	alerts, err := svc.Alerts(context.Background(), "owner-404", "")
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestService_SnapshotWeek(t *testing.T) {
	svc, _ := newTestService(t, nil)

	week, stats, err := svc.SnapshotWeek(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, testWeekStart, week.WeekStart)
	require.Len(t, stats, 2)
	assert.Equal(t, "adv-1", stats[0].AdvisorID)
	assert.Equal(t, 60, stats[0].WeekPoints)
	assert.Equal(t, 10, stats[1].WeekPoints)
}

func TestSettings_Defaults(t *testing.T) {
	s := Settings{}.withDefaults()
	assert.Equal(t, 125, s.WeeklyTarget())
	assert.Equal(t, DefaultHistoryWeeks, s.HistoryWeeks)
	assert.Equal(t, time.UTC, s.Location)
}
