package performance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/calendar"
)

// ErrAdvisorNotFound is returned by RosterSource implementations for unknown ids.
var ErrAdvisorNotFound = errors.New("advisor not found")

// EventSource yields counted events: non-voided, manual-source rows in [from, to).
type EventSource interface {
	ListCounted(ctx context.Context, advisorIDs []string, from, to time.Time) ([]ActivityEvent, error)
}

// ScoreSource yields the global points-per-unit configuration.
type ScoreSource interface {
	ListScores(ctx context.Context) ([]MetricScore, error)
}

// MinimumsSource resolves an owner's weekly minimums over the defaults.
type MinimumsSource interface {
	Resolve(ctx context.Context, ownerID string) (WeeklyMinimums, error)
}

// RosterSource looks up advisors and teams.
type RosterSource interface {
	GetAdvisor(ctx context.Context, id string) (*Advisor, error)
	ListTeam(ctx context.Context, ownerID string) ([]Advisor, error)
	ListActive(ctx context.Context) ([]Advisor, error)
}

// SnapshotSource returns a stored closing-week record. A nil record with a nil
// error means no snapshot exists.
type SnapshotSource interface {
	Get(ctx context.Context, advisorID string, weekStart calendar.Date) (*AdvisorWeekStats, error)
}

// Settings are the evaluation parameters shared by every report.
type Settings struct {
	DailyTarget  int
	WeeklyDays   int
	HistoryWeeks int
	Location     *time.Location
}

// WeeklyTarget is DailyTarget × WeeklyDays.
func (s Settings) WeeklyTarget() int {
	return WeeklyTarget(s.DailyTarget, s.WeeklyDays)
}

func (s Settings) withDefaults() Settings {
	if s.DailyTarget <= 0 {
		s.DailyTarget = DefaultDailyTarget
	}
	if s.WeeklyDays <= 0 {
		s.WeeklyDays = DefaultWeeklyDays
	}
	if s.HistoryWeeks <= 0 {
		s.HistoryWeeks = DefaultHistoryWeeks
	}
	if s.Location == nil {
		s.Location = time.UTC
	}
	return s
}

// AdvisorReport is the single-advisor dashboard.
type AdvisorReport struct {
	Advisor         Advisor             `json:"advisor"`
	Week            WeekRange           `json:"week"`
	Today           calendar.Date       `json:"today"`
	WeeklyTarget    int                 `json:"weekly_target"`
	Stats           AdvisorWeekStats    `json:"stats"`
	History         AdvisorHistoryStats `json:"history"`
	Insight         AdvisorInsight      `json:"insight"`
	Profile         AdvisorProfile      `json:"profile"`
	TodayPlan       TodayPlan           `json:"today_plan"`
	FulfillmentPlan FulfillmentPlan     `json:"fulfillment_plan"`
	Minimums        WeeklyMinimums      `json:"minimums"`
}

// TeamMemberReport is one advisor row of a TeamReport.
type TeamMemberReport struct {
	Advisor Advisor             `json:"advisor"`
	Stats   AdvisorWeekStats    `json:"stats"`
	History AdvisorHistoryStats `json:"history"`
	Insight AdvisorInsight      `json:"insight"`
	Profile AdvisorProfile      `json:"profile"`
}

// TeamReport is the manager dashboard of one owner's team.
type TeamReport struct {
	OwnerID      string             `json:"owner_id"`
	Week         WeekRange          `json:"week"`
	Today        calendar.Date      `json:"today"`
	WeeklyTarget int                `json:"weekly_target"`
	Members      []TeamMemberReport `json:"members"`
	Coaching     CoachingSummary    `json:"coaching"`
	Alerts       []TeamAlert        `json:"alerts"`
}

// Service fetches data through narrow sources and runs the engine over it.
type Service struct {
	events    EventSource
	scores    ScoreSource
	minimums  MinimumsSource
	roster    RosterSource
	snapshots SnapshotSource
	settings  Settings
	now       func() time.Time
	log       zerolog.Logger
}

// NewService creates a performance service. snapshots may be nil, in which
// case previous weeks are always recomputed from events.
func NewService(
	events EventSource,
	scores ScoreSource,
	minimums MinimumsSource,
	roster RosterSource,
	snapshots SnapshotSource,
	settings Settings,
	log zerolog.Logger,
) *Service {
	return &Service{
		events:    events,
		scores:    scores,
		minimums:  minimums,
		roster:    roster,
		snapshots: snapshots,
		settings:  settings.withDefaults(),
		now:       time.Now,
		log:       log.With().Str("service", "performance").Logger(),
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Settings returns the effective evaluation parameters.
func (s *Service) Settings() Settings {
	return s.settings
}

// Today is the current date in the evaluation zone.
func (s *Service) Today() calendar.Date {
	return calendar.TodayAt(s.now(), s.settings.Location)
}

// Week resolves a week anchor against today.
func (s *Service) Week(anchor string) WeekRange {
	return ComputeWeekRange(anchor, s.Today(), s.log)
}

// window holds the events of the selected week and of the history weeks
// before it.
type window struct {
	week    WeekRange
	today   calendar.Date
	scores  ScoreMap
	current []ActivityEvent
	history []ActivityEvent
}

// historyStart is the first day of the HistoryWeeks weeks preceding week.
func (s *Service) historyStart(week WeekRange) calendar.Date {
	return week.WeekStart.AddDays(-7 * s.settings.HistoryWeeks)
}

func (s *Service) loadWindow(ctx context.Context, advisorIDs []string, week WeekRange) (*window, error) {
	rows, err := s.scores.ListScores(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load metric scores: %w", err)
	}

	loc := s.settings.Location
	from := s.historyStart(week).StartIn(loc)
	to := week.NextWeekStart.StartIn(loc)
	events, err := s.events.ListCounted(ctx, advisorIDs, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load activity events: %w", err)
	}

	w := &window{
		week:   week,
		today:  s.Today(),
		scores: BuildScoreMap(rows),
	}
	for _, e := range events {
		if week.Contains(calendar.ToLocalDate(e.RecordedAt, loc)) {
			w.current = append(w.current, e)
		} else {
			w.history = append(w.history, e)
		}
	}
	return w, nil
}

func (s *Service) weekStats(w *window, advisor Advisor) AdvisorWeekStats {
	st := s.settings
	stats := ComputeWeekStats(w.current, advisor.ID, w.scores, st.WeeklyTarget(), st.WeeklyDays,
		w.today, w.week.WeekStart, w.week.WeekEnd, st.Location)
	if stats == nil {
		zero := ZeroWeekStats(advisor.ID)
		zero.WeekStart = w.week.WeekStart
		stats = &zero
	}
	stats.AdvisorName = advisor.Name
	return *stats
}

func (s *Service) historyStats(w *window, advisorID string) AdvisorHistoryStats {
	history := ComputeHistoryStats(w.history, advisorID, w.scores, s.settings.WeeklyTarget(), s.settings.Location)
	if history == nil {
		return ZeroHistoryStats(advisorID)
	}
	return *history
}

func (s *Service) insight(w *window, stats AdvisorWeekStats) AdvisorInsight {
	return CalculateInsight(stats, s.settings.WeeklyTarget(), s.settings.WeeklyDays, w.week.WeekStart, w.today)
}

// AdvisorReport builds the dashboard of one advisor for the week of anchor.
func (s *Service) AdvisorReport(ctx context.Context, advisorID, anchor string) (*AdvisorReport, error) {
	advisor, err := s.roster.GetAdvisor(ctx, advisorID)
	if err != nil {
		return nil, err
	}

	minimums, err := s.minimums.Resolve(ctx, advisor.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve minimums: %w", err)
	}

	w, err := s.loadWindow(ctx, []string{advisor.ID}, s.Week(anchor))
	if err != nil {
		return nil, err
	}

	stats := s.weekStats(w, *advisor)
	insight := s.insight(w, stats)

	planStart := w.today
	if planStart.Before(w.week.WeekStart) {
		planStart = w.week.WeekStart
	}

	report := &AdvisorReport{
		Advisor:      *advisor,
		Week:         w.week,
		Today:        w.today,
		WeeklyTarget: s.settings.WeeklyTarget(),
		Stats:        stats,
		History:      s.historyStats(w, advisor.ID),
		Insight:      insight,
		Profile:      Classify(ProfileInputFromStats(stats, minimums)),
		TodayPlan:    BuildTodayPlan(insight.RequiredDailyAvg, insight.RiskReason, w.scores),
		FulfillmentPlan: BuildFulfillmentPlan(FulfillmentInput{
			PointsRemaining: insight.PointsRemaining,
			DaysRemaining:   insight.DaysRemaining,
			RiskReason:      insight.RiskReason,
			Scores:          w.scores,
			Today:           planStart,
			WeekEnd:         w.week.WeekEnd,
		}),
		Minimums: minimums,
	}

	s.log.Debug().
		Str("advisor_id", advisor.ID).
		Str("week_start", w.week.WeekStart.String()).
		Int("week_points", stats.WeekPoints).
		Str("risk_reason", string(insight.RiskReason)).
		Msg("Built advisor report")

	return report, nil
}

// TeamReport builds the manager dashboard of ownerID's team for the week of anchor.
func (s *Service) TeamReport(ctx context.Context, ownerID, anchor string) (*TeamReport, error) {
	team, err := s.roster.ListTeam(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team: %w", err)
	}

	minimums, err := s.minimums.Resolve(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve minimums: %w", err)
	}

	ids := make([]string, len(team))
	for i, a := range team {
		ids[i] = a.ID
	}
	w, err := s.loadWindow(ctx, ids, s.Week(anchor))
	if err != nil {
		return nil, err
	}

	report := &TeamReport{
		OwnerID:      ownerID,
		Week:         w.week,
		Today:        w.today,
		WeeklyTarget: s.settings.WeeklyTarget(),
		Members:      make([]TeamMemberReport, 0, len(team)),
	}

	weekStats := make([]AdvisorWeekStats, 0, len(team))
	histories := make([]AdvisorHistoryStats, 0, len(team))
	for _, advisor := range team {
		stats := s.weekStats(w, advisor)
		history := s.historyStats(w, advisor.ID)
		weekStats = append(weekStats, stats)
		histories = append(histories, history)

		report.Members = append(report.Members, TeamMemberReport{
			Advisor: advisor,
			Stats:   stats,
			History: history,
			Insight: s.insight(w, stats),
			Profile: Classify(ProfileInputFromStats(stats, minimums)),
		})
	}

	report.Coaching = BuildCoachingQueue(weekStats, s.settings.WeeklyTarget(), s.settings.WeeklyDays,
		w.week.WeekStart, w.today, s.previousWeekLookup(ctx, w, histories))
	report.Alerts = BuildTeamAlerts(weekStats, histories, s.settings.WeeklyTarget())

	s.log.Debug().
		Str("owner_id", ownerID).
		Str("week_start", w.week.WeekStart.String()).
		Int("advisors", len(team)).
		Int("at_risk", report.Coaching.AtRiskCount).
		Msg("Built team report")

	return report, nil
}

// Coaching returns only the coaching summary of a team report.
func (s *Service) Coaching(ctx context.Context, ownerID, anchor string) (*CoachingSummary, error) {
	report, err := s.TeamReport(ctx, ownerID, anchor)
	if err != nil {
		return nil, err
	}
	return &report.Coaching, nil
}

// Alerts returns only the alerts of a team report.
func (s *Service) Alerts(ctx context.Context, ownerID, anchor string) ([]TeamAlert, error) {
	report, err := s.TeamReport(ctx, ownerID, anchor)
	if err != nil {
		return nil, err
	}
	return report.Alerts, nil
}

// previousWeekLookup prefers the stored snapshot of the previous week and
// falls back to the history rollup, which always covers that week.
func (s *Service) previousWeekLookup(ctx context.Context, w *window, histories []AdvisorHistoryStats) PreviousWeekLookup {
	previous := w.week.Previous().WeekStart
	computed := make(map[string]int, len(histories))
	for _, h := range histories {
		for _, wk := range h.Weeks {
			if wk.WeekStart.Equal(previous) {
				computed[h.AdvisorID] = wk.Points
			}
		}
	}

	return func(advisorID string) (int, bool) {
		if s.snapshots != nil {
			snap, err := s.snapshots.Get(ctx, advisorID, previous)
			if err != nil {
				s.log.Warn().Err(err).
					Str("advisor_id", advisorID).
					Str("week_start", previous.String()).
					Msg("Failed to read snapshot, recomputing previous week")
			} else if snap != nil {
				return snap.WeekPoints, true
			}
		}
		return computed[advisorID], true
	}
}

// SnapshotWeek computes the week stats of every active advisor for the week
// of anchor, for persisting as closing-week snapshots.
func (s *Service) SnapshotWeek(ctx context.Context, anchor string) (WeekRange, []AdvisorWeekStats, error) {
	week := s.Week(anchor)

	advisors, err := s.roster.ListActive(ctx)
	if err != nil {
		return week, nil, fmt.Errorf("failed to list active advisors: %w", err)
	}

	ids := make([]string, len(advisors))
	for i, a := range advisors {
		ids[i] = a.ID
	}
	w, err := s.loadWindow(ctx, ids, week)
	if err != nil {
		return week, nil, err
	}

	stats := make([]AdvisorWeekStats, 0, len(advisors))
	for _, advisor := range advisors {
		stats = append(stats, s.weekStats(w, advisor))
	}
	return week, stats, nil
}
