// Package performance turns counted activity events into weekly scores, risk
// classifications, remediation plans and coaching queues for sales advisors.
//
// Every function in this package except the Service is pure: it reads only its
// arguments, performs no I/O and returns plain values. "Today" and the
// evaluation time zone are always passed in explicitly.
package performance

import (
	"time"

	"github.com/salesops/advisorpulse/internal/calendar"
)

// Metric keys of the activity vocabulary.
const (
	MetricCalls                 = "calls"
	MetricMeetingsSet           = "meetings_set"
	MetricMeetingsHeld          = "meetings_held"
	MetricProposalsPresented    = "proposals_presented"
	MetricApplicationsSubmitted = "applications_submitted"
	MetricReferrals             = "referrals"
	MetricPoliciesPaid          = "policies_paid"
)

// KnownMetrics is the full activity vocabulary in display order.
var KnownMetrics = []string{
	MetricCalls,
	MetricMeetingsSet,
	MetricMeetingsHeld,
	MetricProposalsPresented,
	MetricApplicationsSubmitted,
	MetricReferrals,
	MetricPoliciesPaid,
}

// IsKnownMetric reports whether key belongs to the activity vocabulary.
func IsKnownMetric(key string) bool {
	for _, m := range KnownMetrics {
		if m == key {
			return true
		}
	}
	return false
}

// Defaults used when no configuration overrides them.
const (
	DefaultDailyTarget  = 25
	DefaultWeeklyDays   = 5
	DefaultHistoryWeeks = 12
)

// ActivityEvent is one counted unit of sales activity. Events reaching the
// engine are already filtered to non-voided, manual-source rows.
type ActivityEvent struct {
	ID          string    `json:"id,omitempty"`
	RecordedAt  time.Time `json:"recorded_at"`
	MetricKey   string    `json:"metric_key"`
	Value       *int      `json:"value"`
	ActorUserID string    `json:"actor_user_id"`
}

// Units returns the event's unit count, treating a missing or negative value as 0.
func (e ActivityEvent) Units() int {
	if e.Value == nil || *e.Value < 0 {
		return 0
	}
	return *e.Value
}

// MetricScore is one row of the global points-per-unit configuration.
type MetricScore struct {
	MetricKey     string `json:"metric_key"`
	PointsPerUnit int    `json:"points_per_unit"`
}

// Advisor identifies a scored sales representative and the team owner whose
// configuration applies to them.
type Advisor struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// WeekStatus summarizes progress against the weekly target.
type WeekStatus string

const (
	StatusExcellent WeekStatus = "excellent"
	StatusCompleted WeekStatus = "completed"
	StatusOnTrack   WeekStatus = "on_track"
	StatusAtRisk    WeekStatus = "at_risk"
)

// RiskReason explains why an advisor is behind pace.
type RiskReason string

const (
	RiskNoActivity RiskReason = "no_activity"
	RiskLowRhythm  RiskReason = "low_rhythm"
	RiskOnTrack    RiskReason = "on_track"
)

// AdvisorWeekStats is the weekly fold of one advisor's events.
type AdvisorWeekStats struct {
	AdvisorID            string         `json:"advisor_id"`
	AdvisorName          string         `json:"advisor_name,omitempty"`
	WeekStart            calendar.Date  `json:"week_start"`
	WeekPoints           int            `json:"week_points"`
	WeekPointsUntilToday int            `json:"week_points_until_today"`
	DaysWithActivity     int            `json:"days_with_activity"`
	CurrentRhythm        float64        `json:"current_rhythm"`
	Projection           float64        `json:"projection"`
	PercentOfTarget      float64        `json:"percent_of_target"`
	Status               WeekStatus     `json:"status"`
	Metrics              map[string]int `json:"metrics"`
	Daily                map[string]int `json:"daily"`
}

// WeekTotal is one week's point sum.
type WeekTotal struct {
	WeekStart calendar.Date `json:"week_start"`
	Points    int           `json:"points"`
}

// AdvisorHistoryStats is the multi-week consistency rollup of one advisor.
type AdvisorHistoryStats struct {
	AdvisorID      string      `json:"advisor_id"`
	WeeksObserved  int         `json:"weeks_observed"`
	WeeksCompleted int         `json:"weeks_completed"`
	AveragePoints  int         `json:"average_points"`
	BestWeek       int         `json:"best_week"`
	Weeks          []WeekTotal `json:"weeks"`
}

// AdvisorInsight is the pace analysis derived from a week's stats.
type AdvisorInsight struct {
	AdvisorID        string     `json:"advisor_id"`
	PointsRemaining  int        `json:"points_remaining"`
	DaysRemaining    int        `json:"days_remaining"`
	RequiredDailyAvg int        `json:"required_daily_avg"`
	RiskReason       RiskReason `json:"risk_reason"`
}

// ProfileKey labels an advisor's week.
type ProfileKey string

const (
	ProfileProductive   ProfileKey = "productive"
	ProfileGrowing      ProfileKey = "growing"
	ProfileIntermittent ProfileKey = "intermittent"
	ProfileInactive     ProfileKey = "inactive"
)

// MissingMetric is a metric below its weekly minimum.
type MissingMetric struct {
	MetricKey string `json:"metric_key"`
	Current   int    `json:"current"`
	Minimum   int    `json:"minimum"`
}

// AdvisorProfile is the classifier output.
type AdvisorProfile struct {
	Key            ProfileKey      `json:"key"`
	Label          string          `json:"label"`
	Tone           string          `json:"tone"`
	Reasons        []string        `json:"reasons"`
	MissingMetrics []MissingMetric `json:"missing_metrics"`
}

// PlanMode tells how a TodayPlan was produced.
type PlanMode string

const (
	PlanMaintain   PlanMode = "maintain"
	PlanKickstart  PlanMode = "kickstart"
	PlanNoMetrics  PlanMode = "no_metrics"
	PlanDistribute PlanMode = "distribute"
)

// PlanItem suggests a number of units of one metric.
type PlanItem struct {
	MetricKey     string `json:"metric_key"`
	Units         int    `json:"units"`
	PointsPerUnit int    `json:"points_per_unit"`
}

// Points is the score the item yields when completed.
func (i PlanItem) Points() int {
	return i.Units * i.PointsPerUnit
}

// TodayPlan is the concrete activity mix suggested for a single day.
type TodayPlan struct {
	Mode           PlanMode           `json:"mode"`
	Label          string             `json:"label"`
	RequiredPoints int                `json:"required_points"`
	Items          []PlanItem         `json:"items"`
	Kickstart      bool               `json:"kickstart"`
	Distribution   map[string]float64 `json:"distribution"`
	Skipped        []string           `json:"skipped"`
}

// FulfillmentRow is one simulated day of the remaining week.
type FulfillmentRow struct {
	DayLabel         string        `json:"day_label"`
	Date             calendar.Date `json:"date"`
	RequiredDailyAvg int           `json:"required_daily_avg"`
	PlanLabel        string        `json:"plan_label"`
	Plan             TodayPlan     `json:"plan"`
}

// PlanState is the (remaining points, remaining days) pair threaded through
// the fulfillment simulation.
type PlanState struct {
	RemainingPoints int `json:"remaining_points"`
	RemainingDays   int `json:"remaining_days"`
}

// FulfillmentPlan covers today through the end of the week.
type FulfillmentPlan struct {
	Rows             []FulfillmentRow `json:"rows"`
	TomorrowRequired int              `json:"tomorrow_required"`
	Final            PlanState        `json:"final"`
}

// CoachingEntry is one advisor in the manager's coaching queue.
type CoachingEntry struct {
	AdvisorID          string         `json:"advisor_id"`
	AdvisorName        string         `json:"advisor_name,omitempty"`
	WeekPoints         int            `json:"week_points"`
	Insight            AdvisorInsight `json:"insight"`
	PreviousWeekPoints *int           `json:"previous_week_points,omitempty"`
	WeekOverWeekDelta  *int           `json:"week_over_week_delta,omitempty"`
}

// CoachingSummary aggregates insights across a team.
type CoachingSummary struct {
	TotalAdvisors       int                `json:"total_advisors"`
	AtRiskCount         int                `json:"at_risk_count"`
	TeamPointsRemaining int                `json:"team_points_remaining"`
	TeamRequiredDaily   int                `json:"team_required_daily"`
	CountsByReason      map[RiskReason]int `json:"counts_by_reason"`
	Queue               []CoachingEntry    `json:"queue"`
	Insights            []AdvisorInsight   `json:"insights"`
}

// AlertSeverity grades a team alert.
type AlertSeverity string

const (
	SeverityDanger  AlertSeverity = "danger"
	SeverityWarning AlertSeverity = "warning"
	SeveritySuccess AlertSeverity = "success"
	SeverityInfo    AlertSeverity = "info"
)

// TeamAlert is a plain-language observation about a team's week.
type TeamAlert struct {
	Key      string        `json:"key"`
	Severity AlertSeverity `json:"severity"`
	Text     string        `json:"text"`
}
