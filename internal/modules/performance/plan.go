package performance

import (
	"fmt"
	"strings"

	"github.com/salesops/advisorpulse/internal/calendar"
)

// defaultPlanMetrics are the metrics a plan may suggest, in preference order.
var defaultPlanMetrics = []string{
	MetricCalls,
	MetricMeetingsSet,
	MetricProposalsPresented,
}

// planWeights is the share of the daily requirement given to each default
// metric, in percent. Shares are renormalized over scored metrics only.
var planWeights = map[string]int{
	MetricCalls:              60,
	MetricMeetingsSet:        30,
	MetricProposalsPresented: 10,
}

var metricNames = map[string][2]string{
	MetricCalls:                 {"call", "calls"},
	MetricMeetingsSet:           {"meeting set", "meetings set"},
	MetricMeetingsHeld:          {"meeting held", "meetings held"},
	MetricProposalsPresented:    {"proposal presented", "proposals presented"},
	MetricApplicationsSubmitted: {"application submitted", "applications submitted"},
	MetricReferrals:             {"referral", "referrals"},
	MetricPoliciesPaid:          {"paid policy", "paid policies"},
}

const (
	labelMaintain  = "Maintain your pace"
	labelNoMetrics = "No scored metrics configured"
)

// BuildTodayPlan turns a required point total into a suggested activity mix.
func BuildTodayPlan(requiredDailyAvg int, reason RiskReason, scores ScoreMap) TodayPlan {
	if requiredDailyAvg <= 0 {
		return maintainPlan()
	}
	if reason == RiskNoActivity {
		return kickstartPlan(requiredDailyAvg, scores)
	}
	return distributePlan(requiredDailyAvg, scores)
}

func maintainPlan() TodayPlan {
	return TodayPlan{
		Mode:         PlanMaintain,
		Label:        labelMaintain,
		Items:        []PlanItem{},
		Distribution: map[string]float64{},
		Skipped:      []string{},
	}
}

// kickstartPlan suggests exactly one unit of a single metric: calls when
// scored, otherwise the highest-scoring default metric.
func kickstartPlan(required int, scores ScoreMap) TodayPlan {
	skipped := unscoredPlanMetrics(scores)

	pick := ""
	if scores.Points(MetricCalls) > 0 {
		pick = MetricCalls
	} else {
		best := 0
		for _, m := range defaultPlanMetrics {
			if p := scores.Points(m); p > best {
				best = p
				pick = m
			}
		}
	}

	if pick == "" {
		plan := noMetricsPlan(required, skipped)
		plan.Kickstart = true
		return plan
	}

	item := PlanItem{MetricKey: pick, Units: 1, PointsPerUnit: scores.Points(pick)}
	return TodayPlan{
		Mode:           PlanKickstart,
		Label:          "Kickstart: " + describeItems([]PlanItem{item}),
		RequiredPoints: required,
		Items:          []PlanItem{item},
		Kickstart:      true,
		Distribution:   map[string]float64{pick: 1},
		Skipped:        skipped,
	}
}

func distributePlan(required int, scores ScoreMap) TodayPlan {
	skipped := unscoredPlanMetrics(scores)

	totalWeight := 0
	for _, m := range defaultPlanMetrics {
		if scores.Points(m) > 0 {
			totalWeight += planWeights[m]
		}
	}
	if totalWeight == 0 {
		return noMetricsPlan(required, skipped)
	}

	items := make([]PlanItem, 0, len(defaultPlanMetrics))
	distribution := make(map[string]float64, len(defaultPlanMetrics))
	for _, m := range defaultPlanMetrics {
		ppu := scores.Points(m)
		if ppu <= 0 {
			continue
		}
		weight := planWeights[m]
		distribution[m] = float64(weight) / float64(totalWeight)
		// ceil((required × weight / totalWeight) / ppu) without leaving integers
		units := ceilDiv(required*weight, totalWeight*ppu)
		items = append(items, PlanItem{MetricKey: m, Units: units, PointsPerUnit: ppu})
	}

	return TodayPlan{
		Mode:           PlanDistribute,
		Label:          describeItems(items),
		RequiredPoints: required,
		Items:          items,
		Distribution:   distribution,
		Skipped:        skipped,
	}
}

func noMetricsPlan(required int, skipped []string) TodayPlan {
	return TodayPlan{
		Mode:           PlanNoMetrics,
		Label:          labelNoMetrics,
		RequiredPoints: required,
		Items:          []PlanItem{},
		Distribution:   map[string]float64{},
		Skipped:        skipped,
	}
}

func unscoredPlanMetrics(scores ScoreMap) []string {
	skipped := []string{}
	for _, m := range defaultPlanMetrics {
		if scores.Points(m) <= 0 {
			skipped = append(skipped, m)
		}
	}
	return skipped
}

func describeItems(items []PlanItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, fmt.Sprintf("%d %s", item.Units, MetricName(item.MetricKey, item.Units)))
	}
	return strings.Join(parts, " + ")
}

// MetricName returns the human-readable name of metric for count units.
func MetricName(metric string, count int) string {
	names, ok := metricNames[metric]
	if !ok {
		return strings.ReplaceAll(metric, "_", " ")
	}
	if count == 1 {
		return names[0]
	}
	return names[1]
}

// FulfillmentInput is the starting point of a week plan.
type FulfillmentInput struct {
	PointsRemaining int
	DaysRemaining   int
	RiskReason      RiskReason
	Scores          ScoreMap
	Today           calendar.Date
	WeekEnd         calendar.Date
}

// step emits the requirement for one day and the state after meeting it exactly.
func (s PlanState) step() (int, PlanState) {
	required := ceilDiv(s.RemainingPoints, s.RemainingDays)
	return required, PlanState{
		RemainingPoints: maxInt(s.RemainingPoints-required, 0),
		RemainingDays:   s.RemainingDays - 1,
	}
}

// BuildFulfillmentPlan simulates the rest of the week day by day, assuming
// each day's requirement is met exactly. Only the first day uses the real
// risk reason; later days are planned as on track.
func BuildFulfillmentPlan(in FulfillmentInput) FulfillmentPlan {
	start := PlanState{RemainingPoints: in.PointsRemaining, RemainingDays: in.DaysRemaining}

	if in.DaysRemaining <= 0 || in.PointsRemaining <= 0 {
		return FulfillmentPlan{
			Rows:  []FulfillmentRow{maintainRow(in.Today)},
			Final: start,
		}
	}

	// Points are still owed but the calendar week is over: nothing to plan.
	calendarDaysLeft := in.Today.DaysUntil(in.WeekEnd) + 1
	if calendarDaysLeft <= 0 {
		return FulfillmentPlan{Rows: []FulfillmentRow{}, Final: start}
	}

	rows := make([]FulfillmentRow, 0, minInt(in.DaysRemaining, calendarDaysLeft))
	state := start
	for day, i := in.Today, 0; !day.After(in.WeekEnd) && state.RemainingDays > 0; day, i = day.AddDays(1), i+1 {
		required, next := state.step()

		reason := RiskOnTrack
		if i == 0 {
			reason = in.RiskReason
		}
		plan := BuildTodayPlan(required, reason, in.Scores)

		rows = append(rows, FulfillmentRow{
			DayLabel:         dayLabel(i, day),
			Date:             day,
			RequiredDailyAvg: required,
			PlanLabel:        plan.Label,
			Plan:             plan,
		})
		state = next
	}

	return FulfillmentPlan{
		Rows:             rows,
		TomorrowRequired: TomorrowRequired(in.PointsRemaining, in.DaysRemaining),
		Final:            state,
	}
}

// TomorrowRequired is tomorrow's requirement if today's is met exactly.
func TomorrowRequired(pointsRemaining, daysRemaining int) int {
	if pointsRemaining <= 0 || daysRemaining <= 0 {
		return 0
	}
	_, next := PlanState{RemainingPoints: pointsRemaining, RemainingDays: daysRemaining}.step()
	return ceilDiv(next.RemainingPoints, next.RemainingDays)
}

func maintainRow(today calendar.Date) FulfillmentRow {
	plan := maintainPlan()
	return FulfillmentRow{
		DayLabel:  "Today",
		Date:      today,
		PlanLabel: plan.Label,
		Plan:      plan,
	}
}

func dayLabel(offset int, day calendar.Date) string {
	switch offset {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return day.Weekday().String()
	}
}
