package performance

import (
	"github.com/salesops/advisorpulse/internal/calendar"
)

// CalculateInsight derives pace figures and the risk reason from a week's stats.
//
// DaysRemaining counts calendar business days while RiskReason looks at days
// with recorded activity. The two are intentionally not unified.
func CalculateInsight(
	stats AdvisorWeekStats,
	weeklyTarget int,
	weeklyDays int,
	weekStart calendar.Date,
	today calendar.Date,
) AdvisorInsight {
	pointsRemaining := maxInt(weeklyTarget-stats.WeekPoints, 0)
	daysRemaining := maxInt(weeklyDays-calendar.BusinessDaysElapsed(weekStart, today, weeklyDays), 0)

	required := 0
	switch {
	case daysRemaining > 0:
		required = ceilDiv(pointsRemaining, daysRemaining)
	case pointsRemaining > 0:
		required = pointsRemaining
	}

	return AdvisorInsight{
		AdvisorID:        stats.AdvisorID,
		PointsRemaining:  pointsRemaining,
		DaysRemaining:    daysRemaining,
		RequiredDailyAvg: required,
		RiskReason:       RiskReasonFor(stats, weeklyTarget),
	}
}

// RiskReasonFor classifies why an advisor is behind pace.
func RiskReasonFor(stats AdvisorWeekStats, weeklyTarget int) RiskReason {
	switch {
	case stats.DaysWithActivity == 0:
		return RiskNoActivity
	case stats.Projection < float64(weeklyTarget):
		return RiskLowRhythm
	default:
		return RiskOnTrack
	}
}
