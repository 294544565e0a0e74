package performance

import (
	"sort"

	"github.com/salesops/advisorpulse/internal/calendar"
)

// coachingQueueSize is how many at-risk advisors a manager sees first.
const coachingQueueSize = 5

// PreviousWeekLookup returns an advisor's previous-week points, if known.
type PreviousWeekLookup func(advisorID string) (int, bool)

// BuildCoachingQueue computes an insight per advisor and ranks the at-risk
// ones: no_activity first, then by required daily average, then by points
// remaining. previous may be nil.
func BuildCoachingQueue(
	stats []AdvisorWeekStats,
	weeklyTarget int,
	weeklyDays int,
	weekStart calendar.Date,
	today calendar.Date,
	previous PreviousWeekLookup,
) CoachingSummary {
	summary := CoachingSummary{
		TotalAdvisors: len(stats),
		CountsByReason: map[RiskReason]int{
			RiskNoActivity: 0,
			RiskLowRhythm:  0,
			RiskOnTrack:    0,
		},
		Queue:    []CoachingEntry{},
		Insights: make([]AdvisorInsight, 0, len(stats)),
	}

	atRisk := make([]CoachingEntry, 0, len(stats))
	for _, s := range stats {
		insight := CalculateInsight(s, weeklyTarget, weeklyDays, weekStart, today)
		summary.Insights = append(summary.Insights, insight)
		summary.CountsByReason[insight.RiskReason]++

		if insight.RiskReason == RiskOnTrack {
			continue
		}
		summary.AtRiskCount++
		summary.TeamPointsRemaining += insight.PointsRemaining
		summary.TeamRequiredDaily += insight.RequiredDailyAvg
		atRisk = append(atRisk, CoachingEntry{
			AdvisorID:   s.AdvisorID,
			AdvisorName: s.AdvisorName,
			WeekPoints:  s.WeekPoints,
			Insight:     insight,
		})
	}

	sort.SliceStable(atRisk, func(i, j int) bool {
		a, b := atRisk[i].Insight, atRisk[j].Insight
		aNone, bNone := a.RiskReason == RiskNoActivity, b.RiskReason == RiskNoActivity
		if aNone != bNone {
			return aNone
		}
		if a.RequiredDailyAvg != b.RequiredDailyAvg {
			return a.RequiredDailyAvg > b.RequiredDailyAvg
		}
		if a.PointsRemaining != b.PointsRemaining {
			return a.PointsRemaining > b.PointsRemaining
		}
		return atRisk[i].AdvisorID < atRisk[j].AdvisorID
	})

	if len(atRisk) > coachingQueueSize {
		atRisk = atRisk[:coachingQueueSize]
	}
	if previous != nil {
		for i := range atRisk {
			if prev, ok := previous(atRisk[i].AdvisorID); ok {
				prevPoints := prev
				delta := atRisk[i].WeekPoints - prev
				atRisk[i].PreviousWeekPoints = &prevPoints
				atRisk[i].WeekOverWeekDelta = &delta
			}
		}
	}
	summary.Queue = atRisk

	return summary
}
