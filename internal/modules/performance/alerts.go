package performance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// lowProjectionShare flags advisors projecting below this share of the target.
const lowProjectionShare = 0.8

// Alert keys in emission order.
const (
	AlertNoActivity    = "no_activity"
	AlertLowProjection = "low_projection"
	AlertTopPerformer  = "top_performer"
	AlertTeamAverage   = "team_average"
	AlertConsistency   = "consistency"
)

// BuildTeamAlerts derives plain-language alerts from a team's week and history
// stats. Alerts are emitted in a fixed order; alerts with nothing to report are
// omitted.
func BuildTeamAlerts(week []AdvisorWeekStats, history []AdvisorHistoryStats, weeklyTarget int) []TeamAlert {
	alerts := make([]TeamAlert, 0, 5)

	noActivity, lowProjection := 0, 0
	for _, s := range week {
		switch {
		case s.DaysWithActivity == 0:
			noActivity++
		case s.Projection < lowProjectionShare*float64(weeklyTarget):
			lowProjection++
		}
	}

	if noActivity > 0 {
		alerts = append(alerts, TeamAlert{
			Key:      AlertNoActivity,
			Severity: SeverityDanger,
			Text:     fmt.Sprintf("%s no activity this week", advisorsHave(noActivity)),
		})
	}
	if lowProjection > 0 {
		alerts = append(alerts, TeamAlert{
			Key:      AlertLowProjection,
			Severity: SeverityWarning,
			Text: fmt.Sprintf("%s projecting below %d%% of the weekly target",
				advisorsAre(lowProjection), int(lowProjectionShare*100)),
		})
	}

	if top, ok := topPerformer(week); ok {
		alerts = append(alerts, TeamAlert{
			Key:      AlertTopPerformer,
			Severity: SeveritySuccess,
			Text:     fmt.Sprintf("%s leads the team with %d points", displayName(top), top.WeekPoints),
		})
	}

	if len(week) > 0 {
		points := make([]float64, len(week))
		for i, s := range week {
			points[i] = float64(s.WeekPoints)
		}
		avg := int(math.Round(stat.Mean(points, nil)))
		text := fmt.Sprintf("Team average: %d points", avg)
		if weeklyTarget > 0 {
			text = fmt.Sprintf("Team average: %d points (%d%% of target)",
				avg, int(math.Round(float64(avg)/float64(weeklyTarget)*100)))
		}
		alerts = append(alerts, TeamAlert{Key: AlertTeamAverage, Severity: SeverityInfo, Text: text})
	}

	consistent := 0
	for _, h := range history {
		if h.WeeksObserved > 0 && h.AveragePoints >= weeklyTarget {
			consistent++
		}
	}
	if consistent > 0 {
		alerts = append(alerts, TeamAlert{
			Key:      AlertConsistency,
			Severity: SeveritySuccess,
			Text:     fmt.Sprintf("%s the weekly target on average over recent weeks", advisorsMeet(consistent)),
		})
	}

	return alerts
}

// topPerformer is the highest-scoring advisor with excellent status; ties go
// to the lowest advisor id.
func topPerformer(week []AdvisorWeekStats) (AdvisorWeekStats, bool) {
	var best AdvisorWeekStats
	found := false
	for _, s := range week {
		if s.Status != StatusExcellent {
			continue
		}
		if !found || s.WeekPoints > best.WeekPoints ||
			(s.WeekPoints == best.WeekPoints && s.AdvisorID < best.AdvisorID) {
			best = s
			found = true
		}
	}
	return best, found
}

func displayName(s AdvisorWeekStats) string {
	if s.AdvisorName != "" {
		return s.AdvisorName
	}
	return s.AdvisorID
}

func advisorsHave(n int) string {
	if n == 1 {
		return "1 advisor has"
	}
	return fmt.Sprintf("%d advisors have", n)
}

func advisorsAre(n int) string {
	if n == 1 {
		return "1 advisor is"
	}
	return fmt.Sprintf("%d advisors are", n)
}

func advisorsMeet(n int) string {
	if n == 1 {
		return "1 advisor meets"
	}
	return fmt.Sprintf("%d advisors meet", n)
}
