package performance

import (
	"time"

	"github.com/salesops/advisorpulse/internal/calendar"
)

// ComputeWeekStats folds one advisor's events for one week into point totals,
// rhythm and projection.
//
// It returns nil when the advisor has no events at all; callers substitute
// ZeroWeekStats. Events whose local day falls outside [weekStart, weekEnd] are
// discarded even if the caller already filtered them.
func ComputeWeekStats(
	events []ActivityEvent,
	advisorID string,
	scores ScoreMap,
	weeklyTarget int,
	weeklyDays int,
	today calendar.Date,
	weekStart calendar.Date,
	weekEnd calendar.Date,
	loc *time.Location,
) *AdvisorWeekStats {
	mine := eventsFor(events, advisorID)
	if len(mine) == 0 {
		return nil
	}

	daily := make(map[calendar.Date]int)
	metrics := make(map[string]int)
	for _, e := range mine {
		day := calendar.ToLocalDate(e.RecordedAt, loc)
		if day.Before(weekStart) || day.After(weekEnd) {
			continue
		}
		units := e.Units()
		metrics[e.MetricKey] += units
		daily[day] += units * scores.Points(e.MetricKey)
	}

	stats := ZeroWeekStats(advisorID)
	stats.WeekStart = weekStart
	stats.Metrics = metrics

	activeDays := 0
	for day, points := range daily {
		stats.Daily[day.String()] = points
		stats.WeekPoints += points
		if day.After(today) {
			continue
		}
		stats.WeekPointsUntilToday += points
		if points > 0 {
			activeDays++
		}
	}
	if weeklyDays > 0 && activeDays > weeklyDays {
		activeDays = weeklyDays
	}
	stats.DaysWithActivity = activeDays

	if activeDays > 0 {
		stats.CurrentRhythm = float64(stats.WeekPointsUntilToday) / float64(activeDays)
	}
	stats.Projection = stats.CurrentRhythm * float64(weeklyDays)
	if weeklyTarget > 0 {
		stats.PercentOfTarget = float64(stats.WeekPoints) / float64(weeklyTarget) * 100
	}
	stats.Status = WeekStatusFor(stats.PercentOfTarget, stats.Projection, weeklyTarget)

	return &stats
}

// ZeroWeekStats is the documented fallback for an advisor without events.
func ZeroWeekStats(advisorID string) AdvisorWeekStats {
	return AdvisorWeekStats{
		AdvisorID: advisorID,
		Status:    StatusAtRisk,
		Metrics:   map[string]int{},
		Daily:     map[string]int{},
	}
}

// WeekStatusFor applies the status thresholds in evaluation order.
func WeekStatusFor(percentOfTarget, projection float64, weeklyTarget int) WeekStatus {
	switch {
	case percentOfTarget >= 120:
		return StatusExcellent
	case percentOfTarget >= 100:
		return StatusCompleted
	case projection >= float64(weeklyTarget):
		return StatusOnTrack
	default:
		return StatusAtRisk
	}
}

func eventsFor(events []ActivityEvent, advisorID string) []ActivityEvent {
	var mine []ActivityEvent
	for _, e := range events {
		if e.ActorUserID == advisorID {
			mine = append(mine, e)
		}
	}
	return mine
}
