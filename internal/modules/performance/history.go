package performance

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/salesops/advisorpulse/internal/calendar"
)

// ComputeHistoryStats groups an advisor's multi-week events by the Monday of
// each event's local week and derives consistency statistics. It returns nil
// on empty input; callers substitute ZeroHistoryStats.
func ComputeHistoryStats(
	events []ActivityEvent,
	advisorID string,
	scores ScoreMap,
	weeklyTarget int,
	loc *time.Location,
) *AdvisorHistoryStats {
	mine := eventsFor(events, advisorID)
	if len(mine) == 0 {
		return nil
	}

	byWeek := make(map[calendar.Date]int)
	for _, e := range mine {
		monday := calendar.MondayOf(calendar.ToLocalDate(e.RecordedAt, loc))
		byWeek[monday] += e.Units() * scores.Points(e.MetricKey)
	}

	weeks := make([]WeekTotal, 0, len(byWeek))
	for monday, points := range byWeek {
		weeks = append(weeks, WeekTotal{WeekStart: monday, Points: points})
	}
	sort.Slice(weeks, func(i, j int) bool {
		return weeks[i].WeekStart.Before(weeks[j].WeekStart)
	})

	history := ZeroHistoryStats(advisorID)
	history.Weeks = weeks
	history.WeeksObserved = len(weeks)

	sums := make([]float64, len(weeks))
	for i, w := range weeks {
		sums[i] = float64(w.Points)
		if w.Points >= weeklyTarget {
			history.WeeksCompleted++
		}
		if w.Points > history.BestWeek {
			history.BestWeek = w.Points
		}
	}
	history.AveragePoints = int(math.Round(stat.Mean(sums, nil)))

	return &history
}

// ZeroHistoryStats is the documented all-zero fallback.
func ZeroHistoryStats(advisorID string) AdvisorHistoryStats {
	return AdvisorHistoryStats{
		AdvisorID: advisorID,
		Weeks:     []WeekTotal{},
	}
}
