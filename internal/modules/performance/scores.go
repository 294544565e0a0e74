package performance

// ScoreMap maps a metric key to its points per unit.
type ScoreMap map[string]int

// BuildScoreMap converts configuration rows into a lookup table. Later rows
// win over earlier ones and negative weights are clamped to zero.
func BuildScoreMap(rows []MetricScore) ScoreMap {
	scores := make(ScoreMap, len(rows))
	for _, row := range rows {
		if row.MetricKey == "" {
			continue
		}
		points := row.PointsPerUnit
		if points < 0 {
			points = 0
		}
		scores[row.MetricKey] = points
	}
	return scores
}

// Points returns the points per unit of metric, 0 when unconfigured.
func (s ScoreMap) Points(metric string) int {
	return s[metric]
}

// WeeklyMinimums maps a metric key to the minimum units expected per advisor per week.
type WeeklyMinimums map[string]int

// DefaultWeeklyMinimums returns a fresh copy of the hardcoded minimum set used
// whenever an owner has no override for a metric.
func DefaultWeeklyMinimums() WeeklyMinimums {
	return WeeklyMinimums{
		MetricCalls:                 30,
		MetricMeetingsSet:           10,
		MetricMeetingsHeld:          8,
		MetricProposalsPresented:    5,
		MetricApplicationsSubmitted: 1,
		MetricReferrals:             30,
		MetricPoliciesPaid:          1,
	}
}

// ResolveMinimums applies the two-tier lookup override[key] ?? defaults[key].
// An override of 0 is kept and means "no minimum".
func ResolveMinimums(overrides map[string]int) WeeklyMinimums {
	resolved := DefaultWeeklyMinimums()
	for key, min := range overrides {
		if min < 0 {
			min = 0
		}
		resolved[key] = min
	}
	return resolved
}

// Minimum returns the configured minimum for metric and whether one applies.
func (m WeeklyMinimums) Minimum(metric string) (int, bool) {
	min, ok := m[metric]
	if !ok || min <= 0 {
		return 0, false
	}
	return min, true
}

// Met reports whether current satisfies the metric's minimum. Metrics without
// a minimum are always met.
func (m WeeklyMinimums) Met(metric string, current int) bool {
	min, ok := m.Minimum(metric)
	return !ok || current >= min
}

// WeeklyTarget is dailyTarget × weeklyDays.
func WeeklyTarget(dailyTarget, weeklyDays int) int {
	return dailyTarget * weeklyDays
}

// ceilDiv returns ceil(a/b) for a >= 0, b > 0.
func ceilDiv(a, b int) int {
	if b <= 0 {
		return 0
	}
	if a <= 0 {
		return 0
	}
	return (a + b - 1) / b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
