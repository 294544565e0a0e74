package performance

import (
	"fmt"
	"math"
	"sort"
)

// Business policy thresholds of the classifier. Changing any of them changes
// how advisors are labeled on every dashboard.
const (
	intermittentMaxActiveDays  = 2
	intermittentMaxMinimumsMet = 2
	growingMinKeyMetricsMet    = 3
	fallbackMinKeyMetricsMet   = 2
	conversionGoalShare        = 0.8
	maxMissingMetrics          = 2
)

// pushMetrics must all be zero for a week to count as inactive. Referrals
// are not among them: a week of referrals alone is still inactive.
var pushMetrics = []string{
	MetricCalls,
	MetricMeetingsSet,
	MetricMeetingsHeld,
	MetricProposalsPresented,
	MetricApplicationsSubmitted,
	MetricPoliciesPaid,
}

var keyActivityMetrics = []string{
	MetricCalls,
	MetricMeetingsSet,
	MetricMeetingsHeld,
	MetricProposalsPresented,
}

var coreActivityMetrics = []string{
	MetricCalls,
	MetricMeetingsSet,
	MetricMeetingsHeld,
}

var profileMeta = map[ProfileKey]struct {
	label string
	tone  string
}{
	ProfileProductive:   {"Productive", "success"},
	ProfileGrowing:      {"Growing", "info"},
	ProfileIntermittent: {"Intermittent", "warning"},
	ProfileInactive:     {"Inactive", "danger"},
}

// ProfileInput is everything the classifier looks at.
type ProfileInput struct {
	PointsWeek    int
	PercentOfGoal float64 // fraction of the weekly goal: 0.8 means 80%
	DaysActive    int
	Metrics       map[string]int
	Minimums      WeeklyMinimums
}

// ProfileInputFromStats builds classifier input from a week's stats.
func ProfileInputFromStats(stats AdvisorWeekStats, minimums WeeklyMinimums) ProfileInput {
	return ProfileInput{
		PointsWeek:    stats.WeekPoints,
		PercentOfGoal: stats.PercentOfTarget / 100,
		DaysActive:    stats.DaysWithActivity,
		Metrics:       stats.Metrics,
		Minimums:      minimums,
	}
}

// profileFacts are the booleans and counts every rule is written against,
// computed once per classification.
type profileFacts struct {
	in                 ProfileInput
	pushAllZero        bool
	minimumsConfigured int
	minimumsMet        int
	keyMet             int
	coreMet            bool
	applicationsMet    bool
	policiesMet        bool
	conversion         bool
}

func (f profileFacts) percent() int {
	return int(math.Round(f.in.PercentOfGoal * 100))
}

type profileRule struct {
	key     ProfileKey
	when    func(f profileFacts) bool
	reasons func(f profileFacts) []string
}

// profileRules is evaluated top to bottom; the first match wins.
var profileRules = []profileRule{
	{
		key: ProfileInactive,
		when: func(f profileFacts) bool {
			return f.in.PointsWeek == 0 || f.pushAllZero
		},
		reasons: func(f profileFacts) []string {
			first := "No points recorded this week"
			if f.in.PointsWeek > 0 {
				first = "No calls, meetings, proposals or conversions recorded this week"
			}
			return []string{
				first,
				"A single call today restarts the week",
			}
		},
	},
	{
		key: ProfileIntermittent,
		when: func(f profileFacts) bool {
			return f.in.DaysActive <= intermittentMaxActiveDays || f.minimumsMet <= intermittentMaxMinimumsMet
		},
		reasons: func(f profileFacts) []string {
			reasons := make([]string, 0, 3)
			if f.in.DaysActive <= intermittentMaxActiveDays {
				reasons = append(reasons, fmt.Sprintf("Activity on only %s this week", pluralDays(f.in.DaysActive)))
			}
			reasons = append(reasons, fmt.Sprintf("%d of %d weekly minimums met", f.minimumsMet, f.minimumsConfigured))
			reasons = append(reasons, fmt.Sprintf("%d%% of the weekly goal reached", f.percent()))
			return reasons
		},
	},
	{
		key: ProfileGrowing,
		when: func(f profileFacts) bool {
			return f.keyMet >= growingMinKeyMetricsMet && !f.conversion
		},
		reasons: func(f profileFacts) []string {
			return []string{
				fmt.Sprintf("%d of %d key activities at their minimum", f.keyMet, len(keyActivityMetrics)),
				"No applications or paid policies at their minimum yet",
				fmt.Sprintf("%d%% of the weekly goal reached", f.percent()),
			}
		},
	},
	{
		key: ProfileProductive,
		when: func(f profileFacts) bool {
			return f.coreMet && f.conversion
		},
		reasons: func(f profileFacts) []string {
			return []string{
				"Calls and meetings at or above their minimums",
				conversionReason(f),
				fmt.Sprintf("Active on %s", pluralDays(f.in.DaysActive)),
			}
		},
	},
	{
		key: ProfileGrowing,
		when: func(f profileFacts) bool {
			return f.keyMet >= fallbackMinKeyMetricsMet
		},
		reasons: func(f profileFacts) []string {
			return []string{
				fmt.Sprintf("%d of %d key activities at their minimum", f.keyMet, len(keyActivityMetrics)),
				fmt.Sprintf("%d%% of the weekly goal reached", f.percent()),
			}
		},
	},
	{
		key:  ProfileIntermittent,
		when: func(profileFacts) bool { return true },
		reasons: func(f profileFacts) []string {
			return []string{
				fmt.Sprintf("Only %d of %d key activities at their minimum", f.keyMet, len(keyActivityMetrics)),
				fmt.Sprintf("%d%% of the weekly goal reached", f.percent()),
			}
		},
	},
}

// Classify labels an advisor's week as productive, growing, intermittent or
// inactive. The result does not depend on map iteration order.
func Classify(in ProfileInput) AdvisorProfile {
	facts := collectProfileFacts(in)

	for _, rule := range profileRules {
		if !rule.when(facts) {
			continue
		}
		meta := profileMeta[rule.key]
		return AdvisorProfile{
			Key:            rule.key,
			Label:          meta.label,
			Tone:           meta.tone,
			Reasons:        rule.reasons(facts),
			MissingMetrics: missingMetrics(in.Metrics, in.Minimums),
		}
	}

	// Unreachable: the last rule always matches.
	meta := profileMeta[ProfileIntermittent]
	return AdvisorProfile{Key: ProfileIntermittent, Label: meta.label, Tone: meta.tone}
}

func collectProfileFacts(in ProfileInput) profileFacts {
	f := profileFacts{in: in, pushAllZero: true}
	current := func(metric string) int { return in.Metrics[metric] }

	for _, m := range pushMetrics {
		if current(m) != 0 {
			f.pushAllZero = false
			break
		}
	}

	for metric, min := range in.Minimums {
		if min <= 0 {
			continue
		}
		f.minimumsConfigured++
		if current(metric) >= min {
			f.minimumsMet++
		}
	}

	for _, m := range keyActivityMetrics {
		if in.Minimums.Met(m, current(m)) {
			f.keyMet++
		}
	}

	f.coreMet = true
	for _, m := range coreActivityMetrics {
		if !in.Minimums.Met(m, current(m)) {
			f.coreMet = false
		}
	}

	f.applicationsMet = in.Minimums.Met(MetricApplicationsSubmitted, current(MetricApplicationsSubmitted))
	f.policiesMet = in.Minimums.Met(MetricPoliciesPaid, current(MetricPoliciesPaid))
	f.conversion = f.applicationsMet || f.policiesMet || in.PercentOfGoal >= conversionGoalShare

	return f
}

func conversionReason(f profileFacts) string {
	switch {
	case f.applicationsMet:
		return "Applications submitted meet the weekly minimum"
	case f.policiesMet:
		return "Paid policies meet the weekly minimum"
	default:
		return fmt.Sprintf("%d%% of the weekly goal reached", f.percent())
	}
}

// missingMetrics returns the metrics furthest below their minimum, ordered by
// current/minimum ascending, at most maxMissingMetrics of them.
func missingMetrics(metrics map[string]int, minimums WeeklyMinimums) []MissingMetric {
	missing := make([]MissingMetric, 0)
	for metric, min := range minimums {
		if min <= 0 {
			continue
		}
		if cur := metrics[metric]; cur < min {
			missing = append(missing, MissingMetric{MetricKey: metric, Current: cur, Minimum: min})
		}
	}

	sort.Slice(missing, func(i, j int) bool {
		// current_i/min_i < current_j/min_j, cross-multiplied to stay in integers
		li := missing[i].Current * missing[j].Minimum
		lj := missing[j].Current * missing[i].Minimum
		if li != lj {
			return li < lj
		}
		return missing[i].MetricKey < missing[j].MetricKey
	})

	if len(missing) > maxMissingMetrics {
		missing = missing[:maxMissingMetrics]
	}
	return missing
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
