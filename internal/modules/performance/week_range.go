package performance

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/salesops/advisorpulse/internal/calendar"
)

// WeekRange bounds an ISO week (Monday–Sunday) in local calendar terms.
type WeekRange struct {
	WeekStart     calendar.Date `json:"week_start"`
	WeekEnd       calendar.Date `json:"week_end"`
	NextWeekStart calendar.Date `json:"next_week_start"`
}

// ComputeWeekRange returns the week containing anchor, or the week containing
// today when anchor is empty. Anchors are expected to be Mondays; anything else
// is accepted best-effort and only logged.
func ComputeWeekRange(anchor string, today calendar.Date, log zerolog.Logger) WeekRange {
	base := today
	if anchor != "" {
		parsed, err := calendar.Parse(anchor)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("anchor", anchor).Msg("Malformed week anchor, using current week")
		case parsed.Weekday() != time.Monday:
			log.Warn().
				Str("anchor", anchor).
				Str("weekday", parsed.Weekday().String()).
				Msg("Week anchor is not a Monday, snapping to the Monday before it")
			base = parsed
		default:
			base = parsed
		}
	}
	return WeekRangeFor(base)
}

// WeekRangeFor returns the week containing d.
func WeekRangeFor(d calendar.Date) WeekRange {
	start := calendar.MondayOf(d)
	return WeekRange{
		WeekStart:     start,
		WeekEnd:       start.AddDays(6),
		NextWeekStart: start.AddDays(7),
	}
}

// Previous returns the week before w.
func (w WeekRange) Previous() WeekRange {
	return WeekRangeFor(w.WeekStart.AddDays(-7))
}

// Contains reports whether d falls in [WeekStart, NextWeekStart).
func (w WeekRange) Contains(d calendar.Date) bool {
	return !d.Before(w.WeekStart) && d.Before(w.NextWeekStart)
}

// Bounds returns the half-open instant interval of the week in loc, for
// querying event stores.
func (w WeekRange) Bounds(loc *time.Location) (from, to time.Time) {
	return w.WeekStart.StartIn(loc), w.NextWeekStart.StartIn(loc)
}
