// Package calendar provides time-zone-safe civil date arithmetic.
//
// A Date carries no time of day and no location. Instants are projected onto
// a Date exactly once, through an explicit *time.Location, and from then on
// all arithmetic is pure calendar arithmetic. Daylight-saving transitions can
// therefore never move a value across a day boundary.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the wire format of a Date.
const Layout = "2006-01-02"

// DefaultTimezone is the evaluation zone used when none is configured.
const DefaultTimezone = "America/Monterrey"

// Date is a calendar day. The zero value is not a valid date; use IsZero.
type Date struct {
	year  int
	month time.Month
	day   int
}

// New returns the normalized date for year/month/day (e.g. Jan 32 becomes Feb 1).
func New(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// Parse reads a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return New(t.Year(), t.Month(), t.Day()), nil
}

// MustParse is Parse for literals in tests and fixtures; it panics on bad input.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// LoadLocation resolves an IANA zone name. An empty name resolves DefaultTimezone,
// never the host's local zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", name, err)
	}
	return loc, nil
}

// TodayLocal returns today's date in loc.
func TodayLocal(loc *time.Location) Date {
	return TodayAt(time.Now(), loc)
}

// TodayAt returns the date of now in loc.
func TodayAt(now time.Time, loc *time.Location) Date {
	return ToLocalDate(now, loc)
}

// ToLocalDate projects an instant onto the calendar day it falls on in loc.
func ToLocalDate(ts time.Time, loc *time.Location) Date {
	local := ts.In(loc)
	return Date{year: local.Year(), month: local.Month(), day: local.Day()}
}

// AddDays shifts d by n calendar days; n may be negative.
func AddDays(d Date, n int) Date {
	return d.AddDays(n)
}

// MondayOf returns the Monday on or before d.
func MondayOf(d Date) Date {
	offset := (int(d.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return d.AddDays(-offset)
}

// IsBusinessDay reports whether d falls Monday through Friday.
func IsBusinessDay(d Date) bool {
	wd := d.Weekday()
	return wd >= time.Monday && wd <= time.Friday
}

// BusinessDaysElapsed counts Monday–Friday days in [weekStart, today], capped
// at total. It returns 0 when today precedes weekStart.
func BusinessDaysElapsed(weekStart, today Date, total int) int {
	if today.Before(weekStart) || total <= 0 {
		return 0
	}
	count := 0
	for d := weekStart; !d.After(today); d = d.AddDays(1) {
		if IsBusinessDay(d) {
			count++
			if count >= total {
				return total
			}
		}
	}
	return count
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return New(d.year, d.month, d.day+n)
}

// Year, Month and Day expose the components.
func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d.year == 0 && d.month == 0 && d.day == 0
}

// Weekday returns the day of the week.
func (d Date) Weekday() time.Weekday {
	return d.utc().Weekday()
}

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int {
	switch {
	case d.year != o.year:
		return cmpInt(d.year, o.year)
	case d.month != o.month:
		return cmpInt(int(d.month), int(o.month))
	default:
		return cmpInt(d.day, o.day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d.Compare(o) == 0 }

// DaysUntil returns the number of calendar days from d to o (negative if o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.utc().Sub(d.utc()).Hours() / 24)
}

// StartIn returns the instant at which d begins in loc.
func (d Date) StartIn(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// String formats d as YYYY-MM-DD.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// MarshalText implements encoding.TextMarshaler (used by JSON and msgpack map keys).
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalBinary implements encoding.BinaryMarshaler so snapshot codecs keep the
// same YYYY-MM-DD representation.
func (d Date) MarshalBinary() ([]byte, error) {
	return d.MarshalText()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (d *Date) UnmarshalBinary(b []byte) error {
	return d.UnmarshalText(b)
}

func (d Date) utc() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
