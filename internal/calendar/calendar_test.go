package calendar

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monterrey(t *testing.T) *time.Location {
	t.Helper()
	loc, err := LoadLocation("America/Monterrey")
	require.NoError(t, err)
	return loc
}

func TestParseAndString(t *testing.T) {
	d, err := Parse("2024-03-04")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", d.String())
	assert.Equal(t, time.Monday, d.Weekday())

	_, err = Parse("2024-13-40")
	assert.Error(t, err)
	_, err = Parse("not-a-date")
	assert.Error(t, err)
}

func TestNew_Normalizes(t *testing.T) {
	assert.Equal(t, "2024-03-01", New(2024, time.February, 30).String())
	assert.Equal(t, "2023-12-31", New(2024, time.January, 0).String())
}

func TestAddDays(t *testing.T) {
	testCases := []struct {
		name     string
		start    string
		n        int
		expected string
	}{
		{"forward within month", "2024-03-04", 3, "2024-03-07"},
		{"backward across month", "2024-03-01", -1, "2024-02-29"},
		{"across year", "2024-12-30", 3, "2025-01-02"},
		{"zero", "2024-06-15", 0, "2024-06-15"},
		{"across US DST start", "2024-03-09", 2, "2024-03-11"},
		{"across US DST end", "2024-11-02", 2, "2024-11-04"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, AddDays(MustParse(tc.start), tc.n).String())
		})
	}
}

func TestToLocalDate_UsesExplicitZone(t *testing.T) {
	loc := monterrey(t)

	// 2024-03-05 03:30 UTC is still the evening of 2024-03-04 in Monterrey (UTC-6).
	ts := time.Date(2024, time.March, 5, 3, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-04", ToLocalDate(ts, loc).String())
	assert.Equal(t, "2024-03-05", ToLocalDate(ts, time.UTC).String())

	// 06:00 UTC is local midnight.
	ts = time.Date(2024, time.March, 5, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-05", ToLocalDate(ts, loc).String())
}

func TestTodayAt(t *testing.T) {
	loc := monterrey(t)
	now := time.Date(2024, time.March, 11, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-03-10", TodayAt(now, loc).String())
}

func TestMondayOf(t *testing.T) {
	testCases := map[string]string{
		"2024-03-04": "2024-03-04", // Monday
		"2024-03-06": "2024-03-04", // Wednesday
		"2024-03-10": "2024-03-04", // Sunday
		"2024-03-11": "2024-03-11", // next Monday
		"2024-01-03": "2024-01-01",
		"2023-01-01": "2022-12-26", // Sunday across year
	}
	for in, expected := range testCases {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, expected, MondayOf(MustParse(in)).String())
		})
	}
}

func TestBusinessDaysElapsed(t *testing.T) {
	weekStart := MustParse("2024-03-04")

	testCases := []struct {
		name     string
		today    string
		total    int
		expected int
	}{
		{"monday counts itself", "2024-03-04", 5, 1},
		{"wednesday", "2024-03-06", 5, 3},
		{"friday", "2024-03-08", 5, 5},
		{"saturday adds nothing", "2024-03-09", 5, 5},
		{"sunday adds nothing", "2024-03-10", 5, 5},
		{"capped at total", "2024-03-08", 4, 4},
		{"today before week", "2024-03-01", 5, 0},
		{"long span capped", "2024-03-20", 5, 5},
		{"zero total", "2024-03-06", 0, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, BusinessDaysElapsed(weekStart, MustParse(tc.today), tc.total))
		})
	}
}

func TestCompare(t *testing.T) {
	a := MustParse("2024-03-04")
	b := MustParse("2024-03-05")
	c := MustParse("2025-01-01")

	assert.True(t, a.Before(b))
	assert.True(t, c.After(b))
	assert.True(t, a.Equal(MustParse("2024-03-04")))
	assert.Equal(t, 0, a.Compare(a))
	assert.Equal(t, 1, a.DaysUntil(b))
	assert.Equal(t, -1, b.DaysUntil(a))
}

func TestDaysUntil_AcrossDST(t *testing.T) {
	assert.Equal(t, 7, MustParse("2024-03-04").DaysUntil(MustParse("2024-03-11")))
	assert.Equal(t, 7, MustParse("2024-10-28").DaysUntil(MustParse("2024-11-04")))
}

func TestStartIn(t *testing.T) {
	loc := monterrey(t)
	start := MustParse("2024-03-04").StartIn(loc)
	assert.Equal(t, time.Date(2024, time.March, 4, 6, 0, 0, 0, time.UTC), start.UTC())
}

func TestJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Day Date `json:"day"`
	}
	raw, err := json.Marshal(wrapper{Day: MustParse("2024-03-04")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"2024-03-04"}`, string(raw))

	var decoded wrapper
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.True(t, decoded.Day.Equal(MustParse("2024-03-04")))
}

func TestLoadLocation_DefaultsToMonterrey(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, "America/Monterrey", loc.String())

	_, err = LoadLocation("Mars/Olympus_Mons")
	assert.Error(t, err)
}
