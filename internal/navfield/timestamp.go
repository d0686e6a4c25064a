package navfield

import (
	"math"
	"time"

	"github.com/jonboulle/clockwork"
)

// CenturyPivot splits two-digit years: below it a year is in the 2000s, at or
// above it in the 1900s. The value is inherited from older NMEA tooling and
// is kept fixed rather than rolling with the current date.
const CenturyPivot = 73

// ISOLayout renders instants as ISO-8601 UTC with millisecond precision.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// Instant assembles a UTC instant from an HHMMSS time field and a DDMMYY date
// field. Seconds come from the last two characters of the time field, so any
// suffix after the seconds shifts what is read ("123045.50" reads 50 seconds).
//
// A blank field is filled from clk (the real clock when clk is nil). The
// clock's month is taken as a zero-based index while a date field's month is
// one-based, and both go through the same "month - 1" step, so a clock-filled
// date lands one month before the clock's date. Out-of-range components roll
// over the way time.Date normalizes them.
//
// ok is false when a component does not coerce to a number.
func Instant(clk clockwork.Clock, timeField, dateField string) (t time.Time, ok bool) {
	var hours, minutes, seconds float64
	if timeField != "" {
		hours = ToInt(substr(timeField, 0, 2))
		minutes = ToInt(substr(timeField, 2, 4))
		seconds = ToInt(lastTwo(timeField))
	} else {
		now := clockOrReal(clk).Now().UTC()
		hours = float64(now.Hour())
		minutes = float64(now.Minute())
		seconds = float64(now.Second())
	}

	var year, month, day float64
	if dateField != "" {
		day = ToInt(substr(dateField, 0, 2))
		month = ToInt(substr(dateField, 2, 4))
		year = expandYear(ToInt(lastTwo(dateField)))
	} else {
		now := clockOrReal(clk).Now().UTC()
		year = float64(now.Year())
		month = float64(now.Month() - 1)
		day = float64(now.Day())
	}

	for _, v := range [...]float64{year, month, day, hours, minutes, seconds} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return time.Time{}, false
		}
	}

	monthIndex := int(month) - 1
	return time.Date(int(year), time.January+time.Month(monthIndex), int(day),
		int(hours), int(minutes), int(seconds), 0, time.UTC), true
}

// NormalizeTimestamp renders Instant in ISOLayout, or returns "" when the
// fields do not coerce.
func NormalizeTimestamp(clk clockwork.Clock, timeField, dateField string) string {
	t, ok := Instant(clk, timeField, dateField)
	if !ok {
		return ""
	}
	return t.Format(ISOLayout)
}

func expandYear(yy float64) float64 {
	if yy < CenturyPivot {
		return 2000 + yy
	}
	return 1900 + yy
}

func clockOrReal(clk clockwork.Clock) clockwork.Clock {
	if clk == nil {
		return clockwork.NewRealClock()
	}
	return clk
}

// substr returns s[i:j] clamped to the length of s.
func substr(s string, i, j int) string {
	if i > len(s) {
		return ""
	}
	if j > len(s) {
		j = len(s)
	}
	return s[i:j]
}

func lastTwo(s string) string {
	if len(s) < 2 {
		return s
	}
	return s[len(s)-2:]
}
