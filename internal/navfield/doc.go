// Package navfield normalizes individual NMEA 0183 field values.
//
// The package works on fields that an upstream tokenizer has already isolated
// from a sentence. It never sees a whole frame and does no checksum or framing
// work.
//
// # Coercion
//
// Field text is coerced leniently: blank input is zero, a leading numeric
// prefix is used when trailing junk follows ("12.5kn" -> 12.5), and input
// with no numeric prefix yields NaN. Callers check for NaN with [math.IsNaN].
// No function in this package returns an error or panics on bad input.
//
// # Units
//
//	distance: km, nm
//	speed:    knots, mph, kph, ms
//
// Unit codes are case-insensitive. Conversions only exist inside a family;
// any other pair (km -> knots, or an unknown code) returns the value as is.
// Each direction of a pair has its own constant, so a forward and backward
// conversion can differ from the original value in the last few digits.
//
// # Coordinates
//
//	"5222.3277" N  ->  52°22.3277'  ->  52.372128
//	"454.5824"  E  ->   4°54.5824'  ->   4.909707
//
// The last two digits before the decimal point start the minutes. S and W
// are negative.
//
// # Timestamps
//
// Time fields are HHMMSS and date fields DDMMYY. Seconds are always read from
// the last two characters of the time field. Two-digit years below
// [CenturyPivot] are in the 2000s, the rest in the 1900s. A blank field is
// replaced by the injected clock's reading; see [Instant] for the month quirk
// of that fallback.
package navfield
