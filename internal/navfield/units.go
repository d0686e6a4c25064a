package navfield

import "strings"

// Unit codes accepted by Convert. Input codes are matched case-insensitively.
const (
	KM    = "km"
	NM    = "nm"
	Knots = "knots"
	MPH   = "mph"
	KPH   = "kph"
	MS    = "ms"
)

// Conversion ratios. The ratios table decides which constant divides which
// direction. The two directions of a pair are separate published values, not
// reciprocals of each other.
const (
	NMInKM = 1.852
	KMInNM = 0.539956803

	KnotsInMS  = 0.514444
	KnotsInMPH = 1.150779
	KnotsInKPH = 1.852

	MPHInMS    = 0.44704
	MPHInKPH   = 1.609344
	MPHInKnots = 0.868976

	KPHInMS    = 0.277778
	KPHInMPH   = 0.621371
	KPHInKnots = 0.539957

	MSInKPH   = 3.6
	MSInMPH   = 2.236936
	MSInKnots = 1.943844
)

type unitPair struct {
	from, to string
}

// ratios maps a conversion to its divisor: out = in / ratios[pair].
// Read-only after package initialization.
var ratios = map[unitPair]float64{
	{KM, NM}: NMInKM,
	{NM, KM}: KMInNM,

	{Knots, KPH}: KPHInKnots,
	{Knots, MS}:  MSInKnots,
	{Knots, MPH}: MPHInKnots,

	{KPH, Knots}: KnotsInKPH,
	{KPH, MS}:    MSInKPH,
	{KPH, MPH}:   MPHInKPH,

	{MPH, Knots}: KnotsInMPH,
	{MPH, MS}:    MSInMPH,
	{MPH, KPH}:   KPHInMPH,

	{MS, Knots}: KnotsInMS,
	{MS, MPH}:   MPHInMS,
	{MS, KPH}:   KPHInMS,
}

// Convert coerces value with ToFloat and converts it from inputUnit to
// outputUnit. Equal units return the coerced value. A pair with no ratio,
// whether an unknown code or a cross-family pair such as km -> knots, also
// returns the coerced value unchanged.
func Convert[T Numeric](value T, inputUnit, outputUnit string) float64 {
	v := ToFloat(value)

	in := strings.ToLower(inputUnit)
	out := strings.ToLower(outputUnit)
	if in == out {
		return v
	}

	divisor, ok := ratios[unitPair{in, out}]
	if !ok {
		return v
	}
	return v / divisor
}

// Ratio returns the divisor Convert applies for inputUnit -> outputUnit and
// whether such a conversion exists.
func Ratio(inputUnit, outputUnit string) (float64, bool) {
	divisor, ok := ratios[unitPair{strings.ToLower(inputUnit), strings.ToLower(outputUnit)}]
	return divisor, ok
}

// IsSpeedUnit reports whether u is one of knots, mph, kph or ms.
func IsSpeedUnit(u string) bool {
	switch strings.ToLower(u) {
	case Knots, MPH, KPH, MS:
		return true
	}
	return false
}

// IsDistanceUnit reports whether u is km or nm.
func IsDistanceUnit(u string) bool {
	switch strings.ToLower(u) {
	case KM, NM:
		return true
	}
	return false
}
