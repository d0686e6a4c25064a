package navfield

import "strings"

// DecodeCoordinate converts a ddmm.mmmm / dddmm.mmmm field and its
// hemisphere letter to signed decimal degrees.
//
// The last two digits before the decimal point and everything after it are
// minutes; whatever precedes them is whole degrees, so "454.5824" is 4°54.5824'
// and "07.5" is 0°7.5'. Minutes are not range checked. Text that does not
// coerce yields NaN.
func DecodeCoordinate(raw, pole string) float64 {
	intPart, frac, _ := strings.Cut(raw, ".")

	split := len(intPart) - 2
	if split < 0 {
		split = 0
	}
	degrees := ToFloat(intPart[:split])
	minutes := ToFloat(intPart[split:] + "." + frac)

	return signed(degrees+minutes/60, pole)
}

func signed(v float64, pole string) float64 {
	if isNegativePole(pole) {
		return -v
	}
	return v
}

func isNegativePole(pole string) bool {
	return strings.EqualFold(pole, "S") || strings.EqualFold(pole, "W")
}
