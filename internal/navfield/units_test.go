package navfield

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allUnits = []string{KM, NM, Knots, MPH, KPH, MS}

func TestConvert_Identity(t *testing.T) {
	for _, u := range allUnits {
		t.Run(u, func(t *testing.T) {
			assert.Equal(t, 12.5, Convert(12.5, u, u))
			assert.Equal(t, -3.0, Convert("-3", u, u))
		})
	}
}

func TestConvert_IdentityIgnoresCase(t *testing.T) {
	assert.Equal(t, 8.0, Convert(8, "KNOTS", "knots"))
	assert.Equal(t, 8.0, Convert(8, "Nm", "nM"))
}

func TestConvert_CrossFamilyPassThrough(t *testing.T) {
	assert.Equal(t, 10.0, Convert(10, "km", "knots"))
	assert.Equal(t, 10.0, Convert(10, "mph", "nm"))
}

func TestConvert_UnknownUnitPassThrough(t *testing.T) {
	assert.Equal(t, 5.0, Convert(5, "furlongs", "knots"))
	assert.Equal(t, 5.0, Convert("5", "knots", "fathoms"))
}

func TestConvert_Pairs(t *testing.T) {
	tests := []struct {
		in, out  string
		value    float64
		expected float64
	}{
		{KM, NM, 1.852, 1},
		{NM, KM, 1, 1.852},
		{Knots, KPH, 100, 185.2},
		{KPH, Knots, 185.2, 100},
		{Knots, MS, 10, 5.14444},
		{MS, Knots, 5.14444, 10},
		{Knots, MPH, 10, 11.50779},
		{MPH, Knots, 11.50779, 10},
		{KPH, MS, 36, 10},
		{MS, KPH, 10, 36},
		{MPH, KPH, 10, 16.09344},
		{KPH, MPH, 16.09344, 10},
		{MPH, MS, 10, 4.4704},
		{MS, MPH, 4.4704, 10},
	}

	for _, tt := range tests {
		t.Run(tt.in+"->"+tt.out, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Convert(tt.value, tt.in, tt.out), 1e-3)
		})
	}
}

func TestConvert_RoundTripTolerance(t *testing.T) {
	kph := Convert(100, "knots", "kph")
	back := Convert(kph, "kph", "knots")
	assert.InDelta(t, 100, back, 1e-3)
}

func TestConvert_CoercesStrings(t *testing.T) {
	assert.InDelta(t, 43.2, Convert("12", "ms", "kph"), 1e-3)
	assert.InDelta(t, 43.2, Convert(" 12 m/s", "MS", "KPH"), 1e-3)
	assert.Equal(t, 0.0, Convert("", "knots", "kph"))
}

func TestConvert_NaN(t *testing.T) {
	assert.True(t, math.IsNaN(Convert("abc", "knots", "kph")))
	assert.True(t, math.IsNaN(Convert("abc", "knots", "knots")))
	assert.True(t, math.IsNaN(Convert("abc", "km", "knots")))
}

func TestRatio(t *testing.T) {
	r, ok := Ratio("KNOTS", "kph")
	require.True(t, ok)
	assert.Equal(t, KPHInKnots, r)

	_, ok = Ratio("km", "knots")
	assert.False(t, ok)

	_, ok = Ratio("knots", "knots")
	assert.False(t, ok, "identity is handled by Convert, not the table")
}

func TestRatio_DirectionsAreIndependent(t *testing.T) {
	forward, ok := Ratio(Knots, KPH)
	require.True(t, ok)
	backward, ok := Ratio(KPH, Knots)
	require.True(t, ok)

	product := forward * backward
	assert.NotEqual(t, 1.0, product)
	assert.InDelta(t, 1.0, product, 1e-5)
}

func TestRatio_EveryPairHasReverse(t *testing.T) {
	for pair := range ratios {
		_, ok := ratios[unitPair{pair.to, pair.from}]
		assert.True(t, ok, "%s -> %s has no reverse", pair.from, pair.to)
	}
	assert.Len(t, ratios, 14)
}

func TestUnitFamilies(t *testing.T) {
	for _, u := range []string{"knots", "MPH", "kph", "ms"} {
		assert.True(t, IsSpeedUnit(u), u)
		assert.False(t, IsDistanceUnit(u), u)
	}
	for _, u := range []string{"km", "NM"} {
		assert.True(t, IsDistanceUnit(u), u)
		assert.False(t, IsSpeedUnit(u), u)
	}
	assert.False(t, IsSpeedUnit("furlongs"))
	assert.False(t, IsDistanceUnit(""))
}
