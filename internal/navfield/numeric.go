package navfield

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Numeric is a raw field value: either the text produced by the tokenizer or
// a number that has already been decoded.
type Numeric interface {
	string | int | int32 | int64 | float32 | float64
}

// ToInt coerces v to an integral value. Blank text is 0. Otherwise the
// leading base-10 integer is used and anything after it is ignored
// ("42abc" -> 42, "3.9" -> 3). Text without a leading integer and non-finite
// numbers yield NaN, which is why the result is a float64.
func ToInt[T Numeric](v T) float64 {
	switch x := any(v).(type) {
	case string:
		if isBlank(x) {
			return 0
		}
		return parseLeadingInt(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return truncFinite(float64(x))
	case float64:
		return truncFinite(x)
	}
	return math.NaN()
}

// ToFloat coerces v to a float64. Blank text is 0. Otherwise the longest
// leading decimal literal is used ("3.14abc" -> 3.14, "-.5e2" -> -50,
// "Infinity" -> +Inf). Text without one yields NaN.
func ToFloat[T Numeric](v T) float64 {
	switch x := any(v).(type) {
	case string:
		if isBlank(x) {
			return 0
		}
		return parseLeadingFloat(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	}
	return math.NaN()
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

func truncFinite(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return math.NaN()
	}
	return math.Trunc(f)
}

// splitSign strips leading whitespace and an optional sign.
func splitSign(s string) (neg bool, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	if s == "" {
		return false, s
	}
	switch s[0] {
	case '-':
		return true, s[1:]
	case '+':
		return false, s[1:]
	}
	return false, s
}

func countDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

func parseLeadingInt(s string) float64 {
	neg, rest := splitSign(s)
	n := countDigits(rest)
	if n == 0 {
		return math.NaN()
	}
	// ParseFloat keeps very long digit runs finite where Atoi would overflow.
	v, err := strconv.ParseFloat(rest[:n], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	if neg {
		return -v
	}
	return v
}

func parseLeadingFloat(s string) float64 {
	neg, rest := splitSign(s)
	if strings.HasPrefix(rest, "Infinity") {
		if neg {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	end := countDigits(rest)
	digits := end
	if end < len(rest) && rest[end] == '.' {
		frac := countDigits(rest[end+1:])
		digits += frac
		end += 1 + frac
	}
	if digits == 0 {
		return math.NaN()
	}
	if end < len(rest) && (rest[end] == 'e' || rest[end] == 'E') {
		exp := end + 1
		if exp < len(rest) && (rest[exp] == '+' || rest[exp] == '-') {
			exp++
		}
		if n := countDigits(rest[exp:]); n > 0 {
			end = exp + n
		}
	}

	v, err := strconv.ParseFloat(rest[:end], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	if neg {
		return -v
	}
	return v
}
