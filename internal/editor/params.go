package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxCoefficient bounds the magnitude of a contrast coefficient. Larger
// values already push every channel to 0 or 255.
const MaxCoefficient = 100.0

// ParseOffset parses a brightness offset: an optionally signed base-10
// integer, surrounding whitespace allowed.
func ParseOffset(s string) (int, error) {
	n, err := parseInt(s)
	if err != nil {
		return 0, fmt.Errorf("invalid brightness offset %q: %w", s, err)
	}
	return n, nil
}

// ParseThreshold parses a binarization threshold: an optionally signed
// base-10 integer.
func ParseThreshold(s string) (int, error) {
	n, err := parseInt(s)
	if err != nil {
		return 0, fmt.Errorf("invalid threshold %q: %w", s, err)
	}
	return n, nil
}

// ParseCoefficient parses a contrast coefficient. Only decimal numeric
// literals are accepted ("1.5", "-0.25", "2e-1"); expressions, hex
// literals, NaN and infinities are rejected, as are values whose magnitude
// exceeds MaxCoefficient.
func ParseCoefficient(s string) (float64, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, fmt.Errorf("invalid contrast coefficient %q: empty", s)
	}
	if !isDecimalLiteral(t) {
		return 0, fmt.Errorf("invalid contrast coefficient %q: not a decimal number", s)
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid contrast coefficient %q: %w", s, err)
	}
	if err := CheckCoefficient(v); err != nil {
		return 0, err
	}
	return v, nil
}

// CheckCoefficient validates an already numeric contrast coefficient.
func CheckCoefficient(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("invalid contrast coefficient %v: must be finite", v)
	}
	if math.Abs(v) > MaxCoefficient {
		return fmt.Errorf("contrast coefficient %v out of range [-%g, %g]", v, MaxCoefficient, MaxCoefficient)
	}
	return nil
}

func parseInt(s string) (int, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, fmt.Errorf("empty")
	}
	n, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, fmt.Errorf("out of range")
	}
	return int(n), nil
}

// isDecimalLiteral accepts [+-]digits[.digits][(e|E)[+-]digits] with at
// least one mantissa digit. strconv.ParseFloat alone would also take "Inf",
// "NaN", hex floats and underscores.
func isDecimalLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
