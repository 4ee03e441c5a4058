package equation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Value is a number produced or consumed by an expression. The concrete type
// is always int64, float64, or complex128; evaluation results may also be a
// []Value when an expression leaves more than one residual value (see
// Expr.Eval). Arithmetic promotes int64 to float64 and float64 to complex128
// as needed.
type Value any

// normalize converts the numeric Go types callers plausibly supply into the
// three canonical Value types. It reports false for anything non-numeric and
// for unsigned values too large for int64, which would otherwise wrap
// negative.
func normalize(v any) (Value, bool) {
	switch v := v.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint:
		if uint64(v) > math.MaxInt64 {
			return nil, false
		}
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		if v > math.MaxInt64 {
			return nil, false
		}
		return int64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case complex128:
		return v, true
	case complex64:
		return complex128(v), true
	default:
		return nil, false
	}
}

// asComplex widens any Value to complex128.
func asComplex(v Value) (complex128, bool) {
	switch v := v.(type) {
	case int64:
		return complex(float64(v), 0), true
	case float64:
		return complex(v, 0), true
	case complex128:
		return v, true
	default:
		return 0, false
	}
}

// asFloat widens an integer or real Value to float64. Complex values do not
// narrow.
func asFloat(v Value) (float64, bool) {
	switch v := v.(type) {
	case int64:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

// asInt reports the Value as an int64 if it is one.
func asInt(v Value) (int64, bool) {
	i, ok := v.(int64)
	return i, ok
}

// valueEqual compares two values numerically, so that int64(1), float64(1),
// and complex(1, 0) are all equal to each other.
func valueEqual(a, b Value) bool {
	x, ok := asComplex(a)
	if !ok {
		return false
	}
	y, ok := asComplex(b)
	if !ok {
		return false
	}
	return x == y
}

// isTrue reports the truthiness of a value: zero is false, everything else
// is true.
func isTrue(v Value) bool {
	c, ok := asComplex(v)
	return ok && c != 0
}

// formatCanonical renders a value so that compiling the result yields an
// equal value. Floats always carry a decimal point or exponent so they do not
// reparse as integers; non-finite floats render as the Inf and NaN constants;
// complex values render with both parts and a trailing j inside parentheses.
func formatCanonical(v Value) string {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return formatCanonicalFloat(v, false)
	case complex128:
		re := formatCanonicalFloat(real(v), false)
		im := formatCanonicalFloat(imag(v), true)
		return "(" + re + im + "j)"
	default:
		return fmt.Sprint(v)
	}
}

func formatCanonicalFloat(f float64, forceSign bool) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		if forceSign {
			return "+Inf"
		}
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	if forceSign && s[0] != '-' {
		s = "+" + s
	}
	return s
}
