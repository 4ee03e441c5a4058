package equation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aomath/equation"
)

func TestCanonical(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2+3*4", "(2 + (3 * 4))"},
		{"(2+3)*4", "((2 + 3) * 4)"},
		{"x^2 + y", "((x ^ 2) + y)"},
		{"2**3", "(2 ^ 3)"},
		{"abs(-5)", "abs(-5)"},
		{"log(8,2)", "log(8,2)"},
		{"max(x, y, 3)", "max(x,y,3)"},
		{"-x", "-x"},
		{"!b", "!b"},
		{"1/2", "(1 / 2)"},
		{"7 % 3", "(7 % 3)"},
		{"6 </> 3", "(6 </> 3)"},
		{"2e3", "2000.0"},
		{"2.5", "2.5"},
		{"3+4j", "(3.0+4.0j)"},
		{"sin 5", "sin(5)"},
		{"1, 2", "[1, 2]"},
		{"", ""},
	}
	for _, c := range cases {
		e, err := equation.Parse(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, e.Canonical(), "canonical form of %q", c.in)
	}
}

// Compiling a canonical form must yield an expression that renders and
// evaluates identically to the original.
func TestCanonicalRoundTrip(t *testing.T) {
	cases := []struct {
		in   string
		vars map[string]equation.Value
	}{
		{"2+3*4", nil},
		{"x^2 + y", map[string]equation.Value{"x": int64(3), "y": int64(4)}},
		{"abs(-5) * log(8,2)", nil},
		{"-x / (y - 2)", map[string]equation.Value{"x": int64(6), "y": int64(5)}},
		{"min(a, 2.5, b)", map[string]equation.Value{"a": int64(4), "b": int64(1)}},
		{"3+4j * q", map[string]equation.Value{"q": int64(2)}},
	}
	for _, c := range cases {
		e, err := equation.Parse(c.in)
		require.NoError(t, err, c.in)
		can := e.Canonical()
		e2, err := equation.Parse(can)
		require.NoError(t, err, "reparsing %q", can)
		assert.Equal(t, can, e2.Canonical(), "canonical form of %q is not a fixed point", c.in)
		r1, err := e.Eval(nil, c.vars)
		require.NoError(t, err, c.in)
		r2, err := e2.Eval(nil, c.vars)
		require.NoError(t, err, can)
		assert.Equal(t, r1, r2, "%q and its canonical form %q disagree", c.in, can)
	}
}

func TestDisplay(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain-int", "42", "42"},
		{"integral-float", "3.0", "3"},
		{"integral-thousands", "1500.0", "1500"},
		{"short-decimal", "0.05", "0.05"},
		{"scientific-large", "15000.0", `\left(1.5\times10^{4}\right)`},
		{"scientific-small", "0.007", `\left(7\times10^{-3}\right)`},
		{"scientific-millions", "2500000.0", `\left(2.5\times10^{6}\right)`},
		{"mantissa-truncated", "0.12345678", `\left(1.23457\times10^{-1}\right)`},
		{"complex", "3+4j", `\left(3+4\imath\right)`},
		{"complex-negative-imag", "3-4j", `\left(3-4\imath\right)`},
		{"fraction", "x/y", `\frac{x}{y}`},
		{"power", "x^2", `{x}^{2}`},
		{"product", "a*b", `\left(a \cdot b\right)`},
		{"modulus", "7 % 3", `\left(7 \bmod 3\right)`},
		{"absolute-value", "abs(x)", `\left|x\right|`},
		{"square-root", "sqrt(x)", `\sqrt{x}`},
		{"sine", "sin(x)", `\sin\left(x\right)`},
		{"logarithm", "log(8,2)", `\log\left(8,2\right)`},
		{"negation", "-x", "-x"},
		{"composite", "x/2 + sqrt(y)", `\left(\frac{x}{2} + \sqrt{y}\right)`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := equation.Parse(c.in)
			require.NoError(t, err, c.in)
			assert.Equal(t, c.want, e.String(), "display form of %q", c.in)
		})
	}
}

func TestDisplayMultipleResults(t *testing.T) {
	e, err := equation.Parse("1, x")
	require.NoError(t, err)
	assert.Equal(t, "[1, x]", e.Canonical())
	assert.Equal(t, "[1, x]", e.String())
}
