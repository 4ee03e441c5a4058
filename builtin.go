package equation

import (
	"math"
	"math/cmplx"
)

// Default builds the standard registry: arithmetic, power, modulus, and
// bitwise operators; prefix negation and logical not; the usual elementary
// functions; and the constants pi, e, Inf, NaN, and the imaginary unit under
// both i and j. Callers wanting more build their own registry, or extend a
// fresh Default; the registry Parse uses when given no option is shared and
// must not be mutated.
func Default() *Registry {
	r := NewRegistry()

	r.AddOperator("+", Operator{Fn: add, Form: "(%s + %s)", Display: `\left(%s + %s\right)`, Prec: 40})
	r.AddOperator("-", Operator{Fn: sub, Form: "(%s - %s)", Display: `\left(%s - %s\right)`, Prec: 40})
	r.AddOperator("*", Operator{Fn: mul, Form: "(%s * %s)", Display: `\left(%s \cdot %s\right)`, Prec: 50})
	r.AddOperator("/", Operator{Fn: div, Form: "(%s / %s)", Display: `\frac{%s}{%s}`, Prec: 50})
	r.AddOperator("%", Operator{Fn: mod, Form: "(%s %% %s)", Display: `\left(%s \bmod %s\right)`, Prec: 50})
	r.AddOperator("^", Operator{Fn: pow, Form: "(%s ^ %s)", Display: `{%s}^{%s}`, Prec: 60})
	// ** is an alternate spelling of ^ and canonicalizes to it.
	r.AddOperator("**", Operator{Fn: pow, Form: "(%s ^ %s)", Display: `{%s}^{%s}`, Prec: 60})
	r.AddOperator("&", Operator{Fn: bitwise("&", func(x, y int64) int64 { return x & y }), Form: "(%s & %s)", Display: `\left(%s \land %s\right)`, Prec: 30})
	r.AddOperator("</>", Operator{Fn: bitwise("</>", func(x, y int64) int64 { return x ^ y }), Form: "(%s </> %s)", Display: `\left(%s \oplus %s\right)`, Prec: 25})
	r.AddOperator("|", Operator{Fn: bitwise("|", func(x, y int64) int64 { return x | y }), Form: "(%s | %s)", Display: `\left(%s \lor %s\right)`, Prec: 20})

	r.AddUnary("-", Unary{Fn: neg, Form: "-%s", Display: "-%s"})
	r.AddUnary("!", Unary{Fn: not, Form: "!%s", Display: `\lnot %s`})

	r.AddFunction("abs", Function{Arity: Fixed(1), Fn: absFn, Form: "abs(%s)", Display: `\left|%s\right|`})
	r.AddFunction("sin", Function{Arity: Fixed(1), Fn: real1("sin", math.Sin, cmplx.Sin, nil), Form: "sin(%s)", Display: `\sin\left(%s\right)`})
	r.AddFunction("cos", Function{Arity: Fixed(1), Fn: real1("cos", math.Cos, cmplx.Cos, nil), Form: "cos(%s)", Display: `\cos\left(%s\right)`})
	r.AddFunction("tan", Function{Arity: Fixed(1), Fn: real1("tan", math.Tan, cmplx.Tan, nil), Form: "tan(%s)", Display: `\tan\left(%s\right)`})
	r.AddFunction("asin", Function{Arity: Fixed(1), Fn: real1("asin", math.Asin, cmplx.Asin, unitInterval), Form: "asin(%s)", Display: `\arcsin\left(%s\right)`})
	r.AddFunction("acos", Function{Arity: Fixed(1), Fn: real1("acos", math.Acos, cmplx.Acos, unitInterval), Form: "acos(%s)", Display: `\arccos\left(%s\right)`})
	r.AddFunction("atan", Function{Arity: Fixed(1), Fn: real1("atan", math.Atan, cmplx.Atan, nil), Form: "atan(%s)", Display: `\arctan\left(%s\right)`})
	r.AddFunction("exp", Function{Arity: Fixed(1), Fn: real1("exp", math.Exp, cmplx.Exp, nil), Form: "exp(%s)", Display: `\exp\left(%s\right)`})
	r.AddFunction("ln", Function{Arity: Fixed(1), Fn: real1("ln", math.Log, cmplx.Log, positive), Form: "ln(%s)", Display: `\ln\left(%s\right)`})
	r.AddFunction("sqrt", Function{Arity: Fixed(1), Fn: real1("sqrt", math.Sqrt, cmplx.Sqrt, nonNegative), Form: "sqrt(%s)", Display: `\sqrt{%s}`})
	r.AddFunction("log", Function{Arity: OneOf(1, 2), Fn: logFn, Form: "log(%s)", Display: `\log\left(%s\right)`})
	r.AddFunction("re", Function{Arity: Fixed(1), Fn: reFn, Form: "re(%s)", Display: `\Re\left(%s\right)`})
	r.AddFunction("im", Function{Arity: Fixed(1), Fn: imFn, Form: "im(%s)", Display: `\Im\left(%s\right)`})
	r.AddFunction("min", Function{Arity: OneOrMore(), Fn: minFn, Form: "min(%s)", Display: `\min\left(%s\right)`})
	r.AddFunction("max", Function{Arity: OneOrMore(), Fn: maxFn, Form: "max(%s)", Display: `\max\left(%s\right)`})
	r.AddFunction("sum", Function{Arity: OneOrMore(), Fn: sumFn, Form: "sum(%s)", Display: `\Sigma\left(%s\right)`})

	r.AddConstant("pi", math.Pi)
	r.AddConstant("e", math.E)
	r.AddConstant("Inf", math.Inf(1))
	r.AddConstant("NaN", math.NaN())
	r.AddConstant("i", complex(0, 1))
	r.AddConstant("j", complex(0, 1))
	return r
}

// promote2 applies the widest applicable of three kind-specific
// implementations to a pair of values: integer when both are integers, real
// when both are at most real, otherwise complex.
func promote2(a, b Value, fi func(int64, int64) Value, ff func(float64, float64) Value, fc func(complex128, complex128) Value) Value {
	if x, ok := asInt(a); ok {
		if y, ok := asInt(b); ok {
			return fi(x, y)
		}
	}
	if x, ok := asFloat(a); ok {
		if y, ok := asFloat(b); ok {
			return ff(x, y)
		}
	}
	x, _ := asComplex(a)
	y, _ := asComplex(b)
	return fc(x, y)
}

func add(args ...Value) (Value, error) {
	return promote2(args[0], args[1],
		func(x, y int64) Value { return x + y },
		func(x, y float64) Value { return x + y },
		func(x, y complex128) Value { return x + y },
	), nil
}

func sub(args ...Value) (Value, error) {
	return promote2(args[0], args[1],
		func(x, y int64) Value { return x - y },
		func(x, y float64) Value { return x - y },
		func(x, y complex128) Value { return x - y },
	), nil
}

func mul(args ...Value) (Value, error) {
	return promote2(args[0], args[1],
		func(x, y int64) Value { return x * y },
		func(x, y float64) Value { return x * y },
		func(x, y complex128) Value { return x * y },
	), nil
}

// div is true division: integer operands still divide to a real result, so
// 1/2 is 0.5. A zero divisor is a DomainError rather than an infinity.
func div(args ...Value) (Value, error) {
	if x, ok := asFloat(args[0]); ok {
		if y, ok := asFloat(args[1]); ok {
			if y == 0 {
				return nil, &DomainError{Func: "/", X: args[1]}
			}
			return x / y, nil
		}
	}
	x, _ := asComplex(args[0])
	y, _ := asComplex(args[1])
	if y == 0 {
		return nil, &DomainError{Func: "/", X: args[1]}
	}
	return x / y, nil
}

// pow keeps integer results exact for non-negative integer exponents. A
// negative real base with a fractional exponent promotes to complex instead
// of producing NaN.
func pow(args ...Value) (Value, error) {
	if x, ok := asInt(args[0]); ok {
		if y, ok := asInt(args[1]); ok && y >= 0 {
			return ipow(x, y), nil
		}
	}
	if x, ok := asFloat(args[0]); ok {
		if y, ok := asFloat(args[1]); ok {
			if x < 0 && y != math.Trunc(y) {
				return cmplx.Pow(complex(x, 0), complex(y, 0)), nil
			}
			return math.Pow(x, y), nil
		}
	}
	x, _ := asComplex(args[0])
	y, _ := asComplex(args[1])
	return cmplx.Pow(x, y), nil
}

// ipow is exponentiation by squaring. exp must be non-negative.
func ipow(base, exp int64) int64 {
	r := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			r *= base
		}
		base *= base
		exp >>= 1
	}
	return r
}

// mod is the flooring modulus: the result takes the sign of the divisor, so
// -7 % 3 is 2. Complex operands have no remainder and are rejected.
func mod(args ...Value) (Value, error) {
	if x, ok := asInt(args[0]); ok {
		if y, ok := asInt(args[1]); ok {
			if y == 0 {
				return nil, &DomainError{Func: "%", X: args[1]}
			}
			r := x % y
			if r != 0 && (r < 0) != (y < 0) {
				r += y
			}
			return r, nil
		}
	}
	x, ok := asFloat(args[0])
	if !ok {
		return nil, &DomainError{Func: "%", X: args[0]}
	}
	y, ok := asFloat(args[1])
	if !ok {
		return nil, &DomainError{Func: "%", X: args[1]}
	}
	if y == 0 {
		return nil, &DomainError{Func: "%", X: args[1]}
	}
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	return r, nil
}

// bitwise lifts an integer operation into a NativeFunc that rejects
// non-integer operands.
func bitwise(name string, f func(x, y int64) int64) NativeFunc {
	return func(args ...Value) (Value, error) {
		x, ok := asInt(args[0])
		if !ok {
			return nil, &DomainError{Func: name, X: args[0]}
		}
		y, ok := asInt(args[1])
		if !ok {
			return nil, &DomainError{Func: name, X: args[1]}
		}
		return f(x, y), nil
	}
}

func neg(args ...Value) (Value, error) {
	switch v := args[0].(type) {
	case int64:
		return -v, nil
	case float64:
		return -v, nil
	case complex128:
		return -v, nil
	default:
		return nil, &DomainError{Func: "-", X: args[0]}
	}
}

// not is logical negation: zero maps to 1 and everything else to 0.
func not(args ...Value) (Value, error) {
	if isTrue(args[0]) {
		return int64(0), nil
	}
	return int64(1), nil
}

// absFn preserves the argument's kind for integers and reals; a complex
// argument yields its real magnitude.
func absFn(args ...Value) (Value, error) {
	switch v := args[0].(type) {
	case int64:
		if v < 0 {
			return -v, nil
		}
		return v, nil
	case float64:
		return math.Abs(v), nil
	case complex128:
		return cmplx.Abs(v), nil
	default:
		return nil, &DomainError{Func: "abs", X: args[0]}
	}
}

// real1 lifts a real function and its complex counterpart into a NativeFunc.
// Real arguments the guard rejects report a DomainError instead of producing
// a NaN; complex arguments always take the complex branch.
func real1(name string, f func(float64) float64, fc func(complex128) complex128, inDomain func(float64) bool) NativeFunc {
	return func(args ...Value) (Value, error) {
		if x, ok := asFloat(args[0]); ok {
			if inDomain != nil && !inDomain(x) {
				return nil, &DomainError{Func: name, X: args[0]}
			}
			return f(x), nil
		}
		x, _ := asComplex(args[0])
		return fc(x), nil
	}
}

func unitInterval(x float64) bool { return -1 <= x && x <= 1 }
func positive(x float64) bool     { return x > 0 }
func nonNegative(x float64) bool  { return x >= 0 }

// logFn is the base-10 logarithm with one argument, or the logarithm in an
// arbitrary base with two.
func logFn(args ...Value) (Value, error) {
	x, xreal := asFloat(args[0])
	if len(args) == 1 {
		if !xreal {
			c, _ := asComplex(args[0])
			return cmplx.Log10(c), nil
		}
		if x <= 0 {
			return nil, &DomainError{Func: "log", X: args[0]}
		}
		return math.Log10(x), nil
	}
	b, breal := asFloat(args[1])
	if !xreal || !breal {
		xc, _ := asComplex(args[0])
		bc, _ := asComplex(args[1])
		return cmplx.Log(xc) / cmplx.Log(bc), nil
	}
	if x <= 0 {
		return nil, &DomainError{Func: "log", X: args[0]}
	}
	if b <= 0 || b == 1 {
		return nil, &DomainError{Func: "log", X: args[1]}
	}
	return math.Log(x) / math.Log(b), nil
}

func reFn(args ...Value) (Value, error) {
	x, ok := asComplex(args[0])
	if !ok {
		return nil, &DomainError{Func: "re", X: args[0]}
	}
	return real(x), nil
}

func imFn(args ...Value) (Value, error) {
	x, ok := asComplex(args[0])
	if !ok {
		return nil, &DomainError{Func: "im", X: args[0]}
	}
	return imag(x), nil
}

func minFn(args ...Value) (Value, error) {
	return extremum("min", args, func(a, b float64) bool { return a < b })
}

func maxFn(args ...Value) (Value, error) {
	return extremum("max", args, func(a, b float64) bool { return a > b })
}

// extremum selects the argument whose real value wins the comparison,
// returning it unwidened. Complex values are unordered and rejected.
func extremum(name string, args []Value, better func(a, b float64) bool) (Value, error) {
	best := args[0]
	bf, ok := asFloat(best)
	if !ok {
		return nil, &DomainError{Func: name, X: best}
	}
	for _, v := range args[1:] {
		f, ok := asFloat(v)
		if !ok {
			return nil, &DomainError{Func: name, X: v}
		}
		if better(f, bf) {
			best, bf = v, f
		}
	}
	return best, nil
}

func sumFn(args ...Value) (Value, error) {
	acc := args[0]
	for _, v := range args[1:] {
		r, err := add(acc, v)
		if err != nil {
			return nil, err
		}
		acc = r
	}
	return acc, nil
}
