package equation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Canonical renders the machine-reparseable form of the expression:
// compiling the result yields a program that evaluates identically.
// Canonical strings also define equality and ordering between expressions.
func (e *Expr) Canonical() string {
	return e.render(true)
}

// String renders the display (typeset) form of the expression.
func (e *Expr) String() string {
	return e.render(false)
}

// render walks the program exactly like Eval, but each instruction produces
// a text fragment: literals format, variables emit their name, and calls
// substitute their operands into the entry's template. Rendering cannot fail
// for programs built through the public API.
func (e *Expr) render(canonical bool) string {
	if len(e.prog) == 0 {
		return ""
	}
	stack := make([]string, 0, len(e.prog))
	for _, in := range e.prog {
		switch in.kind {
		case instrValue:
			if canonical {
				stack = append(stack, formatCanonical(in.val))
			} else {
				stack = append(stack, formatDisplay(in.val))
			}
		case instrVar:
			stack = append(stack, in.name)
		case instrCall:
			if len(stack) < in.arity {
				panic("equation: inconsistent stack rendering " + in.String())
			}
			args := stack[len(stack)-in.arity:]
			tmpl := in.disp
			if canonical {
				tmpl = in.form
			}
			var frag string
			if in.named {
				// Named calls take a single joined argument list.
				frag = fmt.Sprintf(tmpl, strings.Join(args, ","))
			} else {
				slots := make([]any, len(args))
				for i, a := range args {
					slots[i] = a
				}
				frag = fmt.Sprintf(tmpl, slots...)
			}
			stack = append(stack[:len(stack)-in.arity], frag)
		default:
			panic("equation: invalid instruction " + in.String())
		}
	}
	if len(stack) == 1 {
		return stack[0]
	}
	return "[" + strings.Join(stack, ", ") + "]"
}

// formatDisplay renders a literal for the display form. Integers print
// plainly. Floats follow the banding rule implemented by bandParts, wrapped
// in typeset parentheses whenever an exponent suffix applies. Complex values
// render both components, the imaginary one with a forced sign and the
// imaginary-unit mark, wrapped together.
func formatDisplay(v Value) string {
	switch v := v.(type) {
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s, e := bandParts(v, false)
		if e != 0 {
			return `\left(` + s + expSuffix(e) + `\right)`
		}
		return s
	case complex128:
		re, ree := bandParts(real(v), false)
		im, ime := bandParts(imag(v), true)
		return `\left(` + re + expSuffix(ree) + im + `\imath` + expSuffix(ime) + `\right)`
	default:
		return fmt.Sprint(v)
	}
}

func expSuffix(e int) string {
	if e == 0 {
		return ""
	}
	return `\times10^{` + strconv.Itoa(e) + `}`
}

// bandParts formats a float for display and reports the exponent of its
// scientific suffix, zero when none applies. Let E = floor(log10(|v|)) and
// B = v*10^-E. Exactly integral values with E in [0, 3] render as plain
// integers. Values with E in [-2, -1] and a short plain decimal form render
// directly. Everything else renders B to five decimals, trailing zeros and
// point stripped, with E reported for the caller's suffix.
func bandParts(v float64, forceSign bool) (string, int) {
	switch {
	case math.IsNaN(v):
		return `\mathrm{NaN}`, 0
	case math.IsInf(v, 1):
		if forceSign {
			return `+\infty`, 0
		}
		return `\infty`, 0
	case math.IsInf(v, -1):
		return `-\infty`, 0
	case v == 0:
		if forceSign {
			return "+0", 0
		}
		return "0", 0
	}
	e := int(math.Floor(math.Log10(math.Abs(v))))
	switch {
	case 0 <= e && e <= 3 && v == math.Trunc(v):
		s := strconv.FormatInt(int64(v), 10)
		if forceSign && v > 0 {
			s = "+" + s
		}
		return s, 0
	case (e == -1 || e == -2) && len(strconv.FormatFloat(v, 'g', -1, 64)) <= 7:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if forceSign && v > 0 {
			s = "+" + s
		}
		return s, 0
	}
	b := v / math.Pow(10, float64(e))
	s := strconv.FormatFloat(b, 'f', 5, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if forceSign && b > 0 {
		s = "+" + s
	}
	return s, e
}
