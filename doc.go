// Package equation compiles textual mathematical expressions into postfix
// programs that can be evaluated, rendered, and combined like values.
//
// An expression is parsed once and evaluated many times against different
// variable bindings:
//
//	fn, _ := equation.Parse("x^2 + y")
//	r, _ := fn.Eval([]equation.Value{int64(3)}, map[string]equation.Value{"y": int64(4)})
//
// Compiled expressions compose with the usual operator vocabulary (Add, Sub,
// Mul, ...) to build new expressions, render back to a reparseable canonical
// string or a typeset display string, and carry preset variable values of
// their own.
//
// The grammar is fixed, but the identifiers it recognizes are not: operators,
// functions, and constants come from a Registry that callers may extend.
package equation
