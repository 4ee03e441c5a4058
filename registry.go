package equation

import "sort"

// NativeFunc is the callable behind an operator or function. Arguments arrive
// in declaration order and have already been counted against the entry's
// arity; the callable is still responsible for validating value types (for
// example, bitwise operators reject non-integers).
type NativeFunc func(args ...Value) (Value, error)

// Arity describes how many arguments a function accepts: one fixed count, a
// small set of counts, or one-or-more.
type Arity struct {
	counts   []int
	variadic bool
}

// Fixed returns an arity accepting exactly n arguments.
func Fixed(n int) Arity {
	return Arity{counts: []int{n}}
}

// OneOf returns an arity accepting any of the given argument counts.
func OneOf(ns ...int) Arity {
	counts := make([]int, len(ns))
	copy(counts, ns)
	return Arity{counts: counts}
}

// OneOrMore returns an arity accepting any positive number of arguments.
func OneOrMore() Arity {
	return Arity{variadic: true}
}

// CanCall reports whether a call with n arguments satisfies the arity.
func (a Arity) CanCall(n int) bool {
	if a.variadic {
		return n >= 1
	}
	for _, c := range a.counts {
		if n == c {
			return true
		}
	}
	return false
}

// Function is a registry entry for a named, parenthesized function.
type Function struct {
	// Arity is the accepted argument counts.
	Arity Arity
	// Fn is the native callable.
	Fn NativeFunc
	// Form is the canonical template; its single %s slot receives the
	// comma-joined arguments.
	Form string
	// Display is the typeset template, substituted the same way.
	Display string
}

// Operator is a registry entry for a binary infix operator.
type Operator struct {
	// Fn is the native callable; it receives exactly two arguments.
	Fn NativeFunc
	// Form and Display are templates with two ordered %s slots.
	Form    string
	Display string
	// Prec is the binding strength. Higher binds tighter; equal precedence
	// associates left.
	Prec int
}

// Unary is a registry entry for a prefix unary operator.
type Unary struct {
	// Fn is the native callable; it receives exactly one argument.
	Fn NativeFunc
	// Form and Display are templates with one %s slot.
	Form    string
	Display string
}

// Registry is the table of operators, functions, and constants an expression
// is compiled and evaluated against. A Registry is an explicit value threaded
// through parsing rather than process state; construct one, populate it, and
// pass it with WithRegistry. It is not safe to mutate a Registry that is
// concurrently parsing.
type Registry struct {
	funcs  map[string]Function
	ops    map[string]Operator
	unary  map[string]Unary
	consts map[string]Value

	// Identifier tables ordered longest first, so that a short identifier
	// never shadows a longer one sharing a prefix (* versus **). Rebuilt on
	// every mutation.
	funcIdents  []string
	opIdents    []string
	unaryIdents []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		funcs:  make(map[string]Function),
		ops:    make(map[string]Operator),
		unary:  make(map[string]Unary),
		consts: make(map[string]Value),
	}
}

// AddFunction registers or replaces a named function.
func (r *Registry) AddFunction(id string, fn Function) {
	r.funcs[id] = fn
	r.funcIdents = rebuildIdents(r.funcs)
}

// AddOperator registers or replaces a binary operator.
func (r *Registry) AddOperator(id string, op Operator) {
	r.ops[id] = op
	r.opIdents = rebuildIdents(r.ops)
}

// AddUnary registers or replaces a unary operator.
func (r *Registry) AddUnary(id string, op Unary) {
	r.unary[id] = op
	r.unaryIdents = rebuildIdents(r.unary)
}

// AddConstant registers or replaces a named constant. Non-numeric values
// panic.
func (r *Registry) AddConstant(name string, value any) {
	v, ok := normalize(value)
	if !ok {
		panic("equation: constant " + name + " is not a number")
	}
	r.consts[name] = v
}

// Constant returns the value of a named constant.
func (r *Registry) Constant(name string) (Value, bool) {
	v, ok := r.consts[name]
	return v, ok
}

// rebuildIdents lists the keys of a table longest first. Among identifiers of
// equal length the order is lexicographic, only so that rebuilds are
// deterministic.
func rebuildIdents[E any](m map[string]E) []string {
	ids := make([]string, 0, len(m))
	for k := range m {
		ids = append(ids, k)
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) > len(ids[j])
		}
		return ids[i] < ids[j]
	})
	return ids
}
