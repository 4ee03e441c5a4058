package equation

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
)

// errEmptyExpr rejects composing with an empty program, which would leave a
// call without its operands.
var errEmptyExpr = errors.New("equation: cannot compose with an empty expression")

// Expr is a compiled expression: a postfix instruction program together with
// the set of free variables it references, the order in which positional
// arguments bind to them, and any preset variable values. An Expr is built by
// Parse or by combining existing expressions; outside callers cannot observe
// a partially built one.
//
// An Expr is a single-owner value. Evaluation and rendering do not mutate it,
// but preset writes and the -Assign combinators do; share an Expr across
// goroutines only with external serialization.
type Expr struct {
	reg     *Registry
	prog    []instruction
	vars    map[string]bool
	args    []string
	presets map[string]Value
}

// Clone returns a deep copy of the expression. Presets are copied; combining
// or mutating the clone leaves the original untouched.
func (e *Expr) Clone() *Expr {
	n := &Expr{
		reg:     e.reg,
		prog:    append([]instruction(nil), e.prog...),
		vars:    make(map[string]bool, len(e.vars)),
		args:    append([]string(nil), e.args...),
		presets: make(map[string]Value, len(e.presets)),
	}
	for k := range e.vars {
		n.vars[k] = true
	}
	for k, v := range e.presets {
		n.presets[k] = v
	}
	return n
}

// Vars returns the free variable names of the expression, sorted.
func (e *Expr) Vars() []string {
	names := make([]string, 0, len(e.vars))
	for k := range e.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Args returns the positional argument order.
func (e *Expr) Args() []string {
	return append([]string(nil), e.args...)
}

// Has reports whether name is a free variable of the expression.
func (e *Expr) Has(name string) bool {
	return e.vars[name]
}

// Get returns the preset value of a free variable, or nil if the variable has
// no preset. Names that are not free variables are an error.
func (e *Expr) Get(name string) (Value, error) {
	if !e.vars[name] {
		return nil, &UnknownVariableError{Name: name}
	}
	return e.presets[name], nil
}

// Set presets a free variable to a value used whenever evaluation does not
// bind it explicitly.
func (e *Expr) Set(name string, value any) error {
	if !e.vars[name] {
		return &UnknownVariableError{Name: name}
	}
	v, ok := normalize(value)
	if !ok {
		return fmt.Errorf("equation: preset %q: value is not a number", name)
	}
	e.presets[name] = v
	return nil
}

// Delete removes the preset value of a free variable, if any.
func (e *Expr) Delete(name string) error {
	if !e.vars[name] {
		return &UnknownVariableError{Name: name}
	}
	delete(e.presets, name)
	return nil
}

// Equal reports whether two expressions render to the same canonical string.
// Structurally different programs that render identically are equal.
func (e *Expr) Equal(o *Expr) bool {
	return e.Canonical() == o.Canonical()
}

// Less orders expressions by their canonical rendering.
func (e *Expr) Less(o *Expr) bool {
	return e.Canonical() < o.Canonical()
}

// toExpr resolves a combine operand that is not a plain number: an *Expr
// passes through, a string compiles against the same registry.
func toExpr(other any, reg *Registry) (*Expr, error) {
	switch o := other.(type) {
	case *Expr:
		return o, nil
	case string:
		return Parse(o, WithRegistry(reg))
	default:
		return nil, fmt.Errorf("equation: cannot combine an expression with %T", other)
	}
}

// opInstr builds the trailing call instruction for a binary combination.
func opInstr(id string, op Operator) instruction {
	return instruction{
		kind: instrCall, name: id,
		fn: op.Fn, form: op.Form, disp: op.Display, arity: 2,
	}
}

// mergeCheck reports a ConflictError if the two preset maps bind the same
// name to different values. Checked before any mutation so a failed
// combination leaves both operands intact.
func mergeCheck(a, b map[string]Value) error {
	for k, v := range b {
		if cur, ok := a[k]; ok && !valueEqual(cur, v) {
			return &ConflictError{Name: k, Left: cur, Right: v}
		}
	}
	return nil
}

// merge extends e's metadata with o's: variable sets union, argument orders
// concatenate keeping e's order first, presets union. mergeCheck must have
// passed.
func (e *Expr) merge(o *Expr) {
	for k := range o.vars {
		e.vars[k] = true
	}
	for _, a := range o.args {
		if !contains(e.args, a) {
			e.args = append(e.args, a)
		}
	}
	for k, v := range o.presets {
		if _, ok := e.presets[k]; !ok {
			e.presets[k] = v
		}
	}
}

// combine builds e <op> other. With inPlace it extends e directly instead of
// cloning, for accumulating chains without repeated copies.
func (e *Expr) combine(id string, other any, inPlace bool) (*Expr, error) {
	op, ok := e.reg.ops[id]
	if !ok {
		return nil, fmt.Errorf("equation: unknown operator %q", id)
	}
	if len(e.prog) == 0 {
		return nil, errEmptyExpr
	}
	lit, isNum := normalize(other)
	var o *Expr
	if !isNum {
		var err error
		if o, err = toExpr(other, e.reg); err != nil {
			return nil, err
		}
		if len(o.prog) == 0 {
			return nil, errEmptyExpr
		}
		if err = mergeCheck(e.presets, o.presets); err != nil {
			return nil, err
		}
	}
	obj := e
	if !inPlace {
		obj = e.Clone()
	}
	if isNum {
		obj.prog = append(obj.prog, instruction{kind: instrValue, val: lit})
	} else {
		obj.prog = append(obj.prog, o.prog...)
		obj.merge(o)
	}
	obj.prog = append(obj.prog, opInstr(id, op))
	return obj, nil
}

// rcombine builds other <op> e for a left operand that is not an expression:
// the operand's instructions are placed first so operand order is preserved
// for non-commutative operators, and for a string operand its argument order
// comes first in the merge.
func (e *Expr) rcombine(id string, other any) (*Expr, error) {
	op, ok := e.reg.ops[id]
	if !ok {
		return nil, fmt.Errorf("equation: unknown operator %q", id)
	}
	if len(e.prog) == 0 {
		return nil, errEmptyExpr
	}
	obj := e.Clone()
	if lit, ok := normalize(other); ok {
		obj.prog = append([]instruction{{kind: instrValue, val: lit}}, obj.prog...)
		obj.prog = append(obj.prog, opInstr(id, op))
		return obj, nil
	}
	o, err := toExpr(other, e.reg)
	if err != nil {
		return nil, err
	}
	if len(o.prog) == 0 {
		return nil, errEmptyExpr
	}
	if err := mergeCheck(obj.presets, o.presets); err != nil {
		return nil, err
	}
	obj.prog = append(append([]instruction(nil), o.prog...), obj.prog...)
	args := append([]string(nil), o.args...)
	for _, a := range obj.args {
		if !contains(args, a) {
			args = append(args, a)
		}
	}
	obj.args = args
	for k := range o.vars {
		obj.vars[k] = true
	}
	for k, v := range o.presets {
		if _, ok := obj.presets[k]; !ok {
			obj.presets[k] = v
		}
	}
	obj.prog = append(obj.prog, opInstr(id, op))
	return obj, nil
}

// apply builds <unary op> e.
func (e *Expr) apply(id string) (*Expr, error) {
	u, ok := e.reg.unary[id]
	if !ok {
		return nil, fmt.Errorf("equation: unknown unary operator %q", id)
	}
	if len(e.prog) == 0 {
		return nil, errEmptyExpr
	}
	obj := e.Clone()
	obj.prog = append(obj.prog, instruction{
		kind: instrCall, name: id,
		fn: u.Fn, form: u.Form, disp: u.Display, arity: 1,
	})
	return obj, nil
}

// applyCall builds name(e) for a registered function that accepts a single
// argument.
func (e *Expr) applyCall(name string) (*Expr, error) {
	fn, ok := e.reg.funcs[name]
	if !ok {
		return nil, fmt.Errorf("equation: unknown function %q", name)
	}
	if !fn.Arity.CanCall(1) {
		return nil, fmt.Errorf("equation: cannot apply %s: it does not accept a single argument", strconv.Quote(name))
	}
	if len(e.prog) == 0 {
		return nil, errEmptyExpr
	}
	obj := e.Clone()
	obj.prog = append(obj.prog, instruction{
		kind: instrCall, name: name,
		fn: fn.Fn, form: fn.Form, disp: fn.Display, arity: 1,
	})
	return obj, nil
}

// The operator vocabulary. Each operator has three forms: the plain method
// builds a new expression with the receiver on the left; the R method
// (reflected) builds one with the operand on the left; the Assign method
// extends the receiver in place. Operands may be an *Expr, a string (compiled
// first), or a numeric Go value.

func (e *Expr) Add(other any) (*Expr, error) { return e.combine("+", other, false) }
func (e *Expr) Sub(other any) (*Expr, error) { return e.combine("-", other, false) }
func (e *Expr) Mul(other any) (*Expr, error) { return e.combine("*", other, false) }
func (e *Expr) Div(other any) (*Expr, error) { return e.combine("/", other, false) }
func (e *Expr) Pow(other any) (*Expr, error) { return e.combine("^", other, false) }
func (e *Expr) Mod(other any) (*Expr, error) { return e.combine("%", other, false) }

func (e *Expr) BitAnd(other any) (*Expr, error) { return e.combine("&", other, false) }
func (e *Expr) BitOr(other any) (*Expr, error)  { return e.combine("|", other, false) }
func (e *Expr) BitXor(other any) (*Expr, error) { return e.combine("</>", other, false) }

func (e *Expr) RAdd(other any) (*Expr, error) { return e.rcombine("+", other) }
func (e *Expr) RSub(other any) (*Expr, error) { return e.rcombine("-", other) }
func (e *Expr) RMul(other any) (*Expr, error) { return e.rcombine("*", other) }
func (e *Expr) RDiv(other any) (*Expr, error) { return e.rcombine("/", other) }
func (e *Expr) RPow(other any) (*Expr, error) { return e.rcombine("^", other) }
func (e *Expr) RMod(other any) (*Expr, error) { return e.rcombine("%", other) }

func (e *Expr) RBitAnd(other any) (*Expr, error) { return e.rcombine("&", other) }
func (e *Expr) RBitOr(other any) (*Expr, error)  { return e.rcombine("|", other) }
func (e *Expr) RBitXor(other any) (*Expr, error) { return e.rcombine("</>", other) }

func (e *Expr) AddAssign(other any) error { _, err := e.combine("+", other, true); return err }
func (e *Expr) SubAssign(other any) error { _, err := e.combine("-", other, true); return err }
func (e *Expr) MulAssign(other any) error { _, err := e.combine("*", other, true); return err }
func (e *Expr) DivAssign(other any) error { _, err := e.combine("/", other, true); return err }
func (e *Expr) PowAssign(other any) error { _, err := e.combine("^", other, true); return err }
func (e *Expr) ModAssign(other any) error { _, err := e.combine("%", other, true); return err }

func (e *Expr) BitAndAssign(other any) error { _, err := e.combine("&", other, true); return err }
func (e *Expr) BitOrAssign(other any) error  { _, err := e.combine("|", other, true); return err }
func (e *Expr) BitXorAssign(other any) error { _, err := e.combine("</>", other, true); return err }

// Neg builds -e.
func (e *Expr) Neg() (*Expr, error) { return e.apply("-") }

// Not builds !e.
func (e *Expr) Not() (*Expr, error) { return e.apply("!") }

// Abs builds abs(e).
func (e *Expr) Abs() (*Expr, error) { return e.applyCall("abs") }
