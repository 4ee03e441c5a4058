package equation

import "fmt"

// Eval executes the program against variable bindings and returns the
// result. Positional arguments bind to the argument order (see Args), named
// arguments bind by name, and both are laid over the registry's constants
// and the expression's presets. Eval fails with an ArityError when more
// positional arguments are supplied than the expression accepts, when a
// positional and a named argument target the same variable, or when a free
// variable is left without a value.
//
// The result is a single Value, or a []Value in stack order when the program
// leaves more than one residual value (a top-level comma list). An empty
// expression evaluates to nil. The expression itself is not mutated and
// remains reusable after an error.
func (e *Expr) Eval(pos []Value, named map[string]Value) (Value, error) {
	if len(e.prog) == 0 {
		return nil, nil
	}
	env, err := e.bind(pos, named)
	if err != nil {
		return nil, err
	}
	stack := make([]Value, 0, len(e.prog))
	for _, in := range e.prog {
		switch in.kind {
		case instrValue:
			stack = append(stack, in.val)
		case instrVar:
			// bind already checked every free variable, so the lookup cannot
			// miss; there is deliberately no zero default here.
			stack = append(stack, env[in.name])
		case instrCall:
			if len(stack) < in.arity {
				panic("equation: inconsistent stack evaluating " + in.String())
			}
			args := stack[len(stack)-in.arity:]
			r, err := in.fn(args...)
			if err != nil {
				return nil, err
			}
			stack = append(stack[:len(stack)-in.arity], r)
		default:
			panic("equation: invalid instruction " + in.String())
		}
	}
	if len(stack) == 1 {
		return stack[0], nil
	}
	return append([]Value(nil), stack...), nil
}

// bind builds the environment for one evaluation: constants, then presets,
// then positional arguments, then named arguments, each layer overriding the
// last.
func (e *Expr) bind(pos []Value, named map[string]Value) (map[string]Value, error) {
	env := make(map[string]Value, len(e.reg.consts)+len(e.presets)+len(pos)+len(named))
	for k, v := range e.reg.consts {
		env[k] = v
	}
	for k, v := range e.presets {
		env[k] = v
	}
	if len(pos) > len(e.args) {
		return nil, &ArityError{Want: len(e.args), Got: len(pos)}
	}
	for i, v := range pos {
		name := e.args[i]
		if _, ok := named[name]; ok {
			return nil, &ArityError{Name: name, Conflict: true}
		}
		nv, ok := normalize(v)
		if !ok {
			return nil, fmt.Errorf("equation: positional argument %q is not a number", name)
		}
		env[name] = nv
	}
	for k, v := range named {
		nv, ok := normalize(v)
		if !ok {
			return nil, fmt.Errorf("equation: argument %q is not a number", k)
		}
		env[k] = nv
	}
	for name := range e.vars {
		if _, ok := env[name]; !ok {
			return nil, &ArityError{Name: name, Want: e.minArgs(), Got: len(pos) + len(named)}
		}
	}
	return env, nil
}

// minArgs is the number of free variables not already covered by presets or
// constants.
func (e *Expr) minArgs() int {
	n := 0
	for name := range e.vars {
		if _, ok := e.presets[name]; ok {
			continue
		}
		if _, ok := e.reg.consts[name]; ok {
			continue
		}
		n++
	}
	return n
}

// EvalString parses src and evaluates it in one step with named bindings.
func EvalString(src string, vars map[string]Value, opts ...ParseOption) (Value, error) {
	e, err := Parse(src, opts...)
	if err != nil {
		return nil, err
	}
	return e.Eval(nil, vars)
}

// rpn lists the compiled instructions one per entry, for debugging and
// tests.
func (e *Expr) rpn() []string {
	l := make([]string, len(e.prog))
	for i, in := range e.prog {
		l[i] = in.String()
	}
	return l
}
