package equation

import "strconv"

// instruction is one step of a compiled postfix program. The three variants
// behave differently under each of the three interpreters (evaluate, render
// canonical, render display); each interpreter is a single switch over the
// kind so the variants stay closed and exhaustive.
type instruction struct {
	kind instrKind

	// val is the literal for instrValue.
	val Value
	// name is the variable name for instrVar, or the operator or function
	// identifier for instrCall.
	name string

	// Call fields, captured from the registry at compile time so a program
	// outlives later registry mutation.
	fn    NativeFunc
	form  string
	disp  string
	arity int
	// named marks a parenthesized function call, whose rendered operands are
	// joined with a separator rather than substituted positionally.
	named bool
}

type instrKind int8

const (
	instrNone instrKind = iota

	instrValue // push val
	instrVar   // push the binding of name
	instrCall  // pop arity operands, call fn, push the result
)

func (i instruction) String() string {
	switch i.kind {
	case instrValue:
		return "value " + formatCanonical(i.val)
	case instrVar:
		return "var " + i.name
	case instrCall:
		s := "call " + i.name + "/" + strconv.Itoa(i.arity)
		if i.named {
			s += " named"
		}
		return s
	default:
		return "invalid"
	}
}
