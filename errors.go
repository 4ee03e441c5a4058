package equation

import "strconv"

// SyntaxError indicates a structural grammar violation: mismatched
// parentheses, a missing operator, a wrong argument count, or a token that is
// not valid where it appears. A compile that returns a SyntaxError leaves no
// partial program behind. It implements InputError.
type SyntaxError struct {
	// Col is the rune column of the token that caused the error, or the
	// column just past the input for end-of-input errors.
	Col int
	// Msg describes the violation, including the offending token or name.
	Msg string
}

func (err *SyntaxError) Error() string {
	return errpos(err.Col, err.Msg)
}

func (err *SyntaxError) Pos() int {
	return err.Col
}

// syntaxErr is a shortcut to create a SyntaxError.
func syntaxErr(col int, msg string) *SyntaxError {
	return &SyntaxError{Col: col, Msg: msg}
}

// ArityError indicates that an evaluation call could not bind every free
// variable exactly once: too many positional arguments, a positional argument
// colliding with a named one, or a variable left without a value. The
// expression itself remains valid and reusable.
type ArityError struct {
	// Name is the variable involved in a collision or left unresolved. It is
	// empty when the error is an excess of positional arguments.
	Name string
	// Want is the number of arguments the expression accepts (for excess
	// positional arguments) or requires at minimum (for unresolved names).
	Want int
	// Got is the number of arguments supplied.
	Got int
	// Conflict reports that Name received both a positional and a named
	// value.
	Conflict bool
}

func (err *ArityError) Error() string {
	switch {
	case err.Conflict:
		return "expression got multiple values for argument " + strconv.Quote(err.Name)
	case err.Name != "":
		return "expression takes at least " + strconv.Itoa(err.Want) + " arguments (" +
			strconv.Itoa(err.Got) + " given): " + strconv.Quote(err.Name) + " not defined"
	default:
		return "expression takes at most " + strconv.Itoa(err.Want) + " arguments (" +
			strconv.Itoa(err.Got) + " given)"
	}
}

// ConflictError indicates that two expressions being combined preset the same
// variable to different values.
type ConflictError struct {
	// Name is the variable preset on both sides.
	Name string
	// Left and Right are the differing values.
	Left, Right Value
}

func (err *ConflictError) Error() string {
	return "predefined variable conflict: " + strconv.Quote(err.Name) + " has two differing values"
}

// DomainError indicates an evaluation step whose argument lies outside the
// domain of the operator or function applied to it: division or modulus by
// zero, a bitwise operand that is not an integer, or a real function argument
// its real implementation rejects.
type DomainError struct {
	// Func is the operator or function identifier.
	Func string
	// X is the offending argument.
	X Value
}

func (err *DomainError) Error() string {
	return "argument " + formatCanonical(err.X) + " outside the domain of " + err.Func
}

// UnknownVariableError indicates a preset get, set, or delete on a name that
// is not a free variable of the expression.
type UnknownVariableError struct {
	// Name is the rejected variable name.
	Name string
}

func (err *UnknownVariableError) Error() string {
	return strconv.Quote(err.Name) + " is not a free variable of the expression"
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting
// from malformed expression text implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*SyntaxError)(nil)
)
