package equation

import (
	"strconv"
	"sync"
)

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsecfg) parsecfg
}

// parsecfg holds the configuration a compile runs against.
type parsecfg struct {
	reg  *Registry
	args []string
}

type (
	regopt struct{ reg *Registry }
	argopt []string
)

// WithRegistry compiles against reg instead of the shared default registry.
// The expression keeps a reference to reg for evaluation; mutating reg
// afterward does not change already-compiled programs.
func WithRegistry(reg *Registry) ParseOption {
	return regopt{reg}
}

func (o regopt) parseOption(p parsecfg) parsecfg {
	p.reg = o.reg
	return p
}

// ArgOrder declares the order in which positional arguments bind to
// variables. Names not listed are appended in the order they first appear in
// the expression. Every listed name must appear in the expression.
func ArgOrder(names ...string) ParseOption {
	return argopt(names)
}

func (o argopt) parseOption(p parsecfg) parsecfg {
	p.args = append(p.args, o...)
	return p
}

// defaultRegistry is the registry used when no WithRegistry option is given.
// It is built once and must be treated as read-only; callers who want to
// extend the tables should build their own with Default.
var defaultRegistry = sync.OnceValue(Default)

// Parse compiles an expression into an evaluable program. The given options
// are applied in order. Parse fails with a LexError or SyntaxError on
// malformed input and never returns a partial program.
func Parse(src string, opts ...ParseOption) (*Expr, error) {
	var p parsecfg
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.reg == nil {
		p.reg = defaultRegistry()
	}
	c := compiler{
		reg:  p.reg,
		vars: make(map[string]bool),
		args: append([]string(nil), p.args...),
	}
	if err := c.run(lexInput(src, p.reg)); err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(p.args))
	for _, name := range p.args {
		if seen[name] {
			return nil, syntaxErr(0, "duplicate argument order name "+strconv.Quote(name))
		}
		seen[name] = true
		if !c.vars[name] {
			return nil, syntaxErr(0, "argument order name "+strconv.Quote(name)+" does not appear in the expression")
		}
	}
	return &Expr{
		reg:     p.reg,
		prog:    c.out,
		vars:    c.vars,
		args:    c.args,
		presets: make(map[string]Value),
	}, nil
}

// compiler turns the token stream into a postfix program: a shunting-yard
// variant with an operator stack and, for each function identifier pushed, an
// argument counter that separators increment.
type compiler struct {
	reg   *Registry
	out   []instruction
	stack []token
	argc  []int
	vars  map[string]bool
	args  []string
}

func (c *compiler) run(scan *lexer) error {
	expectOp := false
	prev := token{kind: tokenNone}
	for {
		tok, err := scan.next(expectOp)
		if err != nil {
			return err
		}
		if tok.kind == tokenEOF {
			break
		}
		switch {
		case tok.kind == tokenOpen:
			// A value directly before ( means the user likely intended
			// implicit multiplication, as in 2(x+1). Require the operator.
			if prev.kind == tokenValue || prev.kind == tokenClose || prev.kind == tokenName {
				return syntaxErr(tok.col, "missing operator between "+strconv.Quote(prev.text)+
					` and "(": did you mean to include an explicit "*"?`)
			}
			c.push(tok)
			expectOp = false

		case tok.kind == tokenClose:
			if err := c.close(tok, prev); err != nil {
				return err
			}
			expectOp = true

		case expectOp && tok.kind == tokenSep:
			if err := c.separate(tok); err != nil {
				return err
			}
			expectOp = false

		case expectOp && tok.kind == tokenOp:
			incoming := c.reg.ops[tok.text].Prec
			for len(c.stack) > 0 {
				top := c.stack[len(c.stack)-1]
				if top.kind == tokenOpen || c.stackPrec(top) < incoming {
					break
				}
				c.pop()
				if err := c.emitCall(top); err != nil {
					return err
				}
			}
			c.push(tok)
			expectOp = false

		case !expectOp && c.isUnary(tok):
			tok.kind = tokenUnary
			c.push(tok)

		case !expectOp && c.isFunc(tok):
			tok.kind = tokenFunc
			c.push(tok)
			// Pre-count the first argument; it never produces a separator.
			c.argc = append(c.argc, 1)

		case !expectOp && tok.kind == tokenName:
			c.vars[tok.text] = true
			if !contains(c.args, tok.text) {
				c.args = append(c.args, tok.text)
			}
			c.out = append(c.out, instruction{kind: instrVar, name: tok.text})
			expectOp = true

		case !expectOp && tok.kind == tokenValue:
			c.out = append(c.out, instruction{kind: instrValue, val: tok.val})
			expectOp = true

		default:
			want := "a value"
			if expectOp {
				want = "an operator"
			}
			return syntaxErr(tok.col, "unexpected token "+strconv.Quote(tok.text)+", expected "+want)
		}
		prev = tok
	}
	// Drain the stack. Any open parenthesis left at this point was never
	// closed.
	for len(c.stack) > 0 {
		top := c.pop()
		if top.kind == tokenOpen {
			return syntaxErr(top.col, "too few closing parentheses")
		}
		if err := c.emitCall(top); err != nil {
			return err
		}
	}
	// A truncated input like "x +" discharges cleanly but leaves a call
	// without its operands. Replay the stack depths to catch it.
	depth := 0
	for _, in := range c.out {
		if in.kind == instrCall {
			if depth < in.arity {
				return syntaxErr(scan.col, "missing operand for "+strconv.Quote(in.name))
			}
			depth -= in.arity
		}
		depth++
	}
	return nil
}

// close discharges the stack to the matching open parenthesis and, if a
// function identifier sits beneath it, emits the named call with the counted
// arguments.
func (c *compiler) close(tok, prev token) error {
	for {
		if len(c.stack) == 0 {
			return syntaxErr(tok.col, `closing ")" without a matching opening one`)
		}
		top := c.pop()
		if top.kind == tokenOpen {
			break
		}
		if err := c.emitCall(top); err != nil {
			return err
		}
	}
	if len(c.stack) == 0 || c.stack[len(c.stack)-1].kind != tokenFunc {
		return nil
	}
	ftok := c.pop()
	fn := c.reg.funcs[ftok.text]
	n := c.argc[len(c.argc)-1]
	c.argc = c.argc[:len(c.argc)-1]
	if prev.kind == tokenOpen {
		// The opener itself directly precedes the closer: an empty argument
		// list.
		n = 0
	}
	if !fn.Arity.CanCall(n) {
		return syntaxErr(ftok.col, "invalid number of arguments ("+strconv.Itoa(n)+") for function "+strconv.Quote(ftok.text))
	}
	c.out = append(c.out, instruction{
		kind:  instrCall,
		name:  ftok.text,
		fn:    fn.Fn,
		form:  fn.Form,
		disp:  fn.Display,
		arity: n,
		named: true,
	})
	return nil
}

// separate handles an argument separator: count it, then discharge pending
// operators so each argument compiles independently. A separator with no
// enclosing parenthesis starts a new top-level result (the program then
// evaluates to a list).
func (c *compiler) separate(tok token) error {
	if len(c.argc) > 0 {
		c.argc[len(c.argc)-1]++
	}
	for len(c.stack) > 0 {
		top := c.pop()
		if top.kind == tokenOpen {
			c.push(top)
			return nil
		}
		if err := c.emitCall(top); err != nil {
			return err
		}
	}
	return nil
}

// emitCall appends the call instruction for a stacked operator, unary
// operator, or bare function identifier.
func (c *compiler) emitCall(tok token) error {
	switch tok.kind {
	case tokenOp:
		op := c.reg.ops[tok.text]
		c.out = append(c.out, instruction{
			kind: instrCall, name: tok.text,
			fn: op.Fn, form: op.Form, disp: op.Display, arity: 2,
		})
	case tokenUnary:
		u := c.reg.unary[tok.text]
		c.out = append(c.out, instruction{
			kind: instrCall, name: tok.text,
			fn: u.Fn, form: u.Form, disp: u.Display, arity: 1,
		})
	case tokenFunc:
		// A function applied without parentheses, e.g. "sin 5". Only
		// functions with one fixed argument count can resolve an arity here.
		fn := c.reg.funcs[tok.text]
		if fn.Arity.variadic || len(fn.Arity.counts) != 1 {
			return syntaxErr(tok.col, "function "+strconv.Quote(tok.text)+" requires a parenthesized argument list")
		}
		// Drop the argument counter pushed when the identifier was stacked;
		// without parentheses nothing else pops it.
		if len(c.argc) > 0 {
			c.argc = c.argc[:len(c.argc)-1]
		}
		c.out = append(c.out, instruction{
			kind: instrCall, name: tok.text,
			fn: fn.Fn, form: fn.Form, disp: fn.Display, arity: fn.Arity.counts[0],
		})
	default:
		panic("equation: emit of non-call token " + tok.String())
	}
	return nil
}

// stackPrec is the precedence of a stacked token for the discharge loop.
// Unary operators and bare function identifiers bind tighter than any binary
// operator.
func (c *compiler) stackPrec(tok token) int {
	if tok.kind == tokenOp {
		return c.reg.ops[tok.text].Prec
	}
	return int(^uint(0) >> 1)
}

func (c *compiler) push(tok token) {
	c.stack = append(c.stack, tok)
}

func (c *compiler) pop() token {
	tok := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	return tok
}

func (c *compiler) isUnary(tok token) bool {
	_, ok := c.reg.unary[tok.text]
	return ok
}

func (c *compiler) isFunc(tok token) bool {
	_, ok := c.reg.funcs[tok.text]
	return ok
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
