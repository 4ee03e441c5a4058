package equation

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCompile(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"precedence", "2+3*4", []string{
			"value 2", "value 3", "value 4", "call */2", "call +/2",
		}},
		{"parens", "(2+3)*4", []string{
			"value 2", "value 3", "call +/2", "value 4", "call */2",
		}},
		{"left-assoc-power", "4^3^2", []string{
			"value 4", "value 3", "call ^/2", "value 2", "call ^/2",
		}},
		{"double-star", "2**3", []string{
			"value 2", "value 3", "call **/2",
		}},
		{"call", "abs(-5)", []string{
			"value -5", "call abs/1 named",
		}},
		{"bare-call", "sin 5", []string{
			"value 5", "call sin/1",
		}},
		{"two-arg-call", "log(8,2)", []string{
			"value 8", "value 2", "call log/2 named",
		}},
		{"variadic-call", "max(1, 2, 3)", []string{
			"value 1", "value 2", "value 3", "call max/3 named",
		}},
		{"unary", "-x", []string{
			"var x", "call -/1",
		}},
		{"unary-binds-tightest", "-x^2", []string{
			"var x", "call -/1", "value 2", "call ^/2",
		}},
		{"signed-literal", "2 - -3", []string{
			"value 2", "value -3", "call -/2",
		}},
		{"variables", "x + y * z", []string{
			"var x", "var y", "var z", "call */2", "call +/2",
		}},
		{"top-level-list", "1, 2", []string{
			"value 1", "value 2",
		}},
		{"empty", "", []string{}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.in)
			if err != nil {
				t.Fatalf("parsing %q: %v", c.in, err)
			}
			if diff := cmp.Diff(c.want, e.rpn()); diff != "" {
				t.Errorf("wrong program for %q (-want +got):\n%s", c.in, diff)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		msg  string
	}{
		{"implicit-mul", "2(x+1)", "missing operator"},
		{"implicit-mul-close", "(x)(y)", "missing operator"},
		{"unmatched-close", ")", "without a matching"},
		{"unmatched-open", "(2", "too few closing"},
		{"too-many-args", "log(1,2,3)", "invalid number of arguments (3)"},
		{"no-args", "min()", "invalid number of arguments (0)"},
		{"bare-variadic", "log 5", "requires a parenthesized argument list"},
		{"trailing-op", "x +", "missing operand"},
		{"leading-close-op", "2 + )", "without a matching"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.in)
			var serr *SyntaxError
			if !errors.As(err, &serr) {
				t.Fatalf("parsing %q: got %v, want a SyntaxError", c.in, err)
			}
			if !strings.Contains(serr.Msg, c.msg) {
				t.Errorf("parsing %q: error %q does not mention %q", c.in, serr.Msg, c.msg)
			}
			if serr.Pos() < 0 {
				t.Errorf("parsing %q: negative error position %d", c.in, serr.Pos())
			}
		})
	}
}

func TestCompileErrorPosition(t *testing.T) {
	_, err := Parse("2 * (x+1")
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want a SyntaxError", err)
	}
	if serr.Col != 5 {
		t.Errorf("error at column %d, want 5 (the unclosed parenthesis)", serr.Col)
	}
}

func TestArgOrder(t *testing.T) {
	e, err := Parse("x - y", ArgOrder("y", "x"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"y", "x"}, e.Args()); diff != "" {
		t.Errorf("wrong argument order (-want +got):\n%s", diff)
	}
	r, err := e.Eval([]Value{int64(1), int64(2)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	// y=1, x=2.
	if r != int64(1) {
		t.Errorf("x - y with y=1, x=2 = %v, want 1", r)
	}
}

func TestArgOrderPartial(t *testing.T) {
	// Names not listed append in order of first appearance.
	e, err := Parse("a + b + c", ArgOrder("c"))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"c", "a", "b"}, e.Args()); diff != "" {
		t.Errorf("wrong argument order (-want +got):\n%s", diff)
	}
}

func TestArgOrderDuplicateName(t *testing.T) {
	// A duplicated name would shadow one positional slot with the next.
	_, err := Parse("x + y", ArgOrder("x", "x"))
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want a SyntaxError", err)
	}
	if !strings.Contains(serr.Msg, "duplicate") {
		t.Errorf("error %q does not mention the duplicate", serr.Msg)
	}
	// The same name through separate options is the same mistake.
	_, err = Parse("x + y", ArgOrder("x"), ArgOrder("y", "x"))
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want a SyntaxError", err)
	}
}

func TestArgOrderUnknownName(t *testing.T) {
	_, err := Parse("x + 1", ArgOrder("y"))
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("got %v, want a SyntaxError", err)
	}
}

func TestVars(t *testing.T) {
	e, err := Parse("z + a*z + m")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a", "m", "z"}, e.Vars()); diff != "" {
		t.Errorf("wrong variables (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"z", "a", "m"}, e.Args()); diff != "" {
		t.Errorf("wrong argument order (-want +got):\n%s", diff)
	}
	if !e.Has("a") || e.Has("q") {
		t.Errorf("Has misreports membership: a=%t q=%t", e.Has("a"), e.Has("q"))
	}
}

func FuzzParse(f *testing.F) {
	for _, s := range []string{
		"2+3*4", "x^2 + y", "abs(-5)", "log(8,2)", "3+4j * x",
		"min(1, x, 2.5)", "-x", "(a+b)/(a-b)", "0x1f & 0b101",
	} {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, src string) {
		e, err := Parse(src)
		if err != nil {
			var ierr InputError
			if !errors.As(err, &ierr) {
				t.Errorf("Parse(%q) error %v is not an InputError", src, err)
			}
			return
		}
		// Whatever parses must render to a canonical form that reparses to
		// the same canonical form. Multi-result programs render bracketed and
		// are not meant to reparse.
		depth := 0
		for _, in := range e.prog {
			if in.kind == instrCall {
				depth -= in.arity
			}
			depth++
		}
		if depth != 1 {
			return
		}
		can := e.Canonical()
		e2, err := Parse(can)
		if err != nil {
			t.Fatalf("Parse(%q) ok but its canonical form %q does not reparse: %v", src, can, err)
		}
		if got := e2.Canonical(); got != can {
			t.Errorf("canonical form of %q not stable: %q reparses to %q", src, can, got)
		}
	})
}
