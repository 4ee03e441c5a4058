// Command equation compiles and evaluates textual math expressions.
//
// Expressions given as arguments or in an input file are evaluated in order.
// With no arguments and no input file, the command reads expressions
// interactively; a line of the form "name = expression" evaluates the right
// side and binds the result for later lines.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/lmorg/readline"

	"github.com/aomath/equation"
)

func main() {
	log.SetFlags(0)
	var (
		inname      string
		echo, latex bool
	)
	vars := make(map[string]equation.Value)
	addgiven := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf(`variable definitions must be "name=value", not %q`, s)
		}
		nm := strings.TrimSpace(d[0])
		r, err := equation.EvalString(strings.TrimSpace(d[1]), vars)
		if err != nil {
			return fmt.Errorf("setting %s: %w", nm, err)
		}
		vars[nm] = r
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file with one expression per line")
	flag.Func("given", "name=value variable definition (any number of times)", addgiven)
	flag.BoolVar(&echo, "echo", false, "print the canonical form of each expression")
	flag.BoolVar(&latex, "latex", false, "print the typeset form instead of evaluating")
	flag.Parse()

	var lines []string
	if inname != "" {
		f, err := os.Open(inname)
		if err != nil {
			log.Fatal(err)
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			lines = append(lines, sc.Text())
		}
		f.Close()
		if err := sc.Err(); err != nil {
			log.Fatal(err)
		}
	}
	lines = append(lines, flag.Args()...)

	if len(lines) == 0 {
		repl(vars, echo, latex)
		return
	}
	for _, line := range lines {
		out, err := run(line, vars, echo, latex)
		if err != nil {
			log.Fatal(err)
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}

// run evaluates one input line against the current bindings, handling the
// "name = expression" binding form, and returns the text to print.
func run(line string, vars map[string]equation.Value, echo, latex bool) (string, error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", nil
	}
	if nm, src, ok := binding(line); ok {
		r, err := equation.EvalString(src, vars)
		if err != nil {
			return "", err
		}
		vars[nm] = r
		return "", nil
	}
	expr, err := equation.Parse(line)
	if err != nil {
		return "", err
	}
	var out string
	if echo {
		out = expr.Canonical() + " : "
	}
	if latex {
		return out + expr.String(), nil
	}
	r, err := expr.Eval(nil, vars)
	if err != nil {
		return "", err
	}
	return out + format(r), nil
}

// binding splits a "name = expression" line. A = that begins an expression
// operator or sits inside one does not count; only a lone identifier on the
// left makes a binding.
func binding(line string) (name, src string, ok bool) {
	i := strings.IndexByte(line, '=')
	if i < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(line[:i])
	if name == "" || !isIdent(name) {
		return "", "", false
	}
	return name, strings.TrimSpace(line[i+1:]), true
}

func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_', 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z':
		case i > 0 && '0' <= r && r <= '9':
		default:
			return false
		}
	}
	return true
}

func format(v equation.Value) string {
	if vs, ok := v.([]equation.Value); ok {
		parts := make([]string, len(vs))
		for i, x := range vs {
			parts[i] = fmt.Sprint(x)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}

func repl(vars map[string]equation.Value, echo, latex bool) {
	rline := readline.NewInstance()
	rline.SetPrompt("> ")
	for {
		line, err := rline.Readline()
		if err != nil {
			fmt.Println(err)
			return
		}
		out, err := run(line, vars, echo, latex)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if out != "" {
			fmt.Println(out)
		}
	}
}
