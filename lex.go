package equation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type token struct {
	text string
	kind tokenKind
	// val is the parsed number for tokenValue tokens.
	val Value
	// col is the 1-based rune column of the token's first rune.
	col int
}

func (t token) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.col)
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenOpen and tokenClose are the grouping parentheses.
	tokenOpen
	tokenClose
	// tokenSep is the function argument separator.
	tokenSep
	// tokenOp is a registered binary operator.
	tokenOp
	// tokenUnary is a registered unary operator.
	tokenUnary
	// tokenFunc is a registered function identifier.
	tokenFunc
	// tokenName is a bare variable name.
	tokenName
	// tokenValue is a numeric literal.
	tokenValue
)

func (k tokenKind) String() string {
	switch k {
	case tokenEOF:
		return "EOF"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	case tokenOp:
		return "Op"
	case tokenUnary:
		return "Unary"
	case tokenFunc:
		return "Func"
	case tokenName:
		return "Name"
	case tokenValue:
		return "Value"
	default:
		return "None"
	}
}

// lexer scans tokens from the front of a string. Scanning is context
// sensitive: the caller tells next whether an operator or a value is
// expected, and only the corresponding token rules apply.
type lexer struct {
	src string
	reg *Registry
	// pos is the byte offset of the unconsumed remainder.
	pos int
	// col is the 1-based rune column of the next rune.
	col int
}

func lexInput(src string, reg *Registry) *lexer {
	return &lexer{src: src, reg: reg, col: 1}
}

// advance consumes n bytes of the remainder.
func (l *lexer) advance(n int) {
	l.col += utf8.RuneCountInString(l.src[l.pos : l.pos+n])
	l.pos += n
}

// rest returns the unconsumed remainder.
func (l *lexer) rest() string {
	return l.src[l.pos:]
}

// next scans one token. Rules are tried in a fixed priority order: the
// grouping parentheses; then, expecting an operator, the separator and the
// registered binary operators; or, expecting a value, a numeric literal, a
// bare name, a registered function identifier, and a registered unary
// operator. Identifier alternatives match longest first. If no rule matches,
// next returns a LexError carrying the remainder.
func (l *lexer) next(expectOp bool) (token, error) {
	l.skipSpace()
	if l.pos == len(l.src) {
		return token{kind: tokenEOF, col: l.col}, nil
	}
	tok := token{col: l.col}
	switch l.src[l.pos] {
	case '(':
		tok.text, tok.kind = "(", tokenOpen
		l.advance(1)
		return tok, nil
	case ')':
		tok.text, tok.kind = ")", tokenClose
		l.advance(1)
		return tok, nil
	}
	if expectOp {
		if l.src[l.pos] == ',' {
			tok.text, tok.kind = ",", tokenSep
			l.advance(1)
			return tok, nil
		}
		if id, ok := l.matchIdent(l.reg.opIdents); ok {
			tok.text, tok.kind = id, tokenOp
			l.advance(len(id))
			return tok, nil
		}
	} else {
		v, n, err := scanNumber(l.rest())
		if err != nil {
			return tok, syntaxErr(l.col, err.Error())
		}
		if n > 0 {
			tok.text, tok.kind, tok.val = l.src[l.pos:l.pos+n], tokenValue, v
			l.advance(n)
			return tok, nil
		}
		if n := scanName(l.rest()); n > 0 {
			tok.text, tok.kind = l.src[l.pos:l.pos+n], tokenName
			l.advance(n)
			return tok, nil
		}
		if id, ok := l.matchIdent(l.reg.funcIdents); ok {
			tok.text, tok.kind = id, tokenFunc
			l.advance(len(id))
			return tok, nil
		}
		if id, ok := l.matchIdent(l.reg.unaryIdents); ok {
			tok.text, tok.kind = id, tokenUnary
			l.advance(len(id))
			return tok, nil
		}
	}
	return tok, &LexError{Col: l.col, Remainder: l.rest()}
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		l.advance(sz)
	}
}

// matchIdent returns the first of idents that prefixes the remainder. idents
// is ordered longest first by the registry rebuild.
func (l *lexer) matchIdent(idents []string) (string, bool) {
	s := l.rest()
	for _, id := range idents {
		if strings.HasPrefix(s, id) {
			return id, true
		}
	}
	return "", false
}

// scanName matches a bare name, [A-Za-z_][A-Za-z0-9_]*, and returns its
// length in bytes.
func scanName(s string) int {
	if len(s) == 0 || !isNameStart(s[0]) {
		return 0
	}
	n := 1
	for n < len(s) && isNameByte(s[n]) {
		n++
	}
	return n
}

func isNameStart(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isNameByte(c byte) bool {
	return isNameStart(c) || '0' <= c && c <= '9'
}

// scanNumber matches a numeric literal at the front of s and returns its
// value and length in bytes; a zero length means no literal starts here. The
// grammar, in priority order: octal (0o), hexadecimal (0x), and binary (0b)
// integers, each with an optional sign; a decimal real with optional sign,
// fraction, and exponent; and a decimal complex, which is a real immediately
// followed by a second signed real and a trailing i or j. Integer-valued
// decimals without fraction or exponent are int64; base-prefixed literals
// are always int64, and report an error rather than wrapping when they
// exceed the int64 range; everything else is float64 or complex128.
func scanNumber(s string) (Value, int, error) {
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
		i += leadingSpace(s[i:])
	}
	for _, base := range []struct {
		prefix string
		bits   int
	}{{"0o", 8}, {"0x", 16}, {"0b", 2}} {
		if !strings.HasPrefix(s[i:], base.prefix) {
			continue
		}
		j := i + len(base.prefix)
		n := countDigits(s[j:], base.bits)
		if n == 0 {
			continue
		}
		v, err := strconv.ParseInt(s[j:j+n], base.bits, 64)
		if err != nil {
			// The digits were counted against the base, so the only way to
			// fail is exceeding the int64 range.
			return nil, 0, fmt.Errorf("integer literal %q out of range", s[:j+n])
		}
		if neg {
			v = -v
		}
		return v, j + n, nil
	}
	digits := i
	re, isInt, n, ok := scanReal(s[i:])
	if !ok {
		return nil, 0, nil
	}
	i += n
	if neg {
		re = -re
	}
	// A second signed real with a trailing imaginary marker makes the whole
	// literal complex. Anything short of the full form backs out to the real
	// part alone.
	if im, n, ok := scanImaginary(s[i:]); ok {
		return complex(re, im), i + n, nil
	}
	if isInt {
		if v, err := strconv.ParseInt(s[digits:i], 10, 64); err == nil {
			if neg {
				v = -v
			}
			return v, i, nil
		}
	}
	return re, i, nil
}

// scanImaginary matches the imaginary continuation of a complex literal: an
// optional + separator, a sign (required when the separator is absent), a
// decimal real, and the i or j marker.
func scanImaginary(s string) (float64, int, bool) {
	i := leadingSpace(s)
	sep := false
	if i < len(s) && s[i] == '+' {
		sep = true
		i++
		i += leadingSpace(s[i:])
	}
	neg := false
	switch {
	case i < len(s) && (s[i] == '+' || s[i] == '-'):
		neg = s[i] == '-'
		i++
		i += leadingSpace(s[i:])
	case !sep:
		return 0, 0, false
	}
	im, _, n, ok := scanReal(s[i:])
	if !ok {
		return 0, 0, false
	}
	i += n
	if i >= len(s) || (s[i] != 'i' && s[i] != 'j') {
		return 0, 0, false
	}
	if neg {
		im = -im
	}
	return im, i + 1, true
}

// scanReal matches digits with an optional fraction and exponent. isInt
// reports that the literal had neither. Values beyond the float64 range
// saturate to an infinity.
func scanReal(s string) (v float64, isInt bool, n int, ok bool) {
	i := countDigits(s, 10)
	dot := false
	if i < len(s) && s[i] == '.' {
		dot = true
		i += 1 + countDigits(s[i+1:], 10)
	}
	if i == 0 || (dot && i == 1) {
		return 0, false, 0, false
	}
	exp := false
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if d := countDigits(s[j:], 10); d > 0 {
			exp = true
			i = j + d
		}
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false, 0, false
	}
	return v, !dot && !exp, i, true
}

func countDigits(s string, base int) int {
	n := 0
	for n < len(s) && digitVal(s[n]) < base {
		n++
	}
	return n
}

func digitVal(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	default:
		return 99
	}
}

func leadingSpace(s string) int {
	i := 0
	for i < len(s) {
		r, sz := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			return i
		}
		i += sz
	}
	return i
}

// LexError indicates input that matches no token rule. It implements
// InputError.
type LexError struct {
	// Col is the rune column at which scanning failed.
	Col int
	// Remainder is the unconsumed input, beginning with the offending text.
	Remainder string
}

func (err *LexError) Error() string {
	return errpos(err.Col, "no token rule matches input "+strconv.Quote(err.Remainder))
}

func (err *LexError) Pos() int {
	return err.Col
}
