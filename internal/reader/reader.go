// Package reader implements the text-to-Value reader: a byte-level
// tokenizer followed by a recursive-descent parser covering numbers,
// strings, keywords, symbols, lists, vectors, hash-maps, the quote family
// of reader macros, and the `@` deref rewrite.
package reader

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/basilisk-lang/lisp/internal/value"
)

// ErrParse is the sentinel every ParseError wraps, so callers can test the
// error kind with errors.Is(err, reader.ErrParse).
var ErrParse = errors.New("parse error")

// Kind distinguishes the parse-error subkinds.
type Kind uint8

const (
	KindEOFInList Kind = iota
	KindEOFInString
	KindBadNumber
	KindSyntax
)

// ParseError carries a human-readable message alongside its Kind.
type ParseError struct {
	Kind Kind
	msg  string
}

func (e *ParseError) Error() string { return e.msg }
func (e *ParseError) Unwrap() error { return ErrParse }

func newErr(k Kind, format string, args ...any) *ParseError {
	return &ParseError{Kind: k, msg: fmt.Sprintf(format, args...)}
}

// Read parses the first top-level form out of src. Empty input (after
// removing whitespace/comments) yields an empty List.
func Read(src string) (value.Value, error) {
	toks, err := tokenize(src)
	if err != nil {
		return value.Nil(), err
	}
	if len(toks) == 0 {
		return value.List(nil), nil
	}
	p := &parser{toks: toks}
	v, err := p.readForm()
	if err != nil {
		return value.Nil(), err
	}
	return v, nil
}

type parser struct {
	toks []string
	pos  int
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.toks) {
		return "", false
	}
	return p.toks[p.pos], true
}

func (p *parser) next() (string, bool) {
	t, ok := p.peek()
	if ok {
		p.pos++
	}
	return t, ok
}

var closeOf = map[string]string{"(": ")", "[": "]", "{": "}"}

func (p *parser) readForm() (value.Value, error) {
	tok, ok := p.next()
	if !ok {
		return value.Nil(), newErr(KindEOFInList, "unexpected EOF while reading")
	}
	switch tok {
	case "(":
		return p.readSeq(")", func(items []value.Value) value.Value { return value.List(items) })
	case "[":
		return p.readSeq("]", func(items []value.Value) value.Value { return value.Vector(items) })
	case "{":
		return p.readHashMap()
	case ")", "]", "}":
		return value.Nil(), newErr(KindSyntax, "unexpected %q", tok)
	case "'":
		return p.readWrapped("quote")
	case "`":
		return p.readWrapped("quasiquote")
	case "~":
		return p.readWrapped("unquote")
	case "~@":
		return p.readWrapped("splice-unquote")
	case "@":
		return p.readWrapped("deref")
	default:
		return parseAtom(tok)
	}
}

func (p *parser) readWrapped(head string) (value.Value, error) {
	inner, err := p.readForm()
	if err != nil {
		return value.Nil(), err
	}
	return value.List([]value.Value{value.Symbol(head), inner}), nil
}

func (p *parser) readSeq(close string, build func([]value.Value) value.Value) (value.Value, error) {
	items := []value.Value{}
	for {
		tok, ok := p.peek()
		if !ok {
			return value.Nil(), newErr(KindEOFInList, "expected %q, got EOF", close)
		}
		if tok == close {
			p.pos++
			return build(items), nil
		}
		v, err := p.readForm()
		if err != nil {
			return value.Nil(), err
		}
		items = append(items, v)
	}
}

func (p *parser) readHashMap() (value.Value, error) {
	keys := []value.Value{}
	vals := []value.Value{}
	for {
		tok, ok := p.peek()
		if !ok {
			return value.Nil(), newErr(KindEOFInList, "expected '}', got EOF")
		}
		if tok == "}" {
			p.pos++
			return value.HashMap(keys, vals), nil
		}
		k, err := p.readForm()
		if err != nil {
			return value.Nil(), err
		}
		if _, ok := p.peek(); !ok {
			return value.Nil(), newErr(KindEOFInList, "expected value for hash-map key, got EOF")
		}
		v, err := p.readForm()
		if err != nil {
			return value.Nil(), err
		}
		keys = append(keys, k)
		vals = append(vals, v)
	}
}

func parseAtom(tok string) (value.Value, error) {
	switch tok {
	case "nil":
		return value.Nil(), nil
	case "true":
		return value.Bool(true), nil
	case "false":
		return value.Bool(false), nil
	}
	if tok[0] == '"' {
		s, err := decodeString(tok)
		if err != nil {
			return value.Nil(), err
		}
		return value.String(s), nil
	}
	if tok[0] == ':' {
		return value.Keyword(tok), nil
	}
	if isNumberStart(tok) {
		return parseNumber(tok)
	}
	return value.Symbol(tok), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNumberStart(tok string) bool {
	if isDigit(tok[0]) {
		return true
	}
	return tok[0] == '-' && len(tok) >= 2 && isDigit(tok[1])
}

func parseNumber(tok string) (value.Value, error) {
	start := 0
	if tok[0] == '-' {
		start = 1
	}
	for i := start; i < len(tok); i++ {
		if !isDigit(tok[i]) {
			return value.Nil(), newErr(KindBadNumber, "non-numeric byte %q in numeric literal %q", tok[i], tok)
		}
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return value.Nil(), newErr(KindBadNumber, "invalid numeric literal %q: %v", tok, err)
	}
	return value.Number(n), nil
}

// decodeString unescapes the token text (including surrounding quotes):
// \n, \\, \" are recognized; any other \x passes x through.
func decodeString(tok string) (string, error) {
	if len(tok) < 2 || tok[len(tok)-1] != '"' {
		return "", newErr(KindEOFInString, "unterminated string literal: %q", tok)
	}
	body := tok[1 : len(tok)-1]
	out := make([]byte, 0, len(body))
	escape := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		if escape {
			switch c {
			case 'n':
				out = append(out, '\n')
			case '\\':
				out = append(out, '\\')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, c)
			}
			escape = false
			continue
		}
		if c == '\\' {
			escape = true
			continue
		}
		out = append(out, c)
	}
	if escape {
		return "", newErr(KindEOFInString, "unterminated escape in string literal: %q", tok)
	}
	return string(out), nil
}
