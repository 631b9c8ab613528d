package manifest

import "strings"

// The manifest is never executed. This file implements a restricted scan of
// the manifest source that recovers only literal and constant-foldable
// values: top-level NAME = <literal> assignments and the keyword arguments
// of the single top-level setup(...) call. Anything else (calls,
// comprehensions, arithmetic on non-literals) is consumed and marked opaque.

type kind int

const (
	kindOpaque kind = iota
	kindString
	kindList
	kindDict
)

type value struct {
	kind kind
	str  string
	list []value
	dict map[string]value
}

// strings returns the flattened string elements of a list value. Opaque or
// non-string elements are dropped.
func (v value) strings() []string {
	var out []string
	for _, e := range v.list {
		if e.kind == kindString {
			out = append(out, e.str)
		}
	}
	return out
}

type scanner struct {
	src    string
	pos    int
	consts map[string]value
}

func newScanner(src string) *scanner {
	// Tolerate a UTF-8 BOM, which some manifests carry.
	src = strings.TrimPrefix(src, "\ufeff")
	return &scanner{src: src, consts: make(map[string]value)}
}

func (s *scanner) eof() bool {
	return s.pos >= len(s.src)
}

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

// skipSpace consumes spaces, tabs, comments and escaped newlines. When
// newlines is true (inside brackets) bare newlines are whitespace too.
func (s *scanner) skipSpace(newlines bool) {
	for !s.eof() {
		switch c := s.src[s.pos]; {
		case c == ' ' || c == '\t' || c == '\r':
			s.pos++
		case c == '#':
			for !s.eof() && s.src[s.pos] != '\n' {
				s.pos++
			}
		case c == '\\' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n':
			s.pos += 2
		case c == '\n' && newlines:
			s.pos++
		default:
			return
		}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (s *scanner) ident() string {
	start := s.pos
	for !s.eof() && isIdentByte(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

// parseValue parses one expression, folding what it can. It always consumes
// the full expression, so the caller ends up at the following ',' / closer /
// end of statement even when the result is opaque.
func (s *scanner) parseValue(newlines bool) value {
	s.skipSpace(newlines)
	v := s.parseOperand(newlines)

	// Fold '+' chains over strings and lists. A single non-foldable term
	// poisons the whole chain.
	for {
		s.skipSpace(newlines)
		if s.peek() != '+' {
			break
		}
		s.pos++
		next := s.parseOperand(newlines)
		switch {
		case v.kind == kindString && next.kind == kindString:
			v.str += next.str
		case v.kind == kindList && next.kind == kindList:
			v.list = append(v.list, next.list...)
		default:
			v = value{kind: kindOpaque}
		}
	}
	return v
}

func (s *scanner) parseOperand(newlines bool) value {
	s.skipSpace(newlines)
	if s.eof() {
		return value{kind: kindOpaque}
	}

	switch c := s.peek(); {
	case s.startsString():
		return s.parseString(newlines)
	case c == '[':
		return s.parseSequence(newlines, '[', ']')
	case c == '(':
		return s.parseSequence(newlines, '(', ')')
	case c == '{':
		return s.parseDict()
	case isIdentStart(c):
		return s.parseIdentExpr(newlines)
	default:
		s.skipExpr(newlines)
		return value{kind: kindOpaque}
	}
}

// parseString reads a quoted literal, including triple quotes and implicit
// adjacent-literal concatenation.
func (s *scanner) parseString(newlines bool) value {
	var b strings.Builder
	for {
		raw := false
		// String prefixes (r, b, u, f and combinations). Only r changes
		// how we read; f-strings are not foldable but are still consumed.
		for !s.eof() && isIdentStart(s.peek()) {
			if s.peek() == 'r' || s.peek() == 'R' {
				raw = true
			}
			s.pos++
		}
		piece, ok := s.readQuoted(raw)
		if !ok {
			return value{kind: kindOpaque}
		}
		b.WriteString(piece)

		s.skipSpace(newlines)
		if !s.startsString() {
			break
		}
	}
	return value{kind: kindString, str: b.String()}
}

// startsString reports whether the scanner sits on a (possibly prefixed)
// quote.
func (s *scanner) startsString() bool {
	i := s.pos
	for i < len(s.src) && isIdentStart(s.src[i]) && i-s.pos < 3 {
		i++
	}
	if i >= len(s.src) {
		return false
	}
	c := s.src[i]
	return (c == '\'' || c == '"') && (i == s.pos || allStringPrefix(s.src[s.pos:i]))
}

func allStringPrefix(p string) bool {
	for i := 0; i < len(p); i++ {
		switch p[i] {
		case 'r', 'R', 'b', 'B', 'u', 'U', 'f', 'F':
		default:
			return false
		}
	}
	return true
}

func (s *scanner) readQuoted(raw bool) (string, bool) {
	quote := s.peek()
	if quote != '\'' && quote != '"' {
		return "", false
	}
	triple := strings.HasPrefix(s.src[s.pos:], strings.Repeat(string(quote), 3))
	if triple {
		s.pos += 3
	} else {
		s.pos++
	}

	var b strings.Builder
	for !s.eof() {
		c := s.src[s.pos]
		if c == '\\' && !raw && s.pos+1 < len(s.src) {
			s.pos++
			b.WriteString(unescape(s.src[s.pos]))
			s.pos++
			continue
		}
		if c == quote {
			if !triple {
				s.pos++
				return b.String(), true
			}
			if strings.HasPrefix(s.src[s.pos:], strings.Repeat(string(quote), 3)) {
				s.pos += 3
				return b.String(), true
			}
		}
		if c == '\n' && !triple {
			return "", false
		}
		b.WriteByte(c)
		s.pos++
	}
	return "", false
}

func unescape(c byte) string {
	switch c {
	case 'n':
		return "\n"
	case 't':
		return "\t"
	case 'r':
		return "\r"
	case '\n':
		return ""
	default:
		return string(c)
	}
}

// parseSequence reads a list or tuple literal into a list value.
func (s *scanner) parseSequence(_ bool, open, close byte) value {
	if s.peek() != open {
		return value{kind: kindOpaque}
	}
	s.pos++

	v := value{kind: kindList}
	opaque := false
	sawComma := false
	for {
		s.skipSpace(true)
		if s.eof() {
			return value{kind: kindOpaque}
		}
		if s.peek() == close {
			s.pos++
			break
		}
		elem := s.parseValue(true)
		if elem.kind == kindOpaque {
			opaque = true
		}
		v.list = append(v.list, elem)

		s.skipSpace(true)
		if s.peek() == ',' {
			sawComma = true
			s.pos++
		}
	}
	if opaque {
		return value{kind: kindOpaque}
	}
	// A parenthesized expression without a comma is not a tuple.
	if open == '(' && len(v.list) == 1 && !sawComma {
		return v.list[0]
	}
	return v
}

// parseDict reads a dict literal whose keys are string literals.
func (s *scanner) parseDict() value {
	s.pos++ // '{'
	v := value{kind: kindDict, dict: make(map[string]value)}
	opaque := false
	for {
		s.skipSpace(true)
		if s.eof() {
			return value{kind: kindOpaque}
		}
		if s.peek() == '}' {
			s.pos++
			break
		}

		key := s.parseValue(true)
		s.skipSpace(true)
		if s.peek() != ':' {
			opaque = true
			s.skipExpr(true)
		} else {
			s.pos++
			val := s.parseValue(true)
			if key.kind == kindString && val.kind != kindOpaque {
				v.dict[key.str] = val
			} else {
				opaque = true
			}
		}

		s.skipSpace(true)
		if s.peek() == ',' {
			s.pos++
		}
	}
	if opaque {
		return value{kind: kindOpaque}
	}
	return v
}

// parseIdentExpr resolves a bare name against the collected constants. A
// name followed by a call, subscript or attribute access is not foldable.
func (s *scanner) parseIdentExpr(newlines bool) value {
	name := s.ident()
	s.skipSpace(newlines)
	if c := s.peek(); c == '(' || c == '[' || c == '.' {
		s.skipExpr(newlines)
		return value{kind: kindOpaque}
	}
	if v, ok := s.consts[name]; ok {
		return v
	}
	return value{kind: kindOpaque}
}

// skipExpr consumes the remainder of the current expression: everything up
// to a ',' or closing bracket at the current nesting level, or (outside
// brackets) the end of the logical line.
func (s *scanner) skipExpr(newlines bool) {
	depth := 0
	for !s.eof() {
		c := s.peek()
		switch c {
		case '\'', '"':
			_, _ = s.readQuoted(true)
			continue
		case '#':
			s.skipSpace(newlines)
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return
			}
			depth--
		case ',':
			if depth == 0 {
				return
			}
		case '\\':
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
				s.pos += 2
				continue
			}
		case '\n':
			if depth == 0 && !newlines {
				return
			}
		}
		s.pos++
	}
}

// skipStatement consumes to the end of the current logical line.
func (s *scanner) skipStatement() {
	depth := 0
	for !s.eof() {
		c := s.peek()
		switch c {
		case '\'', '"':
			_, _ = s.readQuoted(true)
			continue
		case '#':
			for !s.eof() && s.peek() != '\n' {
				s.pos++
			}
			continue
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth > 0 {
				depth--
			}
		case '\\':
			if s.pos+1 < len(s.src) && s.src[s.pos+1] == '\n' {
				s.pos += 2
				continue
			}
		case '\n':
			s.pos++
			if depth == 0 {
				return
			}
			continue
		}
		s.pos++
	}
}
