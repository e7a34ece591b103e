package literal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports where the input stopped making sense.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("literal: %s at offset %d", e.Msg, e.Offset)
}

// Parse reads exactly one literal from src. Leading and trailing whitespace
// and comments are allowed; anything else after the value is an error. Raw
// expressions are only accepted nested inside an object or array.
func Parse(src string) (Value, error) {
	p := &parser{src: src}
	p.skipSpace()
	if p.eof() {
		return Value{}, p.errorf("expected value")
	}

	start := p.pos
	v, err := p.parsePrimary()
	if err != nil {
		return Value{}, err
	}
	v.Source = p.src[start:p.pos]

	p.skipSpace()
	if !p.eof() {
		return Value{}, p.errorf("unexpected %q after value", p.src[p.pos])
	}
	return v, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(off int) byte {
	if p.pos+off >= len(p.src) {
		return 0
	}
	return p.src[p.pos+off]
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

// skipSpace skips whitespace, line comments and block comments.
func (p *parser) skipSpace() {
	for !p.eof() {
		c := p.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			p.pos++
		case c == '/' && p.peekAt(1) == '/':
			end := strings.IndexByte(p.src[p.pos:], '\n')
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end + 1
			}
		case c == '/' && p.peekAt(1) == '*':
			end := strings.Index(p.src[p.pos+2:], "*/")
			if end < 0 {
				p.pos = len(p.src)
			} else {
				p.pos += end + 4
			}
		default:
			return
		}
	}
}

// atDelimiter reports whether the next token ends a value.
func (p *parser) atDelimiter() bool {
	switch p.peek() {
	case 0, ',', '}', ']', ')':
		return true
	}
	return false
}

// parseValue parses a literal, falling back to a verbatim Raw capture when the
// value turns out to be a larger expression (a call, an arrow function, an
// operator chain). An object or array that fails to parse is an error, not a
// Raw value.
func (p *parser) parseValue() (Value, error) {
	p.skipSpace()
	start := p.pos

	v, err := p.parsePrimary()
	if err == nil {
		end := p.pos
		p.skipSpace()
		if p.atDelimiter() {
			v.Source = p.src[start:end]
			return v, nil
		}
	} else if start < len(p.src) && (p.src[start] == '{' || p.src[start] == '[') {
		return Value{}, err
	}

	p.pos = start
	return p.parseRaw()
}

func (p *parser) parsePrimary() (Value, error) {
	c := p.peek()
	switch {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '\'' || c == '"' || c == '`':
		s, err := p.parseString()
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindString, Str: s}, nil
	case isDigit(c), c == '.' && isDigit(p.peekAt(1)):
		return p.parseNumber()
	case (c == '-' || c == '+') && (isDigit(p.peekAt(1)) || p.peekAt(1) == '.'):
		return p.parseNumber()
	}

	name, ok := p.parseIdent()
	if !ok {
		return Value{}, p.errorf("unexpected %q", c)
	}
	switch name {
	case "true":
		return Value{Kind: KindBool, Bool: true}, nil
	case "false":
		return Value{Kind: KindBool}, nil
	case "null":
		return Value{Kind: KindNull}, nil
	case "undefined":
		return Value{Kind: KindUndefined}, nil
	}
	return Value{Kind: KindIdent, Str: name}, nil
}

func (p *parser) parseObject() (Value, error) {
	start := p.pos
	p.pos++ // {
	obj := Value{Kind: KindObject}

	for {
		p.skipSpace()
		if p.eof() {
			return Value{}, p.errorf("unterminated object")
		}
		if p.peek() == '}' {
			p.pos++
			break
		}

		keyStart := p.pos
		bareKey := isIdentStart(p.peek())
		key, err := p.parseKey()
		if err != nil {
			return Value{}, err
		}

		p.skipSpace()
		var val Value
		switch c := p.peek(); {
		case c == ':':
			p.pos++
			val, err = p.parseValue()
		case c == '(':
			val, err = p.parseMethod(keyStart)
		case (c == ',' || c == '}') && bareKey:
			val = Value{Kind: KindIdent, Str: key, Source: key, Shorthand: true}
		default:
			err = p.errorf("expected ':' after key %q", key)
		}
		if err != nil {
			return Value{}, err
		}
		obj.set(key, val)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
		default:
			return Value{}, p.errorf("expected ',' or '}' in object")
		}
	}

	obj.Source = p.src[start:p.pos]
	return obj, nil
}

func (p *parser) parseKey() (string, error) {
	c := p.peek()
	switch {
	case c == '\'' || c == '"':
		return p.parseString()
	case isDigit(c):
		n, err := p.parseNumber()
		if err != nil {
			return "", err
		}
		return strconv.FormatFloat(n.Num, 'f', -1, 64), nil
	}
	if name, ok := p.parseIdent(); ok {
		return name, nil
	}
	return "", p.errorf("expected property name")
}

// parseMethod reads the parameter list and body of a method member whose key
// started at keyStart.
func (p *parser) parseMethod(keyStart int) (Value, error) {
	paramsStart := p.pos
	if err := p.skipGroup(); err != nil {
		return Value{}, err
	}
	params := p.src[paramsStart:p.pos]

	p.skipSpace()
	if p.peek() != '{' {
		return Value{}, p.errorf("expected method body")
	}
	bodyStart := p.pos
	if err := p.skipGroup(); err != nil {
		return Value{}, err
	}

	return Value{
		Kind:   KindRaw,
		Source: p.src[keyStart:p.pos],
		Str:    params + " => " + p.src[bodyStart:p.pos],
		Method: true,
	}, nil
}

// skipGroup advances past a bracketed group starting at the current
// position, skipping strings and comments inside it.
func (p *parser) skipGroup() error {
	start := p.pos
	depth := 0
	for !p.eof() {
		c := p.peek()
		switch {
		case c == '\'' || c == '"' || c == '`':
			if err := p.skipQuoted(c); err != nil {
				return err
			}
			continue
		case c == '/' && (p.peekAt(1) == '/' || p.peekAt(1) == '*'):
			p.skipSpace()
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
		p.pos++
	}
	p.pos = start
	return p.errorf("unterminated %q", p.src[start])
}

func (p *parser) parseArray() (Value, error) {
	start := p.pos
	p.pos++ // [
	arr := Value{Kind: KindArray}

	for {
		p.skipSpace()
		if p.eof() {
			return Value{}, p.errorf("unterminated array")
		}
		if p.peek() == ']' {
			p.pos++
			break
		}
		if p.peek() == ',' {
			return Value{}, p.errorf("array holes are not supported")
		}

		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		arr.Elems = append(arr.Elems, val)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
		default:
			return Value{}, p.errorf("expected ',' or ']' in array")
		}
	}

	arr.Source = p.src[start:p.pos]
	return arr, nil
}

func (p *parser) parseString() (string, error) {
	quote := p.peek()
	p.pos++

	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		c := p.peek()
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\n' && quote != '`':
			return "", p.errorf("newline in string")
		case c == '$' && quote == '`' && p.peekAt(1) == '{':
			return "", p.errorf("template substitution")
		case c == '\\':
			p.pos++
			if err := p.parseEscape(&b); err != nil {
				return "", err
			}
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
}

func (p *parser) parseEscape(b *strings.Builder) error {
	if p.eof() {
		return p.errorf("unterminated escape")
	}
	c := p.peek()
	p.pos++

	switch c {
	case 'n':
		b.WriteByte('\n')
	case 't':
		b.WriteByte('\t')
	case 'r':
		b.WriteByte('\r')
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'v':
		b.WriteByte('\v')
	case '0':
		b.WriteByte(0)
	case '\r':
		if p.peek() == '\n' {
			p.pos++
		}
	case '\n':
		// line continuation
	case 'x':
		return p.parseHexEscape(b, 2)
	case 'u':
		if p.peek() == '{' {
			end := strings.IndexByte(p.src[p.pos:], '}')
			if end < 0 {
				return p.errorf("unterminated unicode escape")
			}
			r, err := strconv.ParseUint(p.src[p.pos+1:p.pos+end], 16, 32)
			if err != nil {
				return p.errorf("invalid unicode escape")
			}
			b.WriteRune(rune(r))
			p.pos += end + 1
			return nil
		}
		return p.parseHexEscape(b, 4)
	default:
		b.WriteByte(c)
	}
	return nil
}

func (p *parser) parseHexEscape(b *strings.Builder, n int) error {
	if p.pos+n > len(p.src) {
		return p.errorf("short hex escape")
	}
	r, err := strconv.ParseUint(p.src[p.pos:p.pos+n], 16, 32)
	if err != nil {
		return p.errorf("invalid hex escape")
	}
	b.WriteRune(rune(r))
	p.pos += n
	return nil
}

func (p *parser) parseNumber() (Value, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}

	if p.peek() == '0' && strings.ContainsRune("xXoObB", rune(p.peekAt(1))) {
		p.pos += 2
		for isHexDigit(p.peek()) || p.peek() == '_' {
			p.pos++
		}
		text := strings.ReplaceAll(p.src[start:p.pos], "_", "")
		n, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return Value{}, p.errorf("invalid number %q", text)
		}
		return Value{Kind: KindNumber, Num: float64(n)}, nil
	}

	for isDigit(p.peek()) || p.peek() == '_' {
		p.pos++
	}
	if p.peek() == '.' {
		p.pos++
		for isDigit(p.peek()) || p.peek() == '_' {
			p.pos++
		}
	}
	if c := p.peek(); c == 'e' || c == 'E' {
		p.pos++
		if c := p.peek(); c == '-' || c == '+' {
			p.pos++
		}
		for isDigit(p.peek()) {
			p.pos++
		}
	}

	text := strings.ReplaceAll(p.src[start:p.pos], "_", "")
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, p.errorf("invalid number %q", text)
	}
	return Value{Kind: KindNumber, Num: n}, nil
}

func (p *parser) parseIdent() (string, bool) {
	start := p.pos
	for !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r == '_' || r == '$' || unicode.IsLetter(r) || (p.pos > start && unicode.IsDigit(r)) {
			p.pos += size
			continue
		}
		break
	}
	if p.pos == start {
		return "", false
	}
	return p.src[start:p.pos], true
}

// parseRaw captures an arbitrary expression up to the next top-level
// delimiter, skipping over strings, comments and bracketed groups.
func (p *parser) parseRaw() (Value, error) {
	start := p.pos
	depth := 0

scan:
	for !p.eof() {
		c := p.peek()
		switch {
		case c == '\'' || c == '"' || c == '`':
			if err := p.skipQuoted(c); err != nil {
				return Value{}, err
			}
			continue
		case c == '/' && (p.peekAt(1) == '/' || p.peekAt(1) == '*'):
			p.skipSpace()
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			if depth == 0 {
				break scan
			}
			depth--
		case c == ',' && depth == 0:
			break scan
		}
		p.pos++
	}

	if depth > 0 {
		return Value{}, p.errorf("unbalanced brackets in expression")
	}

	text := strings.TrimSpace(p.src[start:p.pos])
	if text == "" {
		p.pos = start
		return Value{}, p.errorf("expected value")
	}
	return Value{Kind: KindRaw, Source: text, Str: text}, nil
}

// skipQuoted advances past a quoted run without decoding it. Template
// substitutions are skipped as part of the template.
func (p *parser) skipQuoted(quote byte) error {
	p.pos++
	for !p.eof() {
		switch p.peek() {
		case '\\':
			p.pos += 2
			continue
		case quote:
			p.pos++
			return nil
		}
		p.pos++
	}
	return p.errorf("unterminated string")
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || c >= 0x80 || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
