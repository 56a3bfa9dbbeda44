package report

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseLiteral decodes one literal expression: numbers, booleans
// ("true"/"True", "false"/"False"), quoted strings, and nested lists or
// tuples in bracket or parenthesis notation. Tuples decode to the same
// []Value representation as lists.
func ParseLiteral(s string) (Value, error) {
	l := &lexer{input: s}
	v, err := l.value()
	if err != nil {
		return nil, err
	}
	l.skipSpace()
	if l.pos != len(l.input) {
		return nil, fmt.Errorf("trailing input at offset %d: %q", l.pos, l.input[l.pos:])
	}
	return v, nil
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) skipSpace() {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
}

func (l *lexer) peek() byte {
	if l.pos < len(l.input) {
		return l.input[l.pos]
	}
	return 0
}

func (l *lexer) value() (Value, error) {
	l.skipSpace()
	switch c := l.peek(); {
	case c == '[':
		return l.sequence('[', ']')
	case c == '(':
		return l.sequence('(', ')')
	case c == '"' || c == '\'':
		return l.str(c)
	case c == 't' || c == 'T' || c == 'f' || c == 'F':
		return l.boolean()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return l.number()
	case c == 0:
		return nil, fmt.Errorf("unexpected end of input")
	default:
		return nil, fmt.Errorf("unexpected character %q at offset %d", c, l.pos)
	}
}

func (l *lexer) sequence(open, end byte) (Value, error) {
	l.pos++ // consume opener
	items := []Value{}
	for {
		l.skipSpace()
		if l.peek() == end {
			l.pos++
			return items, nil
		}
		if l.peek() == 0 {
			return nil, fmt.Errorf("unterminated %q sequence", open)
		}

		item, err := l.value()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		l.skipSpace()
		switch l.peek() {
		case ',':
			l.pos++ // trailing commas are fine, as in (3,)
		case end:
		default:
			return nil, fmt.Errorf("expected %q or ',' at offset %d", end, l.pos)
		}
	}
}

func (l *lexer) str(quote byte) (Value, error) {
	l.pos++ // consume opening quote
	var b strings.Builder
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch c {
		case quote:
			l.pos++
			return b.String(), nil
		case '\\':
			l.pos++
			if l.pos >= len(l.input) {
				return nil, fmt.Errorf("dangling escape in string")
			}
			b.WriteByte(l.input[l.pos])
			l.pos++
		default:
			b.WriteByte(c)
			l.pos++
		}
	}
	return nil, fmt.Errorf("unterminated string")
}

func (l *lexer) boolean() (Value, error) {
	rest := l.input[l.pos:]
	for _, word := range []string{"true", "True", "false", "False"} {
		if strings.HasPrefix(rest, word) && !isWordByte(rest, len(word)) {
			l.pos += len(word)
			return word == "true" || word == "True", nil
		}
	}
	return nil, fmt.Errorf("bad boolean at offset %d", l.pos)
}

func isWordByte(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	c := s[i]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func (l *lexer) number() (Value, error) {
	start := l.pos
	if c := l.peek(); c == '-' || c == '+' {
		l.pos++
	}
	isFloat := false
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c >= '0' && c <= '9':
			l.pos++
		case c == '.' || c == 'e' || c == 'E':
			isFloat = true
			l.pos++
			if c != '.' && l.pos < len(l.input) && (l.input[l.pos] == '-' || l.input[l.pos] == '+') {
				l.pos++
			}
		default:
			goto done
		}
	}
done:
	text := l.input[start:l.pos]
	if !isFloat {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad integer %q: %w", text, err)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("bad float %q: %w", text, err)
	}
	return f, nil
}

// Number converts an int64 or float64 literal to float64.
func Number(v Value) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
