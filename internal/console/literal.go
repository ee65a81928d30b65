package console

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

var errLiteral = errors.New("malformed mapping literal")

// pair is one key/value entry of a mapping literal, in source order.
type pair struct {
	Key   string
	Value any
}

// parseMapping parses a brace-delimited mapping literal such as
//
//	{'first_name': "John", 'age': 89, 'score': 4.5, 'admin': True}
//
// Keys must be quoted strings. Values are quoted strings, integers,
// floats, True, False or None. Nothing is evaluated.
func parseMapping(src string) ([]pair, error) {
	p := &literalParser{src: src}
	p.skipSpace()
	if !p.consume('{') {
		return nil, fmt.Errorf("%w: expected '{'", errLiteral)
	}

	var out []pair
	for {
		p.skipSpace()
		if p.consume('}') {
			break
		}
		key, err := p.quoted()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(':') {
			return nil, fmt.Errorf("%w: expected ':' after %q", errLiteral, key)
		}
		p.skipSpace()
		value, err := p.value()
		if err != nil {
			return nil, err
		}
		out = append(out, pair{Key: key, Value: value})

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			break
		}
		return nil, fmt.Errorf("%w: expected ',' or '}' at offset %d", errLiteral, p.pos)
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: trailing text at offset %d", errLiteral, p.pos)
	}
	return out, nil
}

type literalParser struct {
	src string
	pos int
}

func (p *literalParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *literalParser) consume(c byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

// quoted reads a single- or double-quoted string with backslash escapes.
func (p *literalParser) quoted() (string, error) {
	if p.pos >= len(p.src) || (p.src[p.pos] != '\'' && p.src[p.pos] != '"') {
		return "", fmt.Errorf("%w: expected quoted string at offset %d", errLiteral, p.pos)
	}
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		p.pos++
		switch {
		case c == quote:
			return b.String(), nil
		case c == '\\' && p.pos < len(p.src):
			esc := p.src[p.pos]
			p.pos++
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(esc)
			}
		default:
			b.WriteByte(c)
		}
	}
	return "", fmt.Errorf("%w: unterminated string", errLiteral)
}

func (p *literalParser) value() (any, error) {
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("%w: missing value", errLiteral)
	}
	if c := p.src[p.pos]; c == '\'' || c == '"' {
		return p.quoted()
	}

	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ',' || c == '}' || unicode.IsSpace(rune(c)) {
			break
		}
		p.pos++
	}
	word := p.src[start:p.pos]

	switch word {
	case "True":
		return true, nil
	case "False":
		return false, nil
	case "None":
		return nil, nil
	}
	if n, err := strconv.Atoi(word); err == nil {
		return n, nil
	}
	if f, err := types.ToFloat(word); err == nil {
		return f, nil
	}
	return nil, fmt.Errorf("%w: unsupported value %q", errLiteral, word)
}
