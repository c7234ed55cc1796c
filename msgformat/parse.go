package msgformat

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/minios-linux/msgkit/plurals"
)

// SyntaxError reports a malformed message.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("msgformat: %s at offset %d", e.Msg, e.Offset)
}

// Parse compiles message into a token list. Unlike Compile it reports
// syntax errors and never collapses the result to a literal.
//
// Apostrophes follow ICU quoting: "''" is a literal apostrophe, and an
// apostrophe directly before '{', '}' (or '#' inside a plural body) starts
// quoted text that runs to the next single apostrophe.
func Parse(message string) ([]Token, error) {
	p := &parser{src: message}
	tokens, err := p.body(false, false)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(offset int, format string, args ...any) error {
	return &SyntaxError{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// body parses tokens up to the end of input, or up to and including the
// closing '}' when nested. octothorpe enables '#' substitution.
func (p *parser) body(nested, octothorpe bool) ([]Token, error) {
	var tokens []Token
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			tokens = append(tokens, Text(text.String()))
			text.Reset()
		}
	}

	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case c == '\'':
			p.quoted(&text, octothorpe)
		case c == '{':
			flush()
			tok, err := p.argument(octothorpe)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case c == '}':
			if !nested {
				return nil, p.errorf(p.pos, "unexpected '}'")
			}
			p.pos++
			flush()
			return tokens, nil
		case c == '#' && octothorpe:
			flush()
			tokens = append(tokens, Octothorpe{})
			p.pos++
		default:
			text.WriteByte(c)
			p.pos++
		}
	}
	if nested {
		return nil, p.errorf(start, "unterminated case body")
	}
	flush()
	return tokens, nil
}

// quoted handles an apostrophe at p.pos.
func (p *parser) quoted(text *strings.Builder, octothorpe bool) {
	p.pos++
	if p.eof() {
		text.WriteByte('\'')
		return
	}
	next := p.src[p.pos]
	if next == '\'' {
		text.WriteByte('\'')
		p.pos++
		return
	}
	if next != '{' && next != '}' && !(next == '#' && octothorpe) {
		text.WriteByte('\'')
		return
	}
	for !p.eof() {
		c := p.src[p.pos]
		if c == '\'' {
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '\'' {
				text.WriteByte('\'')
				p.pos += 2
				continue
			}
			p.pos++
			return
		}
		text.WriteByte(c)
		p.pos++
	}
}

// argument parses "{...}" starting at the opening brace.
func (p *parser) argument(octothorpe bool) (Token, error) {
	open := p.pos
	p.pos++
	p.skipSpace()

	name := p.word(func(c byte) bool { return !isSpace(c) && c != ',' && c != '{' && c != '}' && c != '#' })
	if name == "" {
		return nil, p.errorf(open, "empty argument name")
	}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf(open, "unterminated argument %q", name)
	}

	switch p.src[p.pos] {
	case '}':
		p.pos++
		return Arg{Name: name}, nil
	case ',':
		p.pos++
	default:
		return nil, p.errorf(p.pos, "unexpected %q in argument %q", p.src[p.pos], name)
	}

	p.skipSpace()
	kind := p.word(isIdentByte)
	if kind == "" {
		return nil, p.errorf(p.pos, "missing format type for argument %q", name)
	}
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf(open, "unterminated argument %q", name)
	}

	switch p.src[p.pos] {
	case '}':
		p.pos++
		if isChoice(kind) {
			return nil, p.errorf(open, "%s argument %q has no cases", kind, name)
		}
		return Format{Name: name, Kind: kind}, nil
	case ',':
		p.pos++
	default:
		return nil, p.errorf(p.pos, "unexpected %q after format type %q", p.src[p.pos], kind)
	}

	if isChoice(kind) {
		return p.choice(open, name, ChoiceKind(kind), octothorpe)
	}
	return p.style(open, name, kind)
}

func isChoice(kind string) bool {
	switch ChoiceKind(kind) {
	case Plural, SelectOrdinal, Select:
		return true
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '-' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func (p *parser) word(ok func(byte) bool) string {
	start := p.pos
	for p.pos < len(p.src) && ok(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

// style reads the free-form style of a format argument. Balanced braces are
// kept so skeletons such as "::currency/EUR" or nested patterns survive.
func (p *parser) style(open int, name, kind string) (Token, error) {
	start := p.pos
	depth := 0
	for !p.eof() {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				style := strings.TrimSpace(p.src[start:p.pos])
				p.pos++
				return Format{Name: name, Kind: kind, Style: style}, nil
			}
			depth--
		}
		p.pos++
	}
	return nil, p.errorf(open, "unterminated argument %q", name)
}

func (p *parser) choice(open int, name string, kind ChoiceKind, octothorpe bool) (Token, error) {
	ch := Choice{Name: name, Kind: kind}
	p.skipSpace()

	if kind != Select && strings.HasPrefix(p.src[p.pos:], "offset:") {
		p.pos += len("offset:")
		p.skipSpace()
		at := p.pos
		digits := p.word(func(c byte) bool { return c >= '0' && c <= '9' })
		offset, err := strconv.Atoi(digits)
		if err != nil {
			return nil, p.errorf(at, "invalid offset %q", digits)
		}
		ch.Offset = offset
	}

	// Select bodies keep the enclosing '#' binding, plural bodies rebind it.
	bodyOctothorpe := octothorpe || kind != Select
	seen := make(map[string]bool)
	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf(open, "unterminated %s argument %q", kind, name)
		}
		if p.src[p.pos] == '}' {
			p.pos++
			break
		}

		at := p.pos
		label := p.word(func(c byte) bool { return !isSpace(c) && c != '{' && c != '}' })
		if label == "" {
			return nil, p.errorf(at, "missing case label in %s argument %q", kind, name)
		}
		if err := validLabel(kind, label); err != nil {
			return nil, p.errorf(at, "%v", err)
		}
		if seen[label] {
			return nil, p.errorf(at, "duplicate case %q in %s argument %q", label, kind, name)
		}
		seen[label] = true

		p.skipSpace()
		if p.eof() || p.src[p.pos] != '{' {
			return nil, p.errorf(p.pos, "expected '{' after case %q", label)
		}
		p.pos++
		tokens, err := p.body(true, bodyOctothorpe)
		if err != nil {
			return nil, err
		}
		ch.Cases = append(ch.Cases, Case{Label: label, Tokens: tokens})
	}

	if !seen["other"] {
		return nil, p.errorf(open, "%s argument %q has no \"other\" case", kind, name)
	}
	return ch, nil
}

func validLabel(kind ChoiceKind, label string) error {
	if kind == Select {
		for _, r := range label {
			if !unicode.IsPrint(r) {
				return fmt.Errorf("invalid select label %q", label)
			}
		}
		return nil
	}
	if exact, ok := strings.CutPrefix(label, "="); ok {
		if _, err := strconv.ParseFloat(exact, 64); err != nil {
			return fmt.Errorf("invalid exact-match label %q", label)
		}
		return nil
	}
	if _, ok := plurals.ParseCategory(label); !ok {
		return fmt.Errorf("invalid %s label %q", kind, label)
	}
	return nil
}
