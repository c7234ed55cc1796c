package msgformat

import (
	"strconv"
	"strings"
)

// Print renders m back to ICU MessageFormat source. Compiling the result
// yields an equivalent Message.
func Print(m Message) string {
	if m.IsLiteral() {
		if !strings.ContainsAny(m.Literal, "{}") {
			return m.Literal
		}
		return escapeText(m.Literal, false)
	}
	var b strings.Builder
	printTokens(&b, m.Tokens, false)
	return b.String()
}

// PrintTokens renders a token list as ICU source. With inPlural set the
// result is valid as the body of a plural case, so literal '#' is quoted.
func PrintTokens(tokens []Token, inPlural bool) string {
	var b strings.Builder
	printTokens(&b, tokens, inPlural)
	return b.String()
}

// String implements fmt.Stringer.
func (m Message) String() string {
	return Print(m)
}

func printTokens(b *strings.Builder, tokens []Token, octothorpe bool) {
	for _, t := range tokens {
		switch t := t.(type) {
		case Text:
			b.WriteString(escapeText(string(t), octothorpe))
		case Arg:
			b.WriteString("{" + t.Name + "}")
		case Octothorpe:
			b.WriteByte('#')
		case Format:
			b.WriteString("{" + t.Name + ", " + t.Kind)
			if t.Style != "" {
				b.WriteString(", " + t.Style)
			}
			b.WriteByte('}')
		case Choice:
			b.WriteString("{" + t.Name + ", " + string(t.Kind) + ",")
			if t.Offset != 0 {
				b.WriteString(" offset:" + strconv.Itoa(t.Offset))
			}
			body := octothorpe || t.Kind != Select
			for _, c := range t.Cases {
				b.WriteString(" " + c.Label + " {")
				printTokens(b, c.Tokens, body)
				b.WriteByte('}')
			}
			b.WriteByte('}')
		}
	}
}

// escapeText quotes syntax characters of s. Adjacent ones share a single
// quoted run, since "''" between two runs would read as an apostrophe.
func escapeText(s string, octothorpe bool) string {
	var b strings.Builder
	open := false
	for _, r := range s {
		special := r == '{' || r == '}' || r == '#' && octothorpe
		switch {
		case special && !open:
			b.WriteByte('\'')
			open = true
		case !special && open:
			b.WriteByte('\'')
			open = false
		}
		if r == '\'' {
			b.WriteString("''")
			continue
		}
		b.WriteRune(r)
	}
	if open {
		b.WriteByte('\'')
	}
	return b.String()
}
