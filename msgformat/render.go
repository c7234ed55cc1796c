package msgformat

import (
	"strconv"
	"strings"

	"github.com/minios-linux/msgkit/plurals"
)

// Context carries everything a Message needs at render time.
type Context struct {
	// Locale selects plural rules and number formatting.
	Locale string
	// Values holds argument values by name.
	Values map[string]any
	// Plurals classifies plural values. Defaults to plurals.Default.
	Plurals plurals.Resolver
	// Formatter handles "number" and "date" formats. Defaults to TextFormatter.
	Formatter Formatter
	// Formats maps named styles to format options.
	Formats map[string]FormatOptions
	// Functions handles custom format kinds.
	Functions map[string]Func
}

// Render produces the output of m for ctx. Literal messages are returned
// unchanged.
func Render(m Message, ctx Context) string {
	if m.IsLiteral() {
		return m.Literal
	}
	if ctx.Plurals == nil {
		ctx.Plurals = plurals.Default
	}
	if ctx.Formatter == nil {
		ctx.Formatter = TextFormatter{}
	}
	var b strings.Builder
	r := renderer{ctx: ctx, b: &b}
	r.tokens(m.Tokens, nil)
	return b.String()
}

// FormatMessage compiles message with the shared Compiler and renders it.
func FormatMessage(message string, ctx Context) string {
	return Render(Compile(message), ctx)
}

type renderer struct {
	ctx Context
	b   *strings.Builder
}

// tokens renders a token list. octothorpe is the value '#' stands for, or
// nil outside plural bodies.
func (r *renderer) tokens(tokens []Token, octothorpe *float64) {
	for _, t := range tokens {
		switch t := t.(type) {
		case Text:
			r.b.WriteString(string(t))
		case Arg:
			r.b.WriteString(stringify(r.ctx.Values[t.Name]))
		case Octothorpe:
			if octothorpe == nil {
				r.b.WriteByte('#')
				continue
			}
			r.b.WriteString(r.number(*octothorpe))
		case Format:
			r.b.WriteString(r.format(t))
		case Choice:
			r.choice(t, octothorpe)
		}
	}
}

func (r *renderer) number(v float64) string {
	if s, ok := r.ctx.Formatter.Format(r.ctx.Locale, "number", v, FormatOptions{}); ok {
		return s
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (r *renderer) format(t Format) string {
	value := r.ctx.Values[t.Name]
	if fn, ok := r.ctx.Functions[t.Kind]; ok {
		return fn(r.ctx.Locale, value, t.Style)
	}
	switch t.Kind {
	case "number", "date", "time":
		opts, ok := r.ctx.Formats[t.Style]
		if !ok {
			opts = FormatOptions{Style: t.Style}
		}
		if s, ok := r.ctx.Formatter.Format(r.ctx.Locale, t.Kind, value, opts); ok {
			return s
		}
	}
	return stringify(value)
}

func (r *renderer) choice(c Choice, octothorpe *float64) {
	value := r.ctx.Values[c.Name]

	if c.Kind == Select {
		tokens, ok := c.Case(stringify(value))
		if !ok {
			tokens, _ = c.Case("other")
		}
		r.tokens(tokens, octothorpe)
		return
	}

	n, numeric := toFloat(value)
	if !numeric {
		tokens, _ := c.Case("other")
		r.tokens(tokens, octothorpe)
		return
	}

	shifted := n - float64(c.Offset)
	tokens, ok := r.exact(c, n)
	if !ok {
		category := r.ctx.Plurals.Classify(r.ctx.Locale, shifted, c.Kind == SelectOrdinal)
		tokens, ok = c.Case(string(category))
		if !ok {
			tokens, _ = c.Case("other")
		}
	}
	r.tokens(tokens, &shifted)
}

// exact finds an "=N" case matching n. Exact cases compare against the
// value before the offset is applied.
func (r *renderer) exact(c Choice, n float64) ([]Token, bool) {
	for _, cs := range c.Cases {
		label, ok := strings.CutPrefix(cs.Label, "=")
		if !ok {
			continue
		}
		if v, err := strconv.ParseFloat(label, 64); err == nil && v == n {
			return cs.Tokens, true
		}
	}
	return nil, false
}
