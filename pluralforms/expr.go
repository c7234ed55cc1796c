package pluralforms

import (
	"fmt"
	"math"
	"strconv"
)

// The plural formula grammar, lowest precedence first:
//
//	cond    = or [ "?" cond ":" cond ]
//	or      = and { "||" and }
//	and     = eq { "&&" eq }
//	eq      = rel { ("==" | "!=") rel }
//	rel     = add { ("<" | "<=" | ">" | ">=") add }
//	add     = mul { ("+" | "-") mul }
//	mul     = unary { ("*" | "/" | "%") unary }
//	unary   = ("!" | "-") unary | primary
//	primary = "n" | number | "(" cond ")"
//
// Boolean operators yield 1 or 0, as in C.

type expr interface {
	eval(n float64) float64
}

type numberExpr float64

func (e numberExpr) eval(float64) float64 { return float64(e) }

type varExpr struct{}

func (varExpr) eval(n float64) float64 { return n }

type unaryExpr struct {
	op string
	x  expr
}

func (e unaryExpr) eval(n float64) float64 {
	v := e.x.eval(n)
	if e.op == "-" {
		return -v
	}
	return boolValue(v == 0)
}

type binaryExpr struct {
	op   string
	l, r expr
}

func (e binaryExpr) eval(n float64) float64 {
	l := e.l.eval(n)
	switch e.op {
	case "&&":
		if l == 0 {
			return 0
		}
		return boolValue(e.r.eval(n) != 0)
	case "||":
		if l != 0 {
			return 1
		}
		return boolValue(e.r.eval(n) != 0)
	}

	r := e.r.eval(n)
	switch e.op {
	case "==":
		return boolValue(l == r)
	case "!=":
		return boolValue(l != r)
	case "<":
		return boolValue(l < r)
	case "<=":
		return boolValue(l <= r)
	case ">":
		return boolValue(l > r)
	case ">=":
		return boolValue(l >= r)
	case "+":
		return l + r
	case "-":
		return l - r
	case "*":
		return l * r
	case "/":
		return l / r
	case "%":
		return math.Mod(l, r)
	}
	return 0
}

type condExpr struct {
	cond, then, els expr
}

func (e condExpr) eval(n float64) float64 {
	if e.cond.eval(n) != 0 {
		return e.then.eval(n)
	}
	return e.els.eval(n)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// parseExpr compiles a plural formula.
func parseExpr(src string) (expr, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &exprParser{toks: toks}
	e, err := p.cond()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.toks) {
		return nil, fmt.Errorf("unexpected %q at offset %d", p.toks[p.pos].text, p.toks[p.pos].offset)
	}
	return e, nil
}

type lexToken struct {
	text   string
	offset int
	num    bool
}

var operators = []string{"&&", "||", "==", "!=", "<=", ">=", "<", ">", "!", "?", ":", "(", ")", "+", "-", "*", "/", "%"}

func lex(src string) ([]lexToken, error) {
	var toks []lexToken
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == 'n':
			toks = append(toks, lexToken{text: "n", offset: i})
			i++
		case c >= '0' && c <= '9' || c == '.':
			start := i
			for i < len(src) && (src[i] >= '0' && src[i] <= '9' || src[i] == '.') {
				i++
			}
			toks = append(toks, lexToken{text: src[start:i], offset: start, num: true})
		default:
			matched := false
			for _, op := range operators {
				if len(src)-i >= len(op) && src[i:i+len(op)] == op {
					toks = append(toks, lexToken{text: op, offset: i})
					i += len(op)
					matched = true
					break
				}
			}
			if !matched {
				return nil, fmt.Errorf("unexpected character %q at offset %d", c, i)
			}
		}
	}
	return toks, nil
}

type exprParser struct {
	toks []lexToken
	pos  int
}

func (p *exprParser) peek() string {
	if p.pos < len(p.toks) && !p.toks[p.pos].num {
		return p.toks[p.pos].text
	}
	return ""
}

func (p *exprParser) accept(ops ...string) (string, bool) {
	cur := p.peek()
	for _, op := range ops {
		if cur == op {
			p.pos++
			return op, true
		}
	}
	return "", false
}

func (p *exprParser) cond() (expr, error) {
	c, err := p.or()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept("?"); !ok {
		return c, nil
	}
	then, err := p.cond()
	if err != nil {
		return nil, err
	}
	if _, ok := p.accept(":"); !ok {
		return nil, p.errorf("expected ':'")
	}
	els, err := p.cond()
	if err != nil {
		return nil, err
	}
	return condExpr{cond: c, then: then, els: els}, nil
}

// binary parses a left-associative chain of ops over next.
func (p *exprParser) binary(next func() (expr, error), ops ...string) (expr, error) {
	l, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := p.accept(ops...)
		if !ok {
			return l, nil
		}
		r, err := next()
		if err != nil {
			return nil, err
		}
		l = binaryExpr{op: op, l: l, r: r}
	}
}

func (p *exprParser) or() (expr, error)  { return p.binary(p.and, "||") }
func (p *exprParser) and() (expr, error) { return p.binary(p.eq, "&&") }
func (p *exprParser) eq() (expr, error)  { return p.binary(p.rel, "==", "!=") }
func (p *exprParser) rel() (expr, error) { return p.binary(p.add, "<=", ">=", "<", ">") }
func (p *exprParser) add() (expr, error) { return p.binary(p.mul, "+", "-") }
func (p *exprParser) mul() (expr, error) { return p.binary(p.unary, "*", "/", "%") }

func (p *exprParser) unary() (expr, error) {
	if op, ok := p.accept("!", "-"); ok {
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return unaryExpr{op: op, x: x}, nil
	}
	return p.primary()
}

func (p *exprParser) primary() (expr, error) {
	if p.pos >= len(p.toks) {
		return nil, p.errorf("unexpected end of formula")
	}
	tok := p.toks[p.pos]
	switch {
	case tok.num:
		v, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at offset %d", tok.text, tok.offset)
		}
		p.pos++
		return numberExpr(v), nil
	case tok.text == "n":
		p.pos++
		return varExpr{}, nil
	case tok.text == "(":
		p.pos++
		e, err := p.cond()
		if err != nil {
			return nil, err
		}
		if _, ok := p.accept(")"); !ok {
			return nil, p.errorf("expected ')'")
		}
		return e, nil
	}
	return nil, p.errorf("unexpected %q", tok.text)
}

func (p *exprParser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.pos < len(p.toks) {
		return fmt.Errorf("%s at offset %d", msg, p.toks[p.pos].offset)
	}
	return fmt.Errorf("%s at end of formula", msg)
}
