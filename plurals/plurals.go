// Package plurals classifies numbers into CLDR plural categories.
//
// Classification is a pure lookup against the CLDR rule tables shipped with
// golang.org/x/text. Region subtags are ignored: "es-MX" is classified with
// the rules for "es". A CLDR provider holds no mutable state and may be shared
// between goroutines.
package plurals

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
)

// Category is a CLDR plural category.
type Category string

// Plural categories in CLDR order.
const (
	Zero  Category = "zero"
	One   Category = "one"
	Two   Category = "two"
	Few   Category = "few"
	Many  Category = "many"
	Other Category = "other"
)

// AllCategories lists every category in CLDR order.
var AllCategories = []Category{Zero, One, Two, Few, Many, Other}

// ParseCategory reports whether s names a plural category.
func ParseCategory(s string) (Category, bool) {
	for _, c := range AllCategories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Resolver maps a number to a plural category for a language.
type Resolver interface {
	Classify(lang string, n float64, ordinal bool) Category
}

// ResolverFunc adapts a plain function to the Resolver interface.
type ResolverFunc func(lang string, n float64, ordinal bool) Category

// Classify calls f.
func (f ResolverFunc) Classify(lang string, n float64, ordinal bool) Category {
	return f(lang, n, ordinal)
}

// Default is a CLDR provider without logging.
var Default = NewCLDR()

// CLDR classifies numbers with the CLDR cardinal and ordinal rules.
type CLDR struct {
	logger *zap.Logger
}

// Option configures a CLDR provider.
type Option func(*CLDR)

// WithLogger sets the logger used to report unknown language tags.
func WithLogger(l *zap.Logger) Option {
	return func(c *CLDR) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCLDR creates a CLDR provider.
func NewCLDR(opts ...Option) *CLDR {
	c := &CLDR{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the category of n. Unknown languages classify as Other.
func (c *CLDR) Classify(lang string, n float64, ordinal bool) Category {
	return c.ClassifyOperands(lang, NewOperands(n), ordinal)
}

// ClassifyString classifies a decimal string, keeping its visible fraction
// digits: "1.0" and "1" may fall into different categories.
func (c *CLDR) ClassifyString(lang, s string, ordinal bool) (Category, error) {
	op, err := ParseOperands(s)
	if err != nil {
		return Other, err
	}
	return c.ClassifyOperands(lang, op, ordinal), nil
}

// ClassifyOperands classifies precomputed operands.
func (c *CLDR) ClassifyOperands(lang string, op Operands, ordinal bool) Category {
	tag, ok := c.baseTag(lang)
	if !ok {
		return Other
	}
	rules := plural.Cardinal
	if ordinal {
		rules = plural.Ordinal
	}
	return fromForm(rules.MatchPlural(tag, int(op.I), int(op.V), int(op.W), int(op.F), int(op.T)))
}

// Categories lists the categories lang actually uses, in CLDR order.
func (c *CLDR) Categories(lang string, ordinal bool) []Category {
	tag, ok := c.baseTag(lang)
	if !ok {
		return []Category{Other}
	}
	rules := plural.Cardinal
	if ordinal {
		rules = plural.Ordinal
	}

	seen := make(map[Category]bool)
	probe := func(op Operands) {
		seen[fromForm(rules.MatchPlural(tag, int(op.I), int(op.V), int(op.W), int(op.F), int(op.T)))] = true
	}
	for i := 0; i <= 200; i++ {
		probe(NewOperands(float64(i)))
	}
	for _, s := range []string{"0.0", "0.5", "1.0", "1.5", "2.0", "2.5", "1000000", "1000000.0"} {
		op, _ := ParseOperands(s)
		probe(op)
	}

	var out []Category
	for _, cat := range AllCategories {
		if seen[cat] {
			out = append(out, cat)
		}
	}
	return out
}

func (c *CLDR) baseTag(lang string) (language.Tag, bool) {
	tag, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(lang), "_", "-"))
	if err != nil {
		c.logger.Warn("unknown plural language, using \"other\"",
			zap.String("lang", lang), zap.Error(err))
		return language.Und, false
	}
	base, _ := tag.Base()
	return language.Make(base.String()), true
}

func fromForm(f plural.Form) Category {
	switch f {
	case plural.Zero:
		return Zero
	case plural.One:
		return One
	case plural.Two:
		return Two
	case plural.Few:
		return Few
	case plural.Many:
		return Many
	default:
		return Other
	}
}

// Operands are the CLDR plural operands of a decimal number.
//
//	i  integer digits
//	v  number of visible fraction digits, with trailing zeros
//	w  number of visible fraction digits, without trailing zeros
//	f  visible fraction digits, with trailing zeros
//	t  visible fraction digits, without trailing zeros
type Operands struct {
	I, V, W, F, T int64
}

// maxDigits bounds the integer and fraction parts so they fit an int64.
const maxDigits = 18

// NewOperands computes the operands of n using its shortest decimal form.
func NewOperands(n float64) Operands {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return Operands{}
	}
	op, _ := ParseOperands(strconv.FormatFloat(math.Abs(n), 'f', -1, 64))
	return op
}

// ParseOperands computes the operands of a decimal string such as "-1.50".
func ParseOperands(s string) (Operands, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "-")
	if s == "" {
		return Operands{}, fmt.Errorf("plurals: empty number")
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return Operands{}, fmt.Errorf("plurals: invalid number %q", s)
	}
	if len(intPart) > maxDigits {
		intPart = intPart[len(intPart)-maxDigits:]
	}
	if len(fracPart) > maxDigits {
		fracPart = fracPart[:maxDigits]
	}

	var op Operands
	op.I, _ = strconv.ParseInt(intPart, 10, 64)
	op.V = int64(len(fracPart))
	if fracPart != "" {
		op.F, _ = strconv.ParseInt(fracPart, 10, 64)
	}
	trimmed := strings.TrimRight(fracPart, "0")
	op.W = int64(len(trimmed))
	if trimmed != "" {
		op.T, _ = strconv.ParseInt(trimmed, 10, 64)
	}
	return op, nil
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
