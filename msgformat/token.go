// Package msgformat compiles ICU MessageFormat strings into token trees and
// renders them against runtime values.
//
// A message such as
//
//	{count, plural, offset:1 =0 {Nobody} one {You and # other} other {You and # others}}
//
// compiles into a Message holding a Choice token whose cases are themselves
// token lists. Messages without arguments compile to a literal and render
// without any tree walk.
package msgformat

import "strings"

// ChoiceKind is the selector type of a Choice token.
type ChoiceKind string

const (
	Plural        ChoiceKind = "plural"
	SelectOrdinal ChoiceKind = "selectordinal"
	Select        ChoiceKind = "select"
)

// Token is one node of a compiled message: Text, Arg, Octothorpe, Format or
// Choice.
type Token interface {
	token()
}

// Text is literal output.
type Text string

// Arg substitutes a value: {name}.
type Arg struct {
	Name string
}

// Octothorpe is '#' inside a plural body. It renders as the value of the
// nearest enclosing plural or selectordinal minus its offset.
type Octothorpe struct{}

// Format applies a formatter to a value: {name, kind} or {name, kind, style}.
// Style is either a literal style string or the name of an entry in the
// caller's format table.
type Format struct {
	Name  string
	Kind  string
	Style string
}

// Case is one labelled branch of a Choice. Plural labels are "=N" or a
// plural category, select labels are free-form.
type Case struct {
	Label  string
	Tokens []Token
}

// Choice selects one of its cases by the value of Name.
type Choice struct {
	Name   string
	Kind   ChoiceKind
	Offset int
	Cases  []Case
}

func (Text) token()       {}
func (Arg) token()        {}
func (Octothorpe) token() {}
func (Format) token()     {}
func (Choice) token()     {}

// Case returns the tokens of the case labelled label.
func (c Choice) Case(label string) ([]Token, bool) {
	for _, cs := range c.Cases {
		if cs.Label == label {
			return cs.Tokens, true
		}
	}
	return nil, false
}

// Message is a compiled message. Tokens is nil for a literal message, in
// which case Literal holds the final text.
type Message struct {
	Literal string
	Tokens  []Token
}

// LiteralMessage returns a Message that renders as s.
func LiteralMessage(s string) Message {
	return Message{Literal: s}
}

// NewMessage builds a Message from a token list, collapsing it to a literal
// when it contains only text.
func NewMessage(tokens []Token) Message {
	var b strings.Builder
	for _, t := range tokens {
		text, ok := t.(Text)
		if !ok {
			return Message{Tokens: tokens}
		}
		b.WriteString(string(text))
	}
	return Message{Literal: b.String()}
}

// IsLiteral reports whether m renders without a tree walk.
func (m Message) IsLiteral() bool {
	return m.Tokens == nil
}

// Arguments returns the distinct argument names m refers to, in order of
// first appearance.
func (m Message) Arguments() []string {
	var names []string
	seen := make(map[string]bool)
	var walk func([]Token)
	walk = func(tokens []Token) {
		for _, t := range tokens {
			var name string
			switch t := t.(type) {
			case Arg:
				name = t.Name
			case Format:
				name = t.Name
			case Choice:
				name = t.Name
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
				for _, c := range t.Cases {
					walk(c.Tokens)
				}
				continue
			default:
				continue
			}
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	walk(m.Tokens)
	return names
}
