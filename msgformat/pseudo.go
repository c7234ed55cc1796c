package msgformat

import "strings"

var pseudoReplacer = strings.NewReplacer(
	"a", "à", "b", "ƀ", "c", "ç", "d", "ð", "e", "é", "f", "ƒ", "g", "ĝ", "h", "ĥ",
	"i", "î", "j", "ĵ", "k", "ķ", "l", "ļ", "m", "ɱ", "n", "ñ", "o", "ö", "p", "þ",
	"q", "ǫ", "r", "ŕ", "s", "š", "t", "ţ", "u", "û", "v", "ṽ", "w", "ŵ", "x", "ẋ",
	"y", "ý", "z", "ž",
	"A", "À", "B", "Ɓ", "C", "Ç", "D", "Ð", "E", "É", "F", "Ƒ", "G", "Ĝ", "H", "Ĥ",
	"I", "Î", "J", "Ĵ", "K", "Ķ", "L", "Ļ", "M", "Ṁ", "N", "Ñ", "O", "Ö", "P", "Þ",
	"Q", "Ǫ", "R", "Ŕ", "S", "Š", "T", "Ţ", "U", "Û", "V", "Ṽ", "W", "Ŵ", "X", "Ẋ",
	"Y", "Ý", "Z", "Ž",
)

// Pseudolocalize replaces Latin letters in the text of m with accented look-alikes,
// leaving argument names, formats and case labels intact.
func Pseudolocalize(m Message) Message {
	if m.IsLiteral() {
		return LiteralMessage(pseudoReplacer.Replace(m.Literal))
	}
	return Message{Tokens: pseudoTokens(m.Tokens)}
}

func pseudoTokens(tokens []Token) []Token {
	if tokens == nil {
		return nil
	}
	out := make([]Token, len(tokens))
	for i, t := range tokens {
		switch t := t.(type) {
		case Text:
			out[i] = Text(pseudoReplacer.Replace(string(t)))
		case Choice:
			cases := make([]Case, len(t.Cases))
			for j, c := range t.Cases {
				cases[j] = Case{Label: c.Label, Tokens: pseudoTokens(c.Tokens)}
			}
			t.Cases = cases
			out[i] = t
		default:
			out[i] = t
		}
	}
	return out
}
