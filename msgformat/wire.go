package msgformat

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// The JSON wire shape of a compiled message:
//
//	literal message   "text"
//	token list        [token, ...]
//	text              "text"
//	argument          ["name"]
//	octothorpe        ["#"]
//	format            ["name", "kind"] or ["name", "kind", "style"]
//	choice            ["name", "kind", {"offset": N, "label": [token, ...], ...}]
//
// Choice cases keep their declaration order; "offset" is omitted when zero
// and never appears in select choices.

// MarshalJSON implements json.Marshaler.
func (m Message) MarshalJSON() ([]byte, error) {
	if m.IsLiteral() {
		return json.Marshal(m.Literal)
	}
	var buf bytes.Buffer
	if err := writeTokens(&buf, m.Tokens); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTokens(buf *bytes.Buffer, tokens []Token) error {
	buf.WriteByte('[')
	for i, t := range tokens {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeToken(buf, t); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

func writeToken(buf *bytes.Buffer, t Token) error {
	switch t := t.(type) {
	case Text:
		return writeJSON(buf, string(t))
	case Arg:
		return writeJSON(buf, []string{t.Name})
	case Octothorpe:
		buf.WriteString(`["#"]`)
		return nil
	case Format:
		if t.Style == "" {
			return writeJSON(buf, []string{t.Name, t.Kind})
		}
		return writeJSON(buf, []string{t.Name, t.Kind, t.Style})
	case Choice:
		buf.WriteByte('[')
		if err := writeJSON(buf, t.Name); err != nil {
			return err
		}
		buf.WriteByte(',')
		if err := writeJSON(buf, string(t.Kind)); err != nil {
			return err
		}
		buf.WriteString(",{")
		if t.Offset != 0 {
			fmt.Fprintf(buf, `"offset":%d`, t.Offset)
			if len(t.Cases) > 0 {
				buf.WriteByte(',')
			}
		}
		for i, c := range t.Cases {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, c.Label); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := writeTokens(buf, c.Tokens); err != nil {
				return err
			}
		}
		buf.WriteString("}]")
		return nil
	}
	return fmt.Errorf("msgformat: unknown token %T", t)
}

func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Message) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = LiteralMessage(s)
		return nil
	}
	tokens, err := readTokens(data)
	if err != nil {
		return err
	}
	*m = NewMessage(tokens)
	return nil
}

func readTokens(data []byte) ([]Token, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("msgformat: token list: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	tokens := make([]Token, 0, len(raw))
	for _, r := range raw {
		t, err := readToken(r)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func readToken(data json.RawMessage) (Token, error) {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Text(s), nil
	}

	var parts []json.RawMessage
	if err := json.Unmarshal(data, &parts); err != nil {
		return nil, fmt.Errorf("msgformat: token %s: %w", data, err)
	}
	strs := make([]string, 0, 2)
	for i := 0; i < len(parts) && i < 2; i++ {
		var s string
		if err := json.Unmarshal(parts[i], &s); err != nil {
			return nil, fmt.Errorf("msgformat: token %s: element %d is not a string", data, i)
		}
		strs = append(strs, s)
	}

	switch len(parts) {
	case 1:
		if strs[0] == "#" {
			return Octothorpe{}, nil
		}
		return Arg{Name: strs[0]}, nil
	case 2:
		return Format{Name: strs[0], Kind: strs[1]}, nil
	case 3:
		third := bytes.TrimSpace(parts[2])
		if len(third) > 0 && third[0] == '{' {
			if !isChoice(strs[1]) {
				return nil, fmt.Errorf("msgformat: token %s: %q takes no cases", data, strs[1])
			}
			return readChoice(strs[0], ChoiceKind(strs[1]), third)
		}
		var style string
		if err := json.Unmarshal(third, &style); err != nil {
			return nil, fmt.Errorf("msgformat: token %s: invalid style", data)
		}
		return Format{Name: strs[0], Kind: strs[1], Style: style}, nil
	}
	return nil, fmt.Errorf("msgformat: token %s: expected 1 to 3 elements", data)
}

// readChoice decodes the case object with a streaming decoder so case order
// survives.
func readChoice(name string, kind ChoiceKind, data []byte) (Token, error) {
	ch := Choice{Name: name, Kind: kind}
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	for dec.More() {
		key, err := dec.Token()
		if err != nil {
			return nil, err
		}
		label, _ := key.(string)
		if label == "offset" && kind != Select {
			if err := dec.Decode(&ch.Offset); err != nil {
				return nil, fmt.Errorf("msgformat: choice %q: offset: %w", name, err)
			}
			continue
		}
		var body json.RawMessage
		if err := dec.Decode(&body); err != nil {
			return nil, err
		}
		tokens, err := readTokens(body)
		if err != nil {
			return nil, err
		}
		ch.Cases = append(ch.Cases, Case{Label: label, Tokens: tokens})
	}
	if _, ok := ch.Case("other"); !ok {
		return nil, fmt.Errorf("msgformat: choice %q has no \"other\" case", name)
	}
	return ch, nil
}

// MarshalCatalog encodes compiled messages as a JSON object keyed by message
// id, with keys sorted.
func MarshalCatalog(messages map[string]Message) ([]byte, error) {
	return json.MarshalIndent(messages, "", "  ")
}

// UnmarshalCatalog decodes the output of MarshalCatalog.
func UnmarshalCatalog(data []byte) (map[string]Message, error) {
	var messages map[string]Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
