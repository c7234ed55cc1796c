// Package arbfile reads and writes catalogs as ARB (Application Resource
// Bundle) files.
//
// ARB is JSON holding ICU messages:
//
//   - "@@locale" holds the BCP-47 locale.
//   - Every other plain key is a message id whose value is the translation.
//   - "@id" holds the metadata of id: description, context, placeholders and
//     msgkit's own "x-" attributes (default message, origins, obsolete flag
//     and extra fields).
//
// Keys are written in catalog order, each followed by its metadata.
package arbfile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/minios-linux/msgkit/catalog"
)

const localeKey = "@@locale"

// placeholder is the ARB description of one argument.
type placeholder struct {
	Example string `json:"example,omitempty"`
	// Examples holds every observed value when there is more than one.
	Examples []string `json:"x-examples,omitempty"`
}

// meta is the "@id" object.
type meta struct {
	Description  string                 `json:"description,omitempty"`
	Context      string                 `json:"context,omitempty"`
	Placeholders map[string]placeholder `json:"placeholders,omitempty"`
	Message      string                 `json:"x-message,omitempty"`
	Origins      []string               `json:"x-origins,omitempty"`
	Obsolete     bool                   `json:"x-obsolete,omitempty"`
	Extra        map[string]any         `json:"x-extra,omitempty"`
}

func (m *meta) empty() bool {
	return m.Description == "" && m.Context == "" && len(m.Placeholders) == 0 &&
		m.Message == "" && len(m.Origins) == 0 && !m.Obsolete && len(m.Extra) == 0
}

func toMeta(msg catalog.Message) *meta {
	m := &meta{
		Description: strings.Join(msg.Comments, "\n"),
		Context:     msg.Context,
		Message:     msg.Message,
		Obsolete:    msg.Obsolete,
		Extra:       msg.Extra,
	}
	for _, o := range msg.Origins {
		m.Origins = append(m.Origins, o.String())
	}
	if len(msg.Placeholders) > 0 {
		m.Placeholders = make(map[string]placeholder, len(msg.Placeholders))
		for name, values := range msg.Placeholders {
			var p placeholder
			if len(values) > 0 {
				p.Example = values[0]
			}
			if len(values) > 1 {
				p.Examples = slices.Clone(values)
			}
			m.Placeholders[name] = p
		}
	}
	return m
}

func (m *meta) apply(msg *catalog.Message) {
	msg.Message = m.Message
	msg.Context = m.Context
	msg.Obsolete = m.Obsolete
	msg.Extra = m.Extra
	if m.Description != "" {
		msg.Comments = strings.Split(m.Description, "\n")
	}
	for _, o := range m.Origins {
		msg.Origins = append(msg.Origins, catalog.ParseOrigin(o))
	}
	if len(m.Placeholders) > 0 {
		msg.Placeholders = make(map[string][]string, len(m.Placeholders))
		for name, p := range m.Placeholders {
			switch {
			case len(p.Examples) > 0:
				msg.Placeholders[name] = slices.Clone(p.Examples)
			case p.Example != "":
				msg.Placeholders[name] = []string{p.Example}
			default:
				msg.Placeholders[name] = nil
			}
		}
	}
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// Parse decodes ARB content and returns the catalog and its @@locale.
// Metadata may appear before or after the key it describes.
func Parse(data []byte) (catalog.Catalog, string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, "", fmt.Errorf("parsing ARB: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, "", fmt.Errorf("parsing ARB: expected '{', got %v", tok)
	}

	c := make(catalog.Catalog)
	metas := make(map[string]*meta)
	var locale string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, "", fmt.Errorf("parsing ARB key: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, "", fmt.Errorf("parsing ARB: expected string key, got %T", keyTok)
		}

		switch {
		case key == localeKey:
			if err := dec.Decode(&locale); err != nil {
				return nil, "", fmt.Errorf("parsing ARB value for %q: %w", key, err)
			}
		case strings.HasPrefix(key, "@@"):
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, "", fmt.Errorf("parsing ARB value for %q: %w", key, err)
			}
		case strings.HasPrefix(key, "@"):
			m := new(meta)
			if err := dec.Decode(m); err != nil {
				return nil, "", fmt.Errorf("parsing ARB metadata %q: %w", key, err)
			}
			metas[key[1:]] = m
		default:
			var value string
			if err := dec.Decode(&value); err != nil {
				return nil, "", fmt.Errorf("parsing ARB value for %q: %w", key, err)
			}
			c[key] = catalog.Message{Translation: value}
		}
	}
	if _, err := dec.Token(); err != nil {
		return nil, "", fmt.Errorf("parsing ARB: %w", err)
	}

	for id, m := range metas {
		msg, ok := c[id]
		if !ok {
			continue
		}
		m.apply(&msg)
		c[id] = msg
	}
	return c, locale, nil
}

// ReadFile loads a catalog. A missing file is an empty catalog.
func ReadFile(path string) (catalog.Catalog, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return make(catalog.Catalog), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	c, _, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ---------------------------------------------------------------------------
// Serialization
// ---------------------------------------------------------------------------

// Options controls Marshal.
type Options struct {
	Locale string
	Order  catalog.OrderBy
}

// Marshal serialises c with 2-space indentation. @@locale is written first.
func Marshal(c catalog.Catalog, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")

	first := true
	field := func(key string, value any) error {
		k, err := encode(key)
		if err != nil {
			return err
		}
		v, err := encode(value)
		if err != nil {
			return fmt.Errorf("encoding %q: %w", key, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		buf.WriteString("\n  ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(v)
		return nil
	}

	if opts.Locale != "" {
		if err := field(localeKey, opts.Locale); err != nil {
			return nil, err
		}
	}
	for _, id := range catalog.SortedIDs(c, opts.Order) {
		msg := c[id]
		if err := field(id, msg.Translation); err != nil {
			return nil, err
		}
		if m := toMeta(msg); !m.empty() {
			if err := field("@"+id, m); err != nil {
				return nil, err
			}
		}
	}

	buf.WriteString("\n}\n")
	return buf.Bytes(), nil
}

// WriteFile serialises c and writes it to path.
func WriteFile(path string, c catalog.Catalog, opts Options) error {
	data, err := Marshal(c, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// encode is json.MarshalIndent at the nesting of a top-level value, without
// HTML escaping.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("  ", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
