// Package yamlfile reads and writes message catalogs as YAML.
//
// The full format keeps every field of a catalog entry:
//
//	uzTaYi:
//	  message: Hello
//	  translation: Hallo
//	  origins:
//	    - src/app.go:12
//	nav.home:
//	  message: Home
//	  translation: ""
//
// The minimal format maps ids straight to translations. Nested mappings are
// flattened into dot-joined ids, so both of these read the same catalog:
//
//	nav.home: Startseite
//
//	nav:
//	  home: Startseite
//
// A mapping is read as an entry when it has a "translation" or "message" key.
package yamlfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/msgkit/catalog"
)

// record is the on-disk shape of one catalog entry.
type record struct {
	Message      string              `yaml:"message,omitempty"`
	Translation  string              `yaml:"translation"`
	Context      string              `yaml:"context,omitempty"`
	Origins      []string            `yaml:"origins,omitempty"`
	Comments     []string            `yaml:"comments,omitempty"`
	Placeholders map[string][]string `yaml:"placeholders,omitempty"`
	Obsolete     bool                `yaml:"obsolete,omitempty"`
	Extra        map[string]any      `yaml:"extra,omitempty"`
}

func toRecord(m catalog.Message) record {
	r := record{
		Message:      m.Message,
		Translation:  m.Translation,
		Context:      m.Context,
		Comments:     m.Comments,
		Placeholders: m.Placeholders,
		Obsolete:     m.Obsolete,
		Extra:        m.Extra,
	}
	for _, o := range m.Origins {
		r.Origins = append(r.Origins, o.String())
	}
	return r
}

func (r record) message() catalog.Message {
	m := catalog.Message{
		Message:      r.Message,
		Translation:  r.Translation,
		Context:      r.Context,
		Comments:     r.Comments,
		Placeholders: r.Placeholders,
		Obsolete:     r.Obsolete,
		Extra:        r.Extra,
	}
	for _, o := range r.Origins {
		m.Origins = append(m.Origins, catalog.ParseOrigin(o))
	}
	return m
}

// Options controls Marshal.
type Options struct {
	Order catalog.OrderBy
	// Minimal writes only id: translation pairs.
	Minimal bool
}

// Marshal encodes c with keys in the requested order.
func Marshal(c catalog.Catalog, opts Options) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, id := range catalog.SortedIDs(c, opts.Order) {
		key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: id}
		value := &yaml.Node{}
		if opts.Minimal {
			value.Kind = yaml.ScalarNode
			value.Tag = "!!str"
			value.Value = c[id].Translation
			if value.Value == "" {
				value.Style = yaml.DoubleQuotedStyle
			}
		} else if err := value.Encode(toRecord(c[id])); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", id, err)
		}
		root.Content = append(root.Content, key, value)
	}
	if len(root.Content) == 0 {
		return []byte("{}\n"), nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}); err != nil {
		return nil, fmt.Errorf("marshaling YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a catalog in either the full or the minimal format.
func Unmarshal(data []byte) (catalog.Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	c := make(catalog.Catalog)
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return c, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: YAML root must be a mapping", root.Line)
	}
	if err := collect(root, "", c); err != nil {
		return nil, err
	}
	return c, nil
}

func collect(node *yaml.Node, prefix string, c catalog.Catalog) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		id := keyNode.Value
		if prefix != "" {
			id = prefix + "." + id
		}

		switch valNode.Kind {
		case yaml.ScalarNode:
			m := catalog.Message{}
			if valNode.ShortTag() != "!!null" {
				m.Translation = valNode.Value
			}
			c[id] = m
		case yaml.MappingNode:
			if !isRecord(valNode) {
				if err := collect(valNode, id, c); err != nil {
					return err
				}
				continue
			}
			var r record
			if err := valNode.Decode(&r); err != nil {
				return fmt.Errorf("line %d: %s: %w", valNode.Line, id, err)
			}
			c[id] = r.message()
		default:
			return fmt.Errorf("line %d: %s: expected a string or a mapping", valNode.Line, id)
		}
	}
	return nil
}

func isRecord(node *yaml.Node) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		switch node.Content[i].Value {
		case "translation", "message":
			return true
		}
	}
	return false
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
	c, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// WriteFile writes c to path, creating parent directories.
func WriteFile(path string, c catalog.Catalog, opts Options) error {
	data, err := Marshal(c, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
