package pluralforms

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/minios-linux/msgkit/langmeta"
	"github.com/minios-linux/msgkit/plurals"
	"gopkg.in/yaml.v3"
)

//go:embed definitions.yaml
var definitionsYAML []byte

// fallbackHeader is used for languages without a definition.
const fallbackHeader = "nplurals=2; plural=(n != 1);"

// Definition describes the gettext plural setup of one language.
type Definition struct {
	NPlurals int    `yaml:"nplurals"`
	Formula  string `yaml:"formula"`
	// Cases lists the CLDR category of each gettext slot, in slot order.
	Cases []plurals.Category `yaml:"cases"`
	// Examples holds the CLDR sample string of each case.
	Examples map[plurals.Category]string `yaml:"examples"`
}

// Definitions maps language keys ("pt", "pt_PT") to definitions.
type Definitions map[string]Definition

var defaultDefinitions = sync.OnceValues(func() (Definitions, error) {
	return LoadDefinitions(bytes.NewReader(definitionsYAML))
})

// DefaultDefinitions returns the embedded definition table. The table is
// parsed once and must be treated as read-only.
func DefaultDefinitions() (Definitions, error) {
	return defaultDefinitions()
}

// LoadDefinitions reads and validates a YAML definition table.
func LoadDefinitions(r io.Reader) (Definitions, error) {
	var defs Definitions
	if err := yaml.NewDecoder(r).Decode(&defs); err != nil {
		return nil, fmt.Errorf("pluralforms: parsing definitions: %w", err)
	}
	if err := defs.Validate(); err != nil {
		return nil, err
	}
	return defs, nil
}

// Validate checks every definition for internal consistency.
func (d Definitions) Validate() error {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		def := d[key]
		if def.NPlurals < 1 {
			return fmt.Errorf("pluralforms: %s: nplurals must be positive", key)
		}
		if len(def.Cases) != def.NPlurals {
			return fmt.Errorf("pluralforms: %s: %d cases for nplurals=%d", key, len(def.Cases), def.NPlurals)
		}
		if _, err := parseExpr(def.Formula); err != nil {
			return fmt.Errorf("pluralforms: %s: formula %q: %w", key, def.Formula, err)
		}
		seen := make(map[plurals.Category]bool)
		for _, c := range def.Cases {
			if _, ok := plurals.ParseCategory(string(c)); !ok {
				return fmt.Errorf("pluralforms: %s: unknown category %q", key, c)
			}
			if seen[c] {
				return fmt.Errorf("pluralforms: %s: duplicate category %q", key, c)
			}
			seen[c] = true
			spec, ok := def.Examples[c]
			if !ok {
				return fmt.Errorf("pluralforms: %s: no examples for %q", key, c)
			}
			if _, err := Samples(spec); err != nil {
				return fmt.Errorf("pluralforms: %s: examples for %q: %w", key, c, err)
			}
		}
	}
	return nil
}

// Lookup finds the definition for lang. An exact language+region entry wins
// over the base language, so "pt_PT" and "pt" stay distinct.
func (d Definitions) Lookup(lang string) (Definition, string, bool) {
	key := strings.ReplaceAll(langmeta.Canonicalize(lang), "-", "_")
	if def, ok := d[key]; ok {
		return def, key, true
	}
	base, _, _ := strings.Cut(key, "_")
	def, ok := d[base]
	return def, base, ok
}

// HeaderFor returns the Plural-Forms header value for lang.
func (d Definitions) HeaderFor(lang string) string {
	def, _, ok := d.Lookup(lang)
	if !ok {
		return fallbackHeader
	}
	return fmt.Sprintf("nplurals=%d; plural=%s;", def.NPlurals, def.Formula)
}
