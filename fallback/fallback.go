// Package fallback computes the ordered chain of locales consulted when a
// locale has no translation for a message.
package fallback

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrSelfFallback is returned when a locale lists itself as a fallback.
var ErrSelfFallback = errors.New("fallback: locale falls back to itself")

// Locales is a fallback configuration: per-locale fallback lists plus an
// optional global default. A disabled configuration resolves to nothing.
//
// In YAML and JSON it is written as
//
//	fallback_locales:
//	  pt-PT: pt-BR
//	  de-AT: [de-DE, de]
//	  default: en
//
// or as false to disable fallback entirely.
type Locales struct {
	Chains   map[string][]string
	Default  string
	Disabled bool
}

// Disabled is the configuration that turns fallback off.
var Disabled = Locales{Disabled: true}

// Resolve returns the fallback locales for locale, most specific first: the
// locale's own list, then the default unless it is the locale itself.
func (l Locales) Resolve(locale string) []string {
	if l.Disabled {
		return nil
	}
	var out []string
	out = append(out, l.Chains[locale]...)
	if l.Default != "" && l.Default != locale {
		out = append(out, l.Default)
	}
	return out
}

// Validate reports locales that list themselves as their own fallback.
func (l Locales) Validate() error {
	locales := make([]string, 0, len(l.Chains))
	for locale := range l.Chains {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	for _, locale := range locales {
		for _, fb := range l.Chains[locale] {
			if fb == locale {
				return fmt.Errorf("%w: %q lists %q in fallback_locales", ErrSelfFallback, locale, fb)
			}
		}
	}
	return nil
}

// fromMap builds Locales from a decoded mapping whose values are a locale or
// a list of locales.
func fromMap(raw map[string]any) (Locales, error) {
	l := Locales{Chains: make(map[string][]string)}
	for key, value := range raw {
		var chain []string
		switch v := value.(type) {
		case string:
			chain = []string{v}
		case []any:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return Locales{}, fmt.Errorf("fallback: %s: expected locale, got %v", key, item)
				}
				chain = append(chain, s)
			}
		default:
			return Locales{}, fmt.Errorf("fallback: %s: expected locale or list of locales, got %v", key, value)
		}
		if key == "default" {
			if len(chain) != 1 {
				return Locales{}, fmt.Errorf("fallback: default must be a single locale")
			}
			l.Default = chain[0]
			continue
		}
		l.Chains[key] = chain
	}
	return l, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *Locales) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!bool" {
		var enabled bool
		if err := node.Decode(&enabled); err != nil {
			return err
		}
		if enabled {
			return fmt.Errorf("fallback: line %d: fallback_locales accepts a mapping or false", node.Line)
		}
		*l = Disabled
		return nil
	}
	var raw map[string]any
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("fallback: line %d: %w", node.Line, err)
	}
	parsed, err := fromMap(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (l Locales) MarshalYAML() (any, error) {
	if l.Disabled {
		return false, nil
	}
	return l.toMap(), nil
}

func (l Locales) toMap() map[string]any {
	out := make(map[string]any, len(l.Chains)+1)
	for locale, chain := range l.Chains {
		if len(chain) == 1 {
			out[locale] = chain[0]
		} else {
			out[locale] = chain
		}
	}
	if l.Default != "" {
		out["default"] = l.Default
	}
	return out
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Locales) UnmarshalJSON(data []byte) error {
	var enabled bool
	if err := json.Unmarshal(data, &enabled); err == nil {
		if enabled {
			return fmt.Errorf("fallback: fallback locales accept an object or false")
		}
		*l = Disabled
		return nil
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("fallback: %w", err)
	}
	parsed, err := fromMap(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Locales) MarshalJSON() ([]byte, error) {
	if l.Disabled {
		return []byte("false"), nil
	}
	return json.Marshal(l.toMap())
}
