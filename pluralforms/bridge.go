package pluralforms

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/minios-linux/msgkit/plurals"
)

// Bridge maps gettext plural slots onto CLDR categories using a definition
// table. A Bridge is read-only after construction and safe for concurrent use.
type Bridge struct {
	defs   Definitions
	logger *zap.Logger
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the logger used for recoverable warnings.
func WithLogger(l *zap.Logger) Option {
	return func(b *Bridge) {
		if l != nil {
			b.logger = l
		}
	}
}

// NewBridge returns a Bridge over defs.
func NewBridge(defs Definitions, opts ...Option) *Bridge {
	b := &Bridge{defs: defs, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewDefaultBridge returns a Bridge over the embedded definitions.
func NewDefaultBridge(opts ...Option) (*Bridge, error) {
	defs, err := DefaultDefinitions()
	if err != nil {
		return nil, err
	}
	return NewBridge(defs, opts...), nil
}

// Definitions returns the table the bridge was built with.
func (b *Bridge) Definitions() Definitions {
	return b.defs
}

// HeaderFor returns the Plural-Forms value to write for lang.
func (b *Bridge) HeaderFor(lang string) string {
	return b.defs.HeaderFor(lang)
}

// ParseHeader parses a Plural-Forms header, logging a warning and reporting
// false when it is malformed.
func (b *Bridge) ParseHeader(header string) (*Header, bool) {
	h, err := ParseHeader(header)
	if err != nil {
		b.logger.Warn("invalid Plural-Forms header", zap.String("header", header), zap.Error(err))
		return nil, false
	}
	return h, true
}

// Cases returns, for each gettext slot, the CLDR category it serves in lang.
//
// With an empty header the language's own formula is used. Each category of
// the language is placed in the slot its first sample number classifies
// into; when two categories land in the same slot the later one in the
// definition wins. Slots no category reaches are left empty.
//
// A missing definition or a malformed header is logged and returned as
// ErrNoDefinition or ErrInvalidHeader. A sample range that does not reach
// its upper bound is a broken definition table and is returned as
// ErrRangeMismatch without logging.
func (b *Bridge) Cases(lang, header string) ([]plurals.Category, error) {
	def, key, ok := b.defs.Lookup(lang)
	if !ok {
		b.logger.Warn("no plural definition for language", zap.String("lang", lang))
		return nil, fmt.Errorf("%w for %q", ErrNoDefinition, lang)
	}

	var h *Header
	var err error
	if header != "" {
		h, err = ParseHeader(header)
		if err != nil {
			b.logger.Warn("invalid Plural-Forms header",
				zap.String("lang", lang), zap.String("header", header), zap.Error(err))
			return nil, err
		}
	} else {
		h, err = newHeader(def.NPlurals, def.Formula)
		if err != nil {
			return nil, fmt.Errorf("pluralforms: definition %s: %w", key, err)
		}
	}

	slots := make([]plurals.Category, h.NPlurals)
	for _, c := range def.Cases {
		samples, err := Samples(def.Examples[c])
		if err != nil {
			if errors.Is(err, ErrRangeMismatch) {
				return nil, fmt.Errorf("pluralforms: definition %s, case %s: %w", key, c, err)
			}
			return nil, fmt.Errorf("pluralforms: definition %s, case %s: %v", key, c, err)
		}
		if len(samples) == 0 {
			continue
		}
		if slot := h.Classify(samples[0]); slot >= 0 && slot < len(slots) {
			slots[slot] = c
		}
	}
	return slots, nil
}
