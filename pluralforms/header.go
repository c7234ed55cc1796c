// Package pluralforms bridges gettext Plural-Forms headers and CLDR plural
// categories.
//
// A gettext catalog selects plural translations by slot index
// (msgstr[0], msgstr[1], ...) computed from a C-like formula, while ICU
// messages select them by category label. Bridge maps one onto the other by
// classifying CLDR sample numbers with the gettext formula.
package pluralforms

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrInvalidHeader is returned for malformed Plural-Forms headers.
	ErrInvalidHeader = errors.New("pluralforms: invalid Plural-Forms header")
	// ErrNoDefinition is returned when no plural definition exists for a language.
	ErrNoDefinition = errors.New("pluralforms: no plural definition")
	// ErrRangeMismatch is returned when a sample range does not end on its
	// declared upper bound.
	ErrRangeMismatch = errors.New("pluralforms: sample range mismatch")
)

// Header is a parsed Plural-Forms header.
type Header struct {
	NPlurals int
	Formula  string

	expr expr
}

// ParseHeader parses "nplurals=<int>; plural=<expr>;".
func ParseHeader(header string) (*Header, error) {
	parts := strings.Split(header, ";")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%w: %q: missing ';'", ErrInvalidHeader, header)
	}

	key, value, ok := strings.Cut(parts[0], "=")
	if !ok || strings.TrimSpace(key) != "nplurals" {
		return nil, fmt.Errorf("%w: %q: missing nplurals=", ErrInvalidHeader, header)
	}
	nplurals, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || nplurals < 1 {
		return nil, fmt.Errorf("%w: %q: invalid nplurals", ErrInvalidHeader, header)
	}

	key, formula, ok := strings.Cut(parts[1], "=")
	if !ok || strings.TrimSpace(key) != "plural" {
		return nil, fmt.Errorf("%w: %q: missing plural=", ErrInvalidHeader, header)
	}
	for _, rest := range parts[2:] {
		if strings.TrimSpace(rest) != "" {
			return nil, fmt.Errorf("%w: %q: unexpected %q", ErrInvalidHeader, header, rest)
		}
	}

	return newHeader(nplurals, strings.TrimSpace(formula))
}

func newHeader(nplurals int, formula string) (*Header, error) {
	e, err := parseExpr(formula)
	if err != nil {
		return nil, fmt.Errorf("%w: plural=%s: %v", ErrInvalidHeader, formula, err)
	}
	return &Header{NPlurals: nplurals, Formula: formula, expr: e}, nil
}

// Classify returns the 0-based plural slot for n.
func (h *Header) Classify(n float64) int {
	v := h.expr.eval(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(v)
}

// String formats the header the way PO files carry it.
func (h *Header) String() string {
	return fmt.Sprintf("nplurals=%d; plural=%s;", h.NPlurals, h.Formula)
}
