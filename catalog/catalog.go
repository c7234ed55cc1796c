// Package catalog holds per-locale message catalogs and the operations that
// keep them current: collecting extracted messages, merging them into
// existing catalogs and resolving the best translation for a locale.
package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Origin is a source location where a message was found.
type Origin struct {
	File string
	Line int
}

// String formats the origin as "file:line", or just "file" without a line.
func (o Origin) String() string {
	if o.Line <= 0 {
		return o.File
	}
	return o.File + ":" + strconv.Itoa(o.Line)
}

// ParseOrigin parses "file:line" (the line is optional).
func ParseOrigin(s string) Origin {
	if i := strings.LastIndexByte(s, ':'); i > 0 {
		if line, err := strconv.Atoi(s[i+1:]); err == nil {
			return Origin{File: s[:i], Line: line}
		}
	}
	return Origin{File: s}
}

func compareOrigins(a, b Origin) int {
	if c := strings.Compare(a.File, b.File); c != 0 {
		return c
	}
	return a.Line - b.Line
}

// Message is one catalog entry.
type Message struct {
	// Message is the source default text. Empty when the id is explicit and
	// no default was given.
	Message     string
	Translation string
	Context     string
	Origins     []Origin
	Comments    []string
	// Placeholders lists observed example values per argument name.
	Placeholders map[string][]string
	Obsolete     bool
	// Extra carries format-specific fields (PO flags, translator comments)
	// through merges untouched.
	Extra map[string]any
}

// Clone returns a deep copy of m. Extra values are copied shallowly.
func (m Message) Clone() Message {
	m.Origins = slices.Clone(m.Origins)
	m.Comments = slices.Clone(m.Comments)
	if m.Placeholders != nil {
		ph := make(map[string][]string, len(m.Placeholders))
		for k, v := range m.Placeholders {
			ph[k] = slices.Clone(v)
		}
		m.Placeholders = ph
	}
	m.Extra = maps.Clone(m.Extra)
	return m
}

// Catalog maps message ids to entries for one locale.
type Catalog map[string]Message

// Catalogs maps locales to their catalogs.
type Catalogs map[string]Catalog

// Clean returns c without obsolete entries.
func Clean(c Catalog) Catalog {
	out := make(Catalog, len(c))
	for id, m := range c {
		if !m.Obsolete {
			out[id] = m
		}
	}
	return out
}

// Stats summarises a catalog.
type Stats struct {
	Total      int
	Translated int
	Missing    int
	Obsolete   int
}

// Percent returns the share of translated messages, 0 to 100.
func (s Stats) Percent() int {
	if s.Total == 0 {
		return 100
	}
	return s.Translated * 100 / s.Total
}

func (s Stats) String() string {
	return fmt.Sprintf("%d/%d translated (%d%%), %d missing, %d obsolete",
		s.Translated, s.Total, s.Percent(), s.Missing, s.Obsolete)
}

// StatsOf counts entries of c. Obsolete entries count only as obsolete.
func StatsOf(c Catalog) Stats {
	var s Stats
	for _, m := range c {
		if m.Obsolete {
			s.Obsolete++
			continue
		}
		s.Total++
		if m.Translation != "" {
			s.Translated++
		} else {
			s.Missing++
		}
	}
	return s
}
