package catalog

import (
	"errors"
	"fmt"
	"slices"
)

// ErrConflictingMessage is returned when one explicit id is used with two
// different default messages.
var ErrConflictingMessage = errors.New("catalog: conflicting default messages")

// ExtractedMessage is one message occurrence found by an extractor.
type ExtractedMessage struct {
	// ID is the explicit id, or empty to derive one from Message and Context.
	ID      string
	Message string
	Context string
	Origin  Origin
	// Comments are translator comments written next to the occurrence.
	Comments []string
	// Placeholders maps argument names to the source expression passed.
	Placeholders map[string]string
}

// Collect folds extracted occurrences into a catalog without translations.
// Occurrences of the same id accumulate origins, comments and placeholder
// examples.
func Collect(records []ExtractedMessage) (Catalog, error) {
	c := make(Catalog)
	for _, r := range records {
		id := r.ID
		if id == "" {
			if r.Message == "" {
				continue
			}
			id = GenerateID(r.Message, r.Context)
		}

		m, seen := c[id]
		if !seen {
			m = Message{Message: r.Message, Context: r.Context}
		} else if r.Message != "" {
			switch {
			case m.Message == "":
				m.Message = r.Message
			case m.Message != r.Message:
				return nil, fmt.Errorf("%w: id %q is %q at %s and %q at %s",
					ErrConflictingMessage, id, m.Message, firstOrigin(m), r.Message, r.Origin)
			}
		}

		if r.Origin.File != "" && !slices.Contains(m.Origins, r.Origin) {
			m.Origins = append(m.Origins, r.Origin)
		}
		for _, comment := range r.Comments {
			if comment != "" && !slices.Contains(m.Comments, comment) {
				m.Comments = append(m.Comments, comment)
			}
		}
		for name, value := range r.Placeholders {
			if m.Placeholders == nil {
				m.Placeholders = make(map[string][]string)
			}
			if !slices.Contains(m.Placeholders[name], value) {
				m.Placeholders[name] = append(m.Placeholders[name], value)
			}
		}
		c[id] = m
	}

	for id, m := range c {
		slices.SortFunc(m.Origins, compareOrigins)
		c[id] = m
	}
	return c, nil
}

func firstOrigin(m Message) string {
	if len(m.Origins) == 0 {
		return "unknown location"
	}
	return m.Origins[0].String()
}
