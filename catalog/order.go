package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// OrderBy selects the order entries are written in.
type OrderBy string

const (
	ByMessageID OrderBy = "message_id"
	ByMessage   OrderBy = "message"
	ByOrigin    OrderBy = "origin"
)

// ParseOrderBy validates an order name. Empty means ByMessageID.
func ParseOrderBy(s string) (OrderBy, error) {
	switch OrderBy(s) {
	case "":
		return ByMessageID, nil
	case ByMessageID, ByMessage, ByOrigin:
		return OrderBy(s), nil
	}
	return "", fmt.Errorf("catalog: unknown order %q (want message_id, message or origin)", s)
}

// SortedIDs returns the ids of c in the given order. Ties are broken by id,
// so the result is deterministic.
func SortedIDs(c Catalog, order OrderBy) []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}

	slices.SortFunc(ids, func(a, b string) int {
		switch order {
		case ByMessage:
			if r := strings.Compare(sourceText(a, c[a]), sourceText(b, c[b])); r != 0 {
				return r
			}
		case ByOrigin:
			if r := compareFirstOrigin(c[a], c[b]); r != 0 {
				return r
			}
		}
		return strings.Compare(a, b)
	})
	return ids
}

// compareFirstOrigin sorts entries without origins last.
func compareFirstOrigin(a, b Message) int {
	switch {
	case len(a.Origins) == 0 && len(b.Origins) == 0:
		return 0
	case len(a.Origins) == 0:
		return 1
	case len(b.Origins) == 0:
		return -1
	}
	return compareOrigins(a.Origins[0], b.Origins[0])
}
