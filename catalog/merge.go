package catalog

import "maps"

// MergeOptions controls Merge.
type MergeOptions struct {
	// Overwrite refreshes source-locale translations from the new source
	// text even when they were edited.
	Overwrite bool
	// Files is the partial extraction scope. When set, entries missing from
	// next are kept as they are instead of being marked obsolete.
	Files []string
}

// Merge updates prev with a freshly extracted catalog.
//   - New entries start with the source text as translation in the source
//     locale and an empty translation elsewhere.
//   - Entries present in both keep their translation, except in the source
//     locale when the translation still equals the old source text (or
//     Overwrite is set). Extra fields of the previous entry are kept.
//   - Entries no longer extracted are kept and marked obsolete, unless the
//     extraction was limited to Files.
//
// prev and next are not modified.
func Merge(prev, next Catalog, isSourceLocale bool, opts MergeOptions) Catalog {
	result := make(Catalog, len(next)+len(prev))

	for id, n := range next {
		entry := n.Clone()
		entry.Obsolete = false

		old, exists := prev[id]
		if !exists {
			entry.Translation = ""
			if isSourceLocale {
				entry.Translation = sourceText(id, n)
			}
			result[id] = entry
			continue
		}

		if isSourceLocale && (untouched(id, old) || opts.Overwrite) {
			entry.Translation = sourceText(id, n)
		} else {
			entry.Translation = old.Translation
		}
		entry.Extra = mergeExtra(old.Extra, n.Extra)
		result[id] = entry
	}

	for id, old := range prev {
		if _, ok := next[id]; ok {
			continue
		}
		entry := old.Clone()
		if len(opts.Files) == 0 {
			entry.Obsolete = true
		}
		result[id] = entry
	}
	return result
}

// MergeAll merges next into the catalog of every locale in locales.
func MergeAll(locales []string, prev Catalogs, next Catalog, sourceLocale string, opts MergeOptions) Catalogs {
	out := make(Catalogs, len(locales))
	for _, locale := range locales {
		out[locale] = Merge(prev[locale], next, locale == sourceLocale, opts)
	}
	return out
}

// sourceText is the text a source-locale translation defaults to.
func sourceText(id string, m Message) string {
	if m.Message != "" {
		return m.Message
	}
	return id
}

// untouched reports whether a source-locale translation was never edited.
func untouched(id string, m Message) bool {
	return m.Translation == m.Message || m.Translation == sourceText(id, m)
}

// mergeExtra layers next over the carried-forward prev fields.
func mergeExtra(prev, next map[string]any) map[string]any {
	if prev == nil && next == nil {
		return nil
	}
	out := maps.Clone(prev)
	if out == nil {
		out = make(map[string]any, len(next))
	}
	maps.Copy(out, next)
	return out
}
