package catalog

import (
	"github.com/minios-linux/msgkit/fallback"
	"github.com/minios-linux/msgkit/msgformat"
)

// Missing describes a message without a usable translation.
type Missing struct {
	ID     string
	Source string
}

// ResolveOptions configures ResolveAll.
type ResolveOptions struct {
	SourceLocale string
	Fallback     fallback.Locales
	// PseudoLocale, when set, is rendered from the source text with accented
	// letters and never reports missing translations.
	PseudoLocale string
	// Template contributes ids that no locale catalog has yet.
	Template Catalog
	// OnMissing is called once per id without a translation in locale or
	// any of its fallbacks.
	OnMissing func(Missing)
}

// ResolveAll picks the text to use for every message id in locale.
//
// For each id the locale's own translation wins, then the first non-empty
// translation along the fallback chain, then (for the source locale only)
// the source translation or message. When none applies the id is reported
// missing and the result falls back to the source-locale text, the entry's
// message and finally the id itself.
func ResolveAll(catalogs Catalogs, locale string, opts ResolveOptions) map[string]string {
	source := catalogs[opts.SourceLocale]
	target := catalogs[locale]

	ids := make(map[string]Message, len(opts.Template)+len(source)+len(target))
	for _, layer := range []Catalog{opts.Template, source, target} {
		for id, m := range layer {
			ids[id] = m
		}
	}

	pseudo := opts.PseudoLocale != "" && locale == opts.PseudoLocale
	out := make(map[string]string, len(ids))
	for id, m := range ids {
		if pseudo {
			out[id] = pseudolocalize(firstNonEmpty(sourceTranslation(source, id), m.Message, id))
			continue
		}
		out[id] = resolve(catalogs, locale, id, m, opts)
	}
	return out
}

func resolve(catalogs Catalogs, locale, id string, m Message, opts ResolveOptions) string {
	if t := catalogs[locale][id].Translation; t != "" {
		return t
	}
	for _, fb := range opts.Fallback.Resolve(locale) {
		if t := catalogs[fb][id].Translation; t != "" {
			return t
		}
	}

	sourceText := sourceTranslation(catalogs[opts.SourceLocale], id)
	if locale == opts.SourceLocale && sourceText != "" {
		return sourceText
	}

	if opts.OnMissing != nil {
		opts.OnMissing(Missing{ID: id, Source: firstNonEmpty(m.Message, sourceText)})
	}
	return firstNonEmpty(sourceText, m.Message, id)
}

// sourceTranslation returns the translation of id in the source catalog, or
// its message when untranslated.
func sourceTranslation(source Catalog, id string) string {
	m, ok := source[id]
	if !ok {
		return ""
	}
	return firstNonEmpty(m.Translation, m.Message)
}

func pseudolocalize(s string) string {
	return msgformat.Print(msgformat.Pseudolocalize(msgformat.Compile(s)))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
