package pofile

import (
	"errors"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/minios-linux/msgkit/catalog"
	"github.com/minios-linux/msgkit/msgformat"
	"github.com/minios-linux/msgkit/pluralforms"
	"github.com/minios-linux/msgkit/plurals"
)

// Extracted comments that carry catalog data PO has no field for.
const (
	explicitIDComment = "msgkit-explicit-id"
	defaultPrefix     = "msgkit-default: "
	idPrefix          = "msgkit-id: "
	pluralPrefix      = "msgkit-plural: "
	placeholderPrefix = "placeholder {"
)

// Extra keys used for PO-only fields.
const (
	ExtraFlags              = "flags"
	ExtraTranslatorComments = "translator_comments"
)

// defaultPluralArg names the argument of plural entries from foreign PO files.
const defaultPluralArg = "count"

// Options controls FromCatalog.
type Options struct {
	Locale  string
	Project string
	Order   catalog.OrderBy
	// Template writes a POT file: no Language and empty translations.
	Template bool
	// GettextPlurals writes messages that are a single plural argument as
	// msgid_plural / msgstr[N] entries.
	GettextPlurals bool
	// Bridge maps plural slots to categories. Defaults to the embedded table.
	Bridge *pluralforms.Bridge
	Now    time.Time
}

// FromCatalog converts a catalog to a PO file.
func FromCatalog(c catalog.Catalog, opts Options) (*File, error) {
	bridge, err := bridgeOrDefault(opts.Bridge)
	if err != nil {
		return nil, err
	}

	header := HeaderOptions{Project: opts.Project, Now: opts.Now}
	if !opts.Template {
		header.Language = opts.Locale
		header.PluralForms = bridge.HeaderFor(opts.Locale)
	}

	var cases []plurals.Category
	if opts.GettextPlurals {
		if opts.Template {
			cases = []plurals.Category{plurals.One, plurals.Other}
		} else if cases, err = bridge.Cases(opts.Locale, header.PluralForms); err != nil {
			if errors.Is(err, pluralforms.ErrRangeMismatch) {
				return nil, err
			}
			cases = nil
		}
	}

	f := NewFile()
	f.Header = MakeHeader(header)
	for _, id := range catalog.SortedIDs(c, opts.Order) {
		m := c[id]
		if opts.Template {
			m.Translation = ""
		}
		f.Entries = append(f.Entries, toEntry(id, m, cases))
	}
	return f, nil
}

func bridgeOrDefault(b *pluralforms.Bridge) (*pluralforms.Bridge, error) {
	if b != nil {
		return b, nil
	}
	return pluralforms.NewDefaultBridge()
}

func toEntry(id string, m catalog.Message, cases []plurals.Category) *Entry {
	e := &Entry{MsgCtxt: m.Context, Obsolete: m.Obsolete}

	if !writePlural(e, id, m, cases) {
		if catalog.IsGeneratedID(id, m) {
			e.MsgID = m.Message
		} else {
			e.MsgID = id
			e.ExtractedComments = append(e.ExtractedComments, explicitIDComment)
			if m.Message != "" {
				e.ExtractedComments = append(e.ExtractedComments, defaultPrefix+strconv.Quote(m.Message))
			}
		}
		e.MsgStr = m.Translation
	}

	for _, c := range m.Comments {
		e.ExtractedComments = append(e.ExtractedComments, strings.Split(c, "\n")...)
	}
	names := make([]string, 0, len(m.Placeholders))
	for name := range m.Placeholders {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		for _, value := range m.Placeholders[name] {
			value = strings.ReplaceAll(value, "\n", " ")
			e.ExtractedComments = append(e.ExtractedComments, placeholderPrefix+name+"}: "+value)
		}
	}
	for _, o := range m.Origins {
		e.References = append(e.References, o.String())
	}
	e.Flags = stringList(m.Extra[ExtraFlags])
	e.TranslatorComments = stringList(m.Extra[ExtraTranslatorComments])
	return e
}

// stringList accepts []string or the []any YAML and JSON decoders produce.
func stringList(v any) []string {
	switch v := v.(type) {
	case []string:
		return slices.Clone(v)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// pluralChoice returns the choice of a message that is exactly one plural
// argument with category cases and no offset.
func pluralChoice(message string) (msgformat.Choice, bool) {
	m := msgformat.Compile(message)
	if m.IsLiteral() || len(m.Tokens) != 1 {
		return msgformat.Choice{}, false
	}
	ch, ok := m.Tokens[0].(msgformat.Choice)
	if !ok || ch.Kind != msgformat.Plural || ch.Offset != 0 {
		return msgformat.Choice{}, false
	}
	for _, c := range ch.Cases {
		if _, ok := plurals.ParseCategory(c.Label); !ok {
			return msgformat.Choice{}, false
		}
	}
	return ch, true
}

func writePlural(e *Entry, id string, m catalog.Message, cases []plurals.Category) bool {
	if len(cases) == 0 {
		return false
	}
	source, ok := pluralChoice(m.Message)
	if !ok {
		return false
	}
	other, _ := source.Case("other")
	one, ok := source.Case("one")
	if !ok {
		one = other
	}

	forms := make([]string, len(cases))
	if m.Translation != "" {
		tr, ok := pluralChoice(m.Translation)
		if !ok || tr.Name != source.Name {
			return false
		}
		trOther, _ := tr.Case("other")
		for i, category := range cases {
			tokens, ok := tr.Case(string(category))
			if !ok {
				tokens = trOther
			}
			forms[i] = msgformat.PrintTokens(tokens, true)
		}
	}

	e.MsgID = msgformat.PrintTokens(one, true)
	e.MsgIDPlural = msgformat.PrintTokens(other, true)
	e.MsgStrPlural = forms
	e.ExtractedComments = append(e.ExtractedComments, pluralPrefix+source.Name, idPrefix+id)
	return true
}

// ToCatalog converts f back to a catalog. Plural entries are rebuilt as ICU
// plural messages using the file's Language and Plural-Forms headers.
func (f *File) ToCatalog(bridge *pluralforms.Bridge) (catalog.Catalog, error) {
	bridge, err := bridgeOrDefault(bridge)
	if err != nil {
		return nil, err
	}

	var cases []plurals.Category
	casesDone := false
	slotCases := func() ([]plurals.Category, error) {
		if !casesDone {
			casesDone = true
			cases, err = bridge.Cases(f.Language(), f.PluralForms())
			if err != nil {
				if errors.Is(err, pluralforms.ErrRangeMismatch) {
					return nil, err
				}
				cases = nil
			}
		}
		return cases, nil
	}

	c := make(catalog.Catalog, len(f.Entries))
	for _, e := range f.Entries {
		id, m := fromEntry(e)
		if e.IsPlural() {
			cs, err := slotCases()
			if err != nil {
				return nil, err
			}
			m.Translation = pluralTranslation(e, pluralArg(e), cs)
		}
		c[id] = m
	}
	return c, nil
}

func pluralArg(e *Entry) string {
	for _, comment := range e.ExtractedComments {
		if arg, ok := strings.CutPrefix(comment, pluralPrefix); ok {
			return arg
		}
	}
	return defaultPluralArg
}

func fromEntry(e *Entry) (string, catalog.Message) {
	m := catalog.Message{Context: e.MsgCtxt, Obsolete: e.Obsolete}

	var explicit bool
	var id, message string
	for _, comment := range e.ExtractedComments {
		switch {
		case comment == explicitIDComment:
			explicit = true
		case strings.HasPrefix(comment, defaultPrefix):
			if s, err := strconv.Unquote(strings.TrimPrefix(comment, defaultPrefix)); err == nil {
				message = s
			}
		case strings.HasPrefix(comment, idPrefix):
			id = strings.TrimPrefix(comment, idPrefix)
		case strings.HasPrefix(comment, pluralPrefix):
		case strings.HasPrefix(comment, placeholderPrefix):
			name, value, ok := strings.Cut(strings.TrimPrefix(comment, placeholderPrefix), "}: ")
			if !ok {
				m.Comments = append(m.Comments, comment)
				continue
			}
			if m.Placeholders == nil {
				m.Placeholders = make(map[string][]string)
			}
			m.Placeholders[name] = append(m.Placeholders[name], value)
		default:
			m.Comments = append(m.Comments, comment)
		}
	}

	switch {
	case e.IsPlural():
		m.Message = "{" + pluralArg(e) + ", plural, one {" + e.MsgID + "} other {" + e.MsgIDPlural + "}}"
	case explicit:
		m.Message = message
		m.Translation = e.MsgStr
		if id == "" {
			id = e.MsgID
		}
	default:
		m.Message = e.MsgID
		m.Translation = e.MsgStr
	}
	if id == "" {
		id = catalog.GenerateID(m.Message, m.Context)
	}

	for _, ref := range e.References {
		m.Origins = append(m.Origins, catalog.ParseOrigin(ref))
	}
	if len(e.Flags) > 0 || len(e.TranslatorComments) > 0 {
		m.Extra = make(map[string]any)
		if len(e.Flags) > 0 {
			m.Extra[ExtraFlags] = slices.Clone(e.Flags)
		}
		if len(e.TranslatorComments) > 0 {
			m.Extra[ExtraTranslatorComments] = slices.Clone(e.TranslatorComments)
		}
	}
	return id, m
}

// pluralTranslation rebuilds an ICU plural from msgstr[N]. Slots without a
// category are skipped; when no slot maps to "other" the last form is used.
func pluralTranslation(e *Entry, arg string, cases []plurals.Category) string {
	if len(cases) == 0 || !slices.ContainsFunc(e.MsgStrPlural, func(s string) bool { return s != "" }) {
		return ""
	}
	var b strings.Builder
	b.WriteString("{" + arg + ", plural,")
	seen := make(map[plurals.Category]bool)
	for i, form := range e.MsgStrPlural {
		if i >= len(cases) || cases[i] == "" || seen[cases[i]] {
			continue
		}
		seen[cases[i]] = true
		b.WriteString(" " + string(cases[i]) + " {" + form + "}")
	}
	if !seen[plurals.Other] {
		b.WriteString(" other {" + e.MsgStrPlural[len(e.MsgStrPlural)-1] + "}")
	}
	b.WriteString("}")
	return b.String()
}
