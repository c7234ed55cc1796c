// Package langmeta normalises locale codes and provides display metadata
// (native names and emoji flags) for the CLI and catalog headers.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Meta describes language display metadata.
type Meta struct {
	Name string
	Flag string
}

type entry struct {
	name   string
	region string
}

// registry holds native names and the region used for the flag.
// Locale variants are resolved in Resolve via normalisation and base fallback.
var registry = map[string]entry{
	"af":    {"Afrikaans", "ZA"},
	"ar":    {"العربية", "SA"},
	"az":    {"Azərbaycanca", "AZ"},
	"be":    {"Беларуская", "BY"},
	"bg":    {"Български", "BG"},
	"bn":    {"বাংলা", "BD"},
	"bs":    {"Bosanski", "BA"},
	"ca":    {"Català", "ES"},
	"cs":    {"Čeština", "CZ"},
	"cy":    {"Cymraeg", "GB"},
	"da":    {"Dansk", "DK"},
	"de":    {"Deutsch", "DE"},
	"de-AT": {"Deutsch (Österreich)", "AT"},
	"de-CH": {"Deutsch (Schweiz)", "CH"},
	"el":    {"Ελληνικά", "GR"},
	"en":    {"English", "US"},
	"en-GB": {"English (UK)", "GB"},
	"en-US": {"English (US)", "US"},
	"es":    {"Español", "ES"},
	"es-MX": {"Español (México)", "MX"},
	"et":    {"Eesti", "EE"},
	"eu":    {"Euskara", "ES"},
	"fa":    {"فارسی", "IR"},
	"fi":    {"Suomi", "FI"},
	"fr":    {"Français", "FR"},
	"fr-CA": {"Français (Canada)", "CA"},
	"ga":    {"Gaeilge", "IE"},
	"gl":    {"Galego", "ES"},
	"gu":    {"ગુજરાતી", "IN"},
	"he":    {"עברית", "IL"},
	"hi":    {"हिन्दी", "IN"},
	"hr":    {"Hrvatski", "HR"},
	"hu":    {"Magyar", "HU"},
	"id":    {"Bahasa Indonesia", "ID"},
	"is":    {"Íslenska", "IS"},
	"it":    {"Italiano", "IT"},
	"ja":    {"日本語", "JP"},
	"ka":    {"ქართული", "GE"},
	"kk":    {"Қазақ тілі", "KZ"},
	"km":    {"ខ្មែរ", "KH"},
	"ko":    {"한국어", "KR"},
	"lo":    {"ລາວ", "LA"},
	"lt":    {"Lietuvių", "LT"},
	"lv":    {"Latviešu", "LV"},
	"mk":    {"Македонски", "MK"},
	"ml":    {"മലയാളം", "IN"},
	"mn":    {"Монгол", "MN"},
	"mr":    {"मराठी", "IN"},
	"ms":    {"Bahasa Melayu", "MY"},
	"my":    {"မြန်မာ", "MM"},
	"nb":    {"Norsk bokmål", "NO"},
	"ne":    {"नेपाली", "NP"},
	"nl":    {"Nederlands", "NL"},
	"nn":    {"Norsk nynorsk", "NO"},
	"no":    {"Norsk", "NO"},
	"pl":    {"Polski", "PL"},
	"pt":    {"Português", "PT"},
	"pt-BR": {"Português (Brasil)", "BR"},
	"pt-PT": {"Português (Portugal)", "PT"},
	"ro":    {"Română", "RO"},
	"ru":    {"Русский", "RU"},
	"sk":    {"Slovenčina", "SK"},
	"sl":    {"Slovenščina", "SI"},
	"sq":    {"Shqip", "AL"},
	"sr":    {"Српски", "RS"},
	"sv":    {"Svenska", "SE"},
	"sw":    {"Kiswahili", "TZ"},
	"ta":    {"தமிழ்", "IN"},
	"te":    {"తెలుగు", "IN"},
	"th":    {"ไทย", "TH"},
	"tr":    {"Türkçe", "TR"},
	"uk":    {"Українська", "UA"},
	"ur":    {"اردو", "PK"},
	"uz":    {"O'zbek", "UZ"},
	"vi":    {"Tiếng Việt", "VN"},
	"zh":    {"中文", "CN"},
	"zh-CN": {"简体中文", "CN"},
	"zh-TW": {"繁體中文", "TW"},
}

// Canonicalize normalises a locale code: "pt_br" and " PT-br " both become
// "pt-BR". Script subtags keep their title case ("zh_hant" -> "zh-Hant").
func Canonicalize(lang string) string {
	normalized := strings.ReplaceAll(strings.TrimSpace(lang), "_", "-")
	if normalized == "" {
		return ""
	}
	parts := strings.Split(normalized, "-")
	parts[0] = strings.ToLower(parts[0])
	for i := 1; i < len(parts); i++ {
		switch len(parts[i]) {
		case 4:
			parts[i] = strings.ToUpper(parts[i][:1]) + strings.ToLower(parts[i][1:])
		case 2, 3:
			parts[i] = strings.ToUpper(parts[i])
		}
	}
	return strings.Join(parts, "-")
}

// Base returns the primary language subtag of lang ("es-MX" -> "es").
func Base(lang string) string {
	base, _, _ := strings.Cut(Canonicalize(lang), "-")
	return base
}

// Valid reports whether lang parses as a BCP 47 tag.
func Valid(lang string) bool {
	_, err := language.Parse(Canonicalize(lang))
	return err == nil
}

// Resolve returns best-effort language metadata for a locale code,
// supporting variants like pt_BR and pt-BR, with base-language fallback.
// Languages outside the registry are named through CLDR display data.
func Resolve(lang string) Meta {
	normalized := Canonicalize(lang)
	if e, ok := registry[normalized]; ok {
		return Meta{Name: e.name, Flag: flag(e.region)}
	}
	if e, ok := registry[Base(normalized)]; ok {
		return Meta{Name: e.name, Flag: flag(e.region)}
	}
	if tag, err := language.Parse(normalized); err == nil {
		if name := display.Self.Name(tag); name != "" {
			region, conf := tag.Region()
			if conf == language.Exact {
				return Meta{Name: name, Flag: flag(region.String())}
			}
			return Meta{Name: name}
		}
	}
	return Meta{Name: lang}
}

// flag converts an ISO 3166 region code into its regional indicator pair.
func flag(region string) string {
	if len(region) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range strings.ToUpper(region) {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}
