// Package i18n translates msgkit's own user-facing strings.
//
// Translations are gettext PO files embedded under
// locales/{lang}/LC_MESSAGES/msgkit.po and read with gotext:
//
//	i18n.Init("")  // LANGUAGE, LC_ALL, LC_MESSAGES, LANG
//	fmt.Println(i18n.T("Found %d messages in %s", n, path))
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strings"

	"github.com/leonelquinteros/gotext"
)

//go:embed all:locales
var locales embed.FS

const domain = "msgkit"

var (
	po   *gotext.Locale
	lang = "en"
)

// Init loads the translations for lang, or for the language of the
// environment when lang is empty, and returns the language in use.
func Init(l string) string {
	if l == "" {
		l = detectLanguage()
	}
	lang = l
	po = gotext.NewLocaleFSWithPath(l, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
	return lang
}

// Language returns the language passed to Init.
func Language() string {
	return lang
}

// Available lists the embedded translation languages.
func Available() []string {
	entries, err := fs.ReadDir(locales, "locales")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	slices.Sort(out)
	return out
}

// T translates msgid. With vars it is used as a Printf format.
func T(msgid string, vars ...any) string {
	if po == nil {
		return sprintf(msgid, vars)
	}
	return po.Get(msgid, vars...)
}

// N translates a message with a plural form chosen by n.
func N(singular, plural string, n int, vars ...any) string {
	if po == nil {
		if n == 1 {
			return sprintf(singular, vars)
		}
		return sprintf(plural, vars)
	}
	return po.GetN(singular, plural, n, vars...)
}

func sprintf(format string, vars []any) string {
	if len(vars) == 0 {
		return format
	}
	return fmt.Sprintf(format, vars...)
}

// detectLanguage follows GNU gettext: LANGUAGE, LC_ALL, LC_MESSAGES, LANG.
func detectLanguage() string {
	for _, env := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(env)
		if env == "LANGUAGE" {
			val, _, _ = strings.Cut(val, ":")
		}
		val, _, _ = strings.Cut(val, ".")
		val, _, _ = strings.Cut(val, "@")
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}
		return val
	}
	return "en"
}
