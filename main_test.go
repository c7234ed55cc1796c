package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/minios-linux/msgkit/catalog"
	"github.com/minios-linux/msgkit/msgformat"
	"github.com/minios-linux/msgkit/pofile"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{
			name:    "clamps below zero",
			percent: -10,
			width:   4,
			want:    colorRed + "░░░░" + colorReset + "   0%",
		},
		{
			name:    "mid range uses yellow",
			percent: 50,
			width:   4,
			want:    colorYellow + "██░░" + colorReset + "  50%",
		},
		{
			name:    "clamps above hundred",
			percent: 120,
			width:   4,
			want:    colorGreen + "████" + colorReset + " 100%",
		},
	}

	for _, tc := range tests {
		if got := progressBar(tc.percent, tc.width); got != tc.want {
			t.Fatalf("%s: progressBar() = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestLangFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"status", "--lang", "de"}, "de"},
		{[]string{"--lang=ru", "extract"}, "ru"},
		{[]string{"render", "--", "--lang", "de"}, ""},
		{[]string{"status", "--lang"}, ""},
		{nil, ""},
	}
	for _, tc := range tests {
		if got := langFromArgs(tc.args); got != tc.want {
			t.Fatalf("langFromArgs(%q) = %q, want %q", tc.args, got, tc.want)
		}
	}
}

func TestParseArgs(t *testing.T) {
	got, err := parseArgs([]string{"name=Ann", "n=3", "expr=a=b"})
	if err != nil {
		t.Fatalf("parseArgs error: %v", err)
	}
	want := map[string]any{"name": "Ann", "n": "3", "expr": "a=b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseArgs = %v, want %v", got, want)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseArgs([]string{bad}); err == nil {
			t.Fatalf("parseArgs(%q) expected error", bad)
		}
	}
}

func TestLangCell(t *testing.T) {
	if got := langCell("de"); got != "🇩🇪 de      " {
		t.Fatalf("langCell(de) = %q", got)
	}
	if got := langCell("qps"); !strings.HasSuffix(got, " qps     ") {
		t.Fatalf("langCell(qps) = %q", got)
	}
}

// ---------------------------------------------------------------------------
// Command tests
// ---------------------------------------------------------------------------

const projectConfig = `project: demo
locales: [en, de]
source_locale: en
catalogs:
  - path: locales/{locale}
`

const projectSource = `package app

func T(msg string, args ...any) string { return msg }

func greet(name string, n int) {
	// i18n: shown on start
	_ = T("Hello {name}", map[string]any{"name": name})
	_ = T("{n, plural, one {# file} other {# files}}", map[string]any{"n": n})
}
`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	oldOut, oldNow := logOut, now
	logOut = io.Discard
	now = func() time.Time { return time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { logOut, now = oldOut, oldNow })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestExtractCompileStatus(t *testing.T) {
	dir := writeProject(t, map[string]string{
		".msgkit.yaml": projectConfig,
		"app/app.go":   projectSource,
	})

	if _, err := execute(t, "extract", "--root", dir); err != nil {
		t.Fatalf("extract: %v", err)
	}
	for _, name := range []string{"en.po", "de.po", "messages.pot"} {
		if _, err := os.Stat(filepath.Join(dir, "locales", name)); err != nil {
			t.Fatalf("expected locales/%s: %v", name, err)
		}
	}

	dePath := filepath.Join(dir, "locales", "de.po")
	de, err := pofile.ParseFile(dePath)
	if err != nil {
		t.Fatal(err)
	}
	if got := de.Language(); got != "de" {
		t.Fatalf("de.po Language = %q", got)
	}
	hello := de.EntryByMsgID("Hello {name}")
	if hello == nil {
		t.Fatal("de.po has no entry for Hello {name}")
	}
	if len(hello.References) != 1 || hello.References[0] != "app/app.go:7" {
		t.Fatalf("references = %v", hello.References)
	}
	hello.MsgStr = "Hallo {name}"
	if err := de.WriteFile(dePath); err != nil {
		t.Fatal(err)
	}

	// One of two messages is translated, so --strict fails.
	if _, err := execute(t, "compile", "--root", dir, "--strict"); err == nil || !strings.Contains(err.Error(), "1 translation is missing") {
		t.Fatalf("compile --strict error = %v", err)
	}
	if _, err := execute(t, "compile", "--root", dir); err != nil {
		t.Fatalf("compile: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "locales", "compiled", "de.json"))
	if err != nil {
		t.Fatal(err)
	}
	compiled, err := msgformat.UnmarshalCatalog(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(compiled) != 2 {
		t.Fatalf("compiled %d messages, want 2", len(compiled))
	}
	ctx := msgformat.Context{Locale: "de", Values: map[string]any{"name": "Welt", "n": 3}}
	if got := msgformat.Render(compiled[catalog.GenerateID("Hello {name}", "")], ctx); got != "Hallo Welt" {
		t.Fatalf("translated message = %q", got)
	}
	pluralID := catalog.GenerateID("{n, plural, one {# file} other {# files}}", "")
	if got := msgformat.Render(compiled[pluralID], ctx); got != "3 files" {
		t.Fatalf("fallback message = %q", got)
	}

	out, err := execute(t, "status", "--root", dir)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "1/2 translated (50%)") || !strings.Contains(out, "2/2 translated (100%)") {
		t.Fatalf("status output:\n%s", out)
	}
}

func TestExtractMarksObsoleteAndCleans(t *testing.T) {
	dir := writeProject(t, map[string]string{
		".msgkit.yaml": projectConfig + "format: yaml\n",
		"app/app.go":   projectSource,
	})
	if _, err := execute(t, "extract", "--root", dir); err != nil {
		t.Fatalf("extract: %v", err)
	}

	src := strings.Replace(projectSource, `_ = T("Hello {name}", map[string]any{"name": name})`, "", 1)
	if err := os.WriteFile(filepath.Join(dir, "app", "app.go"), []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := loadProjectAt(t, dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "extract", "--root", dir); err != nil {
		t.Fatalf("extract: %v", err)
	}
	en, err := p.readCatalog(filepath.Join(dir, "locales", "en.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if s := catalog.StatsOf(en); s.Total != 1 || s.Obsolete != 1 {
		t.Fatalf("after extract: %+v", s)
	}

	if _, err := execute(t, "extract", "--root", dir, "--clean"); err != nil {
		t.Fatalf("extract --clean: %v", err)
	}
	en, err = p.readCatalog(filepath.Join(dir, "locales", "en.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if s := catalog.StatsOf(en); s.Total != 1 || s.Obsolete != 0 {
		t.Fatalf("after clean: %+v", s)
	}
	if _, err := os.Stat(filepath.Join(dir, "locales", "messages.pot")); err == nil {
		t.Fatal("yaml projects should not get a POT template")
	}
}

func loadProjectAt(t *testing.T, dir string) (*project, error) {
	t.Helper()
	old := rootDir
	rootDir = dir
	t.Cleanup(func() { rootDir = old })
	return loadProject()
}

func TestMissingConfig(t *testing.T) {
	_, err := execute(t, "status", "--root", t.TempDir())
	if err == nil || !strings.Contains(err.Error(), ".msgkit.yaml") {
		t.Fatalf("status without config error = %v", err)
	}
}

func TestRender(t *testing.T) {
	out, err := execute(t, "render", "--root", t.TempDir(),
		"{n, plural, =0 {keine Dateien} one {# Datei} other {# Dateien}}", "--locale", "de", "--arg", "n=3")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "3 Dateien\n" {
		t.Fatalf("render output = %q", out)
	}

	out, err = execute(t, "render", "--root", t.TempDir(), "Hi {name", "--arg", "name=x")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out != "Hi {name\n" {
		t.Fatalf("broken message should render literally, got %q", out)
	}
}

func TestPluralForms(t *testing.T) {
	out, err := execute(t, "plural-forms", "ru")
	if err != nil {
		t.Fatalf("plural-forms: %v", err)
	}
	for _, want := range []string{"nplurals=3", "msgstr[0]  one", "msgstr[1]  few", "msgstr[2]  many", "one, few, many, other"} {
		if !strings.Contains(out, want) {
			t.Fatalf("plural-forms output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "plural-forms", "de", "--header", "nplurals=3; plural=(n != 1);")
	if err != nil {
		t.Fatalf("plural-forms --header: %v", err)
	}
	if !strings.Contains(out, "msgstr[2]  -") {
		t.Fatalf("unreached slot should print as '-':\n%s", out)
	}

	if _, err := execute(t, "plural-forms", "de", "--header", "bogus"); err == nil {
		t.Fatal("expected error for a malformed header")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "msgkit version dev\n") {
		t.Fatalf("version output = %q", out)
	}
}

func TestExtractFlagsStaleTranslations(t *testing.T) {
	const src = `package app

func TID(id, msg string, args ...any) string { return msg }

var label = TID("menu.save", "Save")
`
	dir := writeProject(t, map[string]string{
		".msgkit.yaml": projectConfig,
		"app/app.go":   src,
	})
	if _, err := execute(t, "extract", "--root", dir); err != nil {
		t.Fatalf("extract: %v", err)
	}

	dePath := filepath.Join(dir, "locales", "de.po")
	translate := func() {
		t.Helper()
		de, err := pofile.ParseFile(dePath)
		if err != nil {
			t.Fatal(err)
		}
		e := de.EntryByMsgID("menu.save")
		if e == nil {
			t.Fatal("de.po has no entry for menu.save")
		}
		e.MsgStr = "Speichern"
		if err := de.WriteFile(dePath); err != nil {
			t.Fatal(err)
		}
	}
	entry := func() *pofile.Entry {
		t.Helper()
		de, err := pofile.ParseFile(dePath)
		if err != nil {
			t.Fatal(err)
		}
		return de.EntryByMsgID("menu.save")
	}

	translate()
	if _, err := execute(t, "extract", "--root", dir); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if entry().IsFuzzy() {
		t.Fatal("unchanged source must not be flagged")
	}

	src2 := strings.Replace(src, `"Save"`, `"Save file"`, 1)
	if err := os.WriteFile(filepath.Join(dir, "app", "app.go"), []byte(src2), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "extract", "--root", dir); err != nil {
		t.Fatalf("extract: %v", err)
	}
	e := entry()
	if !e.IsFuzzy() || e.MsgStr != "Speichern" {
		t.Fatalf("changed source: fuzzy=%v msgstr=%q", e.IsFuzzy(), e.MsgStr)
	}

	out, err := execute(t, "status", "--root", dir)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "1 checksum") {
		t.Fatalf("status should report the lock file:\n%s", out)
	}
}

func TestExtractARB(t *testing.T) {
	dir := writeProject(t, map[string]string{
		".msgkit.yaml": strings.Replace(projectConfig, "locales/{locale}", "l10n/app_{locale}", 1) + "format: arb\n",
		"app/app.go":   projectSource,
	})
	if _, err := execute(t, "extract", "--root", dir); err != nil {
		t.Fatalf("extract: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "l10n", "app_de.arb"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"@@locale": "de"`, `"x-message": "Hello {name}"`, `"example": "name"`} {
		if !strings.Contains(string(data), want) {
			t.Fatalf("app_de.arb missing %s:\n%s", want, data)
		}
	}
	if _, err := execute(t, "compile", "--root", dir); err != nil {
		t.Fatalf("compile: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "locales", "compiled", "en.json")); err != nil {
		t.Fatal(err)
	}
}
