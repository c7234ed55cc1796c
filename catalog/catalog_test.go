package catalog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/minios-linux/msgkit/fallback"
)

func TestGenerateID(t *testing.T) {
	cases := []struct {
		message, context, want string
	}{
		{"Hello", "", "uzTaYi"},
		{"Hello", "greeting", "Gr8sPo"},
		{"Lorem", "", "u5db4K"},
	}
	for _, tc := range cases {
		if got := GenerateID(tc.message, tc.context); got != tc.want {
			t.Fatalf("GenerateID(%q, %q) = %q, want %q", tc.message, tc.context, got, tc.want)
		}
	}
	if !IsGeneratedID("uzTaYi", Message{Message: "Hello"}) {
		t.Fatal("uzTaYi should be the generated id of Hello")
	}
	if IsGeneratedID("greeting.hello", Message{Message: "Hello"}) {
		t.Fatal("explicit id reported as generated")
	}
}

func TestOrigin(t *testing.T) {
	o := ParseOrigin("src/app/main.go:42")
	if o.File != "src/app/main.go" || o.Line != 42 {
		t.Fatalf("ParseOrigin = %#v", o)
	}
	if got := o.String(); got != "src/app/main.go:42" {
		t.Fatalf("String() = %q", got)
	}
	if got := ParseOrigin("C:notes.txt"); got.File != "C:notes.txt" || got.Line != 0 {
		t.Fatalf("ParseOrigin without line = %#v", got)
	}
}

func TestCollect(t *testing.T) {
	records := []ExtractedMessage{
		{Message: "Hello", Origin: Origin{File: "b.go", Line: 3}, Comments: []string{"greeting"}},
		{Message: "Hello", Origin: Origin{File: "a.go", Line: 10}, Comments: []string{"greeting"}},
		{Message: "Hello", Origin: Origin{File: "a.go", Line: 10}},
		{Message: "Hello", Context: "menu", Origin: Origin{File: "a.go", Line: 11}},
		{ID: "files.count", Message: "{n} files", Origin: Origin{File: "c.go", Line: 1}, Placeholders: map[string]string{"n": "len(files)"}},
		{ID: "files.count", Origin: Origin{File: "c.go", Line: 9}, Placeholders: map[string]string{"n": "total"}},
		{ID: "files.count", Origin: Origin{File: "c.go", Line: 12}, Placeholders: map[string]string{"n": "total"}},
		{Message: ""},
	}

	c, err := Collect(records)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(c) != 3 {
		t.Fatalf("len = %d, want 3: %v", len(c), c)
	}

	hello := c["uzTaYi"]
	wantOrigins := []Origin{{File: "a.go", Line: 10}, {File: "b.go", Line: 3}}
	if !reflect.DeepEqual(hello.Origins, wantOrigins) {
		t.Fatalf("origins = %v, want %v", hello.Origins, wantOrigins)
	}
	if !reflect.DeepEqual(hello.Comments, []string{"greeting"}) {
		t.Fatalf("comments = %v", hello.Comments)
	}

	if menu, ok := c[GenerateID("Hello", "menu")]; !ok || menu.Context != "menu" {
		t.Fatalf("context entry missing: %#v", menu)
	}

	files := c["files.count"]
	if files.Message != "{n} files" {
		t.Fatalf("message = %q", files.Message)
	}
	if !reflect.DeepEqual(files.Placeholders["n"], []string{"len(files)", "total"}) {
		t.Fatalf("placeholders = %v", files.Placeholders)
	}
}

func TestCollectConflict(t *testing.T) {
	_, err := Collect([]ExtractedMessage{
		{ID: "title", Message: "Inbox", Origin: Origin{File: "a.go", Line: 1}},
		{ID: "title", Message: "Outbox", Origin: Origin{File: "b.go", Line: 2}},
	})
	if !errors.Is(err, ErrConflictingMessage) {
		t.Fatalf("err = %v, want ErrConflictingMessage", err)
	}
}

func TestMergeNewCommonObsolete(t *testing.T) {
	prev := Catalog{
		"keep":     {Message: "Keep", Translation: "Behalten", Extra: map[string]any{"flags": []string{"fuzzy"}}},
		"gone":     {Message: "Gone", Translation: "Weg", Origins: []Origin{{File: "old.go", Line: 1}}},
		"explicit": {Translation: "Explizit"},
	}
	next := Catalog{
		"keep":     {Message: "Keep!", Origins: []Origin{{File: "new.go", Line: 10}}, Extra: map[string]any{"note": "x"}},
		"new":      {Message: "New"},
		"explicit": {},
	}

	got := Merge(prev, next, false, MergeOptions{})

	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	keep := got["keep"]
	if keep.Translation != "Behalten" || keep.Message != "Keep!" {
		t.Fatalf("keep = %#v", keep)
	}
	if !reflect.DeepEqual(keep.Origins, []Origin{{File: "new.go", Line: 10}}) {
		t.Fatalf("keep origins = %v", keep.Origins)
	}
	wantExtra := map[string]any{"flags": []string{"fuzzy"}, "note": "x"}
	if !reflect.DeepEqual(keep.Extra, wantExtra) {
		t.Fatalf("keep extra = %v, want %v", keep.Extra, wantExtra)
	}
	if got["new"].Translation != "" {
		t.Fatalf("new translation = %q, want empty", got["new"].Translation)
	}
	if !got["gone"].Obsolete || got["gone"].Translation != "Weg" {
		t.Fatalf("gone = %#v, want obsolete with translation", got["gone"])
	}
	if got["explicit"].Translation != "Explizit" {
		t.Fatalf("explicit translation = %q", got["explicit"].Translation)
	}
	if prev["gone"].Obsolete {
		t.Fatal("Merge modified prev")
	}
}

func TestMergeSourceLocale(t *testing.T) {
	prev := Catalog{
		"auto":   {Message: "Old text", Translation: "Old text"},
		"edited": {Message: "Old text 2", Translation: "Hand edited"},
		"expl":   {Translation: "expl"},
	}
	next := Catalog{
		"auto":   {Message: "New text"},
		"edited": {Message: "New text 2"},
		"expl":   {},
		"fresh":  {Message: "Fresh"},
		"bareid": {},
	}

	got := Merge(prev, next, true, MergeOptions{})
	want := map[string]string{
		"auto":   "New text",
		"edited": "Hand edited",
		"expl":   "expl",
		"fresh":  "Fresh",
		"bareid": "bareid",
	}
	for id, tr := range want {
		if got[id].Translation != tr {
			t.Fatalf("%s translation = %q, want %q", id, got[id].Translation, tr)
		}
	}

	got = Merge(prev, next, true, MergeOptions{Overwrite: true})
	if got["edited"].Translation != "New text 2" {
		t.Fatalf("overwrite: edited translation = %q", got["edited"].Translation)
	}
}

func TestMergeIdempotent(t *testing.T) {
	c := Catalog{
		"a": {Message: "A", Translation: "Á", Origins: []Origin{{File: "a.go", Line: 1}}},
		"b": {Message: "B", Translation: ""},
		"c": {Message: "C", Translation: "Ç", Comments: []string{"note"}},
	}
	got := Merge(c, c, false, MergeOptions{})
	for id, m := range c {
		if got[id].Translation != m.Translation {
			t.Fatalf("%s translation changed: %q -> %q", id, m.Translation, got[id].Translation)
		}
		if got[id].Obsolete {
			t.Fatalf("%s marked obsolete", id)
		}
	}

	again := Merge(got, c, false, MergeOptions{})
	if !reflect.DeepEqual(again, got) {
		t.Fatalf("second merge differs:\n%v\n%v", again, got)
	}
}

func TestMergeFilesSuppressesObsolete(t *testing.T) {
	prev := Catalog{
		"a": {Message: "A", Translation: "Á"},
		"b": {Message: "B", Translation: "Bé"},
	}
	next := Catalog{"a": {Message: "A"}}

	got := Merge(prev, next, false, MergeOptions{Files: []string{"a.go"}})
	for id, m := range got {
		if m.Obsolete {
			t.Fatalf("%s marked obsolete during partial merge", id)
		}
	}
	if got["b"].Translation != "Bé" {
		t.Fatalf("b translation = %q", got["b"].Translation)
	}
}

func TestMergeAllAndClean(t *testing.T) {
	prev := Catalogs{
		"en": {"old": {Message: "Old", Translation: "Old"}},
		"de": {"old": {Message: "Old", Translation: "Alt"}},
	}
	next := Catalog{"new": {Message: "New"}}

	got := MergeAll([]string{"en", "de", "fr"}, prev, next, "en", MergeOptions{})
	if got["en"]["new"].Translation != "New" {
		t.Fatalf("en new = %q", got["en"]["new"].Translation)
	}
	if got["de"]["new"].Translation != "" || !got["de"]["old"].Obsolete {
		t.Fatalf("de = %#v", got["de"])
	}
	if len(got["fr"]) != 1 {
		t.Fatalf("fr = %#v", got["fr"])
	}

	cleaned := Clean(got["de"])
	if _, ok := cleaned["old"]; ok || len(cleaned) != 1 {
		t.Fatalf("Clean = %#v", cleaned)
	}
}

func TestResolveAllFallsBackToSource(t *testing.T) {
	catalogs := Catalogs{
		"en": {"hashid1": {Translation: "Lorem"}},
	}
	var missing []Missing
	got := ResolveAll(catalogs, "pl", ResolveOptions{
		SourceLocale: "en",
		Fallback:     fallback.Locales{},
		OnMissing:    func(m Missing) { missing = append(missing, m) },
	})

	if got["hashid1"] != "Lorem" {
		t.Fatalf("hashid1 = %q, want Lorem", got["hashid1"])
	}
	want := []Missing{{ID: "hashid1", Source: "Lorem"}}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}
}

func TestResolveAllPrecedence(t *testing.T) {
	catalogs := Catalogs{
		"en": {
			"own":      {Message: "Own", Translation: "Own"},
			"chain":    {Message: "Chain", Translation: "Chain"},
			"default":  {Message: "Default", Translation: "Default"},
			"none":     {Message: "None"},
			"explicit": {},
		},
		"pt-PT": {
			"own":   {Message: "Own", Translation: "Próprio"},
			"chain": {Message: "Chain"},
		},
		"pt-BR": {"chain": {Translation: "Cadeia"}},
		"es":    {"default": {Translation: "Predeterminado"}},
	}
	template := Catalog{"tmpl": {Message: "From template"}}

	var missing []string
	got := ResolveAll(catalogs, "pt-PT", ResolveOptions{
		SourceLocale: "en",
		Fallback:     fallback.Locales{Chains: map[string][]string{"pt-PT": {"pt-BR"}}, Default: "es"},
		Template:     template,
		OnMissing:    func(m Missing) { missing = append(missing, m.ID) },
	})

	want := map[string]string{
		"own":      "Próprio",
		"chain":    "Cadeia",
		"default":  "Predeterminado",
		"none":     "None",
		"explicit": "explicit",
		"tmpl":     "From template",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ResolveAll = %v, want %v", got, want)
	}
	if len(missing) != 3 {
		t.Fatalf("missing = %v, want none, explicit and tmpl", missing)
	}
}

func TestResolveAllSourceLocaleNeverMissing(t *testing.T) {
	catalogs := Catalogs{"en": {"a": {Message: "Apple"}, "b": {Message: "Ball", Translation: "Bat"}}}
	called := 0
	got := ResolveAll(catalogs, "en", ResolveOptions{
		SourceLocale: "en",
		OnMissing:    func(Missing) { called++ },
	})
	if got["a"] != "Apple" || got["b"] != "Bat" {
		t.Fatalf("ResolveAll = %v", got)
	}
	if called != 0 {
		t.Fatalf("onMissing called %d times for the source locale", called)
	}
}

func TestResolveAllPseudoLocale(t *testing.T) {
	catalogs := Catalogs{"en": {"greet": {Message: "Hello {name}", Translation: "Hello {name}"}}}
	called := 0
	got := ResolveAll(catalogs, "pseudo", ResolveOptions{
		SourceLocale: "en",
		PseudoLocale: "pseudo",
		OnMissing:    func(Missing) { called++ },
	})
	if got["greet"] != "Ĥéļļö {name}" {
		t.Fatalf("pseudo = %q", got["greet"])
	}
	if called != 0 {
		t.Fatal("pseudo locale reported missing translations")
	}
}

func TestResolveAllDisabledFallback(t *testing.T) {
	catalogs := Catalogs{
		"en": {"a": {Message: "A", Translation: "A"}},
		"de": {"a": {Translation: "Ä"}},
	}
	got := ResolveAll(catalogs, "fr", ResolveOptions{SourceLocale: "en", Fallback: fallback.Locales{Default: "de"}})
	if got["a"] != "Ä" {
		t.Fatalf("with default fallback = %q, want Ä", got["a"])
	}
	got = ResolveAll(catalogs, "fr", ResolveOptions{SourceLocale: "en", Fallback: fallback.Disabled})
	if got["a"] != "A" {
		t.Fatalf("with fallback disabled = %q, want A", got["a"])
	}
}

func TestSortedIDs(t *testing.T) {
	c := Catalog{
		"z": {Message: "apple", Origins: []Origin{{File: "b.go", Line: 1}}},
		"a": {Message: "cherry", Origins: []Origin{{File: "a.go", Line: 20}}},
		"m": {Message: "banana", Origins: []Origin{{File: "a.go", Line: 3}}},
		"k": {Message: "banana"},
	}
	cases := []struct {
		order OrderBy
		want  []string
	}{
		{ByMessageID, []string{"a", "k", "m", "z"}},
		{ByMessage, []string{"z", "k", "m", "a"}},
		{ByOrigin, []string{"m", "a", "z", "k"}},
	}
	for _, tc := range cases {
		t.Run(string(tc.order), func(t *testing.T) {
			if got := SortedIDs(c, tc.order); !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("SortedIDs = %v, want %v", got, tc.want)
			}
		})
	}

	if _, err := ParseOrderBy("size"); err == nil {
		t.Fatal("ParseOrderBy(size) should fail")
	}
}

func TestStats(t *testing.T) {
	s := StatsOf(Catalog{
		"a": {Translation: "x"},
		"b": {},
		"c": {Translation: "y", Obsolete: true},
	})
	want := Stats{Total: 2, Translated: 1, Missing: 1, Obsolete: 1}
	if s != want {
		t.Fatalf("StatsOf = %+v, want %+v", s, want)
	}
	if s.Percent() != 50 {
		t.Fatalf("Percent = %d", s.Percent())
	}
}
