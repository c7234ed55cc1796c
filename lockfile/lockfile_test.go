package lockfile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashDeterministic(t *testing.T) {
	h1 := Hash("hello world")
	h2 := Hash("hello world")
	if h1 != h2 {
		t.Errorf("Hash not deterministic: %s != %s", h1, h2)
	}
	if h1 == Hash("different") {
		t.Errorf("Hash collision for %q", "different")
	}
	if len(h1) != 32 {
		t.Errorf("Hash length = %d, want 32", len(h1))
	}
}

func TestLoadNonExistent(t *testing.T) {
	dir := t.TempDir()
	lf, err := Load(dir)
	if err != nil {
		t.Fatalf("Load returned error for non-existent file: %v", err)
	}
	if lf.Version != Version {
		t.Errorf("Version = %d, want %d", lf.Version, Version)
	}
	if len(lf.Checksums) != 0 {
		t.Errorf("Checksums not empty: %v", lf.Checksums)
	}
	if lf.Path() != filepath.Join(dir, FileName) {
		t.Errorf("Path = %q", lf.Path())
	}
}

func TestCheck(t *testing.T) {
	lf, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if lf.Check("locales/de.po", "menu.save", "Save") {
		t.Error("first sighting must not be stale")
	}
	if lf.Check("locales/de.po", "menu.save", "Save") {
		t.Error("unchanged source must not be stale")
	}
	if !lf.Check("locales/de.po", "menu.save", "Save file") {
		t.Error("changed source must be stale")
	}
	if lf.Check("locales/de.po", "menu.save", "Save file") {
		t.Error("stale is reported once per change")
	}
	if lf.Check("locales/ru.po", "menu.save", "Other") {
		t.Error("targets are independent")
	}

	lf.Forget("locales/de.po", "menu.save")
	if lf.Check("locales/de.po", "menu.save", "Anything") {
		t.Error("forgotten id must start over")
	}
}

func TestSaveLoadAndClean(t *testing.T) {
	dir := t.TempDir()
	lf, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	lf.Check("locales/de.po", "a", "A")
	lf.Check("locales/de.po", "b", "B")
	lf.Check("locales/ru.po", "a", "A")
	lf.Clean("locales/ru.po", nil)
	lf.Clean("locales/de.po", []string{"a"})

	if targets, keys := lf.Stats(); targets != 1 || keys != 1 {
		t.Fatalf("Stats = %d, %d, want 1, 1", targets, keys)
	}
	if err := lf.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "ru.po") {
		t.Errorf("empty target should not be saved:\n%s", data)
	}

	lf2, err := Load(dir)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if got := lf2.Checksums["locales/de.po"]["a"]; got != Hash("A") {
		t.Errorf("checksum = %q, want %q", got, Hash("A"))
	}
	if lf2.Check("locales/de.po", "a", "A") {
		t.Error("reloaded checksum should match")
	}
}

func TestLoadErrors(t *testing.T) {
	for name, content := range map[string]string{
		"syntax":  "version: [",
		"version": "version: 9\n",
	} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			if err := os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(dir); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestTargetKey(t *testing.T) {
	if got := TargetKey(filepath.Join("locales", "de.po")); got != "locales/de.po" {
		t.Errorf("TargetKey = %q", got)
	}
}
