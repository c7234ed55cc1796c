// Package config loads the .msgkit.yaml project file.
//
// The file lists the project's locales and where their catalogs live:
//
//	locales: [en, de, pt-BR, pseudo]
//	source_locale: en
//	pseudo_locale: pseudo
//	fallback_locales:
//	  pt-BR: pt-PT
//	  default: en
//	catalogs:
//	  - path: locales/{locale}
//	    include: [cmd, internal]
//	    exclude: [internal/testdata]
//	format: po
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/minios-linux/msgkit/catalog"
	"github.com/minios-linux/msgkit/extract"
	"github.com/minios-linux/msgkit/fallback"
	"github.com/minios-linux/msgkit/langmeta"
	"github.com/minios-linux/msgkit/msgformat"
)

// FileName is the config file looked up in the project root.
const FileName = ".msgkit.yaml"

// LocalePlaceholder is replaced by the locale in catalog paths.
const LocalePlaceholder = "{locale}"

// Format is a catalog file format.
type Format string

const (
	FormatPO   Format = "po"
	FormatYAML Format = "yaml"
	FormatARB  Format = "arb"
)

// Ext returns the file extension of the format.
func (f Format) Ext() string {
	return "." + string(f)
}

// DefaultKeywords are scanned when keywords is not set.
var DefaultKeywords = []string{"T", "TC:1c,2", "TID:1i,2"}

// Catalog is one catalog set: the sources it covers and where its
// per-locale files are written.
type Catalog struct {
	// Path is relative to the project root, without extension, and contains
	// {locale}.
	Path string `yaml:"path"`
	// Include lists source directories or files (default ".").
	Include []string `yaml:"include,omitempty"`
	// Exclude lists paths under Include to skip.
	Exclude []string `yaml:"exclude,omitempty"`
}

// Config is the parsed .msgkit.yaml.
type Config struct {
	Project      string   `yaml:"project,omitempty"`
	Locales      []string `yaml:"locales"`
	SourceLocale string   `yaml:"source_locale,omitempty"`
	// PseudoLocale is rendered from source text and never reported missing.
	PseudoLocale    string           `yaml:"pseudo_locale,omitempty"`
	FallbackLocales fallback.Locales `yaml:"fallback_locales,omitempty"`
	Catalogs        []Catalog        `yaml:"catalogs"`
	Format          Format           `yaml:"format,omitempty"`
	OrderBy         catalog.OrderBy  `yaml:"order_by,omitempty"`
	Keywords        []string         `yaml:"keywords,omitempty"`
	CompileDir      string           `yaml:"compile_dir,omitempty"`
	// GettextPlurals writes single-plural messages as msgid_plural entries.
	GettextPlurals bool `yaml:"gettext_plurals,omitempty"`
	// Formats are named number and date styles for rendering.
	Formats map[string]msgformat.FormatOptions `yaml:"formats,omitempty"`

	// Root is the directory the file was loaded from.
	Root string `yaml:"-"`
}

// Load reads and validates .msgkit.yaml from rootDir. It returns nil, nil
// when the file does not exist.
func Load(rootDir string) (*Config, error) {
	path := filepath.Join(rootDir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	abs, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, err
	}
	cfg.Root = abs
	return cfg, nil
}

// Parse decodes a config, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SourceLocale == "" {
		c.SourceLocale = "en"
	}
	if c.Format == "" {
		c.Format = FormatPO
	}
	if c.OrderBy == "" {
		c.OrderBy = catalog.ByMessageID
	}
	if len(c.Keywords) == 0 {
		c.Keywords = slices.Clone(DefaultKeywords)
	}
	if c.CompileDir == "" {
		c.CompileDir = filepath.Join("locales", "compiled")
	}
	if len(c.Catalogs) == 0 {
		c.Catalogs = []Catalog{{Path: "locales/" + LocalePlaceholder}}
	}
	for i := range c.Catalogs {
		if len(c.Catalogs[i].Include) == 0 {
			c.Catalogs[i].Include = []string{"."}
		}
	}
}

// Validate checks the config after defaults are applied.
func (c *Config) Validate() error {
	if len(c.Locales) == 0 {
		return errors.New("locales must list at least one locale")
	}
	seen := make(map[string]bool, len(c.Locales))
	for _, locale := range c.Locales {
		if seen[locale] {
			return fmt.Errorf("locale %q listed twice", locale)
		}
		seen[locale] = true
		if locale != c.PseudoLocale && !langmeta.Valid(locale) {
			return fmt.Errorf("locale %q is not a valid BCP 47 tag", locale)
		}
	}
	if !seen[c.SourceLocale] {
		return fmt.Errorf("source_locale %q must be one of locales %v", c.SourceLocale, c.Locales)
	}
	if c.PseudoLocale != "" {
		if !seen[c.PseudoLocale] {
			return fmt.Errorf("pseudo_locale %q must be one of locales %v", c.PseudoLocale, c.Locales)
		}
		if c.PseudoLocale == c.SourceLocale {
			return errors.New("pseudo_locale must differ from source_locale")
		}
	}
	if err := c.FallbackLocales.Validate(); err != nil {
		return err
	}

	switch c.Format {
	case FormatPO, FormatYAML, FormatARB:
	default:
		return fmt.Errorf("unknown format %q (valid: po, yaml, arb)", c.Format)
	}
	if _, err := catalog.ParseOrderBy(string(c.OrderBy)); err != nil {
		return err
	}
	for _, spec := range c.Keywords {
		if _, err := extract.ParseKeyword(spec); err != nil {
			return err
		}
	}
	for i, cat := range c.Catalogs {
		if !strings.Contains(cat.Path, LocalePlaceholder) {
			return fmt.Errorf("catalog #%d: path %q must contain %s", i+1, cat.Path, LocalePlaceholder)
		}
	}
	return nil
}

// CatalogPath returns the file of cat for locale.
func (c *Config) CatalogPath(cat Catalog, locale string) string {
	rel := strings.ReplaceAll(cat.Path, LocalePlaceholder, locale) + c.Format.Ext()
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}

// TemplatePath returns the POT template of a PO catalog.
func (c *Config) TemplatePath(cat Catalog) string {
	rel := strings.ReplaceAll(cat.Path, LocalePlaceholder, "messages") + ".pot"
	return filepath.Join(c.Root, filepath.FromSlash(rel))
}

// IncludePaths returns the absolute source paths of cat.
func (c *Config) IncludePaths(cat Catalog) []string {
	paths := make([]string, len(cat.Include))
	for i, p := range cat.Include {
		paths[i] = filepath.Join(c.Root, filepath.FromSlash(p))
	}
	return paths
}

// Excluded reports whether a root-relative source path is excluded by cat.
func (c *Config) Excluded(cat Catalog, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, ex := range cat.Exclude {
		ex = strings.TrimSuffix(filepath.ToSlash(ex), "/")
		if rel == ex || strings.HasPrefix(rel, ex+"/") {
			return true
		}
		if ok, _ := filepath.Match(ex, rel); ok {
			return true
		}
	}
	return false
}

// Covers reports whether a root-relative source path belongs to cat.
func (c *Config) Covers(cat Catalog, rel string) bool {
	rel = filepath.ToSlash(rel)
	if c.Excluded(cat, rel) {
		return false
	}
	for _, in := range cat.Include {
		in = strings.TrimSuffix(filepath.ToSlash(filepath.Clean(in)), "/")
		if in == "." || rel == in || strings.HasPrefix(rel, in+"/") {
			return true
		}
	}
	return false
}

// CompilePath returns the compiled JSON file for locale.
func (c *Config) CompilePath(locale string) string {
	return filepath.Join(c.Root, filepath.FromSlash(c.CompileDir), locale+".json")
}

// TranslatedLocales returns the locales other than the source and pseudo
// locales.
func (c *Config) TranslatedLocales() []string {
	var out []string
	for _, l := range c.Locales {
		if l != c.SourceLocale && l != c.PseudoLocale {
			out = append(out, l)
		}
	}
	return out
}
