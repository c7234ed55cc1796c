package main

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/minios-linux/msgkit/arbfile"
	"github.com/minios-linux/msgkit/catalog"
	"github.com/minios-linux/msgkit/config"
	"github.com/minios-linux/msgkit/pofile"
	"github.com/minios-linux/msgkit/yamlfile"
)

// now is overridden by tests to get stable PO headers.
var now = time.Now

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// readCatalog loads one catalog file in the project format. A missing file
// reads as an empty catalog.
func (p *project) readCatalog(path string) (catalog.Catalog, error) {
	switch p.cfg.Format {
	case config.FormatYAML:
		return yamlfile.ReadFile(path)
	case config.FormatARB:
		return arbfile.ReadFile(path)
	}
	f, err := pofile.ParseFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return make(catalog.Catalog), nil
	}
	if err != nil {
		return nil, err
	}
	c, err := f.ToCatalog(p.bridge)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// writeCatalog stores c for locale at path.
func (p *project) writeCatalog(path, locale string, c catalog.Catalog) error {
	switch p.cfg.Format {
	case config.FormatYAML:
		return yamlfile.WriteFile(path, c, yamlfile.Options{
			Order:   p.cfg.OrderBy,
			Minimal: locale != p.cfg.SourceLocale,
		})
	case config.FormatARB:
		return arbfile.WriteFile(path, c, arbfile.Options{Locale: locale, Order: p.cfg.OrderBy})
	}
	return p.writePO(path, c, pofile.Options{Locale: locale})
}

// writeTemplate stores the POT template of a PO catalog set.
func (p *project) writeTemplate(path string, c catalog.Catalog) error {
	return p.writePO(path, catalog.Clean(c), pofile.Options{Template: true})
}

func (p *project) writePO(path string, c catalog.Catalog, opts pofile.Options) error {
	opts.Project = p.cfg.Project
	opts.Order = p.cfg.OrderBy
	opts.GettextPlurals = p.cfg.GettextPlurals
	opts.Bridge = p.bridge
	opts.Now = now()
	f, err := pofile.FromCatalog(c, opts)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	return f.WriteFile(path)
}

// localeCatalog joins the catalogs of every catalog set for locale.
func (p *project) localeCatalog(locale string) (catalog.Catalog, error) {
	out := make(catalog.Catalog)
	for _, cat := range p.cfg.Catalogs {
		c, err := p.readCatalog(p.cfg.CatalogPath(cat, locale))
		if err != nil {
			return nil, err
		}
		maps.Copy(out, c)
	}
	return out, nil
}

// template joins the POT templates of a PO project. It is nil for YAML
// projects and when no template was written yet.
func (p *project) template() (catalog.Catalog, error) {
	if p.cfg.Format != config.FormatPO {
		return nil, nil
	}
	var out catalog.Catalog
	for _, cat := range p.cfg.Catalogs {
		path := p.cfg.TemplatePath(cat)
		if !fileExists(path) {
			continue
		}
		c, err := p.readCatalog(path)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = make(catalog.Catalog, len(c))
		}
		maps.Copy(out, catalog.Clean(c))
	}
	return out, nil
}
