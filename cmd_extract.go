package main

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minios-linux/msgkit/catalog"
	"github.com/minios-linux/msgkit/config"
	"github.com/minios-linux/msgkit/extract"
	"github.com/minios-linux/msgkit/i18n"
	"github.com/minios-linux/msgkit/lockfile"
	"github.com/minios-linux/msgkit/pofile"
)

func newExtractCmd() *cobra.Command {
	var (
		overwrite bool
		clean     bool
		files     []string
	)
	cmd := &cobra.Command{
		Use:   "extract",
		Short: i18n.T("Extract messages and merge them into every locale catalog"),
		Long: `Scan Go sources for translatable messages and merge them into the
catalog of every configured locale.

New messages are added, existing translations are kept and messages that
are no longer used are marked obsolete. With --files only the given source
files are scanned and nothing is marked obsolete.

Examples:
  msgkit extract
  msgkit extract --clean
  msgkit extract --files internal/ui/menu.go`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return p.extract(catalog.MergeOptions{Overwrite: overwrite, Files: files}, clean)
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, i18n.T("Refresh source-locale translations from the source text"))
	cmd.Flags().BoolVar(&clean, "clean", false, i18n.T("Drop obsolete messages"))
	cmd.Flags().StringSliceVar(&files, "files", nil, i18n.T("Only scan these files (relative to the project root)"))
	return cmd
}

func (p *project) extract(opts catalog.MergeOptions, clean bool) error {
	lock, err := lockfile.Load(p.cfg.Root)
	if err != nil {
		return err
	}

	for _, cat := range p.cfg.Catalogs {
		paths := p.cfg.IncludePaths(cat)
		if len(opts.Files) > 0 {
			paths = p.scopedFiles(cat, opts.Files)
			if len(paths) == 0 {
				continue
			}
		}

		records, err := extract.RunGoExtract(paths, extract.Options{
			Keywords: p.cfg.Keywords,
			Root:     p.cfg.Root,
			Logger:   logger,
		})
		if err != nil {
			return err
		}
		records = slices.DeleteFunc(records, func(r catalog.ExtractedMessage) bool {
			return p.cfg.Excluded(cat, r.Origin.File)
		})

		next, err := catalog.Collect(records)
		if err != nil {
			return err
		}
		logInfo(i18n.N("Found %d message in %s", "Found %d messages in %s", len(next), len(next), cat.Path))

		prev := make(catalog.Catalogs, len(p.cfg.Locales))
		for _, locale := range p.cfg.Locales {
			if prev[locale], err = p.readCatalog(p.cfg.CatalogPath(cat, locale)); err != nil {
				return err
			}
		}

		merged := catalog.MergeAll(p.cfg.Locales, prev, next, p.cfg.SourceLocale, opts)
		for _, locale := range p.cfg.Locales {
			c := merged[locale]
			if clean {
				c = catalog.Clean(c)
			}
			path := p.cfg.CatalogPath(cat, locale)
			if locale != p.cfg.SourceLocale && locale != p.cfg.PseudoLocale {
				if n := flagStale(lock, lockfile.TargetKey(p.rel(path)), c); n > 0 {
					logWarning(i18n.N("%d changed source text, translation flagged fuzzy in %s",
						"%d changed source texts, translations flagged fuzzy in %s", n, n, p.rel(path)))
				}
			}
			if err := p.writeCatalog(path, locale, c); err != nil {
				return err
			}
			logger.Debug("catalog written", zap.String("locale", locale), zap.String("path", path))
			logSuccess(fmt.Sprintf("%s: %s", p.rel(path), catalog.StatsOf(c)))
		}

		if p.cfg.Format == config.FormatPO {
			path := p.cfg.TemplatePath(cat)
			if err := p.writeTemplate(path, merged[p.cfg.SourceLocale]); err != nil {
				return err
			}
			logSuccess(i18n.T("Template written to %s", p.rel(path)))
		}
	}
	return lock.Save()
}

// flagStale marks translations whose source text changed since the lock
// file last saw them as fuzzy, and returns how many it marked. c is
// updated in place.
func flagStale(lock *lockfile.LockFile, target string, c catalog.Catalog) int {
	stale := 0
	ids := make([]string, 0, len(c))
	for id, m := range c {
		ids = append(ids, id)
		if m.Obsolete {
			continue
		}
		if m.Translation == "" {
			lock.Forget(target, id)
			continue
		}
		source := m.Message
		if source == "" {
			source = id
		}
		if lock.Check(target, id, source) && addFlag(&m, "fuzzy") {
			c[id] = m
			stale++
		}
	}
	lock.Clean(target, ids)
	return stale
}

// addFlag adds a PO-style flag to m and reports whether it was missing.
// Flags decoded from YAML or JSON arrive as []any.
func addFlag(m *catalog.Message, flag string) bool {
	var flags []string
	switch v := m.Extra[pofile.ExtraFlags].(type) {
	case []string:
		flags = slices.Clone(v)
	case []any:
		for _, f := range v {
			if s, ok := f.(string); ok {
				flags = append(flags, s)
			}
		}
	}
	if slices.Contains(flags, flag) {
		return false
	}
	m.Extra = maps.Clone(m.Extra)
	if m.Extra == nil {
		m.Extra = make(map[string]any, 1)
	}
	m.Extra[pofile.ExtraFlags] = append(flags, flag)
	return true
}

// scopedFiles returns the absolute paths of the root-relative files that
// belong to cat.
func (p *project) scopedFiles(cat config.Catalog, files []string) []string {
	var out []string
	for _, f := range files {
		rel := filepath.ToSlash(filepath.Clean(f))
		if p.cfg.Covers(cat, rel) {
			out = append(out, filepath.Join(p.cfg.Root, filepath.FromSlash(rel)))
		}
	}
	return out
}

// rel shortens path for display.
func (p *project) rel(path string) string {
	if r, err := filepath.Rel(p.cfg.Root, path); err == nil {
		return r
	}
	return path
}
