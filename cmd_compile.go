package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minios-linux/msgkit/catalog"
	"github.com/minios-linux/msgkit/i18n"
	"github.com/minios-linux/msgkit/msgformat"
)

func newCompileCmd() *cobra.Command {
	var (
		strict  bool
		locales []string
	)
	cmd := &cobra.Command{
		Use:   "compile",
		Short: i18n.T("Resolve translations and write compiled catalogs"),
		Long: `Resolve the best translation of every message for each locale, following
the configured fallback locales, and write one compiled JSON catalog per
locale into compile_dir.

Examples:
  msgkit compile
  msgkit compile --locale de --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return p.compile(locales, strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, i18n.T("Fail when a translation is missing"))
	cmd.Flags().StringSliceVarP(&locales, "locale", "l", nil, i18n.T("Only compile these locales"))
	return cmd
}

func (p *project) compile(only []string, strict bool) error {
	targets := p.cfg.Locales
	if len(only) > 0 {
		for _, l := range only {
			if !slices.Contains(p.cfg.Locales, l) {
				return errors.New(i18n.T("locale %q is not configured", l))
			}
		}
		targets = only
	}

	// Fallback chains may reach any configured locale.
	catalogs := make(catalog.Catalogs, len(p.cfg.Locales))
	for _, locale := range p.cfg.Locales {
		c, err := p.localeCatalog(locale)
		if err != nil {
			return err
		}
		catalogs[locale] = catalog.Clean(c)
	}
	tmpl, err := p.template()
	if err != nil {
		return err
	}

	totalMissing := 0
	for _, locale := range targets {
		missing := 0
		resolved := catalog.ResolveAll(catalogs, locale, catalog.ResolveOptions{
			SourceLocale: p.cfg.SourceLocale,
			Fallback:     p.cfg.FallbackLocales,
			PseudoLocale: p.cfg.PseudoLocale,
			Template:     tmpl,
			OnMissing: func(m catalog.Missing) {
				missing++
				logger.Warn("missing translation",
					zap.String("locale", locale), zap.String("id", m.ID), zap.String("source", m.Source))
			},
		})

		compiled := make(map[string]msgformat.Message, len(resolved))
		for id, text := range resolved {
			compiled[id] = p.compiler.Compile(text)
		}
		data, err := msgformat.MarshalCatalog(compiled)
		if err != nil {
			return fmt.Errorf("compiling %s: %w", locale, err)
		}

		path := p.cfg.CompilePath(locale)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("creating directory for %s: %w", path, err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}

		if missing > 0 {
			logWarning(i18n.N("%s: %d missing translation", "%s: %d missing translations", missing, locale, missing))
		}
		logSuccess(i18n.N("Compiled %d message to %s", "Compiled %d messages to %s", len(compiled), len(compiled), p.rel(path)))
		totalMissing += missing
	}

	if strict && totalMissing > 0 {
		return errors.New(i18n.N("%d translation is missing", "%d translations are missing", totalMissing, totalMissing))
	}
	return nil
}
