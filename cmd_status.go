package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minios-linux/msgkit/catalog"
	"github.com/minios-linux/msgkit/i18n"
	"github.com/minios-linux/msgkit/langmeta"
	"github.com/minios-linux/msgkit/lockfile"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: i18n.T("Show configuration and translation progress"),
		Long: `Show the project configuration and per-locale translation progress.
Does not modify any files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject()
			if err != nil {
				return err
			}
			return p.status(cmd)
		},
	}
}

func (p *project) status(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	cfg := p.cfg

	fmt.Fprintf(out, "%s%s%s\n", colorBlue, i18n.T("Project"), colorReset)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	if cfg.Project != "" {
		fmt.Fprintf(out, "  %-14s %s\n", i18n.T("Name:"), cfg.Project)
	}
	fmt.Fprintf(out, "  %-14s %s\n", i18n.T("Root:"), cfg.Root)
	fmt.Fprintf(out, "  %-14s %s\n", i18n.T("Format:"), cfg.Format)
	fmt.Fprintf(out, "  %-14s %s\n", i18n.T("Source:"), cfg.SourceLocale)
	for _, cat := range cfg.Catalogs {
		fmt.Fprintf(out, "  %-14s %s%s (%s)\n", i18n.T("Catalog:"), cat.Path, cfg.Format.Ext(), strings.Join(cat.Include, ", "))
	}
	lock, err := lockfile.Load(cfg.Root)
	if err != nil {
		return err
	}
	if targets, keys := lock.Stats(); targets > 0 {
		fmt.Fprintf(out, "  %-14s %s\n", i18n.T("Lock:"),
			i18n.N("%d checksum", "%d checksums", keys, keys))
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "%s%s%s\n", colorBlue, i18n.T("Translation Statistics"), colorReset)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for _, locale := range cfg.Locales {
		c, err := p.localeCatalog(locale)
		if err != nil {
			return err
		}
		stats := catalog.StatsOf(c)
		fmt.Fprintf(out, "%s %-24s %s  %s\n",
			langCell(locale), displayName(locale, cfg.PseudoLocale), progressBar(stats.Percent(), 20), stats)
	}
	return nil
}

// langCell is the locale code with its flag, padded to a fixed width.
func langCell(locale string) string {
	flag := langmeta.Resolve(locale).Flag
	if flag == "" {
		flag = "  "
	}
	return fmt.Sprintf("%s %-8s", flag, locale)
}

func displayName(locale, pseudo string) string {
	if locale == pseudo {
		return i18n.T("(pseudo)")
	}
	return langmeta.Resolve(locale).Name
}

// progressBar draws percent as a bar of width cells followed by the number.
func progressBar(percent, width int) string {
	percent = max(0, min(percent, 100))
	filled := percent * width / 100

	color := colorRed
	switch {
	case percent >= 80:
		color = colorGreen
	case percent >= 40:
		color = colorYellow
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("%s%s%s %3d%%", color, bar, colorReset, percent)
}
