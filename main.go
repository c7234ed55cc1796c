// msgkit: ICU MessageFormat catalogs for Go projects.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/minios-linux/msgkit/config"
	"github.com/minios-linux/msgkit/i18n"
	"github.com/minios-linux/msgkit/logging"
	"github.com/minios-linux/msgkit/msgformat"
	"github.com/minios-linux/msgkit/pluralforms"
	"github.com/minios-linux/msgkit/plurals"
)

// Version information (set via -ldflags during build)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ANSI colors
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[0;31m"
	colorGreen  = "\033[0;32m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
)

// logOut receives the colored progress lines.
var logOut io.Writer = os.Stderr

func logInfo(msg string) {
	fmt.Fprintln(logOut, colorBlue+"[INFO]"+colorReset+" "+msg)
}

func logSuccess(msg string) {
	fmt.Fprintln(logOut, colorGreen+"[OK]"+colorReset+" "+msg)
}

func logWarning(msg string) {
	fmt.Fprintln(logOut, colorYellow+"[WARN]"+colorReset+" "+msg)
}

func logError(msg string) {
	fmt.Fprintln(logOut, colorRed+"[ERROR]"+colorReset+" "+msg)
}

// ---------------------------------------------------------------------------
// Global flags
// ---------------------------------------------------------------------------

var (
	rootDir  string
	logLevel string
	uiLang   string

	logger = zap.NewNop()
)

func addGlobalFlags(fs *pflag.FlagSet) {
	fs.StringVar(&rootDir, "root", ".", i18n.T("Project root directory"))
	fs.StringVar(&logLevel, "log-level", "warn",
		i18n.T("Diagnostic log level (%s)", strings.Join(logging.Levels, ", ")))
	fs.StringVar(&uiLang, "lang", "", i18n.T("Language of msgkit's own messages"))
}

// langFromArgs finds --lang before cobra parses flags, so help texts are
// translated too.
func langFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if v, ok := strings.CutPrefix(arg, "--lang="); ok {
			return v
		}
		if arg == "--lang" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

// ---------------------------------------------------------------------------
// Root command
// ---------------------------------------------------------------------------

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "msgkit",
		Short: i18n.T("ICU MessageFormat catalogs for Go projects"),
		Long: `msgkit extracts messages from Go source into per-locale catalogs,
keeps them merged as the code changes and compiles them for runtime use.

Commands:
  extract       Extract messages and merge them into every locale catalog
  compile       Resolve translations and write compiled catalogs
  render        Render one message with arguments
  plural-forms  Show how gettext plural slots map to CLDR categories
  status        Show configuration and translation progress
  version       Show version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = logging.Must(logging.Options{Level: logLevel})
			if uiLang != "" && uiLang != i18n.Language() {
				i18n.Init(uiLang)
			}
		},
	}

	addGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newExtractCmd(),
		newCompileCmd(),
		newRenderCmd(),
		newPluralFormsCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	i18n.Init(langFromArgs(os.Args[1:]))
	if err := newRootCmd().Execute(); err != nil {
		logError(err.Error())
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

// ---------------------------------------------------------------------------
// Shared project state
// ---------------------------------------------------------------------------

// project bundles what every command needs once .msgkit.yaml is loaded.
type project struct {
	cfg      *config.Config
	bridge   *pluralforms.Bridge
	compiler *msgformat.Compiler
}

func loadProject() (*project, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, errors.New(i18n.T("no %s found in %s", config.FileName, rootDir))
	}
	bridge, err := pluralforms.NewDefaultBridge(pluralforms.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &project{
		cfg:      cfg,
		bridge:   bridge,
		compiler: msgformat.NewCompiler(msgformat.WithLogger(logger)),
	}, nil
}

// ---------------------------------------------------------------------------
// version
// ---------------------------------------------------------------------------

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: i18n.T("Show version information"),
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "msgkit version %s\n", version)
			fmt.Fprintf(out, "  commit:    %s\n", commit)
			fmt.Fprintf(out, "  built:     %s\n", date)
		},
	}
}

// ---------------------------------------------------------------------------
// render
// ---------------------------------------------------------------------------

func newRenderCmd() *cobra.Command {
	var (
		locale string
		values []string
	)
	cmd := &cobra.Command{
		Use:   "render <message>",
		Short: i18n.T("Render one message with arguments"),
		Long: `Compile an ICU message and render it for a locale.

Example:
  msgkit render "{n, plural, one {# file} other {# files}}" --locale de --arg n=3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vals, err := parseArgs(values)
			if err != nil {
				return err
			}
			ctx := msgformat.Context{Locale: locale, Values: vals, Plurals: plurals.NewCLDR(plurals.WithLogger(logger))}
			compiler := msgformat.NewCompiler(msgformat.WithLogger(logger), msgformat.WithoutCache())
			// A project config is optional here; it only contributes named formats.
			if cfg, err := config.Load(rootDir); err == nil && cfg != nil {
				ctx.Formats = cfg.Formats
				if locale == "" {
					ctx.Locale = cfg.SourceLocale
				}
			}
			if ctx.Locale == "" {
				ctx.Locale = "en"
			}
			fmt.Fprintln(cmd.OutOrStdout(), msgformat.Render(compiler.Compile(args[0]), ctx))
			return nil
		},
	}
	cmd.Flags().StringVarP(&locale, "locale", "l", "", i18n.T("Locale to render for"))
	cmd.Flags().StringArrayVarP(&values, "arg", "a", nil, i18n.T("Argument as name=value (repeatable)"))
	return cmd
}

// parseArgs turns name=value pairs into render values. Values stay strings;
// the renderer treats numeric strings as numbers.
func parseArgs(pairs []string) (map[string]any, error) {
	vals := make(map[string]any, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, errors.New(i18n.T("invalid argument %q, want name=value", p))
		}
		vals[name] = value
	}
	return vals, nil
}

// ---------------------------------------------------------------------------
// plural-forms
// ---------------------------------------------------------------------------

func newPluralFormsCmd() *cobra.Command {
	var header string
	cmd := &cobra.Command{
		Use:   "plural-forms <lang>",
		Short: i18n.T("Show how gettext plural slots map to CLDR categories"),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := args[0]
			bridge, err := pluralforms.NewDefaultBridge(pluralforms.WithLogger(logger))
			if err != nil {
				return err
			}
			h := header
			if h == "" {
				h = bridge.HeaderFor(lang)
			}
			cases, err := bridge.Cases(lang, h)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Plural-Forms: %s\n", h)
			for i, c := range cases {
				if c == "" {
					c = "-"
				}
				fmt.Fprintf(out, "  msgstr[%d]  %s\n", i, c)
			}
			cats := plurals.NewCLDR(plurals.WithLogger(logger)).Categories(lang, false)
			names := make([]string, len(cats))
			for i, c := range cats {
				names[i] = string(c)
			}
			fmt.Fprintf(out, "%s %s\n", i18n.T("CLDR categories:"), strings.Join(names, ", "))
			return nil
		},
	}
	cmd.Flags().StringVar(&header, "header", "", i18n.T("Plural-Forms header to map instead of the built-in one"))
	return cmd
}
