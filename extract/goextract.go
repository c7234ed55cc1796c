// Package extract finds translatable messages in Go source.
//
// Calls to configured wrapper functions (T("..."), pkg.T("..."), TC(ctx,
// "...")) are located by walking the AST; their string literal arguments
// become catalog.ExtractedMessage records.
package extract

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/minios-linux/msgkit/catalog"
)

// CommentPrefix marks a translator comment on the line above a call.
const CommentPrefix = "i18n:"

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	"testdata":     true,
	"_examples":    true,
}

// Keyword describes a call to scan for, in xgettext --keyword syntax:
//
//	"T"         T(message)
//	"TC:1c,2"   TC(context, message)
//	"TID:1i,2"  TID(id, message)
//
// Argument positions are 1-based.
type Keyword struct {
	// FuncName is a bare name (matches any receiver or package) or
	// "pkg.Func".
	FuncName   string
	MessageArg int
	ContextArg int
	IDArg      int
}

// ParseKeyword parses a keyword spec.
func ParseKeyword(spec string) (Keyword, error) {
	name, args, hasArgs := strings.Cut(strings.TrimSpace(spec), ":")
	if name == "" {
		return Keyword{}, fmt.Errorf("keyword %q: missing function name", spec)
	}
	kw := Keyword{FuncName: name, MessageArg: 1}
	if !hasArgs {
		return kw, nil
	}

	kw.MessageArg = 0
	for _, arg := range strings.Split(args, ",") {
		arg = strings.TrimSpace(arg)
		target := &kw.MessageArg
		switch {
		case strings.HasSuffix(arg, "c"):
			target, arg = &kw.ContextArg, strings.TrimSuffix(arg, "c")
		case strings.HasSuffix(arg, "i"):
			target, arg = &kw.IDArg, strings.TrimSuffix(arg, "i")
		}
		n, err := strconv.Atoi(arg)
		if err != nil || n < 1 {
			return Keyword{}, fmt.Errorf("keyword %q: invalid argument position %q", spec, arg)
		}
		if *target != 0 {
			return Keyword{}, fmt.Errorf("keyword %q: position given twice", spec)
		}
		*target = n
	}
	if kw.MessageArg == 0 && kw.IDArg == 0 {
		return Keyword{}, fmt.Errorf("keyword %q: needs a message or id argument", spec)
	}
	return kw, nil
}

// Options controls RunGoExtract.
type Options struct {
	// Keywords are keyword specs; see Keyword.
	Keywords []string
	// Root makes origin paths relative to it.
	Root   string
	Logger *zap.Logger
}

// RunGoExtract scans paths (directories walked recursively, or single .go
// files) and returns every message occurrence found.
func RunGoExtract(paths []string, opts Options) ([]catalog.ExtractedMessage, error) {
	if len(opts.Keywords) == 0 {
		return nil, errors.New("no keywords specified for Go extraction")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	kwMap := make(map[string][]Keyword)
	for _, spec := range opts.Keywords {
		kw, err := ParseKeyword(spec)
		if err != nil {
			return nil, err
		}
		kwMap[kw.FuncName] = append(kwMap[kw.FuncName], kw)
	}

	files, err := FindGoFiles(paths)
	if err != nil {
		return nil, err
	}

	x := &extractor{
		fset:     token.NewFileSet(),
		keywords: kwMap,
		root:     opts.Root,
		logger:   logger,
	}
	for _, path := range files {
		if err := x.file(path); err != nil {
			// One broken file should not stop the run.
			logger.Warn("skipping file", zap.String("file", path), zap.Error(err))
		}
	}
	return x.records, nil
}

// FindGoFiles expands paths into a sorted list of non-test .go files.
// Explicitly named files are kept even if they are tests.
func FindGoFiles(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == ".go" && !strings.HasSuffix(path, "_test.go") {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", p, err)
		}
	}
	slices.Sort(files)
	return slices.Compact(files), nil
}

type extractor struct {
	fset     *token.FileSet
	keywords map[string][]Keyword
	root     string
	logger   *zap.Logger
	records  []catalog.ExtractedMessage
}

func (x *extractor) file(path string) error {
	f, err := parser.ParseFile(x.fset, path, nil, parser.ParseComments)
	if err != nil {
		return err
	}
	name := filepath.ToSlash(path)
	if x.root != "" {
		if rel, err := filepath.Rel(x.root, path); err == nil {
			name = filepath.ToSlash(rel)
		}
	}

	// Translator comments keyed by the line they end on.
	notes := make(map[int]string)
	for _, group := range f.Comments {
		var lines []string
		for _, c := range group.List {
			text := strings.TrimSpace(strings.TrimPrefix(c.Text, "//"))
			if rest, ok := strings.CutPrefix(text, CommentPrefix); ok {
				lines = append(lines, strings.TrimSpace(rest))
			}
		}
		if len(lines) > 0 {
			notes[x.fset.Position(group.End()).Line] = strings.Join(lines, "\n")
		}
	}

	ast.Inspect(f, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		kws, ok := x.keywords[x.funcName(call)]
		if !ok {
			return true
		}
		pos := x.fset.Position(call.Pos())
		origin := catalog.Origin{File: name, Line: pos.Line}
		for _, kw := range kws {
			x.call(call, kw, origin, notes[pos.Line-1])
		}
		return true
	})
	return nil
}

func (x *extractor) funcName(call *ast.CallExpr) string {
	switch fn := call.Fun.(type) {
	case *ast.Ident:
		return fn.Name
	case *ast.SelectorExpr:
		if ident, ok := fn.X.(*ast.Ident); ok {
			qualified := ident.Name + "." + fn.Sel.Name
			if _, found := x.keywords[qualified]; found {
				return qualified
			}
		}
		return fn.Sel.Name
	}
	return ""
}

func (x *extractor) call(call *ast.CallExpr, kw Keyword, origin catalog.Origin, note string) {
	rec := catalog.ExtractedMessage{Origin: origin}

	var ok bool
	if kw.MessageArg > 0 {
		if rec.Message, ok = stringArgAt(call, kw.MessageArg); !ok && kw.IDArg == 0 {
			x.logger.Debug("message argument is not a string literal", zap.Stringer("origin", origin))
			return
		}
	}
	if kw.IDArg > 0 {
		if rec.ID, ok = stringArgAt(call, kw.IDArg); !ok || rec.ID == "" {
			x.logger.Debug("id argument is not a string literal", zap.Stringer("origin", origin))
			return
		}
	}
	if kw.ContextArg > 0 {
		if rec.Context, ok = stringArgAt(call, kw.ContextArg); !ok {
			x.logger.Debug("context argument is not a string literal", zap.Stringer("origin", origin))
			return
		}
	}
	if rec.ID == "" && rec.Message == "" {
		return
	}
	if note != "" {
		rec.Comments = []string{note}
	}
	rec.Placeholders = placeholders(call)
	x.records = append(x.records, rec)
}

// stringArgAt returns the string constant at a 1-based argument position.
func stringArgAt(call *ast.CallExpr, pos int) (string, bool) {
	idx := pos - 1
	if idx < 0 || idx >= len(call.Args) {
		return "", false
	}
	return stringFromExpr(call.Args[idx])
}

// stringFromExpr handles string literals and concatenations of them.
func stringFromExpr(expr ast.Expr) (string, bool) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		if e.Kind == token.STRING {
			s, err := strconv.Unquote(e.Value)
			return s, err == nil
		}
	case *ast.BinaryExpr:
		if e.Op == token.ADD {
			left, lok := stringFromExpr(e.X)
			right, rok := stringFromExpr(e.Y)
			return left + right, lok && rok
		}
	case *ast.ParenExpr:
		return stringFromExpr(e.X)
	}
	return "", false
}

// placeholders reads `"name": expr` pairs from composite literal arguments,
// e.g. map[string]any{"name": user.Name}.
func placeholders(call *ast.CallExpr) map[string]string {
	var out map[string]string
	for _, arg := range call.Args {
		lit, ok := arg.(*ast.CompositeLit)
		if !ok {
			continue
		}
		for _, elt := range lit.Elts {
			kv, ok := elt.(*ast.KeyValueExpr)
			if !ok {
				continue
			}
			name, ok := stringFromExpr(kv.Key)
			if !ok {
				continue
			}
			if out == nil {
				out = make(map[string]string)
			}
			out[name] = types.ExprString(kv.Value)
		}
	}
	return out
}
