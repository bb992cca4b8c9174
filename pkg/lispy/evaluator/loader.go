package evaluator

import (
	"os"
	"path/filepath"

	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
	"github.com/lispy-lang/lispy/pkg/lispy/parser"
)

func init() {
	register("import", sfImport)
	register("export", sfExport)
}

// ModuleHandle is a loaded module's isolated top-level environment plus
// its resolved absolute path, grounded on the module cache entry shape
// evalImport builds in pkg/parsley/evaluator/evaluator.go.
type ModuleHandle struct {
	Path string
	Env  *object.Environment
}

// loadState marks a path as currently being loaded, for cycle detection.
type loadState int

const (
	notLoading loadState = iota
	loading
	loaded
)

// Loader resolves and caches modules by absolute file path (spec.md §4.8),
// grounded on the path-keyed cache pkg/parsley/evaluator/evaluator.go's
// evalImport builds up, plus a loading-set for cycle detection, adapted
// from Parsley's single search root to LisPy's configurable ModulePaths
// list.
type Loader struct {
	searchPaths []string
	extension   string

	cache   map[string]*ModuleHandle
	states  map[string]loadState
	loading []string // stack, for cycle error messages
}

// NewLoader creates a Loader that resolves relative module specifiers
// against searchPaths, trying each in order, appending extension if the
// specifier doesn't already carry a file extension.
func NewLoader(searchPaths []string, extension string) *Loader {
	return &Loader{
		searchPaths: searchPaths,
		extension:   extension,
		cache:       make(map[string]*ModuleHandle),
		states:      make(map[string]loadState),
	}
}

// Resolve locates the file backing a module specifier relative to
// fromFile (the importing module's own path, or "" for the entry script),
// per spec.md §4.8's relative-then-search-path resolution order.
func (l *Loader) Resolve(spec string, fromFile string) (string, error) {
	candidates := []string{spec}
	if filepath.Ext(spec) == "" {
		candidates = []string{spec + l.extension}
	}

	var bases []string
	if fromFile != "" {
		bases = append(bases, filepath.Dir(fromFile))
	}
	bases = append(bases, l.searchPaths...)

	for _, base := range bases {
		for _, c := range candidates {
			full := c
			if !filepath.IsAbs(c) {
				full = filepath.Join(base, c)
			}
			if info, err := os.Stat(full); err == nil && !info.IsDir() {
				abs, err := filepath.Abs(full)
				if err != nil {
					return "", err
				}
				return abs, nil
			}
		}
	}
	return "", lispyerrors.New(lispyerrors.FileNotFound, "module %q could not be resolved", spec)
}

// Load evaluates path's top-level forms in a fresh global-rooted
// environment if not already cached, returning the cached handle on
// subsequent requests for the same path (spec.md §4.8: "each module is
// loaded and evaluated at most once per interpreter run"). globalEnv
// supplies the builtin bindings every module scope inherits.
func (l *Loader) Load(path string, globalEnv *object.Environment, ctx *Context) (*ModuleHandle, error) {
	if h, ok := l.cache[path]; ok {
		return h, nil
	}
	if l.states[path] == loading {
		return nil, lispyerrors.New(lispyerrors.Runtime, "circular import detected: %s", l.cycleTrail(path))
	}

	l.states[path] = loading
	l.loading = append(l.loading, path)
	defer func() {
		l.loading = l.loading[:len(l.loading)-1]
		l.states[path] = loaded
	}()

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, lispyerrors.New(lispyerrors.FileNotFound, "%s", err.Error())
	}

	forms, err := parser.ParseProgram(string(src))
	if err != nil {
		return nil, lispyerrors.New(lispyerrors.Syntax, "%s", err.Error())
	}

	moduleEnv := object.NewEnclosed(globalEnv)
	moduleEnv.Filename = path
	moduleEnv.Exports = make(map[string]bool)

	for _, f := range forms {
		if _, err := Eval(f, moduleEnv, ctx); err != nil {
			return nil, err
		}
	}

	handle := &ModuleHandle{Path: path, Env: moduleEnv}
	l.cache[path] = handle
	return handle, nil
}

func (l *Loader) cycleTrail(path string) string {
	trail := append(append([]string{}, l.loading...), path)
	msg := ""
	for i, p := range trail {
		if i > 0 {
			msg += " -> "
		}
		msg += filepath.Base(p)
	}
	return msg
}

// sfImport implements `(import "path")`, `(import "path" :only (a b))`,
// and `(import "path" :as "prefix")` (spec.md §4.8). Plain import binds
// every exported name directly into the current scope; :only restricts
// that set; :as instead binds each exported symbol under prefix/symbol,
// e.g. `(import "lib" :as "lib")` makes `lib/greeting` available.
func sfImport(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) < 1 {
		return nil, lispyerrors.Arityf("import", "at least 1", len(args))
	}
	pathForm, err := Eval(args[0], env, ctx)
	if err != nil {
		return nil, err
	}
	pathStr, ok := pathForm.(object.String)
	if !ok {
		return nil, lispyerrors.Typef("import", 1, "a string", string(pathForm.Kind()))
	}

	resolved, err := ctx.Loader.Resolve(pathStr.Value, env.Filename)
	if err != nil {
		return nil, err
	}
	handle, err := ctx.Loader.Load(resolved, env.Global(), ctx)
	if err != nil {
		return nil, err
	}

	only, asAlias, err := parseImportModifiers(args[1:])
	if err != nil {
		return nil, err
	}

	exported := func(name string) bool {
		return handle.Env.Exports == nil || handle.Env.Exports[name]
	}

	if asAlias != "" {
		for name := range handle.Env.Exports {
			v, _ := handle.Env.Get(name)
			env.Define(asAlias+"/"+name, v)
		}
		return object.NilValue, nil
	}

	names := only
	if names == nil {
		for name := range handle.Env.Exports {
			names = append(names, name)
		}
	}
	for _, name := range names {
		if !exported(name) {
			return nil, lispyerrors.New(lispyerrors.Runtime, "module %q does not export %q", pathStr.Value, name)
		}
		v, ok := handle.Env.Get(name)
		if !ok {
			return nil, lispyerrors.New(lispyerrors.Runtime, "module %q does not define %q", pathStr.Value, name)
		}
		env.Define(name, v)
	}
	return object.NilValue, nil
}

func parseImportModifiers(rest []object.Value) (only []string, asAlias string, err error) {
	for i := 0; i < len(rest); i++ {
		sym, ok := symbolName(rest[i])
		if !ok {
			return nil, "", lispyerrors.New(lispyerrors.Syntax, "import: unexpected modifier form")
		}
		switch sym {
		case ":only":
			if i+1 >= len(rest) {
				return nil, "", lispyerrors.New(lispyerrors.Syntax, "import: :only requires a list of names")
			}
			names, ok := asNameForms(rest[i+1])
			if !ok {
				return nil, "", lispyerrors.New(lispyerrors.Syntax, "import: :only requires a list of names")
			}
			only, err = paramNames(names)
			if err != nil {
				return nil, "", err
			}
			i++
		case ":as":
			if i+1 >= len(rest) {
				return nil, "", lispyerrors.New(lispyerrors.Syntax, "import: :as requires a string")
			}
			str, ok := rest[i+1].(object.String)
			if !ok {
				return nil, "", lispyerrors.New(lispyerrors.Syntax, "import: :as requires a string")
			}
			asAlias = str.Value
			i++
		default:
			return nil, "", lispyerrors.New(lispyerrors.Syntax, "import: unrecognized modifier %q", sym)
		}
	}
	return only, asAlias, nil
}

// asNameForms accepts either a List (the documented `:only (a b)` form) or
// a Vector, so both read the same way a caller would expect from a plain
// sequence of names.
func asNameForms(v object.Value) ([]object.Value, bool) {
	if l, ok := asList(v); ok {
		return l.Elements, true
	}
	if vec, ok := asVector(v); ok {
		return vec.Elements, true
	}
	return nil, false
}

// sfExport implements `(export a b c)`, recording each name into the
// current module scope's export set without otherwise touching its
// binding (spec.md §4.8: "export does not mutate bindings, it only makes
// them visible to importers").
func sfExport(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if env.Exports == nil {
		return nil, lispyerrors.New(lispyerrors.Runtime, "export used outside of a module's top level")
	}
	for _, a := range args {
		name, ok := symbolName(a)
		if !ok {
			return nil, lispyerrors.New(lispyerrors.Syntax, "export: arguments must be symbols")
		}
		if _, ok := env.Get(name); !ok {
			return nil, lispyerrors.New(lispyerrors.Runtime, "export: %q is not defined", name)
		}
		env.Exports[name] = true
	}
	return object.NilValue, nil
}
