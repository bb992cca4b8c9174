// Package evaluator implements the tree-walking interpreter of spec.md
// §4.4: a single Eval routine dispatching on AST node shape, grounded on
// the self-evaluating-atom / symbol-lookup / combination structure of
// pkg/parsley/evaluator/evaluator.go's own Eval function. Builtins,
// special forms, the promise subsystem, the module loader, and the BDD
// special forms all live in this package (rather than importable
// sub-packages) for the same reason Parsley keeps its equivalents
// together: they all need to call back into Eval/Apply to run user
// functions, and Go has no forward-declared cross-package cycles.
package evaluator

import (
	"fmt"

	"github.com/lispy-lang/lispy/pkg/lispy/bdd"
	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// Config bounds the ambient behavior of an interpreter instance (module
// search paths, file extension, HTTP timeout, promise worker count), per
// SPEC_FULL.md §6's configuration-file section.
type Config struct {
	ModulePaths    []string
	ModuleExtension string
	HTTPTimeoutMs   int
	PromiseWorkers  int // carried from configuration; no builtin reads it, so promise work is never bounded
}

// DefaultConfig returns the interpreter's out-of-the-box configuration.
func DefaultConfig() Config {
	return Config{
		ModulePaths:     []string{"."},
		ModuleExtension: ".lpy",
		HTTPTimeoutMs:   30000,
	}
}

// Context bundles the per-interpreter-instance state threaded through
// every Eval call: the BDD registry (spec.md §3.5) and the module loader
// (spec.md §3.4), both "named singletons instantiated at interpreter
// start" per spec.md §9 rather than true package-level globals.
type Context struct {
	BDD    *bdd.Registry
	Loader *Loader
	Config Config
}

// NewContext creates a fresh, independent interpreter context.
func NewContext(cfg Config) *Context {
	return &Context{
		BDD:    bdd.New(),
		Loader: NewLoader(cfg.ModulePaths, cfg.ModuleExtension),
		Config: cfg,
	}
}

// NewGlobalEnv creates the global environment, pre-populated with every
// builtin in the registry (spec.md §4.6).
func NewGlobalEnv(ctx *Context) *object.Environment {
	env := object.NewEnvironment()
	for name, b := range Builtins(ctx) {
		env.Define(name, b)
	}
	return env
}

// Eval is the single recursive evaluation routine of spec.md §4.4.
func Eval(form object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	switch v := form.(type) {
	case object.Nil, object.Boolean, object.Integer, object.Float, object.String:
		return v, nil
	case object.Symbol:
		return evalSymbol(v, env)
	case *object.Vector:
		return evalVector(v, env, ctx)
	case *object.Map:
		return evalMap(v, env, ctx)
	case *object.Function, *object.Builtin, *object.Promise:
		return v, nil
	case *object.List:
		return evalList(v, env, ctx)
	default:
		return nil, lispyerrors.New(lispyerrors.Runtime, "cannot evaluate value of unknown kind")
	}
}

func evalSymbol(sym object.Symbol, env *object.Environment) (object.Value, error) {
	v, ok := env.Get(sym.Name)
	if !ok {
		return nil, lispyerrors.New(lispyerrors.UnboundSymbol, "%s", sym.Name)
	}
	return v, nil
}

func evalVector(v *object.Vector, env *object.Environment, ctx *Context) (object.Value, error) {
	out := make([]object.Value, len(v.Elements))
	for i, el := range v.Elements {
		val, err := Eval(el, env, ctx)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return &object.Vector{Elements: out}, nil
}

// evalMap evaluates a map literal key-by-key and value-by-value (spec.md
// §4.4). A keyword-style symbol key self-evaluates (spec.md §3.1); any
// other key form is evaluated normally, so `{(id :x) 1}`-style computed
// keys work as long as they still evaluate to a hashable value.
func evalMap(m *object.Map, env *object.Environment, ctx *Context) (object.Value, error) {
	out := object.NewMap()
	for _, hk := range m.Order {
		pair := m.Pairs[hk]
		key, err := evalMapKey(pair.Key, env, ctx)
		if err != nil {
			return nil, err
		}
		if !object.IsHashable(key) {
			return nil, lispyerrors.New(lispyerrors.Type, "map key must be hashable, got %s", key.Kind())
		}
		val, err := Eval(pair.Value, env, ctx)
		if err != nil {
			return nil, err
		}
		out.Set(key, val)
	}
	return out, nil
}

func evalMapKey(key object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if sym, ok := key.(object.Symbol); ok && sym.IsKeyword() {
		return sym, nil
	}
	return Eval(key, env, ctx)
}

func evalList(list *object.List, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(list.Elements) == 0 {
		return list, nil // "Empty list () evaluates to itself" (spec.md §4.4)
	}

	head := list.Elements[0]
	args := list.Elements[1:]

	if sym, ok := head.(object.Symbol); ok {
		if sf, ok := specialForms[sym.Name]; ok {
			return sf(args, env, ctx)
		}
	}

	fnVal, err := Eval(head, env, ctx)
	if err != nil {
		return nil, err
	}
	evaluated := make([]object.Value, len(args))
	for i, a := range args {
		v, err := Eval(a, env, ctx)
		if err != nil {
			return nil, err
		}
		evaluated[i] = v
	}
	return Apply(fnVal, evaluated, ctx)
}

// Apply invokes a callable value with already-evaluated arguments
// (spec.md §4.4).
func Apply(fn object.Value, args []object.Value, ctx *Context) (object.Value, error) {
	switch fn := fn.(type) {
	case *object.Builtin:
		return fn.Fn(args)
	case *object.Function:
		if len(args) != len(fn.Params) {
			return nil, lispyerrors.Arityf(fn.CallableName(), fmt.Sprintf("%d", len(fn.Params)), len(args))
		}
		callEnv := object.NewEnclosed(fn.Env)
		for i, p := range fn.Params {
			callEnv.Define(p, args[i])
		}
		var result object.Value = object.NilValue
		for _, expr := range fn.Body {
			v, err := Eval(expr, callEnv, ctx)
			if err != nil {
				return nil, err
			}
			result = v
		}
		return result, nil
	default:
		return nil, lispyerrors.New(lispyerrors.Type, "cannot call a value of kind %s as a function", fn.Kind())
	}
}

// ValueToErrorMessage renders a Value as the string form used in error
// messages and rejection-reason conversion (spec.md §4.7's "converted to
// its string form if not already a string"), reusing each kind's Inspect
// form (spec.md §6).
func ValueToErrorMessage(v object.Value) string {
	if s, ok := v.(object.String); ok {
		return s.Value
	}
	return v.Inspect()
}

// ErrorToValue converts a Go error raised during Eval/Apply into the
// object.Value that a `catch` binding or a promise rejection reason
// should carry: the raw thrown value for a UserThrownError, or a String
// of the formatted message for any other error (spec.md §4.5, §7).
func ErrorToValue(err error) object.Value {
	if ute, ok := err.(*lispyerrors.UserThrownError); ok {
		if v, ok := ute.Value.(object.Value); ok {
			return v
		}
		return object.String{Value: fmt.Sprintf("%v", ute.Value)}
	}
	return object.String{Value: err.Error()}
}
