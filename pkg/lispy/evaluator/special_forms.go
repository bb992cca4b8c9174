package evaluator

import (
	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// specialForm is a form whose arguments are NOT pre-evaluated; it decides
// for itself which sub-forms to evaluate and in what order (spec.md §4.5).
type specialForm func(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error)

// specialForms is the dispatch table consulted by evalList before falling
// back to ordinary function application (spec.md §4.4/§4.5). Populated by
// an init so bdd_forms.go and async.go can extend it from their own files
// without a forward reference.
var specialForms = map[string]specialForm{}

func register(name string, fn specialForm) {
	if _, exists := specialForms[name]; exists {
		panic("special form registered twice: " + name)
	}
	specialForms[name] = fn
}

// SpecialFormNames lists every registered special form, for the REPL's
// tab completion (cmd/lispy's repl subcommand).
func SpecialFormNames() []string {
	names := make([]string, 0, len(specialForms))
	for name := range specialForms {
		names = append(names, name)
	}
	return names
}

func init() {
	register("quote", sfQuote)
	register("define", sfDefine)
	register("fn", sfFn)
	register("if", sfIf)
	register("cond", sfCond)
	register("when", sfWhen)
	register("let", sfLet)
	register("->", sfThreadFirst)
	register("->>", sfThreadLast)
	register("throw", sfThrow)
	register("try", sfTry)
	register("doseq", sfDoseq)
	// "import" and "export" are registered in loader.go, alongside their
	// implementations.
}

func symbolName(v object.Value) (string, bool) {
	sym, ok := v.(object.Symbol)
	if !ok {
		return "", false
	}
	return sym.Name, true
}

func asList(v object.Value) (*object.List, bool) {
	l, ok := v.(*object.List)
	return l, ok
}

func asVector(v object.Value) (*object.Vector, bool) {
	vec, ok := v.(*object.Vector)
	return vec, ok
}

// isCatchable reports whether try/catch may intercept err: both a thrown
// user value and any EvaluationError (including its AssertionFailure
// subclass) are catchable (spec.md §7).
func isCatchable(err error) bool {
	switch err.(type) {
	case *lispyerrors.UserThrownError, *lispyerrors.EvaluationError, *lispyerrors.AssertionFailure:
		return true
	default:
		return false
	}
}

// sfQuote returns its single argument unevaluated (spec.md §4.5).
func sfQuote(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) != 1 {
		return nil, lispyerrors.Arityf("quote", "1", len(args))
	}
	return args[0], nil
}

// sfDefine binds a name (or defines a function, via the `(define (name
// params...) body...)` sugar) in the current scope (spec.md §4.3/§4.5).
func sfDefine(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) < 2 {
		return nil, lispyerrors.Arityf("define", "at least 2", len(args))
	}

	if sig, ok := asList(args[0]); ok {
		if len(sig.Elements) == 0 {
			return nil, lispyerrors.New(lispyerrors.Syntax, "define: empty function signature")
		}
		name, ok := symbolName(sig.Elements[0])
		if !ok {
			return nil, lispyerrors.New(lispyerrors.Syntax, "define: function name must be a symbol")
		}
		params, err := paramNames(sig.Elements[1:])
		if err != nil {
			return nil, err
		}
		body, doc := splitDoc(args[1:])
		fn := &object.Function{Params: params, Body: body, Env: env, Doc: doc}
		return env.Define(name, fn), nil
	}

	name, ok := symbolName(args[0])
	if !ok {
		return nil, lispyerrors.New(lispyerrors.Syntax, "define: first argument must be a symbol or a function signature")
	}
	if len(args) != 2 {
		return nil, lispyerrors.Arityf("define", "2", len(args))
	}
	val, err := Eval(args[1], env, ctx)
	if err != nil {
		return nil, err
	}
	return env.Define(name, val), nil
}

func paramNames(forms []object.Value) ([]string, error) {
	names := make([]string, len(forms))
	for i, f := range forms {
		n, ok := symbolName(f)
		if !ok {
			return nil, lispyerrors.New(lispyerrors.Syntax, "parameter list must contain only symbols")
		}
		names[i] = n
	}
	return names, nil
}

// sfFn builds an anonymous function value: `(fn [params...] body...)`.
func sfFn(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) < 1 {
		return nil, lispyerrors.Arityf("fn", "at least 1", len(args))
	}
	paramForms, ok := asVector(args[0])
	if !ok {
		return nil, lispyerrors.New(lispyerrors.Syntax, "fn: parameter list must be a vector")
	}
	params, err := paramNames(paramForms.Elements)
	if err != nil {
		return nil, err
	}
	body, doc := splitDoc(args[1:])
	return &object.Function{Params: params, Body: body, Env: env, Doc: doc}, nil
}

// splitDoc recognizes a leading string-literal body form as a docstring,
// the convention `doc`/`print-doc` read from (spec.md §4.6), and strips it
// out of the executable body. A lone string body form is left in place
// rather than treated as documentation, so `(fn [] "ok")` still returns
// "ok".
func splitDoc(body []object.Value) ([]object.Value, string) {
	if len(body) > 1 {
		if s, ok := body[0].(object.String); ok {
			return body[1:], s.Value
		}
	}
	return body, ""
}

// sfIf implements `(if test then else?)` with else defaulting to nil
// (spec.md §4.5).
func sfIf(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) < 2 || len(args) > 3 {
		return nil, lispyerrors.Arityf("if", "2 or 3", len(args))
	}
	test, err := Eval(args[0], env, ctx)
	if err != nil {
		return nil, err
	}
	if object.Truthy(test) {
		return Eval(args[1], env, ctx)
	}
	if len(args) == 3 {
		return Eval(args[2], env, ctx)
	}
	return object.NilValue, nil
}

// sfCond implements `(cond test1 expr1 test2 expr2 ... :else default)`
// (spec.md §4.5), evaluating clause pairs in order and short-circuiting on
// the first truthy test. A `:else` test is treated as always-truthy.
func sfCond(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, lispyerrors.New(lispyerrors.Syntax, "cond: expects an even, non-zero number of test/expr forms")
	}
	for i := 0; i < len(args); i += 2 {
		testForm := args[i]
		if sym, ok := symbolName(testForm); ok && sym == ":else" {
			return Eval(args[i+1], env, ctx)
		}
		test, err := Eval(testForm, env, ctx)
		if err != nil {
			return nil, err
		}
		if object.Truthy(test) {
			return Eval(args[i+1], env, ctx)
		}
	}
	return object.NilValue, nil
}

// sfWhen is the control-flow `(when test body...)` form, evaluating body
// forms in sequence and returning the last, or nil if test is falsy
// (spec.md §4.5). It delegates to bdd_forms.go's evalWhenDispatch, which
// routes calls shaped like a BDD step to the BDD "when" step instead.
func sfWhen(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	return evalWhenDispatch(args, env, ctx)
}

// sfLet implements `(let [name1 val1 name2 val2 ...] body...)` with
// let*-style sequential binding: each value form sees the bindings
// established by earlier pairs in the same let (spec.md §4.5, §9).
func sfLet(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) < 1 {
		return nil, lispyerrors.Arityf("let", "at least 1", len(args))
	}
	bindings, ok := asVector(args[0])
	if !ok {
		return nil, lispyerrors.New(lispyerrors.Syntax, "let: bindings must be a vector")
	}
	if len(bindings.Elements)%2 != 0 {
		return nil, lispyerrors.New(lispyerrors.Syntax, "let: bindings vector must have an even number of forms")
	}

	letEnv := object.NewEnclosed(env)
	for i := 0; i < len(bindings.Elements); i += 2 {
		name, ok := symbolName(bindings.Elements[i])
		if !ok {
			return nil, lispyerrors.New(lispyerrors.Syntax, "let: binding name must be a symbol")
		}
		val, err := Eval(bindings.Elements[i+1], letEnv, ctx)
		if err != nil {
			return nil, err
		}
		letEnv.Define(name, val)
	}

	var result object.Value = object.NilValue
	for _, body := range args[1:] {
		v, err := Eval(body, letEnv, ctx)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// sfThreadFirst implements `(-> x (f a) (g b))`, rewriting to
// `(g (f x a) b)` by threading x as the first argument of each subsequent
// form (spec.md §4.5).
func sfThreadFirst(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	return evalThread(args, env, ctx, true)
}

// sfThreadLast implements `(->> x (f a) (g b))`, threading x as the LAST
// argument of each subsequent form.
func sfThreadLast(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	return evalThread(args, env, ctx, false)
}

func evalThread(args []object.Value, env *object.Environment, ctx *Context, first bool) (object.Value, error) {
	if len(args) < 1 {
		return nil, lispyerrors.New(lispyerrors.Syntax, "->/->>: requires a seed form")
	}
	threaded := args[0]
	for _, step := range args[1:] {
		call, err := rewriteThreadStep(step, threaded, first)
		if err != nil {
			return nil, err
		}
		threaded = call
	}
	return Eval(threaded, env, ctx)
}

func rewriteThreadStep(step object.Value, threaded object.Value, first bool) (object.Value, error) {
	switch s := step.(type) {
	case *object.List:
		if len(s.Elements) == 0 {
			return nil, lispyerrors.New(lispyerrors.Syntax, "->/->>: thread step must be a symbol or a call form")
		}
		elems := append([]object.Value{}, s.Elements...)
		if first {
			elems = append(elems[:1:1], append([]object.Value{threaded}, elems[1:]...)...)
		} else {
			elems = append(elems, threaded)
		}
		return &object.List{Elements: elems}, nil
	case object.Symbol:
		return &object.List{Elements: []object.Value{s, threaded}}, nil
	default:
		return nil, lispyerrors.New(lispyerrors.Syntax, "->/->>: thread step must be a symbol or a call form")
	}
}

// sfThrow implements `(throw v)`: v is evaluated, then raised as a
// UserThrownError (spec.md §4.5/§7).
func sfThrow(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) != 1 {
		return nil, lispyerrors.Arityf("throw", "1", len(args))
	}
	v, err := Eval(args[0], env, ctx)
	if err != nil {
		return nil, err
	}
	return nil, lispyerrors.NewUserThrown(v)
}

// sfTry implements `(try body (catch e handler...) (finally cleanup...))`
// (spec.md §4.5). catch and finally are each optional list forms; finally
// always runs, even when try re-raises.
func sfTry(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) < 1 {
		return nil, lispyerrors.Arityf("try", "at least 1", len(args))
	}

	var body []object.Value
	var catchSym string
	var catchBody []object.Value
	var finallyBody []object.Value
	haveCatch := false

	for _, a := range args {
		if l, ok := asList(a); ok && len(l.Elements) > 0 {
			if head, ok := symbolName(l.Elements[0]); ok && head == "catch" {
				if len(l.Elements) < 2 {
					return nil, lispyerrors.New(lispyerrors.Syntax, "catch: expects a binding symbol")
				}
				sym, ok := symbolName(l.Elements[1])
				if !ok {
					return nil, lispyerrors.New(lispyerrors.Syntax, "catch: binding must be a symbol")
				}
				catchSym = sym
				catchBody = l.Elements[2:]
				haveCatch = true
				continue
			}
			if head, ok := symbolName(l.Elements[0]); ok && head == "finally" {
				finallyBody = l.Elements[1:]
				continue
			}
		}
		body = append(body, a)
	}

	runFinally := func() error {
		for _, f := range finallyBody {
			if _, err := Eval(f, env, ctx); err != nil {
				return err
			}
		}
		return nil
	}

	var result object.Value = object.NilValue
	var evalErr error
	for _, b := range body {
		v, err := Eval(b, env, ctx)
		if err != nil {
			evalErr = err
			break
		}
		result = v
	}

	if evalErr != nil {
		if !isCatchable(evalErr) {
			if ferr := runFinally(); ferr != nil {
				return nil, ferr
			}
			return nil, evalErr
		}
		if !haveCatch {
			if ferr := runFinally(); ferr != nil {
				return nil, ferr
			}
			return nil, evalErr
		}
		catchEnv := object.NewEnclosed(env)
		catchEnv.Define(catchSym, ErrorToValue(evalErr))
		var catchResult object.Value = object.NilValue
		for _, c := range catchBody {
			v, err := Eval(c, catchEnv, ctx)
			if err != nil {
				if ferr := runFinally(); ferr != nil {
					return nil, ferr
				}
				return nil, err
			}
			catchResult = v
		}
		if ferr := runFinally(); ferr != nil {
			return nil, ferr
		}
		return catchResult, nil
	}

	if ferr := runFinally(); ferr != nil {
		return nil, ferr
	}
	return result, nil
}

// sfDoseq implements `(doseq [x coll] body...)`, iterating a list's or
// vector's elements, or a map's [key value] pairs, and discarding the
// per-iteration result (spec.md §4.5);
// its own return value is always nil.
func sfDoseq(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) < 1 {
		return nil, lispyerrors.Arityf("doseq", "at least 1", len(args))
	}
	binding, ok := asVector(args[0])
	if !ok || len(binding.Elements) != 2 {
		return nil, lispyerrors.New(lispyerrors.Syntax, "doseq: expects a [name coll] binding vector")
	}
	name, ok := symbolName(binding.Elements[0])
	if !ok {
		return nil, lispyerrors.New(lispyerrors.Syntax, "doseq: binding name must be a symbol")
	}
	collForm, err := Eval(binding.Elements[1], env, ctx)
	if err != nil {
		return nil, err
	}
	elements, err := sequenceElements(collForm, "doseq")
	if err != nil {
		return nil, err
	}

	for _, el := range elements {
		iterEnv := object.NewEnclosed(env)
		iterEnv.Define(name, el)
		for _, body := range args[1:] {
			if _, err := Eval(body, iterEnv, ctx); err != nil {
				return nil, err
			}
		}
	}
	return object.NilValue, nil
}

// sequenceElements extracts the element slice shared by List/Vector
// iteration; a Map yields its [key value] pairs as two-element Vectors.
func sequenceElements(v object.Value, fn string) ([]object.Value, error) {
	switch v := v.(type) {
	case *object.List:
		return v.Elements, nil
	case *object.Vector:
		return v.Elements, nil
	case *object.Map:
		out := make([]object.Value, 0, len(v.Order))
		for _, hk := range v.Order {
			p := v.Pairs[hk]
			out = append(out, &object.Vector{Elements: []object.Value{p.Key, p.Value}})
		}
		return out, nil
	default:
		return nil, lispyerrors.Typef(fn, 1, "a list, vector, or map", string(v.Kind()))
	}
}

// sfImport and sfExport are implemented and registered in loader.go.
