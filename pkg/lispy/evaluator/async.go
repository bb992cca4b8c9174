package evaluator

import (
	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

func init() {
	register("async", sfAsync)
	register("defn-async", sfDefnAsync)
}

// sfAsync wraps `(async body...)` into a Promise: the body runs on its own
// goroutine, settling the returned promise with the last body form's
// value, or rejecting it with the error's converted value if evaluation
// fails (spec.md §5's "async turns an ordinary call form into one that
// runs concurrently and yields a promise"). When the last body form yields
// a promise, the returned promise adopts its outcome rather than resolving
// to the promise value itself. A fresh child environment is
// passed to the goroutine so no caller-visible scope is written to
// concurrently with whatever the calling scope does next.
func sfAsync(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	body := append([]object.Value{}, args...)
	asyncEnv := object.NewEnclosed(env)
	p := object.NewPromise()

	go func() {
		var result object.Value = object.NilValue
		for _, b := range body {
			v, err := Eval(b, asyncEnv, ctx)
			if err != nil {
				p.Reject(ErrorToValue(err))
				return
			}
			result = v
		}
		if inner, ok := result.(*object.Promise); ok {
			inner.OnSettle(func(state object.PromiseState, value, reason object.Value) {
				if state == object.Rejected {
					p.Reject(reason)
					return
				}
				p.Resolve(value)
			})
			return
		}
		p.Resolve(result)
	}()

	return p, nil
}

// sfDefnAsync is sugar for `(defn-async name [params...] body...)`,
// expanding to a `define` whose body is itself wrapped in `async` (spec.md
// §5): calling the defined function always returns a Promise rather than
// running its body synchronously.
func sfDefnAsync(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) < 2 {
		return nil, lispyerrors.Arityf("defn-async", "at least 2", len(args))
	}
	name, ok := symbolName(args[0])
	if !ok {
		return nil, lispyerrors.New(lispyerrors.Syntax, "defn-async: first argument must be a symbol")
	}
	paramForms, ok := asVector(args[1])
	if !ok {
		return nil, lispyerrors.New(lispyerrors.Syntax, "defn-async: parameter list must be a vector")
	}
	params, err := paramNames(paramForms.Elements)
	if err != nil {
		return nil, err
	}

	asyncBody := append([]object.Value{object.Symbol{Name: "async"}}, args[2:]...)
	fn := &object.Function{
		Params: params,
		Body:   []object.Value{&object.List{Elements: asyncBody}},
		Env:    env,
	}
	return env.Define(name, fn), nil
}
