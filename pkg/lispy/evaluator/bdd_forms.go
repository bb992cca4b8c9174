package evaluator

import (
	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

func init() {
	register("describe", sfDescribe)
	register("it", sfIt)
	register("given", sfBDDStep("Given"))
	register("action", sfBDDStep("Action"))
	register("then", sfBDDStep("Then"))
	register("assert-raises?", sfAssertRaises)
}

// sfDescribe opens a BDD feature (spec.md §4.9). Per spec.md §4.9's
// documented limitation, describe blocks do not nest as features: each
// call starts a new top-level entry in the registry, even one evaluated
// while another describe's body is still running.
func sfDescribe(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) < 1 {
		return nil, lispyerrors.Arityf("describe", "at least 1", len(args))
	}
	desc, err := evalStringArg(args[0], env, ctx, "describe")
	if err != nil {
		return nil, err
	}
	ctx.BDD.StartFeature(desc)
	defer ctx.BDD.EndFeature()

	var result object.Value = object.NilValue
	for _, body := range args[1:] {
		v, err := Eval(body, env, ctx)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// sfIt opens a scenario under the current feature (spec.md §4.9).
func sfIt(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) < 1 {
		return nil, lispyerrors.Arityf("it", "at least 1", len(args))
	}
	desc, err := evalStringArg(args[0], env, ctx, "it")
	if err != nil {
		return nil, err
	}
	if _, err := ctx.BDD.StartScenario(desc); err != nil {
		return nil, lispyerrors.New(lispyerrors.Runtime, "%s", err.Error())
	}
	defer ctx.BDD.EndScenario()

	scenarioEnv := object.NewEnclosed(env)
	var result object.Value = object.NilValue
	for _, body := range args[1:] {
		v, err := Eval(body, scenarioEnv, ctx)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// sfBDDStep builds a Given/Action/Then step form: evaluate the
// description, run the body, and record a passed or failed step depending
// on whether the body raised (spec.md §4.9). The step's own evaluation
// error, if any, still propagates once recorded, so a failing Then still
// aborts the enclosing it block the way an ordinary error would.
func sfBDDStep(keyword string) specialForm {
	return func(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
		if len(args) < 1 {
			return nil, lispyerrors.Arityf(keyword, "at least 1", len(args))
		}
		desc, err := evalStringArg(args[0], env, ctx, keyword)
		if err != nil {
			return nil, err
		}

		var result object.Value = object.NilValue
		var stepErr error
		for _, body := range args[1:] {
			v, evalErr := Eval(body, env, ctx)
			if evalErr != nil {
				stepErr = evalErr
				break
			}
			result = v
		}

		if recErr := ctx.BDD.RecordStep(keyword, desc, stepErr); recErr != nil {
			return nil, lispyerrors.New(lispyerrors.Runtime, "%s", recErr.Error())
		}
		if stepErr != nil {
			return nil, stepErr
		}
		return result, nil
	}
}

// evalWhenDispatch decides, on every `(when ...)` form, whether it is the
// BDD step keyword or ordinary control flow (spec.md §4.5/§9's documented
// disambiguation): a "when" used while a scenario is active AND whose
// first argument is a string literal is treated as a BDD step; every
// other shape falls back to control-flow when.
func evalWhenDispatch(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) >= 1 && ctx.BDD.InScenario() {
		if _, ok := args[0].(object.String); ok {
			return sfBDDStep("When")(args, env, ctx)
		}
	}
	if len(args) < 1 {
		return nil, lispyerrors.Arityf("when", "at least 1", len(args))
	}
	test, err := Eval(args[0], env, ctx)
	if err != nil {
		return nil, err
	}
	if !object.Truthy(test) {
		return object.NilValue, nil
	}
	var result object.Value = object.NilValue
	for _, body := range args[1:] {
		v, err := Eval(body, env, ctx)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// evalStringArg evaluates a form expected to yield a String, used for the
// description argument of every BDD special form.
func evalStringArg(form object.Value, env *object.Environment, ctx *Context, fn string) (string, error) {
	v, err := Eval(form, env, ctx)
	if err != nil {
		return "", err
	}
	s, ok := v.(object.String)
	if !ok {
		return "", lispyerrors.Typef(fn, 1, "a string", string(v.Kind()))
	}
	return s.Value, nil
}

// sfAssertRaises implements `(assert-raises? "Prefix" expr)` (spec.md
// §4.9): expr's SECOND argument form is deliberately left unevaluated by
// ordinary application and instead run here inside a guard, so the
// special form can intercept the error and turn a non-match into an
// AssertionFailure rather than letting the original error simply
// propagate.
func sfAssertRaises(args []object.Value, env *object.Environment, ctx *Context) (object.Value, error) {
	if len(args) != 2 {
		return nil, lispyerrors.Arityf("assert-raises?", "2", len(args))
	}
	wantPrefix, err := evalStringArg(args[0], env, ctx, "assert-raises?")
	if err != nil {
		return nil, err
	}

	_, evalErr := Eval(args[1], env, ctx)
	if evalErr == nil {
		return nil, lispyerrors.NewAssertionFailure("assert-raises?: expected %q but no error was raised", wantPrefix)
	}

	msg := evalErr.Error()
	if !containsPrefix(msg, wantPrefix) {
		return nil, lispyerrors.NewAssertionFailure("assert-raises?: expected %q, got %q", wantPrefix, msg)
	}
	return object.True, nil
}

func containsPrefix(msg, prefix string) bool {
	if len(prefix) > len(msg) {
		return false
	}
	for i := 0; i+len(prefix) <= len(msg); i++ {
		if msg[i:i+len(prefix)] == prefix {
			return true
		}
	}
	return false
}
