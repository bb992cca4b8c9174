package evaluator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/errgroup"

	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// promiseBuiltins assembles the promise subsystem's standard library
// (spec.md §4.7), each entry closing over ctx so it can re-enter Eval/Apply
// for callbacks, thunks, and predicates.
func promiseBuiltins(ctx *Context) map[string]*object.Builtin {
	return map[string]*object.Builtin{
		"promise":      builtinPromise(ctx),
		"resolve":      builtinResolve(),
		"reject":       builtinReject(),
		"promise-then": builtinPromiseThen(ctx),
		"await":        builtinAwait(),
		"promise-all":  builtinPromiseAll(ctx),
		"async-filter": builtinAsyncFilter(ctx),
		"retry":        builtinRetry(ctx),
		"debounce":     builtinDebounce(ctx),
		"throttle":     builtinThrottle(ctx),
	}
}

func requireInt(v object.Value, fn string, pos int) (int64, error) {
	i, ok := v.(object.Integer)
	if !ok {
		return 0, lispyerrors.Typef(fn, pos, "an integer", string(v.Kind()))
	}
	return i.Value, nil
}

// builtinPromise implements `(promise thunk)`: thunk runs on its own
// goroutine; if it returns a Promise itself, the outer promise adopts that
// inner promise's eventual outcome rather than resolving to the Promise
// value directly (spec.md §4.7's "settles the returned promise with the
// result").
func builtinPromise(ctx *Context) *object.Builtin {
	return &object.Builtin{
		Name: "promise",
		Doc:  "(promise thunk) runs thunk on a worker, returning a promise settled with its result.",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, lispyerrors.Arityf("promise", "1", len(args))
			}
			thunk := args[0]
			p := object.NewPromise()
			go func() {
				v, err := Apply(thunk, nil, ctx)
				if err != nil {
					p.Reject(ErrorToValue(err))
					return
				}
				if inner, ok := v.(*object.Promise); ok {
					state, val, reason := inner.Await()
					if state == object.Rejected {
						p.Reject(reason)
						return
					}
					p.Resolve(val)
					return
				}
				p.Resolve(v)
			}()
			return p, nil
		},
	}
}

func builtinResolve() *object.Builtin {
	return &object.Builtin{
		Name: "resolve",
		Doc:  "(resolve v) returns a promise already settled as resolved(v).",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, lispyerrors.Arityf("resolve", "1", len(args))
			}
			return object.NewResolvedPromise(args[0]), nil
		},
	}
}

func builtinReject() *object.Builtin {
	return &object.Builtin{
		Name: "reject",
		Doc:  "(reject r) returns a promise already settled as rejected(r).",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, lispyerrors.Arityf("reject", "1", len(args))
			}
			return object.NewRejectedPromise(args[0]), nil
		},
	}
}

// builtinPromiseThen implements `(promise-then p f)` (spec.md §4.7).
func builtinPromiseThen(ctx *Context) *object.Builtin {
	return &object.Builtin{
		Name: "promise-then",
		Doc:  "(promise-then p f) chains f onto p's resolution, returning a new promise.",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) != 2 {
				return nil, lispyerrors.Arityf("promise-then", "2", len(args))
			}
			p, ok := args[0].(*object.Promise)
			if !ok {
				return nil, lispyerrors.Typef("promise-then", 1, "a promise", string(args[0].Kind()))
			}
			f := args[1]
			next := object.NewPromise()
			p.OnSettle(func(state object.PromiseState, value, reason object.Value) {
				if state == object.Rejected {
					next.Reject(reason)
					return
				}
				v, err := Apply(f, []object.Value{value}, ctx)
				if err != nil {
					next.Reject(ErrorToValue(err))
					return
				}
				if inner, ok := v.(*object.Promise); ok {
					inner.OnSettle(func(s2 object.PromiseState, v2, r2 object.Value) {
						if s2 == object.Rejected {
							next.Reject(r2)
							return
						}
						next.Resolve(v2)
					})
					return
				}
				next.Resolve(v)
			})
			return next, nil
		},
	}
}

// builtinAwait implements `(await p)` (spec.md §4.7): a blocking
// reentry-point, not a special form, so its argument is an ordinary
// pre-evaluated value.
func builtinAwait() *object.Builtin {
	return &object.Builtin{
		Name: "await",
		Doc:  "(await p) blocks until p settles, yielding its value or raising its reason.",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, lispyerrors.Arityf("await", "1", len(args))
			}
			p, ok := args[0].(*object.Promise)
			if !ok {
				return nil, lispyerrors.Typef("await", 1, "a promise", string(args[0].Kind()))
			}
			state, value, reason := p.Await()
			if state == object.Rejected {
				return nil, lispyerrors.New(lispyerrors.Runtime, "%s", ValueToErrorMessage(reason))
			}
			return value, nil
		},
	}
}

// builtinPromiseAll implements `(promise-all vec)` (spec.md §4.7) via
// errgroup.Group: each element settles concurrently, the result vector
// preserves input order, and the first error any goroutine returns is what
// Wait surfaces as the rejection reason.
func builtinPromiseAll(ctx *Context) *object.Builtin {
	return &object.Builtin{
		Name: "promise-all",
		Doc:  "(promise-all vec) resolves to a vector of results once every input promise resolves.",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) != 1 {
				return nil, lispyerrors.Arityf("promise-all", "1", len(args))
			}
			elems, err := sequenceElements(args[0], "promise-all")
			if err != nil {
				return nil, err
			}
			result := object.NewPromise()
			go func() {
				values := make([]object.Value, len(elems))
				var g errgroup.Group
				for i, el := range elems {
					i, el := i, el
					g.Go(func() error {
						p, ok := el.(*object.Promise)
						if !ok {
							values[i] = el
							return nil
						}
						state, val, reason := p.Await()
						if state == object.Rejected {
							return fmt.Errorf("%s", ValueToErrorMessage(reason))
						}
						values[i] = val
						return nil
					})
				}
				if err := g.Wait(); err != nil {
					result.Reject(object.String{Value: err.Error()})
					return
				}
				result.Resolve(&object.Vector{Elements: values})
			}()
			return result, nil
		},
	}
}

// builtinAsyncFilter implements `(async-filter coll pred)` (spec.md §4.7):
// pred runs concurrently per element via errgroup, and the kept elements
// are reassembled in original order, matching input shape (List stays a
// List, Vector stays a Vector).
func builtinAsyncFilter(ctx *Context) *object.Builtin {
	return &object.Builtin{
		Name: "async-filter",
		Doc:  "(async-filter coll pred) filters coll concurrently, preserving original order.",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) != 2 {
				return nil, lispyerrors.Arityf("async-filter", "2", len(args))
			}
			elems, err := sequenceElements(args[0], "async-filter")
			if err != nil {
				return nil, err
			}
			_, isVector := args[0].(*object.Vector)
			pred := args[1]

			result := object.NewPromise()
			go func() {
				keep := make([]bool, len(elems))
				var g errgroup.Group
				for i, el := range elems {
					i, el := i, el
					g.Go(func() error {
						v, callErr := Apply(pred, []object.Value{el}, ctx)
						if callErr != nil {
							return callErr
						}
						if p, ok := v.(*object.Promise); ok {
							state, val, reason := p.Await()
							if state == object.Rejected {
								return fmt.Errorf("%s", ValueToErrorMessage(reason))
							}
							v = val
						}
						keep[i] = object.Truthy(v)
						return nil
					})
				}
				if err := g.Wait(); err != nil {
					result.Reject(object.String{Value: err.Error()})
					return
				}
				var out []object.Value
				for i, el := range elems {
					if keep[i] {
						out = append(out, el)
					}
				}
				if isVector {
					result.Resolve(&object.Vector{Elements: out})
				} else {
					result.Resolve(&object.List{Elements: out})
				}
			}()
			return result, nil
		},
	}
}

// builtinRetry implements `(retry op max-attempts delay-ms)` (spec.md
// §4.7) on top of go-retry's exponential backoff, matching the
// delay-ms×2^(attempt-1) schedule the spec names.
func builtinRetry(ctx *Context) *object.Builtin {
	return &object.Builtin{
		Name: "retry",
		Doc:  "(retry op max-attempts delay-ms) retries op with exponential backoff.",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) != 3 {
				return nil, lispyerrors.Arityf("retry", "3", len(args))
			}
			op := args[0]
			maxAttempts, err := requireInt(args[1], "retry", 2)
			if err != nil {
				return nil, err
			}
			delayMs, err := requireInt(args[2], "retry", 3)
			if err != nil {
				return nil, err
			}
			if maxAttempts < 1 {
				return nil, lispyerrors.New(lispyerrors.ValuePrefix, "retry: max-attempts must be at least 1")
			}

			p := object.NewPromise()
			go func() {
				backoff := retry.NewExponential(time.Duration(delayMs) * time.Millisecond)
				backoff = retry.WithMaxRetries(uint64(maxAttempts-1), backoff)

				var result object.Value
				var lastMsg string
				rerr := retry.Do(context.Background(), backoff, func(context.Context) error {
					v, callErr := Apply(op, nil, ctx)
					if callErr != nil {
						lastMsg = callErr.Error()
						return retry.RetryableError(callErr)
					}
					if pr, ok := v.(*object.Promise); ok {
						state, val, reason := pr.Await()
						if state == object.Rejected {
							lastMsg = ValueToErrorMessage(reason)
							return retry.RetryableError(fmt.Errorf("%s", lastMsg))
						}
						result = val
						return nil
					}
					result = v
					return nil
				})
				if rerr != nil {
					p.Reject(object.String{Value: fmt.Sprintf("RetryError: exhausted %d attempt(s), last error: %s", maxAttempts, lastMsg)})
					return
				}
				p.Resolve(result)
			}()
			return p, nil
		},
	}
}

// debounceState/throttleState hold the per-wrapper mutable state that
// builtinDebounce/builtinThrottle's returned closures capture; a fresh
// state is allocated per `(debounce ...)`/`(throttle ...)` call, matching
// each wrapper's independent quiet-period/rate-window contract.
type debounceState struct {
	mu    sync.Mutex
	timer *time.Timer
}

// builtinDebounce implements `(debounce fn delay-ms)` (spec.md §4.7).
func builtinDebounce(ctx *Context) *object.Builtin {
	return &object.Builtin{
		Name: "debounce",
		Doc:  "(debounce fn delay-ms) returns a wrapper invoking fn delay-ms after the last call.",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) != 2 {
				return nil, lispyerrors.Arityf("debounce", "2", len(args))
			}
			fn := args[0]
			delayMs, err := requireInt(args[1], "debounce", 2)
			if err != nil {
				return nil, err
			}
			state := &debounceState{}
			wrapper := &object.Builtin{
				Name: "debounced",
				Fn: func(callArgs []object.Value) (object.Value, error) {
					state.mu.Lock()
					defer state.mu.Unlock()
					if state.timer != nil {
						state.timer.Stop()
					}
					argsCopy := append([]object.Value{}, callArgs...)
					state.timer = time.AfterFunc(time.Duration(delayMs)*time.Millisecond, func() {
						Apply(fn, argsCopy, ctx)
					})
					return object.NilValue, nil
				},
			}
			return wrapper, nil
		},
	}
}

type throttleState struct {
	mu           sync.Mutex
	lastExec     time.Time
	windowActive bool
}

// builtinThrottle implements `(throttle fn rate-ms)` (spec.md §4.7).
func builtinThrottle(ctx *Context) *object.Builtin {
	return &object.Builtin{
		Name: "throttle",
		Doc:  "(throttle fn rate-ms) returns a wrapper executing fn at most once per rate-ms.",
		Fn: func(args []object.Value) (object.Value, error) {
			if len(args) != 2 {
				return nil, lispyerrors.Arityf("throttle", "2", len(args))
			}
			fn := args[0]
			rateMs, err := requireInt(args[1], "throttle", 2)
			if err != nil {
				return nil, err
			}
			state := &throttleState{}
			wrapper := &object.Builtin{
				Name: "throttled",
				Fn: func(callArgs []object.Value) (object.Value, error) {
					state.mu.Lock()
					now := time.Now()
					if rateMs == 0 || !state.windowActive || now.Sub(state.lastExec) >= time.Duration(rateMs)*time.Millisecond {
						state.windowActive = true
						state.lastExec = now
						state.mu.Unlock()
						return Apply(fn, callArgs, ctx)
					}
					state.mu.Unlock()
					return object.NilValue, nil
				},
			}
			return wrapper, nil
		},
	}
}
