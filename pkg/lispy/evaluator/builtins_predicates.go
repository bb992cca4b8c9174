package evaluator

import (
	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// predicateBuiltins covers the type-predicate family of spec.md §4.6.
func predicateBuiltins() map[string]*object.Builtin {
	return map[string]*object.Builtin{
		"is-number?":   typePredicate("is-number?", func(v object.Value) bool { return object.IsNumber(v) }),
		"is-string?":   typePredicate("is-string?", func(v object.Value) bool { _, ok := v.(object.String); return ok }),
		"is-list?":     typePredicate("is-list?", func(v object.Value) bool { _, ok := v.(*object.List); return ok }),
		"is-vector?":   typePredicate("is-vector?", func(v object.Value) bool { _, ok := v.(*object.Vector); return ok }),
		"is-map?":      typePredicate("is-map?", func(v object.Value) bool { _, ok := v.(*object.Map); return ok }),
		"is-boolean?":  typePredicate("is-boolean?", func(v object.Value) bool { _, ok := v.(object.Boolean); return ok }),
		"is-nil?":      typePredicate("is-nil?", func(v object.Value) bool { _, ok := v.(object.Nil); return ok }),
		"is-function?": typePredicate("is-function?", isCallable),
	}
}

func isCallable(v object.Value) bool {
	switch v.(type) {
	case *object.Function, *object.Builtin:
		return true
	default:
		return false
	}
}

func typePredicate(name string, check func(object.Value) bool) *object.Builtin {
	return &object.Builtin{Name: name, Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf(name, "1", len(args))
		}
		return object.BoolOf(check(args[0])), nil
	}}
}
