package evaluator

import (
	"strconv"

	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// conversionBuiltins covers the string-conversion family of spec.md §4.6.
func conversionBuiltins() map[string]*object.Builtin {
	return map[string]*object.Builtin{
		"to-str":   builtinToStr(),
		"to-int":   builtinToInt(),
		"to-float": builtinToFloat(),
		"to-bool":  builtinToBool(),
	}
}

func builtinToStr() *object.Builtin {
	return &object.Builtin{Name: "to-str", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("to-str", "1", len(args))
		}
		return object.String{Value: ValueToErrorMessage(args[0])}, nil
	}}
}

func builtinToInt() *object.Builtin {
	return &object.Builtin{Name: "to-int", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("to-int", "1", len(args))
		}
		switch v := args[0].(type) {
		case object.Integer:
			return v, nil
		case object.Float:
			return object.Integer{Value: int64(v.Value)}, nil
		case object.String:
			n, err := strconv.ParseInt(v.Value, 10, 64)
			if err != nil {
				return nil, lispyerrors.New(lispyerrors.ValuePrefix, "to-int: %q is not a valid integer", v.Value)
			}
			return object.Integer{Value: n}, nil
		default:
			return nil, lispyerrors.Typef("to-int", 1, "a number or string", string(v.Kind()))
		}
	}}
}

func builtinToFloat() *object.Builtin {
	return &object.Builtin{Name: "to-float", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("to-float", "1", len(args))
		}
		switch v := args[0].(type) {
		case object.Integer:
			return object.Float{Value: float64(v.Value)}, nil
		case object.Float:
			return v, nil
		case object.String:
			f, err := strconv.ParseFloat(v.Value, 64)
			if err != nil {
				return nil, lispyerrors.New(lispyerrors.ValuePrefix, "to-float: %q is not a valid float", v.Value)
			}
			return object.Float{Value: f}, nil
		default:
			return nil, lispyerrors.Typef("to-float", 1, "a number or string", string(v.Kind()))
		}
	}}
}

func builtinToBool() *object.Builtin {
	return &object.Builtin{Name: "to-bool", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("to-bool", "1", len(args))
		}
		return object.BoolOf(object.Truthy(args[0])), nil
	}}
}
