package evaluator

import (
	"math"

	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// numericBuiltins covers arithmetic and comparison (spec.md §4.6). Integer
// arithmetic stays Integer unless a Float operand or division forces a
// Float result, mirroring the numeric-tower promotion rule of spec.md §3.1.
func numericBuiltins() map[string]*object.Builtin {
	return map[string]*object.Builtin{
		"+":       builtinFold("+", 0, func(a, b float64) float64 { return a + b }),
		"*":       builtinFold("*", 1, func(a, b float64) float64 { return a * b }),
		"-":       builtinSub(),
		"/":       builtinDiv(),
		"%":       builtinMod(),
		"abs":     builtinAbs(),
		"min":     builtinMinMax("min", func(a, b float64) bool { return a < b }),
		"max":     builtinMinMax("max", func(a, b float64) bool { return a > b }),
		"=":       builtinNumericEq(),
		"<":       builtinCompare("<", func(a, b float64) bool { return a < b }),
		">":       builtinCompare(">", func(a, b float64) bool { return a > b }),
		"<=":      builtinCompare("<=", func(a, b float64) bool { return a <= b }),
		">=":      builtinCompare(">=", func(a, b float64) bool { return a >= b }),
		"equal?":  builtinEqual(),
		"not":     builtinNot(),
	}
}

func requireNumber(v object.Value, fn string, pos int) (float64, error) {
	f, ok := object.AsFloat(v)
	if !ok {
		return 0, lispyerrors.Typef(fn, pos, "a number", string(v.Kind()))
	}
	return f, nil
}

func allIntegers(args []object.Value) bool {
	for _, a := range args {
		if _, ok := a.(object.Integer); !ok {
			return false
		}
	}
	return true
}

func numericResult(args []object.Value, f float64) object.Value {
	if allIntegers(args) {
		return object.Integer{Value: int64(f)}
	}
	return object.Float{Value: f}
}

func builtinFold(name string, identity float64, op func(a, b float64) float64) *object.Builtin {
	return &object.Builtin{Name: name, Fn: func(args []object.Value) (object.Value, error) {
		acc := identity
		for i, a := range args {
			f, err := requireNumber(a, name, i+1)
			if err != nil {
				return nil, err
			}
			acc = op(acc, f)
		}
		return numericResult(args, acc), nil
	}}
}

func builtinSub() *object.Builtin {
	return &object.Builtin{Name: "-", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return nil, lispyerrors.Arityf("-", "at least 1", 0)
		}
		first, err := requireNumber(args[0], "-", 1)
		if err != nil {
			return nil, err
		}
		if len(args) == 1 {
			return numericResult(args, -first), nil
		}
		acc := first
		for i, a := range args[1:] {
			f, err := requireNumber(a, "-", i+2)
			if err != nil {
				return nil, err
			}
			acc -= f
		}
		return numericResult(args, acc), nil
	}}
}

func builtinDiv() *object.Builtin {
	return &object.Builtin{Name: "/", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) < 2 {
			return nil, lispyerrors.Arityf("/", "at least 2", len(args))
		}
		acc, err := requireNumber(args[0], "/", 1)
		if err != nil {
			return nil, err
		}
		for i, a := range args[1:] {
			f, err := requireNumber(a, "/", i+2)
			if err != nil {
				return nil, err
			}
			if f == 0 {
				return nil, lispyerrors.New(lispyerrors.ZeroDivision, "Division by zero")
			}
			acc /= f
		}
		return object.Float{Value: acc}, nil
	}}
}

// flooredMod applies Python's floor-division modulo rule: the result
// always takes the sign of the divisor, e.g. -10 % 3 is 2, not -1.
func flooredMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func builtinMod() *object.Builtin {
	return &object.Builtin{Name: "%", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) < 2 {
			return nil, lispyerrors.Arityf("%", "at least 2", len(args))
		}
		acc, err := requireNumber(args[0], "%", 1)
		if err != nil {
			return nil, err
		}
		for i, a := range args[1:] {
			f, err := requireNumber(a, "%", i+2)
			if err != nil {
				return nil, err
			}
			if f == 0 {
				return nil, lispyerrors.New(lispyerrors.ZeroDivision, "Division by zero")
			}
			acc = flooredMod(acc, f)
		}
		return numericResult(args, acc), nil
	}}
}

func builtinAbs() *object.Builtin {
	return &object.Builtin{Name: "abs", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("abs", "1", len(args))
		}
		f, err := requireNumber(args[0], "abs", 1)
		if err != nil {
			return nil, err
		}
		return numericResult(args, math.Abs(f)), nil
	}}
}

func builtinMinMax(name string, better func(a, b float64) bool) *object.Builtin {
	return &object.Builtin{Name: name, Fn: func(args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return nil, lispyerrors.Arityf(name, "at least 1", 0)
		}
		best, err := requireNumber(args[0], name, 1)
		if err != nil {
			return nil, err
		}
		bestVal := args[0]
		for i, a := range args[1:] {
			f, err := requireNumber(a, name, i+2)
			if err != nil {
				return nil, err
			}
			if better(f, best) {
				best = f
				bestVal = a
			}
		}
		return bestVal, nil
	}}
}

func builtinNumericEq() *object.Builtin {
	return &object.Builtin{Name: "=", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) < 2 {
			return nil, lispyerrors.Arityf("=", "at least 2", len(args))
		}
		for i := 1; i < len(args); i++ {
			if !object.NumericEqual(args[0], args[i]) {
				return object.False, nil
			}
		}
		return object.True, nil
	}}
}

func builtinCompare(name string, ok func(a, b float64) bool) *object.Builtin {
	return &object.Builtin{Name: name, Fn: func(args []object.Value) (object.Value, error) {
		if len(args) < 2 {
			return nil, lispyerrors.Arityf(name, "at least 2", len(args))
		}
		prev, err := requireNumber(args[0], name, 1)
		if err != nil {
			return nil, err
		}
		for i := 1; i < len(args); i++ {
			f, err := requireNumber(args[i], name, i+1)
			if err != nil {
				return nil, err
			}
			if !ok(prev, f) {
				return object.False, nil
			}
			prev = f
		}
		return object.True, nil
	}}
}

func builtinEqual() *object.Builtin {
	return &object.Builtin{Name: "equal?", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, lispyerrors.Arityf("equal?", "2", len(args))
		}
		return object.BoolOf(object.DeepEqual(args[0], args[1])), nil
	}}
}

func builtinNot() *object.Builtin {
	return &object.Builtin{Name: "not", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("not", "1", len(args))
		}
		return object.BoolOf(!object.Truthy(args[0])), nil
	}}
}
