package evaluator

import (
	"sort"
	"strings"

	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// collectionBuiltins covers constructors, inspection, and transformation
// over List/Vector/Map, closing over ctx where a builtin invokes a
// user-supplied function (map, filter, reduce, some, every?, sort).
func collectionBuiltins(ctx *Context) map[string]*object.Builtin {
	return map[string]*object.Builtin{
		"list":     {Name: "list", Fn: func(args []object.Value) (object.Value, error) { return &object.List{Elements: args}, nil }},
		"vector":   {Name: "vector", Fn: func(args []object.Value) (object.Value, error) { return &object.Vector{Elements: args}, nil }},
		"hash-map": builtinHashMap(),
		"count":    builtinCount(),
		"empty?":   builtinEmpty(),
		"first":    builtinFirst("first"),
		"car":      builtinFirst("car"),
		"rest":     builtinRest("rest"),
		"cdr":      builtinRest("cdr"),
		"keys":     builtinMapAccessor("keys", true),
		"vals":     builtinMapAccessor("vals", false),
		"cons":     builtinCons(),
		"conj":     builtinConj(),
		"assoc":    builtinAssoc(),
		"dissoc":   builtinDissoc(),
		"merge":    builtinMerge(),
		"get":      builtinGet(),
		"reverse":  builtinReverse(),
		"sort":     builtinSort(ctx),
		"range":    builtinRange(),
		"append":   builtinAppend(),
		"concat":   builtinConcat(),
		"split":    builtinSplit(),
		"join":     builtinJoin(),
		"map":      builtinMap(ctx),
		"filter":   builtinFilter(ctx),
		"reduce":   builtinReduce(ctx),
		"some":     builtinSome(ctx),
		"every?":   builtinEvery(ctx),
	}
}

func builtinHashMap() *object.Builtin {
	return &object.Builtin{Name: "hash-map", Fn: func(args []object.Value) (object.Value, error) {
		if len(args)%2 != 0 {
			return nil, lispyerrors.New(lispyerrors.Arity, "hash-map expects an even number of arguments, got %d", len(args))
		}
		m := object.NewMap()
		for i := 0; i < len(args); i += 2 {
			if !object.IsHashable(args[i]) {
				return nil, lispyerrors.Typef("hash-map", i+1, "a hashable value", string(args[i].Kind()))
			}
			m.Set(args[i], args[i+1])
		}
		return m, nil
	}}
}

func builtinCount() *object.Builtin {
	return &object.Builtin{Name: "count", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("count", "1", len(args))
		}
		switch v := args[0].(type) {
		case *object.List:
			return object.Integer{Value: int64(len(v.Elements))}, nil
		case *object.Vector:
			return object.Integer{Value: int64(len(v.Elements))}, nil
		case *object.Map:
			return object.Integer{Value: int64(len(v.Order))}, nil
		case object.String:
			return object.Integer{Value: int64(len([]rune(v.Value)))}, nil
		default:
			return nil, lispyerrors.Typef("count", 1, "a list, vector, map, or string", string(v.Kind()))
		}
	}}
}

func builtinEmpty() *object.Builtin {
	return &object.Builtin{Name: "empty?", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("empty?", "1", len(args))
		}
		n, err := lengthOf(args[0], "empty?")
		if err != nil {
			return nil, err
		}
		return object.BoolOf(n == 0), nil
	}}
}

func lengthOf(v object.Value, fn string) (int, error) {
	switch v := v.(type) {
	case *object.List:
		return len(v.Elements), nil
	case *object.Vector:
		return len(v.Elements), nil
	case *object.Map:
		return len(v.Order), nil
	case object.String:
		return len([]rune(v.Value)), nil
	default:
		return 0, lispyerrors.Typef(fn, 1, "a list, vector, map, or string", string(v.Kind()))
	}
}

func elementsOf(v object.Value, fn string) ([]object.Value, error) {
	switch v := v.(type) {
	case *object.List:
		return v.Elements, nil
	case *object.Vector:
		return v.Elements, nil
	default:
		return nil, lispyerrors.Typef(fn, 1, "a list or vector", string(v.Kind()))
	}
}

func sameShape(v object.Value, elems []object.Value) object.Value {
	if _, ok := v.(*object.Vector); ok {
		return &object.Vector{Elements: elems}
	}
	return &object.List{Elements: elems}
}

func builtinFirst(name string) *object.Builtin {
	return &object.Builtin{Name: name, Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf(name, "1", len(args))
		}
		elems, err := elementsOf(args[0], name)
		if err != nil {
			return nil, err
		}
		if len(elems) == 0 {
			return object.NilValue, nil
		}
		return elems[0], nil
	}}
}

func builtinRest(name string) *object.Builtin {
	return &object.Builtin{Name: name, Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf(name, "1", len(args))
		}
		elems, err := elementsOf(args[0], name)
		if err != nil {
			return nil, err
		}
		if len(elems) <= 1 {
			return sameShape(args[0], nil), nil
		}
		return sameShape(args[0], append([]object.Value{}, elems[1:]...)), nil
	}}
}

func builtinMapAccessor(name string, wantKeys bool) *object.Builtin {
	return &object.Builtin{Name: name, Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf(name, "1", len(args))
		}
		m, ok := args[0].(*object.Map)
		if !ok {
			return nil, lispyerrors.Typef(name, 1, "a map", string(args[0].Kind()))
		}
		var out []object.Value
		for _, hk := range m.Order {
			p := m.Pairs[hk]
			if wantKeys {
				out = append(out, p.Key)
			} else {
				out = append(out, p.Value)
			}
		}
		return &object.List{Elements: out}, nil
	}}
}

func builtinCons() *object.Builtin {
	return &object.Builtin{Name: "cons", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, lispyerrors.Arityf("cons", "2", len(args))
		}
		elems, err := elementsOf(args[1], "cons")
		if err != nil {
			return nil, err
		}
		out := append([]object.Value{args[0]}, elems...)
		return &object.List{Elements: out}, nil
	}}
}

// builtinConj implements conj with Clojure's per-shape insertion point: a
// vector grows at the end, a list grows at the front.
func builtinConj() *object.Builtin {
	return &object.Builtin{Name: "conj", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) < 2 {
			return nil, lispyerrors.Arityf("conj", "at least 2", len(args))
		}
		elems, err := elementsOf(args[0], "conj")
		if err != nil {
			return nil, err
		}
		if _, ok := args[0].(*object.Vector); ok {
			out := append(append([]object.Value{}, elems...), args[1:]...)
			return &object.Vector{Elements: out}, nil
		}
		out := append([]object.Value{}, args[1:]...)
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
		out = append(out, elems...)
		return &object.List{Elements: out}, nil
	}}
}

func builtinAssoc() *object.Builtin {
	return &object.Builtin{Name: "assoc", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) < 3 || len(args)%2 != 1 {
			return nil, lispyerrors.New(lispyerrors.Arity, "assoc expects a map and an even number of key/value arguments")
		}
		m, ok := args[0].(*object.Map)
		if !ok {
			return nil, lispyerrors.Typef("assoc", 1, "a map", string(args[0].Kind()))
		}
		out := m.Clone()
		for i := 1; i < len(args); i += 2 {
			if !object.IsHashable(args[i]) {
				return nil, lispyerrors.Typef("assoc", i+1, "a hashable value", string(args[i].Kind()))
			}
			out.Set(args[i], args[i+1])
		}
		return out, nil
	}}
}

func builtinDissoc() *object.Builtin {
	return &object.Builtin{Name: "dissoc", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) < 1 {
			return nil, lispyerrors.Arityf("dissoc", "at least 1", len(args))
		}
		m, ok := args[0].(*object.Map)
		if !ok {
			return nil, lispyerrors.Typef("dissoc", 1, "a map", string(args[0].Kind()))
		}
		out := m.Clone()
		for _, k := range args[1:] {
			out.Delete(k)
		}
		return out, nil
	}}
}

func builtinMerge() *object.Builtin {
	return &object.Builtin{Name: "merge", Fn: func(args []object.Value) (object.Value, error) {
		out := object.NewMap()
		for i, a := range args {
			m, ok := a.(*object.Map)
			if !ok {
				return nil, lispyerrors.Typef("merge", i+1, "a map", string(a.Kind()))
			}
			for _, hk := range m.Order {
				p := m.Pairs[hk]
				out.Set(p.Key, p.Value)
			}
		}
		return out, nil
	}}
}

func builtinGet() *object.Builtin {
	return &object.Builtin{Name: "get", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) < 2 || len(args) > 3 {
			return nil, lispyerrors.Arityf("get", "2 or 3", len(args))
		}
		def := object.Value(object.NilValue)
		if len(args) == 3 {
			def = args[2]
		}
		switch coll := args[0].(type) {
		case *object.Map:
			if !object.IsHashable(args[1]) {
				return def, nil
			}
			if v, ok := coll.Get(args[1]); ok {
				return v, nil
			}
			return def, nil
		case *object.Vector:
			idx, ok := args[1].(object.Integer)
			if !ok || idx.Value < 0 || int(idx.Value) >= len(coll.Elements) {
				return def, nil
			}
			return coll.Elements[idx.Value], nil
		case *object.List:
			idx, ok := args[1].(object.Integer)
			if !ok || idx.Value < 0 || int(idx.Value) >= len(coll.Elements) {
				return def, nil
			}
			return coll.Elements[idx.Value], nil
		default:
			return nil, lispyerrors.Typef("get", 1, "a map, vector, or list", string(args[0].Kind()))
		}
	}}
}

func builtinReverse() *object.Builtin {
	return &object.Builtin{Name: "reverse", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("reverse", "1", len(args))
		}
		elems, err := elementsOf(args[0], "reverse")
		if err != nil {
			return nil, err
		}
		out := make([]object.Value, len(elems))
		for i, e := range elems {
			out[len(elems)-1-i] = e
		}
		return sameShape(args[0], out), nil
	}}
}

// builtinSort implements `(sort coll)` using natural ordering over numbers
// or strings, and `(sort coll comparator)` where comparator is a 2-arg
// function returning truthy when its first argument should sort before its
// second (spec.md §4.6's generic "collection transformations").
func builtinSort(ctx *Context) *object.Builtin {
	return &object.Builtin{Name: "sort", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) < 1 || len(args) > 2 {
			return nil, lispyerrors.Arityf("sort", "1 or 2", len(args))
		}
		elems, err := elementsOf(args[0], "sort")
		if err != nil {
			return nil, err
		}
		out := append([]object.Value{}, elems...)

		if len(args) == 2 {
			cmp := args[1]
			var sortErr error
			sort.SliceStable(out, func(i, j int) bool {
				if sortErr != nil {
					return false
				}
				v, err := Apply(cmp, []object.Value{out[i], out[j]}, ctx)
				if err != nil {
					sortErr = err
					return false
				}
				return object.Truthy(v)
			})
			if sortErr != nil {
				return nil, sortErr
			}
			return sameShape(args[0], out), nil
		}

		var sortErr error
		sort.SliceStable(out, func(i, j int) bool {
			less, err := naturalLess(out[i], out[j])
			if err != nil {
				sortErr = err
			}
			return less
		})
		if sortErr != nil {
			return nil, sortErr
		}
		return sameShape(args[0], out), nil
	}}
}

func naturalLess(a, b object.Value) (bool, error) {
	if af, aok := object.AsFloat(a); aok {
		bf, bok := object.AsFloat(b)
		if !bok {
			return false, lispyerrors.New(lispyerrors.Type, "sort: cannot compare a number with %s", b.Kind())
		}
		return af < bf, nil
	}
	if as, aok := a.(object.String); aok {
		bs, bok := b.(object.String)
		if !bok {
			return false, lispyerrors.New(lispyerrors.Type, "sort: cannot compare a string with %s", b.Kind())
		}
		return as.Value < bs.Value, nil
	}
	return false, lispyerrors.New(lispyerrors.Type, "sort: no natural ordering for %s; supply a comparator", a.Kind())
}

func builtinRange() *object.Builtin {
	return &object.Builtin{Name: "range", Fn: func(args []object.Value) (object.Value, error) {
		var start, end, step int64 = 0, 0, 1
		switch len(args) {
		case 1:
			n, err := requireInt(args[0], "range", 1)
			if err != nil {
				return nil, err
			}
			end = n
		case 2:
			a, err := requireInt(args[0], "range", 1)
			if err != nil {
				return nil, err
			}
			b, err := requireInt(args[1], "range", 2)
			if err != nil {
				return nil, err
			}
			start, end = a, b
		case 3:
			a, err := requireInt(args[0], "range", 1)
			if err != nil {
				return nil, err
			}
			b, err := requireInt(args[1], "range", 2)
			if err != nil {
				return nil, err
			}
			s, err := requireInt(args[2], "range", 3)
			if err != nil {
				return nil, err
			}
			start, end, step = a, b, s
		default:
			return nil, lispyerrors.Arityf("range", "1 to 3", len(args))
		}
		if step == 0 {
			return nil, lispyerrors.New(lispyerrors.ValuePrefix, "range: step must not be zero")
		}
		var out []object.Value
		if step > 0 {
			for i := start; i < end; i += step {
				out = append(out, object.Integer{Value: i})
			}
		} else {
			for i := start; i > end; i += step {
				out = append(out, object.Integer{Value: i})
			}
		}
		return &object.List{Elements: out}, nil
	}}
}

// builtinAppend always adds at the end, regardless of collection shape,
// distinct from conj's per-shape insertion point.
func builtinAppend() *object.Builtin {
	return &object.Builtin{Name: "append", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) < 1 {
			return nil, lispyerrors.Arityf("append", "at least 1", len(args))
		}
		elems, err := elementsOf(args[0], "append")
		if err != nil {
			return nil, err
		}
		out := append(append([]object.Value{}, elems...), args[1:]...)
		return sameShape(args[0], out), nil
	}}
}

func builtinConcat() *object.Builtin {
	return &object.Builtin{Name: "concat", Fn: func(args []object.Value) (object.Value, error) {
		var out []object.Value
		for i, a := range args {
			elems, err := elementsOf(a, "concat")
			if err != nil {
				return nil, lispyerrors.Typef("concat", i+1, "a list or vector", string(a.Kind()))
			}
			out = append(out, elems...)
		}
		if len(args) > 0 {
			return sameShape(args[0], out), nil
		}
		return &object.List{Elements: out}, nil
	}}
}

func builtinSplit() *object.Builtin {
	return &object.Builtin{Name: "split", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, lispyerrors.Arityf("split", "2", len(args))
		}
		s, ok := args[0].(object.String)
		if !ok {
			return nil, lispyerrors.Typef("split", 1, "a string", string(args[0].Kind()))
		}
		sep, ok := args[1].(object.String)
		if !ok {
			return nil, lispyerrors.Typef("split", 2, "a string", string(args[1].Kind()))
		}
		parts := strings.Split(s.Value, sep.Value)
		out := make([]object.Value, len(parts))
		for i, p := range parts {
			out[i] = object.String{Value: p}
		}
		return &object.List{Elements: out}, nil
	}}
}

func builtinJoin() *object.Builtin {
	return &object.Builtin{Name: "join", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, lispyerrors.Arityf("join", "2", len(args))
		}
		elems, err := elementsOf(args[0], "join")
		if err != nil {
			return nil, err
		}
		sep, ok := args[1].(object.String)
		if !ok {
			return nil, lispyerrors.Typef("join", 2, "a string", string(args[1].Kind()))
		}
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = ValueToErrorMessage(e)
		}
		return object.String{Value: strings.Join(parts, sep.Value)}, nil
	}}
}

func builtinMap(ctx *Context) *object.Builtin {
	return &object.Builtin{Name: "map", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, lispyerrors.Arityf("map", "2", len(args))
		}
		fn := args[0]
		elems, err := elementsOf(args[1], "map")
		if err != nil {
			return nil, err
		}
		out := make([]object.Value, len(elems))
		for i, e := range elems {
			v, err := Apply(fn, []object.Value{e}, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return sameShape(args[1], out), nil
	}}
}

func builtinFilter(ctx *Context) *object.Builtin {
	return &object.Builtin{Name: "filter", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, lispyerrors.Arityf("filter", "2", len(args))
		}
		fn := args[0]
		elems, err := elementsOf(args[1], "filter")
		if err != nil {
			return nil, err
		}
		var out []object.Value
		for _, e := range elems {
			v, err := Apply(fn, []object.Value{e}, ctx)
			if err != nil {
				return nil, err
			}
			if object.Truthy(v) {
				out = append(out, e)
			}
		}
		return sameShape(args[1], out), nil
	}}
}

func builtinReduce(ctx *Context) *object.Builtin {
	return &object.Builtin{Name: "reduce", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 2 && len(args) != 3 {
			return nil, lispyerrors.Arityf("reduce", "2 or 3", len(args))
		}
		fn := args[0]
		var elems []object.Value
		var acc object.Value
		var err error
		if len(args) == 3 {
			acc = args[1]
			elems, err = elementsOf(args[2], "reduce")
		} else {
			elems, err = elementsOf(args[1], "reduce")
		}
		if err != nil {
			return nil, err
		}
		i := 0
		if len(args) == 2 {
			if len(elems) == 0 {
				return nil, lispyerrors.New(lispyerrors.ValuePrefix, "reduce: cannot reduce an empty collection without an initial value")
			}
			acc = elems[0]
			i = 1
		}
		for ; i < len(elems); i++ {
			v, err := Apply(fn, []object.Value{acc, elems[i]}, ctx)
			if err != nil {
				return nil, err
			}
			acc = v
		}
		return acc, nil
	}}
}

func builtinSome(ctx *Context) *object.Builtin {
	return &object.Builtin{Name: "some", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, lispyerrors.Arityf("some", "2", len(args))
		}
		fn := args[0]
		elems, err := elementsOf(args[1], "some")
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			v, err := Apply(fn, []object.Value{e}, ctx)
			if err != nil {
				return nil, err
			}
			if object.Truthy(v) {
				return v, nil
			}
		}
		return object.NilValue, nil
	}}
}

func builtinEvery(ctx *Context) *object.Builtin {
	return &object.Builtin{Name: "every?", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, lispyerrors.Arityf("every?", "2", len(args))
		}
		fn := args[0]
		elems, err := elementsOf(args[1], "every?")
		if err != nil {
			return nil, err
		}
		for _, e := range elems {
			v, err := Apply(fn, []object.Value{e}, ctx)
			if err != nil {
				return nil, err
			}
			if !object.Truthy(v) {
				return object.False, nil
			}
		}
		return object.True, nil
	}}
}
