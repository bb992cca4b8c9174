// Package object defines the tagged-union runtime value model of spec.md
// §3.1, grounded on the Object/ObjectType pair in
// pkg/parsley/evaluator/evaluator.go, extended with the collection,
// function, and promise variants LisPy's §3.1 requires.
package object

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind tags the concrete variant of a Value, mirroring Parsley's
// ObjectType string-enum.
type Kind string

const (
	NilKind      Kind = "NIL"
	BooleanKind  Kind = "BOOLEAN"
	IntegerKind  Kind = "INTEGER"
	FloatKind    Kind = "FLOAT"
	StringKind   Kind = "STRING"
	SymbolKind   Kind = "SYMBOL"
	ListKind     Kind = "LIST"
	VectorKind   Kind = "VECTOR"
	MapKind      Kind = "MAP"
	FunctionKind Kind = "FUNCTION"
	BuiltinKind  Kind = "BUILTIN"
	PromiseKind  Kind = "PROMISE"
)

// Value is implemented by every runtime value kind in spec.md §3.1.
type Value interface {
	Kind() Kind
	Inspect() string
}

// ---- Atoms ----

// Nil is the distinguished singleton nil value (spec.md §3.1).
type Nil struct{}

func (Nil) Kind() Kind      { return NilKind }
func (Nil) Inspect() string { return "nil" }

// NilValue is the single shared Nil instance.
var NilValue = Nil{}

// Boolean wraps true/false.
type Boolean struct{ Value bool }

func (b Boolean) Kind() Kind { return BooleanKind }
func (b Boolean) Inspect() string {
	return strconv.FormatBool(b.Value)
}

var (
	True  = Boolean{Value: true}
	False = Boolean{Value: false}
)

// BoolOf returns the shared True/False instance for v.
func BoolOf(v bool) Boolean {
	if v {
		return True
	}
	return False
}

// Integer is the integer variant of Number (spec.md §3.1).
type Integer struct{ Value int64 }

func (i Integer) Kind() Kind      { return IntegerKind }
func (i Integer) Inspect() string { return strconv.FormatInt(i.Value, 10) }

// Float is the floating-point variant of Number.
type Float struct{ Value float64 }

func (f Float) Kind() Kind { return FloatKind }
func (f Float) Inspect() string {
	s := strconv.FormatFloat(f.Value, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") { // keep float/int distinguishable when printed
		s += ".0"
	}
	return s
}

// String is immutable UTF-8 text.
type String struct{ Value string }

func (s String) Kind() Kind      { return StringKind }
func (s String) Inspect() string { return s.Value }

// Symbol is an interned identifier. A Symbol whose Name begins with ':' is
// a keyword-style symbol per spec.md §3.1 — it is still an ordinary Symbol,
// distinguished only by the lexical convention.
type Symbol struct{ Name string }

func (s Symbol) Kind() Kind      { return SymbolKind }
func (s Symbol) Inspect() string { return s.Name }

// IsKeyword reports whether s looks like a keyword-style symbol (":foo").
func (s Symbol) IsKeyword() bool {
	return strings.HasPrefix(s.Name, ":")
}

// ---- Collections ----

// List is the canonical call-syntax ordered sequence.
type List struct{ Elements []Value }

func (l *List) Kind() Kind      { return ListKind }
func (l *List) Inspect() string { return "(" + inspectSeq(l.Elements) + ")" }

// Vector is a literal `[...]` ordered sequence.
type Vector struct{ Elements []Value }

func (v *Vector) Kind() Kind      { return VectorKind }
func (v *Vector) Inspect() string { return "[" + inspectSeq(v.Elements) + "]" }

func inspectSeq(elems []Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.Inspect()
	}
	return strings.Join(parts, " ")
}

// Map is a mapping keyed by a value's hash key (spec.md §3.1). Insertion
// order is tracked separately so printing and iteration are deterministic,
// the way an ordinary Go map cannot guarantee.
type Map struct {
	Pairs map[string]MapPair
	Order []string
}

// MapPair is one key/value entry of a Map, keeping the original (unhashed)
// key value around for iteration/printing.
type MapPair struct {
	Key   Value
	Value Value
}

func NewMap() *Map {
	return &Map{Pairs: make(map[string]MapPair)}
}

func (m *Map) Kind() Kind { return MapKind }

func (m *Map) Inspect() string {
	var parts []string
	for _, k := range m.Order {
		p := m.Pairs[k]
		parts = append(parts, p.Key.Inspect(), p.Value.Inspect())
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Set inserts or overwrites key -> value, preserving first-insertion order.
func (m *Map) Set(key, value Value) {
	hk := HashKey(key)
	if _, exists := m.Pairs[hk]; !exists {
		m.Order = append(m.Order, hk)
	}
	m.Pairs[hk] = MapPair{Key: key, Value: value}
}

// Get looks up key, reporting whether it was present.
func (m *Map) Get(key Value) (Value, bool) {
	p, ok := m.Pairs[HashKey(key)]
	if !ok {
		return nil, false
	}
	return p.Value, true
}

// Delete removes key if present.
func (m *Map) Delete(key Value) {
	hk := HashKey(key)
	if _, ok := m.Pairs[hk]; !ok {
		return
	}
	delete(m.Pairs, hk)
	for i, k := range m.Order {
		if k == hk {
			m.Order = append(m.Order[:i], m.Order[i+1:]...)
			break
		}
	}
}

// Clone returns a shallow copy of m (new Map, same Value references),
// preserving the immutable-collection discipline of spec.md §3.1: builtins
// like assoc/dissoc/merge never mutate their argument in place.
func (m *Map) Clone() *Map {
	clone := NewMap()
	clone.Order = append([]string{}, m.Order...)
	for k, v := range m.Pairs {
		clone.Pairs[k] = v
	}
	return clone
}

// HashKey computes a stable string key for scalar values usable as map
// keys: Symbol, String, Integer, Float, Boolean, Nil. Collections are not
// hashable and panic, matching the "other hashable scalar" contract of
// spec.md §3.1 (callers should validate via IsHashable first).
func HashKey(v Value) string {
	switch v := v.(type) {
	case Symbol:
		return "sym:" + v.Name
	case String:
		return "str:" + v.Value
	case Integer:
		return "num:" + strconv.FormatFloat(float64(v.Value), 'f', -1, 64)
	case Float:
		return "num:" + strconv.FormatFloat(v.Value, 'f', -1, 64)
	case Boolean:
		return "bool:" + strconv.FormatBool(v.Value)
	case Nil:
		return "nil"
	default:
		panic(fmt.Sprintf("value of kind %s is not hashable", v.Kind()))
	}
}

// IsHashable reports whether v may be used as a Map key.
func IsHashable(v Value) bool {
	switch v.(type) {
	case Symbol, String, Integer, Float, Boolean, Nil:
		return true
	default:
		return false
	}
}

// SortedKinds is a helper for deterministic error messages enumerating
// kinds; nothing in the interpreter, including doc/print-doc, calls it.
func SortedKinds(ks []Kind) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = string(k)
	}
	sort.Strings(out)
	return out
}

// ---- Functions ----

// Function is a user-defined closure (spec.md §3.1). Env is a concrete
// *Environment (rather than a narrower interface) because the function
// value and the environment it captures are mutually dependent — a frame
// can hold a closure that was itself defined in that very frame (the
// discipline spec.md §9 discusses for recursive `define`) — so, following
// Parsley's own choice in pkg/parsley/evaluator/evaluator.go, Object and
// Environment live in the same package rather than behind an interface
// boundary that would just be restating this struct.
type Function struct {
	Params []string
	Body   []Value
	Env    *Environment
	Doc    string
}

func (f *Function) Kind() Kind      { return FunctionKind }
func (f *Function) Inspect() string { return "#<function>" }

// BuiltinFn is the uniform calling convention of spec.md §4.6.
type BuiltinFn func(args []Value) (Value, error)

// Builtin is an opaque, named callable tagged for documentation/error
// messages (spec.md §3.1).
type Builtin struct {
	Name string
	Doc  string
	Fn   BuiltinFn
}

func (b *Builtin) Kind() Kind      { return BuiltinKind }
func (b *Builtin) Inspect() string { return fmt.Sprintf("#<builtin %s>", b.Name) }

// Callable is implemented by both Function and Builtin so the evaluator's
// Apply routine can treat them uniformly.
type Callable interface {
	Value
	CallableName() string
}

func (f *Function) CallableName() string { return "fn" }
func (b *Builtin) CallableName() string  { return b.Name }
