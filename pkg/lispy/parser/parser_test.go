package parser

import (
	"testing"

	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

func TestParseAtoms(t *testing.T) {
	forms, err := ParseProgram(`42 3.14 "hi" true false nil sym`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(forms) != 7 {
		t.Fatalf("expected 7 forms, got %d", len(forms))
	}
	if i, ok := forms[0].(object.Integer); !ok || i.Value != 42 {
		t.Errorf("form 0: expected Integer(42), got %#v", forms[0])
	}
	if f, ok := forms[1].(object.Float); !ok || f.Value != 3.14 {
		t.Errorf("form 1: expected Float(3.14), got %#v", forms[1])
	}
}

func TestParseListAndVectorAndMap(t *testing.T) {
	forms, err := ParseProgram(`(+ 1 2) [1 2 3] {:a 1 :b 2}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lst, ok := forms[0].(*object.List)
	if !ok || len(lst.Elements) != 3 {
		t.Fatalf("expected a 3-element list, got %#v", forms[0])
	}
	vec, ok := forms[1].(*object.Vector)
	if !ok || len(vec.Elements) != 3 {
		t.Fatalf("expected a 3-element vector, got %#v", forms[1])
	}
	m, ok := forms[2].(*object.Map)
	if !ok || len(m.Order) != 2 {
		t.Fatalf("expected a 2-pair map, got %#v", forms[2])
	}
}

func TestQuoteIsReaderAbbreviation(t *testing.T) {
	forms, err := ParseProgram(`'(1 2)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lst, ok := forms[0].(*object.List)
	if !ok || len(lst.Elements) != 2 {
		t.Fatalf("expected (quote (1 2)), got %#v", forms[0])
	}
	sym, ok := lst.Elements[0].(object.Symbol)
	if !ok || sym.Name != "quote" {
		t.Fatalf("expected leading quote symbol, got %#v", lst.Elements[0])
	}
}

func TestUnbalancedDelimitersAreDiagnosable(t *testing.T) {
	cases := []string{"(1 2", "[1 2", "{1 2", "(1 2))"}
	for _, c := range cases {
		if _, err := ParseProgram(c); err == nil {
			t.Errorf("expected a parse error for %q", c)
		}
	}
}

func TestOddArityMapIsError(t *testing.T) {
	if _, err := ParseProgram(`{:a 1 :b}`); err == nil {
		t.Fatalf("expected an odd-arity map literal error")
	}
}

func TestEmptyListIsItsOwnForm(t *testing.T) {
	forms, err := ParseProgram(`()`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lst, ok := forms[0].(*object.List)
	if !ok || len(lst.Elements) != 0 {
		t.Fatalf("expected empty list, got %#v", forms[0])
	}
}
