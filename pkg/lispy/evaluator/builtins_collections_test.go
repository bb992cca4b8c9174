package evaluator

import "testing"

func TestCollections_ConjShapePreservesInsertionPoint(t *testing.T) {
	if got := evalSrc(t, "(conj [1 2] 3)").Inspect(); got != "[1 2 3]" {
		t.Errorf("conj on vector: got %q, want [1 2 3]", got)
	}
	if got := evalSrc(t, "(conj (list 1 2) 3)").Inspect(); got != "(3 1 2)" {
		t.Errorf("conj on list: got %q, want (3 1 2)", got)
	}
}

func TestCollections_AppendAlwaysGrowsAtEnd(t *testing.T) {
	if got := evalSrc(t, "(append (list 1 2) 3)").Inspect(); got != "(1 2 3)" {
		t.Errorf("got %q, want (1 2 3)", got)
	}
}

func TestCollections_FirstRestCarCdr(t *testing.T) {
	tests := map[string]string{
		"(first [1 2 3])": "1",
		"(rest [1 2 3])":  "[2 3]",
		"(car (list 1 2))": "1",
		"(cdr (list 1 2))": "(2)",
	}
	for src, want := range tests {
		if got := evalSrc(t, src).Inspect(); got != want {
			t.Errorf("eval(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestCollections_AssocDissocMerge(t *testing.T) {
	if got := evalSrc(t, `(assoc {:a 1} ':b 2)`).Inspect(); got != "{:a 1 :b 2}" {
		t.Errorf("assoc: got %q", got)
	}
	if got := evalSrc(t, `(dissoc {:a 1 :b 2} ':a)`).Inspect(); got != "{:b 2}" {
		t.Errorf("dissoc: got %q", got)
	}
	if got := evalSrc(t, `(merge {:a 1} {:b 2})`).Inspect(); got != "{:a 1 :b 2}" {
		t.Errorf("merge: got %q", got)
	}
}

func TestCollections_Get(t *testing.T) {
	if got := evalSrc(t, `(get {:a 1} ':a)`).Inspect(); got != "1" {
		t.Errorf("got %q, want 1", got)
	}
	if got := evalSrc(t, `(get {:a 1} ':missing "default")`).Inspect(); got != "default" {
		t.Errorf("got %q, want default", got)
	}
	if got := evalSrc(t, `(get [10 20] 1)`).Inspect(); got != "20" {
		t.Errorf("got %q, want 20", got)
	}
}

func TestCollections_ReverseSortRange(t *testing.T) {
	if got := evalSrc(t, "(reverse [1 2 3])").Inspect(); got != "[3 2 1]" {
		t.Errorf("reverse: got %q", got)
	}
	if got := evalSrc(t, "(sort [3 1 2])").Inspect(); got != "[1 2 3]" {
		t.Errorf("sort: got %q", got)
	}
	if got := evalSrc(t, "(sort [3 1 2] (fn [a b] (> a b)))").Inspect(); got != "[3 2 1]" {
		t.Errorf("sort with comparator: got %q", got)
	}
	if got := evalSrc(t, "(range 3)").Inspect(); got != "(0 1 2)" {
		t.Errorf("range: got %q", got)
	}
}

func TestCollections_MapFilterReduce(t *testing.T) {
	if got := evalSrc(t, "(map (fn [x] (* x x)) [1 2 3])").Inspect(); got != "[1 4 9]" {
		t.Errorf("map: got %q", got)
	}
	if got := evalSrc(t, "(filter (fn [x] (> x 1)) [1 2 3])").Inspect(); got != "[2 3]" {
		t.Errorf("filter: got %q", got)
	}
	if got := evalSrc(t, "(reduce + [1 2 3 4])").Inspect(); got != "10" {
		t.Errorf("reduce/2-arg: got %q", got)
	}
	if got := evalSrc(t, "(reduce + 100 [1 2 3])").Inspect(); got != "106" {
		t.Errorf("reduce/3-arg: got %q", got)
	}
}

func TestCollections_SomeAndEvery(t *testing.T) {
	if got := evalSrc(t, "(some (fn [x] (> x 2)) [1 2 3])").Inspect(); got != "true" {
		t.Errorf("some: got %q", got)
	}
	if got := evalSrc(t, "(every? (fn [x] (> x 0)) [1 2 3])").Inspect(); got != "true" {
		t.Errorf("every?: got %q", got)
	}
	if got := evalSrc(t, "(every? (fn [x] (> x 1)) [1 2 3])").Inspect(); got != "false" {
		t.Errorf("every?: got %q", got)
	}
}

func TestCollections_SortMixedTypesErrors(t *testing.T) {
	if err := evalErr(t, `(sort [1 "a"])`); err == nil {
		t.Fatal("expected an error sorting mixed types without a comparator")
	}
}

func TestCollections_ReduceEmptyNoSeedErrors(t *testing.T) {
	if err := evalErr(t, "(reduce + [])"); err == nil {
		t.Fatal("expected an error reducing an empty collection with no seed")
	}
}
