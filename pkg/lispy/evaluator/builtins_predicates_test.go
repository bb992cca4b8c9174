package evaluator

import "testing"

func TestPredicates_TypeChecks(t *testing.T) {
	tests := map[string]string{
		`(is-number? 1)`:      "true",
		`(is-number? "1")`:    "false",
		`(is-string? "hi")`:   "true",
		`(is-list? (list 1))`: "true",
		`(is-list? [1])`:      "false",
		`(is-vector? [1])`:    "true",
		`(is-map? {:a 1})`:    "true",
		`(is-boolean? true)`:  "true",
		`(is-nil? nil)`:       "true",
		`(is-nil? false)`:     "false",
		`(is-function? (fn [] 1))`: "true",
		`(is-function? 1)`:    "false",
	}
	for src, want := range tests {
		if got := evalSrc(t, src).Inspect(); got != want {
			t.Errorf("eval(%q) = %q, want %q", src, got, want)
		}
	}
}

func TestPredicates_WrongArityErrors(t *testing.T) {
	if err := evalErr(t, `(is-number? 1 2)`); err == nil {
		t.Fatal("expected an arity error")
	}
}

func TestConversions_ToStr(t *testing.T) {
	if got := evalSrc(t, `(to-str 42)`).Inspect(); got != "42" {
		t.Errorf("got %q, want 42", got)
	}
}

func TestConversions_ToIntFromStringAndFloat(t *testing.T) {
	if got := evalSrc(t, `(to-int "7")`).Inspect(); got != "7" {
		t.Errorf("got %q, want 7", got)
	}
	if got := evalSrc(t, `(to-int 7.9)`).Inspect(); got != "7" {
		t.Errorf("got %q, want 7 (truncated)", got)
	}
}

func TestConversions_ToIntInvalidStringErrors(t *testing.T) {
	if err := evalErr(t, `(to-int "not-a-number")`); err == nil {
		t.Fatal("expected an error converting a non-numeric string")
	}
}

func TestConversions_ToFloat(t *testing.T) {
	if got := evalSrc(t, `(to-float "3.5")`).Inspect(); got != "3.5" {
		t.Errorf("got %q, want 3.5", got)
	}
	if got := evalSrc(t, `(to-float 3)`).Inspect(); got != "3.0" {
		t.Errorf("got %q, want 3.0", got)
	}
}

func TestConversions_ToBool(t *testing.T) {
	if got := evalSrc(t, `(to-bool nil)`).Inspect(); got != "false" {
		t.Errorf("got %q, want false", got)
	}
	if got := evalSrc(t, `(to-bool 0)`).Inspect(); got != "true" {
		t.Errorf("got %q, want true (0 is truthy, only nil/false are falsy)", got)
	}
}
