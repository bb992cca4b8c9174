package evaluator

import (
	"strings"
	"testing"
)

func TestArith_IntegerStaysIntegerUnlessFloatInvolved(t *testing.T) {
	if got := evalSrc(t, "(+ 1 2)").Inspect(); got != "3" {
		t.Errorf("got %q, want 3 (integer)", got)
	}
	if got := evalSrc(t, "(+ 1 2.0)").Inspect(); got != "3.0" {
		t.Errorf("got %q, want 3.0 (float promoted by a float operand)", got)
	}
}

func TestArith_DivisionAlwaysReturnsFloat(t *testing.T) {
	if got := evalSrc(t, "(/ 4 2)").Inspect(); got != "2.0" {
		t.Errorf("got %q, want 2.0 (division always promotes to float)", got)
	}
}

func TestArith_ModByZeroErrors(t *testing.T) {
	err := evalErr(t, "(% 1 0)")
	if err == nil {
		t.Fatal("expected a ZeroDivisionError")
	}
	if got := err.Error(); !strings.Contains(got, "Division by zero") {
		t.Errorf("got %q, want it to contain %q", got, "Division by zero")
	}
}

func TestArith_DivisionByZeroMessageIsCapitalized(t *testing.T) {
	err := evalErr(t, "(/ 10 0)")
	if err == nil {
		t.Fatal("expected a ZeroDivisionError")
	}
	if got := err.Error(); !strings.Contains(got, "Division by zero") {
		t.Errorf("got %q, want it to contain %q", got, "Division by zero")
	}
}

func TestArith_ModUsesFlooredSemantics(t *testing.T) {
	if got := evalSrc(t, "(% -10 3)").Inspect(); got != "2" {
		t.Errorf("got %q, want 2 (floored modulo takes the divisor's sign)", got)
	}
	if got := evalSrc(t, "(% -10 -3)").Inspect(); got != "-1" {
		t.Errorf("got %q, want -1", got)
	}
}

func TestArith_ModIsVariadicLeftToRight(t *testing.T) {
	if got := evalSrc(t, "(% 20 6 3)").Inspect(); got != "2" {
		t.Errorf("got %q, want 2 ((20 %% 6) %% 3)", got)
	}
}

func TestArith_MinMaxReturnOriginalValue(t *testing.T) {
	if got := evalSrc(t, "(min 3.5 1 2)").Inspect(); got != "1" {
		t.Errorf("got %q, want 1", got)
	}
}

func TestArith_ComparisonChainsAcceptEqualNeighbours(t *testing.T) {
	if got := evalSrc(t, `(<= 1 1 2 3)`).Inspect(); got != "true" {
		t.Errorf("got %q, want true", got)
	}
	if got := evalSrc(t, `(>= 3 2 2 1)`).Inspect(); got != "true" {
		t.Errorf("got %q, want true", got)
	}
}

func TestArith_EqualPQuestionDoesStructuralComparison(t *testing.T) {
	if got := evalSrc(t, `(equal? [1 2] [1 2])`).Inspect(); got != "true" {
		t.Errorf("got %q, want true", got)
	}
	if got := evalSrc(t, `(equal? {:a 1} {:a 1})`).Inspect(); got != "true" {
		t.Errorf("got %q, want true", got)
	}
	if got := evalSrc(t, `(equal? [1 2] [1 3])`).Inspect(); got != "false" {
		t.Errorf("got %q, want false", got)
	}
}

func TestArith_NonNumberArgumentIsATypeError(t *testing.T) {
	if err := evalErr(t, `(+ 1 "a")`); err == nil {
		t.Fatal("expected a type error adding a string to a number")
	}
}
