package evaluator

import (
	"testing"

	"github.com/lispy-lang/lispy/pkg/lispy/parser"
)

func TestBDD_DescribeItStepsRecordPassingReport(t *testing.T) {
	ctx := NewContext(DefaultConfig())
	src := `
		(describe "a stack"
			(it "pushes onto the top"
				(given "an empty stack" (define s (list)))
				(when "pushing 1" (define s (conj s 1)))
				(then "the top is 1" (if (not (= (first s) 1)) (throw "wrong top")))))
	`
	evalSrcCtx(t, ctx, src)

	rep := ctx.BDD.Report()
	if rep.Features != 1 || rep.Scenarios != 1 {
		t.Fatalf("got %+v, want 1 feature and 1 scenario", rep)
	}
	if rep.FailedScenarios != 0 || rep.FailedSteps != 0 {
		t.Fatalf("got %+v, want no failures", rep)
	}
	if rep.Steps != 3 {
		t.Fatalf("got %d steps, want 3", rep.Steps)
	}
}

func TestBDD_FailingStepIsRecordedAndPropagates(t *testing.T) {
	ctx := NewContext(DefaultConfig())
	src := `
		(describe "arithmetic"
			(it "adds wrong on purpose"
				(then "one plus one is three" (if (not (= (+ 1 1) 3)) (throw "wrong sum")))))
	`
	if err := evalSrcCtxErr(t, ctx, src); err == nil {
		t.Fatal("expected the failing step to propagate out of describe")
	}

	rep := ctx.BDD.Report()
	if rep.FailedScenarios != 1 || rep.FailedSteps != 1 {
		t.Fatalf("got %+v, want 1 failed scenario and 1 failed step", rep)
	}
}

func TestBDD_DescribeDoesNotNest(t *testing.T) {
	ctx := NewContext(DefaultConfig())
	src := `
		(describe "outer"
			(describe "inner" (it "does a thing" (then "ok" 1))))
	`
	evalSrcCtx(t, ctx, src)

	if len(ctx.BDD.Results) != 2 {
		t.Fatalf("got %d top-level features, want 2 (no nesting)", len(ctx.BDD.Results))
	}
}

func TestBDD_ItOutsideDescribeErrors(t *testing.T) {
	if err := evalErr(t, `(it "lonely" (then "nope" 1))`); err == nil {
		t.Fatal("expected an error using it outside of describe")
	}
}

func TestBDD_WhenDispatchesToControlFlowOutsideScenario(t *testing.T) {
	if got := evalSrc(t, "(when true 1)").Inspect(); got != "1" {
		t.Errorf("got %q, want 1", got)
	}
	if got := evalSrc(t, "(when false 1)").Inspect(); got != "nil" {
		t.Errorf("got %q, want nil", got)
	}
}

func TestBDD_AssertRaisesMatchesPrefix(t *testing.T) {
	src := `(assert-raises? "Type" (+ 1 "a"))`
	if got := evalSrc(t, src).Inspect(); got != "true" {
		t.Errorf("got %q, want true", got)
	}
}

func TestBDD_AssertRaisesFailsWhenNoErrorRaised(t *testing.T) {
	if err := evalErr(t, `(assert-raises? "Type" (+ 1 1))`); err == nil {
		t.Fatal("expected assert-raises? to fail when no error was raised")
	}
}

func TestBDD_AssertRaisesFailsOnPrefixMismatch(t *testing.T) {
	if err := evalErr(t, `(assert-raises? "Zzz" (+ 1 "a"))`); err == nil {
		t.Fatal("expected assert-raises? to fail on a prefix mismatch")
	}
}

// evalSrcCtxErr is evalSrcCtx's error-returning counterpart, for tests
// that need to inspect the shared Context (its BDD registry) afterward
// regardless of whether evaluation ultimately errored.
func evalSrcCtxErr(t *testing.T, ctx *Context, src string) error {
	t.Helper()
	forms, err := parser.ParseProgram(src)
	if err != nil {
		return err
	}
	env := NewGlobalEnv(ctx)
	for _, form := range forms {
		if _, err := Eval(form, env, ctx); err != nil {
			return err
		}
	}
	return nil
}
