package evaluator

import (
	"path/filepath"
	"testing"
)

func TestPromise_ResolveRejectAwait(t *testing.T) {
	if got := evalSrc(t, "(await (resolve 42))").Inspect(); got != "42" {
		t.Errorf("got %q, want 42", got)
	}
	if err := evalErr(t, `(await (reject "boom"))`); err == nil {
		t.Fatal("expected await to raise on a rejected promise")
	}
}

func TestPromise_ThunkRunsOnWorker(t *testing.T) {
	src := `(await (promise (fn [] (+ 1 2))))`
	if got := evalSrc(t, src).Inspect(); got != "3" {
		t.Errorf("got %q, want 3", got)
	}
}

func TestPromise_Then(t *testing.T) {
	src := `(await (promise-then (resolve 10) (fn [x] (* x 2))))`
	if got := evalSrc(t, src).Inspect(); got != "20" {
		t.Errorf("got %q, want 20", got)
	}
}

func TestPromise_ThenPropagatesRejection(t *testing.T) {
	src := `(await (promise-then (reject "nope") (fn [x] x)))`
	if err := evalErr(t, src); err == nil {
		t.Fatal("expected the rejection to propagate through promise-then")
	}
}

func TestPromise_All(t *testing.T) {
	src := `(await (promise-all [(resolve 1) 2 (resolve 3)]))`
	if got := evalSrc(t, src).Inspect(); got != "[1 2 3]" {
		t.Errorf("got %q, want [1 2 3]", got)
	}
}

func TestPromise_AllRejectsOnFirstFailure(t *testing.T) {
	src := `(await (promise-all [(resolve 1) (reject "bad")]))`
	if err := evalErr(t, src); err == nil {
		t.Fatal("expected promise-all to reject when any element rejects")
	}
}

func TestPromise_AsyncFilterPreservesOrderAndShape(t *testing.T) {
	src := `(await (async-filter [1 2 3 4] (fn [x] (= (% x 2) 0))))`
	if got := evalSrc(t, src).Inspect(); got != "[2 4]" {
		t.Errorf("got %q, want [2 4]", got)
	}
}

func TestPromise_Retry(t *testing.T) {
	// Each attempt appends one character to a file, so the file's length
	// counts the attempts made so far.
	counter := escapePath(filepath.Join(t.TempDir(), "attempts.txt"))
	src := `
		(define counter "` + counter + `")
		(spit counter "")
		(await (retry (fn []
			(spit counter (join (list (slurp counter) "x") ""))
			(if (< (count (slurp counter)) 3) (throw "retry-me") (count (slurp counter))))
			5 1))
	`
	if got := evalSrc(t, src).Inspect(); got != "3" {
		t.Errorf("got %q, want 3", got)
	}
}

func TestPromise_RetryExhaustionRejects(t *testing.T) {
	src := `(await (retry (fn [] (throw "always fails")) 2 1))`
	if err := evalErr(t, src); err == nil {
		t.Fatal("expected retry exhaustion to reject")
	}
}

func TestAsync_DefnAsyncReturnsAwaitablePromise(t *testing.T) {
	src := `
		(defn-async compute [x] (* x x))
		(await (compute 6))
	`
	if got := evalSrc(t, src).Inspect(); got != "36" {
		t.Errorf("got %q, want 36", got)
	}
}
