package evaluator

import (
	"testing"

	"github.com/lispy-lang/lispy/pkg/lispy/object"
	"github.com/lispy-lang/lispy/pkg/lispy/parser"
)

// evalSrc parses and evaluates every top-level form in src against a
// fresh global environment, returning the last form's value. Grounded on
// pkg/parsley/tests/main_test.go's parse-source-string-and-check-result
// harness, adapted for a package-internal (non `_test` suffix) test
// package since these tests exercise unexported helpers alongside the
// public Eval/Apply entry points.
func evalSrc(t *testing.T, src string) object.Value {
	t.Helper()
	return evalSrcCtx(t, NewContext(DefaultConfig()), src)
}

func evalSrcCtx(t *testing.T, ctx *Context, src string) object.Value {
	t.Helper()
	forms, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	env := NewGlobalEnv(ctx)
	var result object.Value = object.NilValue
	for _, form := range forms {
		v, err := Eval(form, env, ctx)
		if err != nil {
			t.Fatalf("eval error for %q: %v", src, err)
		}
		result = v
	}
	return result
}

func evalErr(t *testing.T, src string) error {
	t.Helper()
	forms, err := parser.ParseProgram(src)
	if err != nil {
		return err
	}
	ctx := NewContext(DefaultConfig())
	env := NewGlobalEnv(ctx)
	var lastErr error
	for _, form := range forms {
		if _, lastErr = Eval(form, env, ctx); lastErr != nil {
			return lastErr
		}
	}
	return nil
}
