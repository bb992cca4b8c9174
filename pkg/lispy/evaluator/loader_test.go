package evaluator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lispy-lang/lispy/pkg/lispy/object"
	"github.com/lispy-lang/lispy/pkg/lispy/parser"
)

func writeModule(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
	return path
}

// evalFile parses and evaluates an entry module's forms with env rooted at
// path, returning the last value and the first error encountered (if any).
func evalFile(t *testing.T, dir []string, path string) (object.Value, error) {
	t.Helper()
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading fixture %s: %v", path, err)
	}
	forms, err := parser.ParseProgram(string(src))
	if err != nil {
		return nil, err
	}
	cfg := Config{ModulePaths: dir, ModuleExtension: ".lpy"}
	ctx := NewContext(cfg)
	env := NewGlobalEnv(ctx)
	env.Filename = path

	var result object.Value = object.NilValue
	for _, f := range forms {
		v, err := Eval(f, env, ctx)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func TestLoader_ImportBindsExportedNames(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "mathlib.lpy", `
		(define (square x) (* x x))
		(export square)
	`)
	entry := writeModule(t, dir, "main.lpy", `
		(import "mathlib.lpy")
		(square 5)
	`)

	result, err := evalFile(t, []string{dir}, entry)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if got := result.Inspect(); got != "25" {
		t.Errorf("got %q, want 25", got)
	}
}

func TestLoader_ImportOnlyRestrictsBindings(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "lib.lpy", `
		(define a 1)
		(define b 2)
		(export a b)
	`)
	entry := writeModule(t, dir, "main.lpy", `
		(import "lib.lpy" :only (a))
		b
	`)

	if _, err := evalFile(t, []string{dir}, entry); err == nil {
		t.Fatal("expected an unbound symbol error for b, which :only excluded")
	}
}

func TestLoader_ImportAsBindsFlatPrefixedNames(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "lib.lpy", `
		(define greeting "hi")
		(export greeting)
	`)
	entry := writeModule(t, dir, "main.lpy", `
		(import "lib.lpy" :as "lib")
		lib/greeting
	`)

	result, err := evalFile(t, []string{dir}, entry)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if got := result.Inspect(); got != "hi" {
		t.Errorf("got %q, want hi", got)
	}
}

func TestLoader_CircularImportIsDetected(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "a.lpy", `(import "b.lpy")`)
	writeModule(t, dir, "b.lpy", `(import "a.lpy")`)
	entry := filepath.Join(dir, "a.lpy")

	if _, err := evalFile(t, []string{dir}, entry); err == nil {
		t.Fatal("expected a circular import error")
	}
}

func TestLoader_ReimportUnderAliasBindsSameExports(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "counter.lpy", `
		(define hits (vector 1))
		(export hits)
	`)
	entry := writeModule(t, dir, "main.lpy", `
		(import "counter.lpy")
		(define first-hits hits)
		(import "counter.lpy" :as "again")
		(= (first first-hits) (first again/hits))
	`)

	result, err := evalFile(t, []string{dir}, entry)
	if err != nil {
		t.Fatalf("eval error: %v", err)
	}
	if got := result.Inspect(); got != "true" {
		t.Errorf("got %q, want true: re-importing the same module under :as should expose the same exported values", got)
	}
}

func TestLoader_ExportUndefinedNameErrors(t *testing.T) {
	dir := t.TempDir()
	writeModule(t, dir, "bad.lpy", `(export never-defined)`)
	entry := writeModule(t, dir, "main.lpy", `(import "bad.lpy")`)

	if _, err := evalFile(t, []string{dir}, entry); err == nil {
		t.Fatal("expected an error exporting an undefined name")
	}
}
