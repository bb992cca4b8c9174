package evaluator

import (
	"bufio"
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lispy-lang/lispy/pkg/lispy/object"
	"github.com/lispy-lang/lispy/pkg/lispy/parser"
)

// evalSrcWithIO evaluates src against builtins redirected to out/in,
// rather than the host's real stdout/stdin, so print/println/read-line
// are testable without touching the terminal.
func evalSrcWithIO(t *testing.T, src string, out *bytes.Buffer, in *bufio.Reader) object.Value {
	t.Helper()
	forms, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	ctx := NewContext(DefaultConfig())
	env := object.NewEnvironment()
	for name, b := range BuiltinsWithIO(ctx, out, in) {
		env.Define(name, b)
	}
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

func TestIO_PrintJoinsArgsWithSpaceAndNoTrailingNewline(t *testing.T) {
	var out bytes.Buffer
	evalSrcWithIO(t, `(print 1 "two" 3)`, &out, bufio.NewReader(strings.NewReader("")))
	if out.String() != "1 two 3" {
		t.Errorf("got %q, want %q", out.String(), "1 two 3")
	}
}

func TestIO_PrintlnAppendsNewline(t *testing.T) {
	var out bytes.Buffer
	evalSrcWithIO(t, `(println "hi")`, &out, bufio.NewReader(strings.NewReader("")))
	if out.String() != "hi\n" {
		t.Errorf("got %q, want %q", out.String(), "hi\n")
	}
}

func TestIO_ReadLineStripsTrailingNewline(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("hello world\n"))
	result := evalSrcWithIO(t, `(read-line)`, &out, in)
	if got := result.Inspect(); got != "hello world" {
		t.Errorf("got %q, want hello world", got)
	}
}

func TestIO_ReadLineAtEOFReturnsNil(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(""))
	result := evalSrcWithIO(t, `(read-line)`, &out, in)
	if got := result.Inspect(); got != "nil" {
		t.Errorf("got %q, want nil at EOF", got)
	}
}

func TestIO_SlurpAndSpitRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	src := `(spit "` + escapePath(path) + `" "payload") (slurp "` + escapePath(path) + `")`
	var out bytes.Buffer
	result := evalSrcWithIO(t, src, &out, bufio.NewReader(strings.NewReader("")))
	if got := result.Inspect(); got != "payload" {
		t.Errorf("got %q, want payload", got)
	}
}

func TestIO_SlurpMissingFileIsFileNotFound(t *testing.T) {
	var out bytes.Buffer
	missing := filepath.Join(t.TempDir(), "does-not-exist.txt")
	src := `(slurp "` + escapePath(missing) + `")`
	forms, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	ctx := NewContext(DefaultConfig())
	env := object.NewEnvironment()
	for name, b := range BuiltinsWithIO(ctx, &out, bufio.NewReader(strings.NewReader(""))) {
		env.Define(name, b)
	}
	var lastErr error
	for _, form := range forms {
		if _, lastErr = Eval(form, env, ctx); lastErr != nil {
			break
		}
	}
	if lastErr == nil {
		t.Fatal("expected a file-not-found error")
	}
}

func escapePath(p string) string {
	return strings.ReplaceAll(p, `\`, `\\`)
}
