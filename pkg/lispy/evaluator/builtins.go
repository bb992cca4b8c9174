package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// Builtins assembles the complete standard library of spec.md §4.6/§4.7,
// wired to the host's real stdout/stdin. Tests that need to capture I/O
// call BuiltinsWithIO with substitute writers/readers.
func Builtins(ctx *Context) map[string]*object.Builtin {
	return BuiltinsWithIO(ctx, os.Stdout, bufio.NewReader(os.Stdin))
}

// BuiltinsWithIO is Builtins with the I/O-facing builtins (print, println,
// read-line, print-doc) redirected to out/in.
func BuiltinsWithIO(ctx *Context, out io.Writer, in *bufio.Reader) map[string]*object.Builtin {
	all := map[string]*object.Builtin{}
	merge := func(m map[string]*object.Builtin) {
		for name, b := range m {
			all[name] = b
		}
	}

	merge(numericBuiltins())
	merge(predicateBuiltins())
	merge(collectionBuiltins(ctx))
	merge(conversionBuiltins())
	merge(ioBuiltins(out, in))
	merge(docBuiltins(func(s string) { fmt.Fprintln(out, s) }))
	merge(httpBuiltins(ctx))
	merge(promiseBuiltins(ctx))

	return all
}
