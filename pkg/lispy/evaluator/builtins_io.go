package evaluator

import (
	"bufio"
	"fmt"
	"io"
	"os"

	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// ioBuiltins covers the I/O family of spec.md §4.6, writing to out/reading
// from in so tests (and a future embedding host) can redirect them rather
// than hard-coding os.Stdout/os.Stdin.
func ioBuiltins(out io.Writer, in *bufio.Reader) map[string]*object.Builtin {
	return map[string]*object.Builtin{
		"print":     builtinPrint(out),
		"println":   builtinPrintln(out),
		"read-line": builtinReadLine(in),
		"slurp":     builtinSlurp(),
		"spit":      builtinSpit(),
	}
}

func builtinPrint(out io.Writer) *object.Builtin {
	return &object.Builtin{Name: "print", Fn: func(args []object.Value) (object.Value, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprint(out, ValueToErrorMessage(a))
		}
		return object.NilValue, nil
	}}
}

func builtinPrintln(out io.Writer) *object.Builtin {
	return &object.Builtin{Name: "println", Fn: func(args []object.Value) (object.Value, error) {
		for i, a := range args {
			if i > 0 {
				fmt.Fprint(out, " ")
			}
			fmt.Fprint(out, ValueToErrorMessage(a))
		}
		fmt.Fprintln(out)
		return object.NilValue, nil
	}}
}

func builtinReadLine(in *bufio.Reader) *object.Builtin {
	return &object.Builtin{Name: "read-line", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 0 {
			return nil, lispyerrors.Arityf("read-line", "0", len(args))
		}
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			return object.NilValue, nil
		}
		line = trimNewline(line)
		return object.String{Value: line}, nil
	}}
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func builtinSlurp() *object.Builtin {
	return &object.Builtin{Name: "slurp", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("slurp", "1", len(args))
		}
		path, ok := args[0].(object.String)
		if !ok {
			return nil, lispyerrors.Typef("slurp", 1, "a string", string(args[0].Kind()))
		}
		data, err := os.ReadFile(path.Value)
		if err != nil {
			return nil, fileError("slurp", err)
		}
		return object.String{Value: string(data)}, nil
	}}
}

func builtinSpit() *object.Builtin {
	return &object.Builtin{Name: "spit", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 2 {
			return nil, lispyerrors.Arityf("spit", "2", len(args))
		}
		path, ok := args[0].(object.String)
		if !ok {
			return nil, lispyerrors.Typef("spit", 1, "a string", string(args[0].Kind()))
		}
		content, ok := args[1].(object.String)
		if !ok {
			return nil, lispyerrors.Typef("spit", 2, "a string", string(args[1].Kind()))
		}
		if err := os.WriteFile(path.Value, []byte(content.Value), 0o644); err != nil {
			return nil, fileError("spit", err)
		}
		return object.NilValue, nil
	}}
}

// fileError maps an os-layer error to the conventional file-system error
// prefixes of spec.md §7.
func fileError(fn string, err error) error {
	switch {
	case os.IsNotExist(err):
		return lispyerrors.New(lispyerrors.FileNotFound, "%s: %s", fn, err.Error())
	case os.IsPermission(err):
		return lispyerrors.New(lispyerrors.Permission, "%s: %s", fn, err.Error())
	default:
		return lispyerrors.New(lispyerrors.FileGeneric, "%s: %s", fn, err.Error())
	}
}
