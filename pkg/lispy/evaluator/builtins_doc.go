package evaluator

import (
	"bytes"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	lispyerrors "github.com/lispy-lang/lispy/pkg/lispy/errors"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
)

// docBuiltins covers `doc`/`print-doc` (spec.md §4.6). A Function's Doc
// field is populated the way the teacher's builtins hold a fixed Doc
// string: here it is set when `define`'s function sugar or `fn` is
// preceded by a leading string-literal body form, matching the docstring
// convention of the pack's other scripting-language hosts.
func docBuiltins(out func(string)) map[string]*object.Builtin {
	return map[string]*object.Builtin{
		"doc":       builtinDoc(),
		"print-doc": builtinPrintDoc(out),
	}
}

func docOf(v object.Value) string {
	switch v := v.(type) {
	case *object.Function:
		if v.Doc == "" {
			return "no documentation"
		}
		return v.Doc
	case *object.Builtin:
		if v.Doc == "" {
			return "no documentation"
		}
		return v.Doc
	default:
		return "no documentation"
	}
}

func builtinDoc() *object.Builtin {
	return &object.Builtin{Name: "doc", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("doc", "1", len(args))
		}
		return object.String{Value: docOf(args[0])}, nil
	}}
}

// builtinPrintDoc prints a supplied string, or a function/builtin's looked-up
// documentation, with markdown stripped in both cases (spec.md §4.6).
func builtinPrintDoc(out func(string)) *object.Builtin {
	return &object.Builtin{Name: "print-doc", Fn: func(args []object.Value) (object.Value, error) {
		if len(args) != 1 {
			return nil, lispyerrors.Arityf("print-doc", "1", len(args))
		}
		if s, ok := args[0].(object.String); ok {
			out(stripMarkdown(s.Value))
			return object.NilValue, nil
		}
		out(stripMarkdown(docOf(args[0])))
		return object.NilValue, nil
	}}
}

// stripMarkdown renders md through goldmark's parser and walks the
// resulting AST collecting plain text, so `print-doc` never dumps raw
// markup (headers, emphasis markers, code fences) to a terminal.
func stripMarkdown(md string) string {
	source := []byte(md)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var buf bytes.Buffer
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			if n.Kind() == gast.KindParagraph {
				buf.WriteString("\n")
			}
			return gast.WalkContinue, nil
		}
		if t, ok := n.(*gast.Text); ok {
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteString("\n")
			}
		}
		return gast.WalkContinue, nil
	})

	result := buf.String()
	if result == "" {
		return md
	}
	return result
}
