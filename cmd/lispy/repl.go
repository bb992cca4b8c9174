package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/lispy-lang/lispy/internal/config"
	"github.com/lispy-lang/lispy/pkg/lispy/evaluator"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
	"github.com/lispy-lang/lispy/pkg/lispy/parser"
)

const prompt = "lispy> "
const continuationPrompt = "  ...  "

// NewReplCmd opens an interactive read-eval-print loop over the LisPy
// global environment, grounded on pkg/parsley/repl/repl.go's liner-based
// input loop (history file, tab completion, bracket-balance continuation
// detection), adapted from Parsley's brace/tag-aware buffering to LisPy's
// single parenthesis/bracket/brace nesting and from ObjectToFormattedReprString
// to object.Value's own Inspect.
func NewReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive LisPy session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			runRepl(cmd.OutOrStdout(), settings)
			return nil
		},
	}
}

func runRepl(out io.Writer, settings config.Settings) {
	ed := liner.NewLiner()
	defer ed.Close()
	ed.SetCtrlCAborts(true)

	ctx := evaluator.NewContext(settings.ToEvaluatorConfig())
	env := evaluator.NewGlobalEnv(ctx)

	completions := append(append([]string{}, evaluator.SpecialFormNames()...), builtinNames(ctx)...)
	sort.Strings(completions)
	ed.SetCompleter(func(line string) []string {
		return completeWord(line, completions)
	})

	historyFile := filepath.Join(os.TempDir(), ".lispy_history")
	if f, err := os.Open(historyFile); err == nil {
		ed.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err == nil {
			ed.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Fprintln(out, "LisPy REPL. Type :help for commands, :quit or Ctrl+D to exit.")

	var buf strings.Builder
	for {
		linePrompt := prompt
		if buf.Len() > 0 {
			linePrompt = continuationPrompt
		}
		input, err := ed.Prompt(linePrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				buf.Reset()
				fmt.Fprintln(out, "^C")
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		trimmed := strings.TrimSpace(input)
		if buf.Len() == 0 {
			if trimmed == ":quit" || trimmed == ":exit" {
				fmt.Fprintln(out, "Goodbye!")
				return
			}
			if strings.HasPrefix(trimmed, ":") {
				handleReplCommand(trimmed, env, out)
				continue
			}
			if trimmed == "" {
				continue
			}
		}

		if buf.Len() > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(input)

		if needsMoreInput(buf.String()) {
			continue
		}

		ed.AppendHistory(buf.String())
		evalAndPrint(buf.String(), env, ctx, out)
		buf.Reset()
	}
}

func evalAndPrint(src string, env *object.Environment, ctx *evaluator.Context, out io.Writer) {
	forms, err := parser.ParseProgram(src)
	if err != nil {
		fmt.Fprintf(out, "ParseError: %v\n", err)
		return
	}
	var result object.Value = object.NilValue
	for _, form := range forms {
		v, err := evaluator.Eval(form, env, ctx)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			return
		}
		result = v
	}
	fmt.Fprintln(out, result.Inspect())
}

func handleReplCommand(cmd string, env *object.Environment, out io.Writer) {
	switch cmd {
	case ":help", ":h":
		fmt.Fprintln(out, "  :help        show this help")
		fmt.Fprintln(out, "  :env         list user-defined bindings")
		fmt.Fprintln(out, "  :quit/:exit  leave the REPL")
	case ":env":
		names := env.Names()
		if len(names) == 0 {
			fmt.Fprintln(out, "(no user-defined bindings)")
			return
		}
		sort.Strings(names)
		for _, name := range names {
			v, _ := env.Get(name)
			fmt.Fprintf(out, "  %s = %s\n", name, v.Inspect())
		}
	default:
		fmt.Fprintf(out, "unknown command %q (try :help)\n", cmd)
	}
}

func builtinNames(ctx *evaluator.Context) []string {
	names := make([]string, 0)
	for name := range evaluator.Builtins(ctx) {
		names = append(names, name)
	}
	return names
}

func completeWord(line string, vocabulary []string) []string {
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == "" || trimmed != line {
		return nil
	}
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == '(' || r == '[' || r == ' ' || r == '\t'
	})
	if len(fields) == 0 {
		return nil
	}
	last := fields[len(fields)-1]
	var matches []string
	for _, w := range vocabulary {
		if strings.HasPrefix(w, last) {
			matches = append(matches, w)
		}
	}
	return matches
}

// needsMoreInput reports whether src has an unclosed paren, bracket, or
// brace, so the REPL buffers another line instead of trying to parse a
// partial form.
func needsMoreInput(src string) bool {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(src); i++ {
		c := src[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string, brackets don't count
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		}
	}
	return depth > 0
}
