package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/lispy-lang/lispy/internal/config"
	"github.com/lispy-lang/lispy/pkg/lispy/evaluator"
	"github.com/lispy-lang/lispy/pkg/lispy/parser"
)

// NewRunCmd implements `lispy run <file>` (SPEC_FULL.md §6): evaluate a
// module file to completion, printing `Error: <message>` and exiting
// non-zero on an uncaught error.
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Evaluate a LisPy source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd, args[0])
		},
	}
	return cmd
}

func runFile(cmd *cobra.Command, path string) error {
	settings, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	forms, err := parser.ParseProgram(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	ctx := evaluator.NewContext(settings.ToEvaluatorConfig())
	env := evaluator.NewGlobalEnv(ctx)
	env.Filename = path

	logger.Debug("running module", "path", path)

	for _, form := range forms {
		if _, err := evaluator.Eval(form, env, ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(1)
		}
	}
	return nil
}
