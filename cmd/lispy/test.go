package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/lispy-lang/lispy/internal/config"
	"github.com/lispy-lang/lispy/pkg/lispy/bdd"
	"github.com/lispy-lang/lispy/pkg/lispy/evaluator"
	"github.com/lispy-lang/lispy/pkg/lispy/object"
	"github.com/lispy-lang/lispy/pkg/lispy/parser"
)

// NewTestCmd implements `lispy test <file-or-dir>` (SPEC_FULL.md §6):
// evaluate the file, or every file in the directory carrying the module
// extension, sharing one BDD registry so a
// directory's results aggregate into a single report.
func NewTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <file-or-dir>",
		Short: "Run LisPy BDD specs and print an aggregated report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(cmd, args[0])
		},
	}
	return cmd
}

func runTests(cmd *cobra.Command, target string) error {
	settings, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	files, err := specFiles(target, settings.ToEvaluatorConfig().ModuleExtension)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no spec files found under %s", target)
	}

	ctx := evaluator.NewContext(settings.ToEvaluatorConfig())
	env := evaluator.NewGlobalEnv(ctx)

	failed := false
	for _, path := range files {
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		forms, err := parser.ParseProgram(string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
			failed = true
			continue
		}

		fileEnv := object.NewEnclosed(env)
		fileEnv.Filename = path
		for _, form := range forms {
			if _, err := evaluator.Eval(form, fileEnv, ctx); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %s\n", path, err)
				failed = true
			}
		}
	}

	printReport(ctx.BDD)
	rep := ctx.BDD.Report()
	if failed || rep.FailedScenarios > 0 {
		os.Exit(1)
	}
	return nil
}

// specFiles collects module files under target: target itself if it is a
// file, or every extension-matching file beneath it if a directory.
func specFiles(target, extension string) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}

	var files []string
	err = filepath.WalkDir(target, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == extension {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func printReport(registry *bdd.Registry) {
	for _, feature := range registry.Results {
		fmt.Printf("describe: %s\n", feature.Description)
		for _, scenario := range feature.Scenarios {
			status := "ok"
			if scenario.Failed() {
				status = "FAIL"
			}
			fmt.Printf("  it: %s [%s]\n", scenario.Description, status)
			for _, step := range scenario.Steps {
				fmt.Printf("    %s %s\n", step.Keyword, step.Description)
				if step.Status == bdd.Failed {
					fmt.Printf("      %s\n", step.Detail)
				}
			}
		}
	}

	rep := registry.Report()
	fmt.Printf("\n%d features, %d scenarios (%d passed, %d failed), %d steps (%d failed)\n",
		rep.Features, rep.Scenarios, rep.PassedScenarios, rep.FailedScenarios, rep.Steps, rep.FailedSteps)
}
