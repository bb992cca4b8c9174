package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/lispy-lang/lispy/internal/config"
	"github.com/lispy-lang/lispy/pkg/lispy/evaluator"
)

// NewDescribeCmd looks up a single builtin or special form by name and
// prints its documentation, grounded on pkg/parsley/help/help.go's
// CLI-accessible topic lookup (`pars describe`) — trimmed from Parsley's
// full type/module/operator registry to LisPy's flatter vocabulary of
// special forms plus builtins, since LisPy has no module-metadata or
// method-registry system for `describe` to read from.
func NewDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe [name]",
		Short: "Describe a builtin or special form, or list all names",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			ctx := evaluator.NewContext(settings.ToEvaluatorConfig())

			if len(args) == 0 {
				printAllNames(cmd, ctx)
				return nil
			}
			return describeName(cmd, ctx, args[0])
		},
	}
}

func printAllNames(cmd *cobra.Command, ctx *evaluator.Context) {
	names := append(append([]string{}, evaluator.SpecialFormNames()...), builtinNames(ctx)...)
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintln(cmd.OutOrStdout(), n)
	}
}

func describeName(cmd *cobra.Command, ctx *evaluator.Context, name string) error {
	out := cmd.OutOrStdout()
	for _, sf := range evaluator.SpecialFormNames() {
		if sf == name {
			fmt.Fprintf(out, "%s: special form\n", name)
			return nil
		}
	}
	b, ok := evaluator.Builtins(ctx)[name]
	if !ok {
		return fmt.Errorf("no builtin or special form named %q", name)
	}
	doc := b.Doc
	if doc == "" {
		doc = "no documentation"
	}
	fmt.Fprintf(out, "%s: %s\n", name, doc)
	return nil
}
