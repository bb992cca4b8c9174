package main

import (
	"github.com/spf13/cobra"
)

// Global flag available to every subcommand, layered under the config
// file by internal/config (SPEC_FULL.md §1.1/§6), the same
// PersistentFlags-plus-package-level-var shape holomush's root command
// uses for its own --config flag.
var configFile string

// NewRootCmd creates the root command for the lispy CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lispy",
		Short: "LisPy - a Clojure-flavored Lisp interpreter",
		Long: `LisPy is a small Clojure-flavored Lisp: a tree-walking
interpreter with promises, a module system, and a built-in BDD registry.`,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "path to lispy.yaml")

	cmd.AddCommand(NewRunCmd())
	cmd.AddCommand(NewTestCmd())
	cmd.AddCommand(NewVersionCmd())
	cmd.AddCommand(NewReplCmd())
	cmd.AddCommand(NewDescribeCmd())

	return cmd
}
