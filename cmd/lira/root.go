package main

import (
	"github.com/spf13/cobra"

	"github.com/gitrdm/lira/internal/config"
)

var cfgFile string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lira",
		Short: "lira runs incremental linear-arithmetic decision scripts",
		Long: "lira drives pkg/lira.Facade from a script of one verb per line: " +
			"assert, resolve, status, can, inf, sup, find, inv, reset, save, " +
			"restore, remove, forget, undo (spec.md §6).",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "optional config file")
	config.BindFlags(root.PersistentFlags())

	root.AddCommand(newRunCmd())
	root.AddCommand(newBatchCmd())
	return root
}
