package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "golang-statarb",
	Short: "Pairs-trading research toolkit: screening, cointegration, backtests",
}

func Execute() error {
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(backtestCmd)
	rootCmd.AddCommand(walkforwardCmd)
	rootCmd.AddCommand(migrateCmd)
	return rootCmd.Execute()
}
