package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "trpl-cli",
	Short: "Scaffolding for programs built on the trpl package",
	Long: `trpl-cli generates the boilerplate of a program that drives its
asynchronous work through the trpl package: a main that owns the Runtime,
a work package holding the Funcs that get driven, and a channel between a
producing task and the code that consumes its output.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main() and only needs to happen
// once.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
