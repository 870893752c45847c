package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "runescan",
	Short: "Compile, cache and run multi-pattern regex scans",
	Long: `runescan wraps a native multi-pattern regular expression engine.
It compiles pattern sets into reusable databases, caches their serialized
form, and scans inputs, reporting matches with rune-accurate offsets.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
