package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runescan/runescan/pkg/matcher"
	"github.com/runescan/runescan/pkg/ruleset"
)

var validatePatternsPath string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a pattern file against the engine",
	Long: `Check every pattern in a YAML pattern file against the engine
without building a scan database. Patterns the engine rejects are reported
with the engine diagnostic and, where possible, a hint about unsupported
constructs.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validatePatternsPath, "patterns", "", "Path to YAML pattern file")
	validateCmd.MarkFlagRequired("patterns")
}

func runValidate(cmd *cobra.Command, args []string) error {
	exprs, err := ruleset.NewLoader().LoadFile(validatePatternsPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	invalid := 0
	for _, e := range exprs {
		result := matcher.Validate(e)
		if result.Valid {
			fmt.Fprintf(out, "ok   %s\n", e)
			continue
		}
		invalid++
		fmt.Fprintf(out, "FAIL %s: %s\n", e, result.Error)
		if hint := ruleset.LintPattern(e.Pattern()); hint != "" {
			fmt.Fprintf(out, "     hint: %s\n", hint)
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d patterns failed validation", invalid, len(exprs))
	}
	fmt.Fprintf(out, "%d patterns valid\n", len(exprs))
	return nil
}
