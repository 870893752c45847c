package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/runescan/runescan/pkg/matcher"
	"github.com/runescan/runescan/pkg/ruleset"
	"github.com/runescan/runescan/pkg/store"
	"github.com/runescan/runescan/pkg/types"
)

var (
	compilePatternsPath string
	compileOutputPath   string
	compileCachePath    string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Compile a pattern file into a serialized database",
	Long: `Compile a YAML pattern file into a serialized database that can be
loaded quickly later on a host with compatible CPU features.`,
	RunE: runCompile,
}

func init() {
	compileCmd.Flags().StringVar(&compilePatternsPath, "patterns", "", "Path to YAML pattern file")
	compileCmd.Flags().StringVarP(&compileOutputPath, "output", "o", "patterns.rsdb", "Output database path")
	compileCmd.Flags().StringVar(&compileCachePath, "cache", "", "SQLite cache to also store the serialized database in")
	compileCmd.MarkFlagRequired("patterns")
}

func runCompile(cmd *cobra.Command, args []string) error {
	exprs, err := ruleset.NewLoader().LoadFile(compilePatternsPath)
	if err != nil {
		return err
	}

	db, err := matcher.Compile(exprs...)
	if err != nil {
		return err
	}
	defer db.Close()

	out, err := os.Create(compileOutputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", compileOutputPath, err)
	}
	defer out.Close()
	if err := db.Save(out); err != nil {
		return err
	}

	if compileCachePath != "" {
		if err := cacheDatabase(compileCachePath, exprs, db); err != nil {
			return err
		}
	}

	size, err := db.Size()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "compiled %d patterns (%d bytes) to %s\n",
		len(exprs), size, compileOutputPath)
	return nil
}

func cacheDatabase(path string, exprs []*types.Expression, db *matcher.Database) error {
	var buf bytes.Buffer
	if err := db.Save(&buf); err != nil {
		return err
	}
	st, err := store.NewSQLite(path)
	if err != nil {
		return err
	}
	defer st.Close()
	return st.Put(&store.Entry{
		Key:           store.Key(matcher.Version(), exprs),
		EngineVersion: matcher.Version(),
		CreatedAt:     time.Now(),
		Data:          buf.Bytes(),
	})
}
