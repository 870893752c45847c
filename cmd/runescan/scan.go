package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/runescan/runescan/pkg/matcher"
	"github.com/runescan/runescan/pkg/prefilter"
	"github.com/runescan/runescan/pkg/ruleset"
	"github.com/runescan/runescan/pkg/store"
	"github.com/runescan/runescan/pkg/types"
)

var (
	scanPatternsPath string
	scanDBPath       string
	scanCachePath    string
	scanJSON         bool
	scanWorkers      int
	scanNoPrefilter  bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [files...]",
	Short: "Scan files (or stdin) for pattern matches",
	Long: `Scan the given files against a pattern database. With no file
arguments, stdin is scanned. The database comes from --db, or is compiled
from --patterns (optionally through the --cache store).`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanPatternsPath, "patterns", "", "Path to YAML pattern file")
	scanCmd.Flags().StringVar(&scanDBPath, "db", "", "Path to a serialized database produced by compile")
	scanCmd.Flags().StringVar(&scanCachePath, "cache", "", "SQLite cache for serialized databases")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Emit matches as JSON lines")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", runtime.NumCPU(), "Concurrent scan workers")
	scanCmd.Flags().BoolVar(&scanNoPrefilter, "no-prefilter", false, "Disable the literal prefilter")
}

func runScan(cmd *cobra.Command, args []string) error {
	db, exprs, err := openDatabase(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer db.Close()

	var pf *prefilter.Prefilter
	if !scanNoPrefilter {
		pf = prefilter.New(exprs)
	}

	rep := newReporter(cmd.OutOrStdout(), scanJSON)

	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		s, err := matcher.NewScannerFor(db)
		if err != nil {
			return err
		}
		defer s.Close()
		matches, err := s.Scan(db, string(data))
		if err != nil {
			return err
		}
		return rep.report("<stdin>", matches)
	}

	// One Scanner per worker task: scratch space is mutated during a scan
	// and must never be shared between concurrent scans.
	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(scanWorkers)
	for _, path := range args {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			if pf != nil && len(pf.Filter(data)) == 0 {
				return nil
			}
			s, err := matcher.NewScannerFor(db)
			if err != nil {
				return err
			}
			defer s.Close()
			matches, err := s.Scan(db, string(data))
			if err != nil {
				return fmt.Errorf("scanning %s: %w", path, err)
			}
			if len(matches) == 0 {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			return rep.report(path, matches)
		})
	}
	return g.Wait()
}

// openDatabase resolves the scan database from --db, the cache, or a fresh
// compile of --patterns, in that order. Cache failures degrade to a
// recompile with a warning on errOut.
func openDatabase(errOut io.Writer) (*matcher.Database, []*types.Expression, error) {
	if scanDBPath != "" {
		f, err := os.Open(scanDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", scanDBPath, err)
		}
		defer f.Close()
		db, err := matcher.Load(f)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Expressions(), nil
	}

	if scanPatternsPath == "" {
		return nil, nil, fmt.Errorf("either --db or --patterns is required")
	}
	exprs, err := ruleset.NewLoader().LoadFile(scanPatternsPath)
	if err != nil {
		return nil, nil, err
	}

	if scanCachePath == "" {
		db, err := matcher.Compile(exprs...)
		if err != nil {
			return nil, nil, err
		}
		return db, exprs, nil
	}

	st, err := store.NewSQLite(scanCachePath)
	if err != nil {
		return nil, nil, err
	}
	defer st.Close()

	key := store.Key(matcher.Version(), exprs)
	entry, err := st.Get(key)
	if err != nil {
		fmt.Fprintf(errOut, "warning: reading cache %s: %v\n", scanCachePath, err)
	} else if entry != nil {
		if db, err := matcher.Load(bytes.NewReader(entry.Data)); err == nil {
			return db, exprs, nil
		}
		// stale or foreign-platform entry; recompile below
		_ = st.Delete(key)
	}

	db, err := matcher.Compile(exprs...)
	if err != nil {
		return nil, nil, err
	}
	var buf bytes.Buffer
	if err := db.Save(&buf); err == nil {
		_ = st.Put(&store.Entry{
			Key:           key,
			EngineVersion: matcher.Version(),
			CreatedAt:     time.Now(),
			Data:          buf.Bytes(),
		})
	}
	return db, exprs, nil
}
