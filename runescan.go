// Package runescan is a high-level wrapper around a native multi-pattern
// regular expression engine. It compiles expression sets into reusable
// databases, serializes them for offline compilation, and scans text,
// reporting matches with rune-accurate offsets even for non-ASCII input.
//
// # Basic Usage
//
// Compile expressions into a database and scan with a per-worker Scanner:
//
//	expr, err := runescan.NewExpression(`Te?st`, runescan.Caseless|runescan.SOMLeftmost)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	db, err := runescan.Compile(expr)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	scanner, err := runescan.NewScanner(db)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer scanner.Close()
//
//	matches, err := scanner.Scan(db, "Dies ist ein Test tst.")
//	for _, m := range matches {
//	    fmt.Printf("%s matched at [%d,%d]\n", m.Expression.Pattern(), m.Start, m.End)
//	}
//
// # Serialized Databases
//
// Large databases take a while to compile. Save them once and load them
// quickly later, on a host with compatible CPU features:
//
//	var buf bytes.Buffer
//	if err := db.Save(&buf); err != nil {
//	    log.Fatal(err)
//	}
//	loaded, err := runescan.Load(&buf)
//
// # Concurrency
//
// A Database is immutable once compiled and safe to share across
// goroutines. A Scanner owns mutable scratch space and serializes its own
// scans; for parallelism, give every worker goroutine its own Scanner.
package runescan

import (
	"io"

	"github.com/runescan/runescan/pkg/matcher"
	"github.com/runescan/runescan/pkg/types"
)

// Re-export the core types so callers can import just
// "github.com/runescan/runescan" without subpackages.
type (
	// Expression is a single pattern with an id and compile flags.
	Expression = types.Expression

	// Flag is a bitset of expression compile flags.
	Flag = types.Flag

	// Match is a single scan result with inclusive rune offsets.
	Match = types.Match

	// ValidationResult reports whether the engine accepts an expression.
	ValidationResult = types.ValidationResult

	// Database is a compiled, scannable pattern database.
	Database = matcher.Database

	// Scanner drives scans and owns the engine scratch space.
	Scanner = matcher.Scanner

	// CompileError reports a rejected pattern set.
	CompileError = matcher.CompileError

	// NativeError wraps a non-zero engine status.
	NativeError = matcher.NativeError
)

// Re-export the compile flags.
const (
	Caseless    = types.Caseless
	DotAll      = types.DotAll
	MultiLine   = types.MultiLine
	SingleMatch = types.SingleMatch
	AllowEmpty  = types.AllowEmpty
	UTF8        = types.UTF8
	UCP         = types.UCP
	Prefilter   = types.Prefilter
	SOMLeftmost = types.SOMLeftmost
	Combination = types.Combination
	Quiet       = types.Quiet
)

// Re-export the sentinel errors.
var (
	ErrEmptyPattern  = types.ErrEmptyPattern
	ErrClosed        = matcher.ErrClosed
	ErrNoExpressions = matcher.ErrNoExpressions
)

// NewExpression builds an expression with id 0.
func NewExpression(pattern string, flags Flag) (*Expression, error) {
	return types.NewExpression(pattern, flags)
}

// NewExpressionWithID builds an expression with an explicit pattern id.
func NewExpressionWithID(pattern string, id int, flags Flag) (*Expression, error) {
	return types.NewExpressionWithID(pattern, id, flags)
}

// Compile builds a database from the given expressions.
func Compile(exprs ...*Expression) (*Database, error) {
	return matcher.Compile(exprs...)
}

// Load reconstructs a database from a stream produced by Database.Save.
func Load(r io.Reader) (*Database, error) {
	return matcher.Load(r)
}

// NewScanner returns a Scanner with scratch space sized for db.
func NewScanner(db *Database) (*Scanner, error) {
	return matcher.NewScannerFor(db)
}

// Validate checks a single expression against the engine. A rejected
// pattern is a normal result, not an error.
func Validate(e *Expression) ValidationResult {
	return matcher.Validate(e)
}

// Version returns the version string of the underlying engine library.
func Version() string {
	return matcher.Version()
}

// ValidPlatform reports whether the current CPU supports the engine.
func ValidPlatform() bool {
	return matcher.ValidPlatform()
}
