package types

import (
	"fmt"
	"strings"
)

// Flag is a bitset of expression compile flags understood by the native
// matching engine. The zero value means no flags.
type Flag uint

const (
	// Caseless makes matching case-insensitive.
	Caseless Flag = 1 << iota
	// DotAll makes `.` match newlines.
	DotAll
	// MultiLine makes `^` and `$` match at line boundaries.
	MultiLine
	// SingleMatch reports at most one match per expression.
	SingleMatch
	// AllowEmpty permits expressions that can match the empty string.
	AllowEmpty
	// UTF8 treats pattern and input as UTF-8.
	UTF8
	// UCP enables Unicode properties in character classes. Only meaningful
	// together with UTF8.
	UCP
	// Prefilter compiles an over-approximation of the pattern suitable for
	// prefiltering.
	Prefilter
	// SOMLeftmost enables start-of-match tracking. Without it the engine
	// reports only end offsets and the matched text cannot be recovered.
	SOMLeftmost
	// Combination interprets the pattern as a logical combination over other
	// expression ids.
	Combination
	// Quiet suppresses match reporting for this expression. Used for
	// operands of a Combination expression.
	Quiet
)

var flagNames = []struct {
	flag Flag
	name string
}{
	{Caseless, "caseless"},
	{DotAll, "dot_all"},
	{MultiLine, "multi_line"},
	{SingleMatch, "single_match"},
	{AllowEmpty, "allow_empty"},
	{UTF8, "utf8"},
	{UCP, "ucp"},
	{Prefilter, "prefilter"},
	{SOMLeftmost, "som_leftmost"},
	{Combination, "combination"},
	{Quiet, "quiet"},
}

// ParseFlag converts a flag name as used in pattern files ("caseless",
// "som_leftmost", ...) into its Flag value.
func ParseFlag(name string) (Flag, error) {
	for _, fn := range flagNames {
		if fn.name == name {
			return fn.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown expression flag %q", name)
}

// Has reports whether f contains every flag in other.
func (f Flag) Has(other Flag) bool {
	return f&other == other
}

// Names returns the names of the set flags in declaration order.
func (f Flag) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if f.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

func (f Flag) String() string {
	if f == 0 {
		return "none"
	}
	return strings.Join(f.Names(), "|")
}
