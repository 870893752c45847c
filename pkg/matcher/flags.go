package matcher

import (
	"github.com/flier/gohs/hyperscan"

	"github.com/runescan/runescan/pkg/types"
)

var flagTable = []struct {
	portable types.Flag
	native   hyperscan.CompileFlag
}{
	{types.Caseless, hyperscan.Caseless},
	{types.DotAll, hyperscan.DotAll},
	{types.MultiLine, hyperscan.MultiLine},
	{types.SingleMatch, hyperscan.SingleMatch},
	{types.AllowEmpty, hyperscan.AllowEmpty},
	{types.UTF8, hyperscan.Utf8Mode},
	{types.UCP, hyperscan.UnicodeProperty},
	{types.Prefilter, hyperscan.PrefilterMode},
	{types.SOMLeftmost, hyperscan.SomLeftMost},
	{types.Combination, hyperscan.Combination},
	{types.Quiet, hyperscan.Quiet},
}

// nativeFlags translates the portable flag set into the engine's compile
// bits.
func nativeFlags(f types.Flag) hyperscan.CompileFlag {
	var out hyperscan.CompileFlag
	for _, entry := range flagTable {
		if f.Has(entry.portable) {
			out |= entry.native
		}
	}
	return out
}
