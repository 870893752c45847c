package matcher

import (
	"github.com/flier/gohs/hyperscan"

	"github.com/runescan/runescan/pkg/types"
)

// Version returns the version string of the underlying engine library.
func Version() string {
	return hyperscan.Version()
}

// ValidPlatform reports whether the current CPU supports the engine.
func ValidPlatform() bool {
	return hyperscan.ValidPlatform() == nil
}

// Validate checks a single expression against the engine without keeping a
// usable database around. A rejected pattern is a normal result, not an
// error: the engine's diagnostic ends up in ValidationResult.Error.
func Validate(e *types.Expression) types.ValidationResult {
	p := hyperscan.NewPattern(e.Pattern(), nativeFlags(e.Flags()))
	p.Id = e.ID()
	db, err := hyperscan.NewBlockDatabase(p)
	if err != nil {
		return types.ValidationResult{Valid: false, Error: err.Error()}
	}
	db.Close()
	return types.ValidationResult{Valid: true}
}
