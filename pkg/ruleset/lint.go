package ruleset

import (
	"regexp"

	"github.com/dlclark/regexp2"
)

// LintPattern classifies a pattern that the matching engine rejected and
// returns a hint for the user, or "" when the pattern is plainly malformed.
// A pattern that parses as PCRE but not as RE2 typically uses constructs the
// engine cannot compile to an automaton.
func LintPattern(pattern string) string {
	if _, err := regexp.Compile(pattern); err == nil {
		return "pattern is valid RE2 syntax; the matching engine rejected it for an engine-specific reason"
	}
	if _, err := regexp2.Compile(pattern, regexp2.None); err == nil {
		return "pattern uses PCRE features the matching engine does not support, such as backreferences or lookaround"
	}
	return ""
}
