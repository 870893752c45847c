// Package prefilter gates expensive scans with an Aho-Corasick pass over
// literal fragments extracted from the expressions. The filter only
// over-approximates: an expression it drops cannot match the content, an
// expression it keeps still has to be confirmed by a real scan.
package prefilter

import (
	"bytes"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/runescan/runescan/pkg/types"
)

// minLiteralLen keeps noisy one and two byte literals out of the automaton.
const minLiteralLen = 3

// Prefilter answers which expressions could match a given content.
type Prefilter struct {
	matcher      *ahocorasick.Matcher
	literals     []string
	literalExprs map[string][]*types.Expression
	alwaysCheck  []*types.Expression
}

// New builds a prefilter for exprs. Expressions without a usable literal
// always pass through. Literals are case-folded so the filter stays sound
// for caseless expressions.
func New(exprs []*types.Expression) *Prefilter {
	pf := &Prefilter{literalExprs: make(map[string][]*types.Expression)}
	seen := make(map[string]bool)
	for _, e := range exprs {
		lit := strings.ToLower(requiredLiteral(e.Pattern()))
		if len(lit) < minLiteralLen {
			pf.alwaysCheck = append(pf.alwaysCheck, e)
			continue
		}
		if !seen[lit] {
			seen[lit] = true
			pf.literals = append(pf.literals, lit)
		}
		pf.literalExprs[lit] = append(pf.literalExprs[lit], e)
	}
	if len(pf.literals) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.literals)
	}
	return pf
}

// Filter returns the expressions that could match content, in no particular
// order. An empty result means a full scan of content cannot match anything.
func (pf *Prefilter) Filter(content []byte) []*types.Expression {
	result := append([]*types.Expression(nil), pf.alwaysCheck...)
	if pf.matcher == nil {
		return result
	}
	for _, hit := range pf.matcher.Match(bytes.ToLower(content)) {
		result = append(result, pf.literalExprs[pf.literals[hit]]...)
	}
	return result
}

// requiredLiteral extracts the longest run of literal bytes that every match
// of pattern must contain. It returns "" when no run is guaranteed, e.g. in
// the presence of alternation. Literals found inside a group whose whole
// content is optional (`(...)?`, `(...)*`, `(...){...}`) are discarded: the
// group may be absent from a match, so nothing inside it is mandatory.
func requiredLiteral(pattern string) string {
	if strings.ContainsRune(pattern, '|') {
		// an alternation anywhere makes no single literal mandatory
		return ""
	}

	var best, run []byte
	var groups [][]byte // best candidate as of each open group
	flush := func() {
		if len(run) > len(best) {
			best = append(best[:0], run...)
		}
		run = run[:0]
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch c {
		case '\\':
			// escape sequences may stand for classes; end the run
			flush()
			i++
		case '?', '*':
			// the preceding element is optional
			if len(run) > 0 {
				run = run[:len(run)-1]
			}
			flush()
		case '{':
			// a counted repeat with a possible zero lower bound; treat the
			// preceding element like an optional one
			if len(run) > 0 {
				run = run[:len(run)-1]
			}
			flush()
			for i < len(pattern) && pattern[i] != '}' {
				i++
			}
		case '[':
			flush()
			i++
			for i < len(pattern) && pattern[i] != ']' {
				if pattern[i] == '\\' {
					i++
				}
				i++
			}
		case '(':
			flush()
			groups = append(groups, append([]byte(nil), best...))
			if i+1 < len(pattern) && pattern[i+1] == '?' {
				// non-capturing group marker, not pattern bytes
				i++
				if i+1 < len(pattern) && pattern[i+1] == ':' {
					i++
				}
			}
		case ')':
			flush()
			var before []byte
			if n := len(groups); n > 0 {
				before = groups[n-1]
				groups = groups[:n-1]
			}
			if i+1 < len(pattern) {
				switch pattern[i+1] {
				case '?', '*', '{':
					// the whole group is optional or repeats from zero;
					// revert to the candidate found before it opened
					best = before
					i++
					if pattern[i] == '{' {
						for i < len(pattern) && pattern[i] != '}' {
							i++
						}
					}
				}
			}
		case ']', '.', '^', '$', '+':
			flush()
		default:
			run = append(run, c)
		}
	}
	flush()
	return string(best)
}
