// Package oracle wraps github.com/dlclark/regexp2 as an independent
// accept/reject matcher for generated test strings. It never participates in
// scanning, parsing, NFA construction, or path enumeration — it exists so the
// CLI's --verify mode and the test suite can check a generated string's
// acceptance against a second, unrelated engine, the way §8's idempotence
// property calls for.
package oracle

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// Matcher compiles a regex once and answers whether it accepts a given
// string, per dlclark/regexp2's unanchored-match semantics.
type Matcher struct {
	re *regexp2.Regexp
}

// Compile builds a Matcher for src. regexp2's default option set (no
// RE2 mode) gives it the closest available surface to this engine's own
// backreference and lazy-quantifier support.
func Compile(src string) (*Matcher, error) {
	re, err := regexp2.Compile(src, regexp2.None)
	if err != nil {
		return nil, fmt.Errorf("oracle: compile %q: %w", src, err)
	}
	return &Matcher{re: re}, nil
}

// Accepts reports whether s matches somewhere within the pattern (regexp2's
// ordinary, unanchored MatchString semantics); the generated test string's
// own leading/trailing anchors, if any, came from the regex itself, so no
// additional anchoring is added here.
func (m *Matcher) Accepts(s string) (bool, error) {
	ok, err := m.re.MatchString(s)
	if err != nil {
		return false, fmt.Errorf("oracle: match %q: %w", s, err)
	}
	return ok, nil
}

// Verdict is one test string's oracle verification outcome.
type Verdict struct {
	String   string
	Accepted bool
	Err      error
}

// Verify runs every string in strs through m, collecting one Verdict each.
// A per-string match error (e.g. a runtime regexp2 timeout) is recorded on
// that Verdict rather than aborting the rest of the batch.
func Verify(m *Matcher, strs []string) []Verdict {
	out := make([]Verdict, len(strs))
	for i, s := range strs {
		accepted, err := m.Accepts(s)
		out[i] = Verdict{String: s, Accepted: accepted, Err: err}
	}
	return out
}
