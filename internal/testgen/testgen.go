// Package testgen assembles the final test-input suite from a regex's
// processed basis paths: one baseline string per path, one minimum-iteration
// variant per path, and every evil boundary-probing string each path's evil
// edges contribute, in that order, deduplicated.
package testgen

import (
	"fmt"
	"io"

	"github.com/elarsonSU/egret/internal/path"
)

// Generate returns the deduplicated test-string suite for paths. When debug
// is non-nil, the initial (per-path baseline) and minimum-iteration strings
// are echoed to it as they're produced. backrefEvil enables the
// experimental backreference perturbations, off by default.
func Generate(paths []path.Processed, punctMarks []rune, backrefEvil bool, debug io.Writer) []string {
	var all []string

	all = append(all, getInitialStrings(paths, debug)...)
	all = append(all, genMinIterStrings(paths, debug)...)
	all = append(all, genEvilStrings(paths, punctMarks, backrefEvil)...)

	return dedupReversed(all)
}

func getInitialStrings(paths []path.Processed, debug io.Writer) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		out = append(out, p.String)
	}
	if debug != nil && len(out) > 0 {
		fmt.Fprintln(debug, "Initial Test Strings:")
		for _, s := range out {
			fmt.Fprintln(debug, s)
		}
	}
	return out
}

func genMinIterStrings(paths []path.Processed, debug io.Writer) []string {
	out := make([]string, 0, len(paths))
	if debug != nil && len(paths) > 0 {
		fmt.Fprintln(debug, "Minimum Iteration Test Strings:")
	}
	for _, p := range paths {
		s := path.GenMinIterString(p)
		out = append(out, s)
		if debug != nil {
			fmt.Fprintln(debug, s)
		}
	}
	return out
}

func genEvilStrings(paths []path.Processed, punctMarks []rune, backrefEvil bool) []string {
	var out []string
	for _, p := range paths {
		out = append(out, path.GenEvilStrings(p, punctMarks, backrefEvil)...)
	}
	return out
}

// dedupReversed keeps the first occurrence of each distinct string, then
// reverses the resulting list, so the most-derived strings (evil variants)
// lead and the plain baselines close the suite.
func dedupReversed(strs []string) []string {
	seen := make(map[string]bool, len(strs))
	uniq := make([]string, 0, len(strs))
	for _, s := range strs {
		if seen[s] {
			continue
		}
		seen[s] = true
		uniq = append(uniq, s)
	}
	out := make([]string, len(uniq))
	for i, s := range uniq {
		out[len(uniq)-1-i] = s
	}
	return out
}
