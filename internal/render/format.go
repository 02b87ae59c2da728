package render

import (
	"sort"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/elarsonSU/egret/internal/alert"
	"github.com/elarsonSU/egret/internal/loc"
)

// maxRegexGraphemes caps how much of a long regex is echoed back in a
// diagnostic before the tail is elided.
const maxRegexGraphemes = 200

// FormatAlert renders one alert into its multi-line diagnostic string:
//
//	WARNING|VIOLATION (<kind>): <message>
//	...Regex: <regex with the alert's spans highlighted>
//	...Suggested fix: <rewritten regex>
//	...Example accepted string: <string>
//
// The regex line appears only when the alert anchors to a source span; the
// fix and example lines only when the alert carries them.
func FormatAlert(a alert.Alert, regexSrc string, r Renderer) string {
	lb := r.Break()
	var b strings.Builder

	if a.Severity == alert.Warning {
		b.WriteString("WARNING (")
	} else {
		b.WriteString("VIOLATION (")
	}
	b.WriteString(string(a.Kind))
	b.WriteString("): ")
	b.WriteString(a.Message)
	b.WriteString(lb)

	if a.Loc1.Valid() {
		b.WriteString("...Regex: ")
		b.WriteString(highlightSource(regexSrc, a, r))
		b.WriteString(lb)
	}

	if a.HasSuggest {
		b.WriteString("...Suggested fix: ")
		b.WriteString(a.Suggest)
		b.WriteString(lb)
	}

	if a.HasExample {
		b.WriteString("...Example accepted string: ")
		b.WriteString(a.Example)
		b.WriteString(lb)
	}

	return b.String()
}

// highlightSource echoes the regex with the alert's one or two locations
// wrapped in the renderer's highlight markers. Over-long sources are elided
// after maxRegexGraphemes clusters, but never in a way that cuts through a
// highlighted span.
func highlightSource(src string, a alert.Alert, r Renderer) string {
	spans := alertSpans(src, a)

	display := src
	elided := false
	if cut := graphemePrefixLen(src, maxRegexGraphemes); cut < len(src) && spansEndBefore(spans, cut) {
		display = src[:cut]
		elided = true
	}

	var b strings.Builder
	pos := 0
	for _, sp := range spans {
		if sp.Start < pos {
			continue
		}
		b.WriteString(display[pos:sp.Start])
		b.WriteString(r.Highlight(display[sp.Start:sp.End+1], a.Severity))
		pos = sp.End + 1
	}
	b.WriteString(display[pos:])
	if elided {
		b.WriteString("…")
	}
	return b.String()
}

// alertSpans collects the alert's valid locations, clamped to the source and
// ordered by start offset. A zero-valued Loc2 counts as unused.
func alertSpans(src string, a alert.Alert) []loc.Location {
	var spans []loc.Location
	for i, l := range []loc.Location{a.Loc1, a.Loc2} {
		if !l.Valid() || l.Start >= len(src) || (i == 1 && l == loc.Location{}) {
			continue
		}
		if l.End >= len(src) {
			l.End = len(src) - 1
		}
		spans = append(spans, l)
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start < spans[j].Start })
	return spans
}

func spansEndBefore(spans []loc.Location, cut int) bool {
	for _, sp := range spans {
		if sp.End >= cut {
			return false
		}
	}
	return true
}

// graphemePrefixLen returns the byte length of the prefix of s holding at
// most n grapheme clusters, so elision never splits a multi-byte or combining
// sequence.
func graphemePrefixLen(s string, n int) int {
	g := uniseg.NewGraphemes(s)
	count, bytes := 0, 0
	for g.Next() {
		if count == n {
			return bytes
		}
		_, to := g.Positions()
		bytes = to
		count++
	}
	return len(s)
}
