// Package checker runs the lint rules over a regex's basis paths: anchor
// placement, character-set internals, duplicate punctuation sets, optional
// braces, wildcard/punctuation adjacency, repeated punctuation, and overly
// optional digits. Each rule is a pass over the processed paths' edge
// slices; findings go to the alert sink.
package checker

import (
	"strings"

	"github.com/elarsonSU/egret/internal/alert"
	"github.com/elarsonSU/egret/internal/ast"
	"github.com/elarsonSU/egret/internal/loc"
	"github.com/elarsonSU/egret/internal/nfa"
	"github.com/elarsonSU/egret/internal/path"
	"github.com/elarsonSU/egret/internal/token"
)

// Run executes every rule in a fixed order, adding findings to sink. regexSrc and tokens are needed for the anchor-usage
// rule's "wrap in ^(...)$" rewrite suggestion and the charset-sep rule's
// parenthesized-fallback rewrite.
func Run(paths []path.Processed, tokens []token.Token, regexSrc string, sink *alert.Sink, webMode bool) {
	checkAnchorUsage(paths, tokens, regexSrc, webMode, sink)
	checkAnchorInMiddle(paths, sink)
	checkCharsets(paths, regexSrc, sink)
	checkOptionalBraces(paths, sink)
	checkWildPunctuation(paths, sink)
	checkRepeatPunctuation(paths, sink)
	checkDigitTooOptional(paths, sink)
}

func eol(webMode bool) string {
	if webMode {
		return "<br>"
	}
	return "\n"
}

// checkAnchorUsage: if some basis paths lead with "^" (or trail with "$")
// and others don't, warn once per anchor kind, naming one example string
// from each side.
func checkAnchorUsage(paths []path.Processed, tokens []token.Token, regexSrc string, webMode bool, sink *alert.Sink) {
	if len(paths) == 0 {
		return
	}
	allCaret := paths[0].HasLeadingCaret()
	allDollar := paths[0].HasTrailingDollar()
	first := paths[0].String
	warnedCaret, warnedDollar := false, false
	suggest := fixAnchors(tokens, regexSrc)
	caretLoc := firstTokenLoc(tokens, token.Caret)
	dollarLoc := firstTokenLoc(tokens, token.Dollar)

	for _, p := range paths {
		caret, dollar := p.HasLeadingCaret(), p.HasTrailingDollar()

		if !warnedCaret && caret != allCaret {
			withCaret, without := first, p.String
			if caret {
				withCaret, without = p.String, first
			}
			msg := "Some but not all strings start with a ^ anchor" + eol(webMode) +
				"...String with ^ anchor: " + withCaret + eol(webMode) +
				"...String with no ^ anchor: " + without
			sink.Add(alert.Alert{Kind: alert.KindAnchorUsage, Severity: alert.Violation, Message: msg, Suggest: suggest, HasSuggest: true, Loc1: caretLoc})
			warnedCaret = true
		}
		if !warnedDollar && dollar != allDollar {
			withDollar, without := first, p.String
			if dollar {
				withDollar, without = p.String, first
			}
			msg := "Some but not all strings end with a $ anchor" + eol(webMode) +
				"...String with $ anchor: " + withDollar + eol(webMode) +
				"...String with no $ anchor: " + without
			sink.Add(alert.Alert{Kind: alert.KindAnchorUsage, Severity: alert.Violation, Message: msg, Suggest: suggest, HasSuggest: true, Loc1: dollarLoc})
			warnedDollar = true
		}
	}
}

// firstTokenLoc returns the location of the first token of the given kind,
// anchoring the caret and dollar halves of the anchor-usage rule at distinct
// spots so the alert sink's (kind, location) dedup keeps them both.
func firstTokenLoc(tokens []token.Token, k token.Kind) loc.Location {
	for _, t := range tokens {
		if t.Kind == k {
			return t.Loc
		}
	}
	return loc.None
}

// fixAnchors renders regexSrc with every Caret/Dollar token dropped and the
// whole thing wrapped in "^(...)$".
func fixAnchors(tokens []token.Token, regexSrc string) string {
	var b strings.Builder
	b.WriteString("^(")
	for _, t := range tokens {
		if t.Kind == token.Caret || t.Kind == token.Dollar {
			continue
		}
		b.WriteString(regexSrc[t.Loc.Start : t.Loc.End+1])
	}
	b.WriteString(")$")
	return b.String()
}

// isAnchorSkippable reports whether an edge kind is transparent to the
// leading-caret/trailing-dollar/anchor-in-middle scans: loop boundaries,
// backreferences, and epsilons never themselves anchor or un-anchor a
// string, so they're stepped over rather than treated as "real" content.
func isAnchorSkippable(k nfa.EdgeKind) bool {
	switch k {
	case nfa.BeginLoopEdge, nfa.EndLoopEdge, nfa.BackreferenceEdge, nfa.EpsilonEdge:
		return true
	}
	return false
}

// checkAnchorInMiddle stops at the very first path (and first occurrence
// within it) that has a "^" following real content, or a "$" preceding it.
func checkAnchorInMiddle(paths []path.Processed, sink *alert.Sink) {
	for _, p := range paths {
		if anchorInMiddle(p, sink) {
			return
		}
	}
}

func anchorInMiddle(p path.Processed, sink *alert.Sink) bool {
	seenNonAnchor, seenDollar := false, false
	var nonAnchorLoc, dollarLoc loc.Location

	for _, er := range p.Edges {
		switch {
		case er.Edge.Kind == nfa.CaretEdge:
			if seenNonAnchor {
				msg := "Generated string has ^ anchor in middle: " + p.String
				sink.Add(alert.Alert{Kind: alert.KindAnchorInMiddle, Severity: alert.Violation, Message: msg, Loc1: nonAnchorLoc, Loc2: er.Edge.Loc})
				return true
			}
		case er.Edge.Kind == nfa.DollarEdge:
			seenDollar = true
			dollarLoc = er.Edge.Loc
		case isAnchorSkippable(er.Edge.Kind):
			// transparent, skip
		default:
			seenNonAnchor = true
			nonAnchorLoc = er.Edge.Loc
			if seenDollar {
				msg := "Generated string has $ anchor in middle: " + p.String
				sink.Add(alert.Alert{Kind: alert.KindAnchorInMiddle, Severity: alert.Violation, Message: msg, Loc1: dollarLoc, Loc2: nonAnchorLoc})
				return true
			}
		}
	}
	return false
}

// charsetOf extracts the CharSet an edge carries, whether it's a direct
// CharSet edge or a collapsed String atom, along with the location to blame.
func charsetOf(e *nfa.Edge) (*ast.CharSet, loc.Location) {
	switch e.Kind {
	case nfa.CharSetEdge:
		return e.CharSet, e.Loc
	case nfa.StringEdge:
		return e.Str.Set, e.Loc
	}
	return nil, loc.None
}

// checkCharsets checks each CharSet/String edge for internal malformations
// (charset-sep, bad range, duplicate char, brace mismatch), and compares
// charsets that degenerate to punctuation-only content within their own
// path for duplicate signatures. alert.Sink's dedup by (kind, loc) absorbs
// the repeat work of re-checking a charset shared by several paths.
func checkCharsets(paths []path.Processed, regexSrc string, sink *alert.Sink) {
	for _, p := range paths {
		seen := map[string]int{} // punctuation signature -> edge index
		for i, er := range p.Edges {
			cs, csLoc := charsetOf(er.Edge)
			if cs == nil {
				continue
			}
			checkOneCharset(p, i, cs, csLoc, regexSrc, sink)
			checkDuplicatePuncCharset(p, i, cs, csLoc, seen, sink)
		}
	}
}

func checkOneCharset(p path.Processed, idx int, cs *ast.CharSet, csLoc loc.Location, regexSrc string, sink *alert.Sink) {
	if cs.IsSingleChar() {
		return
	}

	if sep, ok := cs.MiddleSeparator(); ok {
		emitCharsetSep(p, idx, cs, csLoc, sep, regexSrc, sink)
		return
	}

	for _, bad := range cs.BadRanges() {
		msg := "The fragment " + string(bad.Lo) + "-" + string(bad.Hi) + " is interpreted as a range"
		suggest := cs.FixBadRange(bad.Lo, bad.Hi)
		sink.Add(alert.Alert{Kind: alert.KindBadRange, Severity: alert.Violation, Message: msg, Suggest: suggest, HasSuggest: true, Loc1: csLoc})
	}

	if dups := cs.DuplicateChars(); len(dups) > 0 {
		var b strings.Builder
		b.WriteString("Duplicate characters in character set:")
		for _, r := range dups {
			b.WriteByte(' ')
			b.WriteRune(r)
		}
		sink.Add(alert.Alert{Kind: alert.KindDuplicateChar, Severity: alert.Violation, Message: b.String(), Loc1: csLoc})
	}

	for _, msg := range cs.BraceMismatches() {
		sink.Add(alert.Alert{Kind: alert.KindCharsetBrace, Severity: alert.Violation, Message: msg, Loc1: csLoc})
	}
}

// emitCharsetSep: a 3-item set whose middle item is a literal separator
// gets a rewrite suggestion (a bracket-to-parens swap for "|", a separator
// drop or range collapse for ",") plus an example string that substitutes
// the separator itself in place of the charset.
func emitCharsetSep(p path.Processed, idx int, cs *ast.CharSet, csLoc loc.Location, sep rune, regexSrc string, sink *alert.Sink) {
	var msg, suggest string
	switch sep {
	case '|':
		msg = "Likely use of | in character set for alternation"
		suggest = cs.ReplaceWithParens(regexSrc)
	case ',':
		msg = "Likely use of , in character set to separate cases"
		suggest = "[" + cs.FixCommaBarCharset(sep) + "]"
	}
	example := p.WithSubstitution(idx, string(sep))
	sink.Add(alert.Alert{Kind: alert.KindCharsetSeparator, Severity: alert.Violation, Message: msg, Suggest: suggest, HasSuggest: true, Example: example, HasExample: true, Loc1: csLoc})
}

// checkDuplicatePuncCharset: two punctuation-only charsets on the same path
// with identical sorted content (and not the harmless "+-"/"-+" shape) can
// accept mismatched pairs, e.g. one set picks "(" and the other picks ")".
func checkDuplicatePuncCharset(p path.Processed, idx int, cs *ast.CharSet, csLoc loc.Location, seen map[string]int, sink *alert.Sink) {
	if !cs.OnlyHasPuncAndSpaces(true) {
		return
	}
	sig := cs.PunctuationSignature()
	if len(sig) <= 1 || sig == "+-" || sig == "-+" {
		return
	}
	otherIdx, ok := seen[sig]
	if !ok {
		seen[sig] = idx
		return
	}

	otherCS, otherLoc := charsetOf(p.Edges[otherIdx].Edge)
	c1, _ := otherCS.GetValidCharacter(false)
	c2, _ := cs.GetValidCharacterExcept(false, c1)

	example := p.WithSubstitutions(map[int]string{otherIdx: string(c1), idx: string(c2)})
	msg := "Duplicate character set of punctuation marks can lead to mismatched punctuation usage"
	sink.Add(alert.Alert{Kind: alert.KindDuplicatePunctuation, Severity: alert.Violation, Message: msg, Example: example, HasExample: true, Loc1: otherLoc, Loc2: csLoc})
}

// checkOptionalBraces: a loop with bounds {0,1} wrapping exactly one
// bracket/brace/paren character
// signals that the string can come out with one side but not the other.
// Each bracket kind is tracked independently and reported per-path,
// including the joint "both optional" case when an open and its matching
// close both show up this way.
func checkOptionalBraces(paths []path.Processed, sink *alert.Sink) {
	pairs := []struct{ open, close rune }{{'(', ')'}, {'{', '}'}, {'[', ']'}}

	for _, p := range paths {
		found := map[rune]loc.Location{}

		i := 0
		for i < len(p.Edges) {
			e := p.Edges[i].Edge
			if e.Kind == nfa.BeginLoopEdge && e.Loop.Lower == 0 && e.Loop.Upper == 1 &&
				i+2 < len(p.Edges) &&
				p.Edges[i+1].Edge.Kind == nfa.CharacterEdge &&
				p.Edges[i+2].Edge.Kind == nfa.EndLoopEdge && p.Edges[i+2].Edge.Loop.ID == e.Loop.ID {

				ch := p.Edges[i+1].Edge.Char
				if isBracketChar(ch) {
					found[ch] = loc.Location{Start: e.Loc.Start, End: p.Edges[i+2].Edge.Loc.End}
				}
				i += 3
				continue
			}
			i++
		}

		for _, pair := range pairs {
			openLoc, hasOpen := found[pair.open]
			closeLoc, hasClose := found[pair.close]
			switch {
			case hasOpen && hasClose:
				msg := "Optional " + string(pair.open) + " and " + string(pair.close) + " found - accepts strings that have one but not the other"
				sink.Add(alert.Alert{Kind: alert.KindOptionalBrace, Severity: alert.Violation, Message: msg, Example: p.String, HasExample: true, Loc1: openLoc, Loc2: closeLoc})
			case hasOpen:
				msg := "Optional " + string(pair.open) + " found - accepts strings that have one but not the other"
				sink.Add(alert.Alert{Kind: alert.KindOptionalBrace, Severity: alert.Violation, Message: msg, Example: p.String, HasExample: true, Loc1: openLoc})
			case hasClose:
				msg := "Optional " + string(pair.close) + " found - accepts strings that have one but not the other"
				sink.Add(alert.Alert{Kind: alert.KindOptionalBrace, Severity: alert.Violation, Message: msg, Example: p.String, HasExample: true, Loc1: closeLoc})
			}
		}
	}
}

func isBracketChar(c rune) bool {
	switch c {
	case '(', ')', '{', '}', '[', ']':
		return true
	}
	return false
}

// wildCandidate reports whether e is the kind "wild punctuation" looks for:
// the wildcard class or a complemented set, whether collapsed into a String
// atom or left as a plain CharSet edge.
func wildCandidate(e *nfa.Edge) (cs *ast.CharSet, ok bool) {
	switch e.Kind {
	case nfa.CharSetEdge:
		if e.CharSet.IsWildcard() || e.CharSet.Complement {
			return e.CharSet, true
		}
	case nfa.StringEdge:
		if e.Str.IsWildCandidate() {
			return e.Str.Set, true
		}
	}
	return nil, false
}

// checkWildPunctuation: a wildcard or complemented set directly adjacent
// (skipping loop boundaries
// and epsilons) to a literal punctuation character it would itself match
// probably meant to exclude that character.
func checkWildPunctuation(paths []path.Processed, sink *alert.Sink) {
	for _, p := range paths {
		for i, er := range p.Edges {
			cs, ok := wildCandidate(er.Edge)
			if !ok {
				continue
			}
			if j := significantNeighbor(p, i, -1); j >= 0 {
				emitWildPunctuation(p, i, j, cs, sink)
			}
			if j := significantNeighbor(p, i, 1); j >= 0 {
				emitWildPunctuation(p, i, j, cs, sink)
			}
		}
	}
}

// significantNeighbor walks from i in the given direction (-1 or 1),
// skipping epsilon and loop-boundary edges, stopping at the first "real"
// edge, or past the slice end.
func significantNeighbor(p path.Processed, i, dir int) int {
	j := i + dir
	for j >= 0 && j < len(p.Edges) {
		k := p.Edges[j].Edge.Kind
		if k != nfa.EpsilonEdge && k != nfa.BeginLoopEdge && k != nfa.EndLoopEdge {
			return j
		}
		j += dir
	}
	return -1
}

func emitWildPunctuation(p path.Processed, wildIdx, neighborIdx int, cs *ast.CharSet, sink *alert.Sink) {
	neighbor := p.Edges[neighborIdx].Edge
	if neighbor.Kind != nfa.CharacterEdge || !isPunct(neighbor.Char) || !cs.IsValidCharacter(neighbor.Char) {
		return
	}
	wildLoc := p.Edges[wildIdx].Edge.Loc
	msg := "Wildcard may wish to exclude adjacent punctuation mark " + string(neighbor.Char)
	suggest := fixWildPunctuation(cs, neighbor.Char)
	example := p.WithSubstitution(wildIdx, string(neighbor.Char))
	sink.Add(alert.Alert{Kind: alert.KindWildPunctuation, Severity: alert.Violation, Message: msg, Suggest: suggest, HasSuggest: true, Example: example, HasExample: true, Loc1: wildLoc, Loc2: neighbor.Loc})
}

// fixWildPunctuation suggests excluding c: a wildcard becomes "[^c]", an
// already-complemented set gets c appended to its existing exclusions.
func fixWildPunctuation(cs *ast.CharSet, c rune) string {
	if cs.IsWildcard() {
		return "[^" + string(c) + "]"
	}
	return cs.String()[:len(cs.String())-1] + string(c) + "]"
}

func isPunct(r rune) bool {
	return strings.ContainsRune("!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~", r)
}

// repeatPuncLimit decides how many copies the example shows: three by
// default, the loop's own lower bound if it demands
// more than three, or exactly two when the upper bound caps repetition there.
func repeatPuncLimit(lower, upper int) int {
	limit := 3
	if lower > 3 {
		limit = lower
	} else if upper == 2 {
		limit = upper
	}
	return limit
}

// checkRepeatPunctuation: a punctuation character repeated via an
// unbounded String atom, or via a
// {m,n} loop wrapping a single punctuation character, probably means more
// than one occurrence is expected but the regex doesn't say "repeated
// exactly once" on purpose.
func checkRepeatPunctuation(paths []path.Processed, sink *alert.Sink) {
	for _, p := range paths {
		i := 0
		for i < len(p.Edges) {
			e := p.Edges[i].Edge

			if e.Kind == nfa.StringEdge && e.Str.IsRepeatPuncCandidate() {
				c := e.Str.Set.Items[0].Char
				emitRepeatPunctuation(c, e.Str.Lower, e.Str.Upper, e.Loc, sink)
				i++
				continue
			}

			if e.Kind == nfa.BeginLoopEdge && i+2 < len(p.Edges) &&
				p.Edges[i+1].Edge.Kind == nfa.CharacterEdge && isPunct(p.Edges[i+1].Edge.Char) &&
				p.Edges[i+2].Edge.Kind == nfa.EndLoopEdge && p.Edges[i+2].Edge.Loop.ID == e.Loop.ID {

				c := p.Edges[i+1].Edge.Char
				loop := e.Loop
				full := loc.Location{Start: e.Loc.Start, End: p.Edges[i+2].Edge.Loc.End}
				emitRepeatPunctuation(c, loop.Lower, loop.Upper, full, sink)
				i += 3
				continue
			}

			i++
		}
	}
}

func emitRepeatPunctuation(c rune, lower, upper int, l loc.Location, sink *alert.Sink) {
	if lower == upper || (upper != -1 && upper < 2) {
		return
	}
	limit := repeatPuncLimit(lower, upper)
	example := strings.Repeat(string(c), limit)
	msg := "Punctuation mark may be repeated two or more times: " + string(c)
	sink.Add(alert.Alert{Kind: alert.KindRepeatPunctuation, Severity: alert.Violation, Message: msg, Example: example, HasExample: true, Loc1: l})
}

// checkDigitTooOptional: a {0,n} loop wrapping a \d, [0-9], or [1-9] set
// whose minimum-iteration
// string has no digit in it at all flags that the regex accepts strings
// with no digit where the author likely meant at least one.
func checkDigitTooOptional(paths []path.Processed, sink *alert.Sink) {
	for _, p := range paths {
		i := 0
		for i < len(p.Edges) {
			e := p.Edges[i].Edge
			if e.Kind == nfa.BeginLoopEdge && e.Loop.Lower == 0 && i+2 < len(p.Edges) &&
				p.Edges[i+1].Edge.Kind == nfa.CharSetEdge &&
				p.Edges[i+1].Edge.CharSet.IsDigitTooOptionalCandidate() &&
				p.Edges[i+2].Edge.Kind == nfa.EndLoopEdge && p.Edges[i+2].Edge.Loop.ID == e.Loop.ID {

				full := loc.Location{Start: e.Loc.Start, End: p.Edges[i+2].Edge.Loc.End}
				minIter := path.GenMinIterString(p)
				if !containsDigit(minIter) {
					msg := "Digit range allows for zero digits causing a string with no digits to be accepted"
					sink.Add(alert.Alert{Kind: alert.KindDigitTooOptional, Severity: alert.Violation, Message: msg, Example: minIter, HasExample: true, Loc1: full})
				}
				i += 3
				continue
			}
			i++
		}
	}
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
