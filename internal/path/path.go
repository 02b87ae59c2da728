// Package path interprets the basis paths NFA.FindBasisPaths enumerates:
// walking each path's edges in source order, accumulating the test string it
// represents, and tracking which edge instances are being walked for the
// first time across the whole path set (the ones that get to contribute an
// "evil" boundary-probing string later). All of this scratch state lives in
// Scratch, keyed by arena ID, so the ast and nfa packages stay immutable.
package path

import (
	"strings"

	"github.com/elarsonSU/egret/internal/ast"
	"github.com/elarsonSU/egret/internal/loc"
	"github.com/elarsonSU/egret/internal/nfa"
)

// Scratch accumulates per-edge-instance state across every path processed
// with it. Each edge instance is "processed" at most once in the sense that
// matters for evil-string generation: later paths that reuse the same edge
// (a shared prefix through the NFA) see it as already processed and do not
// contribute a fresh evil string for it; its text is still rebuilt per path.
type Scratch struct {
	processed map[int]bool
}

// NewScratch returns an empty Scratch, to be reused across every path of one
// regex's basis set.
func NewScratch() *Scratch {
	return &Scratch{processed: map[int]bool{}}
}

// EdgeResult is one edge's contribution to a single path's walk.
type EdgeResult struct {
	Edge *nfa.Edge
	Text string
	// Evil is true iff this is the first time any path in the set has
	// walked this exact edge instance, and the edge is a kind that
	// contributes boundary-probing strings (CharSet, String, EndLoop,
	// Backreference; BeginLoop never is).
	Evil bool
}

// Processed is the result of walking one path: its baseline test string,
// plus each edge's individual contribution so later stages can rebuild
// variants of it (substituting one edge's text for another).
type Processed struct {
	Path   nfa.Path
	Edges  []EdgeResult
	String string
}

// Process walks p's edges in order, accumulating the baseline test string
// the path represents. checkMode selects the representative-character
// strategy CharSet.GetValidCharacter uses; baseSubstring is the CLI-supplied
// string (default "evil") string-atom edges contribute, adapted per
// character to the atom's own set when a character wouldn't otherwise be a
// member of it.
func (s *Scratch) Process(p nfa.Path, checkMode bool, baseSubstring string) Processed {
	var b strings.Builder
	out := make([]EdgeResult, 0, len(p.Edges))
	bodyStart := map[int]int{}

	for _, e := range p.Edges {
		first := !s.processed[e.ID]
		s.processed[e.ID] = true

		var text string
		switch e.Kind {
		case nfa.BackreferenceEdge:
			text = backrefText(out, e.Backref.GroupLoc)
		case nfa.BeginLoopEdge:
			bodyStart[e.Loop.ID] = b.Len()
		case nfa.EndLoopEdge:
			// The path walks the loop body once; the end-loop edge tops the
			// string up to the loop's lower bound worth of repetitions.
			body := b.String()[bodyStart[e.Loop.ID]:]
			if e.Loop.Lower > 1 {
				text = strings.Repeat(body, e.Loop.Lower-1)
			}
		default:
			text = contribute(e, checkMode, baseSubstring)
		}

		b.WriteString(text)
		out = append(out, EdgeResult{Edge: e, Text: text, Evil: first && isEvilKind(e.Kind)})
	}

	return Processed{Path: p, Edges: out, String: b.String()}
}

func isEvilKind(k nfa.EdgeKind) bool {
	switch k {
	case nfa.CharSetEdge, nfa.StringEdge, nfa.EndLoopEdge, nfa.BackreferenceEdge:
		return true
	}
	return false
}

// contribute computes one ordinary edge's text; loop and backreference edges
// are handled inline by Process since they need the accumulated string.
func contribute(e *nfa.Edge, checkMode bool, baseSubstring string) string {
	switch e.Kind {
	case nfa.CharacterEdge:
		return string(e.Char)
	case nfa.CharSetEdge:
		r, ok := e.CharSet.GetValidCharacter(checkMode)
		if !ok {
			return ""
		}
		return string(r)
	case nfa.StringEdge:
		return fitBaseSubstring(e.Str, baseSubstring, checkMode)
	default:
		// EpsilonEdge, CaretEdge, DollarEdge contribute no characters of
		// their own; anchors are checked by position.
		return ""
	}
}

// fitBaseSubstring adapts base, character by character, so every character
// is actually a member of rs's set; a string atom collapsed from a
// bounded-class repeat (e.g. "\w+") almost always accepts base as-is, but a
// narrower one (e.g. "[a-f]+") needs its invalid characters replaced with a
// representative member instead.
func fitBaseSubstring(rs *ast.RegexString, base string, checkMode bool) string {
	runes := []rune(base)
	for i, r := range runes {
		if rs.IsValidCharacter(r) {
			continue
		}
		if fb, ok := rs.Set.GetValidCharacter(checkMode); ok {
			runes[i] = fb
		}
	}
	return string(runes)
}

// backrefText resolves a backreference by concatenating the text already
// contributed by every earlier edge on this path whose location falls
// strictly inside the referenced group's span. Because a backreference can
// only name a group that closed earlier in the source, every qualifying
// edge has already been processed by the time this runs.
func backrefText(soFar []EdgeResult, groupLoc loc.Location) string {
	if !groupLoc.Valid() {
		return ""
	}
	var b strings.Builder
	for _, er := range soFar {
		l := er.Edge.Loc
		if l.Valid() && l.Start > groupLoc.Start && l.Start < groupLoc.End {
			b.WriteString(er.Text)
		}
	}
	return b.String()
}

// WithSubstitution rebuilds the path's string with edge index i's
// contribution replaced by replacement and every other edge's contribution
// left exactly as Process computed it. This is the one building block every
// evil-string and example-string variant needs: a path string that differs
// from the baseline at exactly one position.
func (p Processed) WithSubstitution(i int, replacement string) string {
	var b strings.Builder
	for idx, er := range p.Edges {
		if idx == i {
			b.WriteString(replacement)
		} else {
			b.WriteString(er.Text)
		}
	}
	return b.String()
}

// WithSubstitutions is WithSubstitution generalized to several simultaneous
// replacements, keyed by edge index. Used by checks that need two distinct
// charset edges on the same path to each show a different representative
// character at once (e.g. the duplicate-punctuation-charset example).
func (p Processed) WithSubstitutions(repl map[int]string) string {
	var b strings.Builder
	for idx, er := range p.Edges {
		if r, ok := repl[idx]; ok {
			b.WriteString(r)
		} else {
			b.WriteString(er.Text)
		}
	}
	return b.String()
}

// HasLeadingCaret reports whether the path starts with a caret anchor,
// stepping over the edges that never contribute leading content (epsilons,
// loop boundaries, backreferences).
func (p Processed) HasLeadingCaret() bool {
	for _, er := range p.Edges {
		switch er.Edge.Kind {
		case nfa.CaretEdge:
			return true
		case nfa.BeginLoopEdge, nfa.EndLoopEdge, nfa.BackreferenceEdge, nfa.EpsilonEdge:
			// skip over
		default:
			return false
		}
	}
	return false
}

// HasTrailingDollar reports whether the path ends with a dollar anchor, with
// the same transparent-edge skipping scanning backward.
func (p Processed) HasTrailingDollar() bool {
	for i := len(p.Edges) - 1; i >= 0; i-- {
		switch p.Edges[i].Edge.Kind {
		case nfa.DollarEdge:
			return true
		case nfa.BeginLoopEdge, nfa.EndLoopEdge, nfa.BackreferenceEdge, nfa.EpsilonEdge:
			// skip over
		default:
			return false
		}
	}
	return false
}

// GenMinIterString builds the path's minimum-iteration string: every loop
// contributes its Lower bound worth of repetitions of whatever it
// contributed on the baseline walk (zero repetitions removes the one
// occurrence the NFA structurally walks), and every collapsed string atom
// contributes its substring only when its own Lower bound is nonzero.
func GenMinIterString(p Processed) string {
	var b strings.Builder
	bodyStart := map[int]int{}

	for _, er := range p.Edges {
		e := er.Edge
		switch e.Kind {
		case nfa.BeginLoopEdge:
			bodyStart[e.Loop.ID] = b.Len()
		case nfa.EndLoopEdge:
			start := bodyStart[e.Loop.ID]
			full := b.String()
			body := full[start:]
			if e.Loop.Lower == 0 {
				b.Reset()
				b.WriteString(full[:start])
				continue
			}
			for i := 1; i < e.Loop.Lower; i++ {
				b.WriteString(body)
			}
		case nfa.StringEdge:
			if e.Str.Lower != 0 {
				b.WriteString(er.Text)
			}
		default:
			b.WriteString(er.Text)
		}
	}
	return b.String()
}

// loopVariant rebuilds the path's string with one specific loop's body
// repeated count times (0 removing it entirely) and every other loop left at
// its natural, single baseline repetition. Used to probe iteration-count
// boundaries around one loop at a time.
func loopVariant(p Processed, loopID int, count int) string {
	var b strings.Builder
	bodyStart := 0

	for _, er := range p.Edges {
		e := er.Edge
		switch e.Kind {
		case nfa.BeginLoopEdge:
			if e.Loop.ID == loopID {
				bodyStart = b.Len()
			}
		case nfa.EndLoopEdge:
			if e.Loop.ID == loopID {
				full := b.String()
				body := full[bodyStart:]
				if count == 0 {
					b.Reset()
					b.WriteString(full[:bodyStart])
					continue
				}
				for i := 1; i < count; i++ {
					b.WriteString(body)
				}
				continue
			}
		}
		b.WriteString(er.Text)
	}
	return b.String()
}

// loopEvilCounts returns the iteration counts the end-loop evil-string row
// probes: a bounded equal-bounds loop
// ("{n}") gets one below and one above its count; a bounded unequal-bounds
// loop ("{m,n}") gets one below its minimum, its maximum, and one past its
// maximum; an unbounded loop with a minimum of zero or one gets zero and two
// (two proving the repetition actually repeats); an unbounded loop demanding
// two or more gets just one below its minimum.
func loopEvilCounts(l *ast.RegexLoop) []int {
	switch {
	case l.Upper == -1:
		if l.Lower <= 1 {
			return []int{0, 2}
		}
		return []int{l.Lower - 1}
	case l.Lower == l.Upper:
		return []int{l.Lower - 1, l.Upper + 1}
	default:
		oneLess := l.Lower - 1
		if oneLess < 0 {
			oneLess = 0
		}
		return []int{oneLess, l.Upper, l.Upper + 1}
	}
}

// GenEvilStrings returns every boundary-probing string this path's evil
// edges contribute: a representative-character substitution at each evil
// CharSet edge, a fixed perturbation table at each evil String edge, and
// iteration-count variants at each evil EndLoop edge.
//
// Backreference edges contribute nothing unless backrefEvil is set: the
// add/remove/modify-middle-character variants exist but ship disabled,
// preserving the default output while the experiment is evaluated.
func GenEvilStrings(p Processed, punctMarks []rune, backrefEvil bool) []string {
	var out []string
	puncts := toPunctSet(punctMarks)

	for i, er := range p.Edges {
		if !er.Evil {
			continue
		}
		e := er.Edge
		switch e.Kind {
		case nfa.CharSetEdge:
			for _, c := range e.CharSet.CreateTestChars(puncts) {
				out = append(out, p.WithSubstitution(i, string(c)))
			}
		case nfa.StringEdge:
			for _, s := range ast.EvilPerturbations(er.Text) {
				out = append(out, p.WithSubstitution(i, s))
			}
			if e.Str.Set.AllowsPunctuation() {
				for _, r := range punctMarks {
					out = append(out, p.WithSubstitution(i, string(r)))
				}
			}
		case nfa.EndLoopEdge:
			for _, count := range loopEvilCounts(e.Loop) {
				out = append(out, loopVariant(p, e.Loop.ID, count))
			}
		case nfa.BackreferenceEdge:
			if backrefEvil {
				for _, s := range backrefVariants(er.Text) {
					out = append(out, p.WithSubstitution(i, s))
				}
			}
		}
	}
	return out
}

// backrefVariants perturbs a captured group's text three ways: a character
// added, a character removed, and the middle character changed. Each
// produces a string the backreference no longer agrees with its group on.
func backrefVariants(captured string) []string {
	if captured == "" {
		return nil
	}
	added := captured + captured[len(captured)-1:]
	removed := captured[:len(captured)-1]

	modified := []byte(captured)
	mid := len(modified) / 2
	if modified[mid] == 'z' {
		modified[mid] = 'a'
	} else {
		modified[mid]++
	}

	return []string{added, removed, string(modified)}
}

func toPunctSet(marks []rune) map[rune]bool {
	m := make(map[rune]bool, len(marks))
	for _, r := range marks {
		m[r] = true
	}
	return m
}

