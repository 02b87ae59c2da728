// Package engine wires the analysis pipeline together: scanner, parser, NFA
// builder, basis-path enumeration, path interpretation, checker, and test
// generation. There is no package-level state; everything one invocation
// needs travels in a Ctx, so concurrent engines are independent.
package engine

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"unicode"

	"github.com/elarsonSU/egret/internal/alert"
	"github.com/elarsonSU/egret/internal/ast"
	"github.com/elarsonSU/egret/internal/checker"
	"github.com/elarsonSU/egret/internal/egerr"
	"github.com/elarsonSU/egret/internal/nfa"
	"github.com/elarsonSU/egret/internal/parser"
	"github.com/elarsonSU/egret/internal/path"
	"github.com/elarsonSU/egret/internal/render"
	"github.com/elarsonSU/egret/internal/stats"
	"github.com/elarsonSU/egret/internal/testgen"
	"github.com/elarsonSU/egret/internal/token"
)

// DefaultBaseSubstring seeds string-atom repetitions when the caller doesn't
// supply one.
const DefaultBaseSubstring = "evil"

// Ctx carries one invocation's inputs and collaborators.
type Ctx struct {
	Regex         string
	BaseSubstring string

	CheckMode bool
	WebMode   bool
	DebugMode bool
	StatMode  bool

	// ExperimentalBackrefEvil enables the disabled-by-default backreference
	// perturbation strings. Default output is unchanged while it is false.
	ExperimentalBackrefEvil bool

	// Renderer formats alert highlights; chosen from WebMode when nil.
	Renderer render.Renderer

	// Out receives debug traces and the stats table. Defaults to io.Discard.
	Out io.Writer
}

// Run analyzes ctx.Regex and returns the engine's output lines. In check
// mode the lines are the diagnostics (or a single "No violations detected."
// line); in test-generation mode they are the diagnostics, a "BEGIN"
// sentinel, and the generated test strings. On a fatal condition the lines
// are a single "ERROR (<kind>): ..." entry and the error is also returned;
// no partial output ever accompanies an error.
func Run(ctx *Ctx) ([]string, error) {
	out, err := run(ctx)
	if err != nil {
		var ee *egerr.EngineError
		if !errors.As(err, &ee) {
			ee = egerr.New(egerr.Internal, "%v", err)
			err = ee
		}
		return []string{ee.Error()}, err
	}
	return out, nil
}

func run(ctx *Ctx) ([]string, error) {
	if ctx.Out == nil {
		ctx.Out = io.Discard
	}
	if ctx.Renderer == nil {
		if ctx.WebMode {
			ctx.Renderer = render.Web{}
		} else {
			ctx.Renderer = render.NewANSI(false)
		}
	}
	if ctx.BaseSubstring == "" {
		ctx.BaseSubstring = DefaultBaseSubstring
	}
	if err := checkBaseSubstring(ctx.BaseSubstring); err != nil {
		return nil, err
	}

	st := stats.New()
	if ctx.DebugMode {
		fmt.Fprintf(ctx.Out, "RegEx: %s\n", ctx.Regex)
	}

	sc := token.NewScanner(ctx.Regex, ctx.CheckMode)
	if err := sc.Scan(); err != nil {
		return nil, err
	}
	tokens := sc.Tokens()
	if ctx.DebugMode {
		printTokens(ctx.Out, tokens)
	}
	if ctx.StatMode {
		st.Add("Scanner", "Tokens", len(tokens))
	}

	res, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	if ctx.StatMode {
		st.Add("Parse tree", "Parse tree nodes", countNodes(res.Root))
		st.Add("Parse tree", "Character sets", res.NumCharSets)
		st.Add("Parse tree", "Loops", res.NumLoops)
		st.Add("Parse tree", "Backreferences", res.NumBackrefs)
	}

	sink := alert.NewSink(ctx.CheckMode)
	for _, w := range res.Warnings {
		sink.Add(alert.Alert{Kind: alert.KindIgnored, Severity: alert.Warning, Message: w.Message, Loc1: w.Loc})
	}

	n, err := nfa.Build(res.Root)
	if err != nil {
		return nil, err
	}
	if ctx.StatMode {
		n.AddStats(st)
	}

	basisPaths := n.FindBasisPaths()
	scratch := path.NewScratch()
	processed := make([]path.Processed, 0, len(basisPaths))
	for _, p := range basisPaths {
		processed = append(processed, scratch.Process(p, ctx.CheckMode, ctx.BaseSubstring))
	}
	if ctx.StatMode {
		st.Add("Paths", "Basis paths", len(processed))
	}

	checker.Run(processed, tokens, ctx.Regex, sink, ctx.WebMode)

	var testStrings []string
	if !ctx.CheckMode {
		var debug io.Writer
		if ctx.DebugMode {
			debug = ctx.Out
		}
		testStrings = testgen.Generate(processed, sortedPunctMarks(sc.PunctMarks()), ctx.ExperimentalBackrefEvil, debug)
		if ctx.StatMode {
			st.Add("Test generation", "Test strings", len(testStrings))
		}
	}

	if ctx.StatMode {
		fmt.Fprint(ctx.Out, st.String())
	}

	rendered := make([]string, 0, len(sink.Alerts()))
	for _, a := range sink.Alerts() {
		rendered = append(rendered, render.FormatAlert(a, ctx.Regex, ctx.Renderer))
	}

	if ctx.CheckMode {
		if len(rendered) == 0 {
			return []string{"No violations detected."}, nil
		}
		return rendered, nil
	}

	out := make([]string, 0, len(rendered)+1+len(testStrings))
	out = append(out, rendered...)
	out = append(out, "BEGIN")
	out = append(out, testStrings...)
	return out, nil
}

// checkBaseSubstring enforces the documented constraint on the string-atom
// seed: at least two characters, letters only.
func checkBaseSubstring(base string) error {
	runes := []rune(base)
	if len(runes) < 2 {
		return egerr.New(egerr.BadArguments, "Base substring must have at least two letters")
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return egerr.New(egerr.BadArguments, "Base substring can only contain letters")
		}
	}
	return nil
}

func sortedPunctMarks(marks map[rune]bool) []rune {
	out := make([]rune, 0, len(marks))
	for r := range marks {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func printTokens(w io.Writer, tokens []token.Token) {
	fmt.Fprintln(w, "Tokens:")
	for _, t := range tokens {
		fmt.Fprintf(w, "  %s", t.Kind)
		switch t.Kind {
		case token.Character, token.CharClass:
			fmt.Fprintf(w, " %q", t.Char)
		case token.Repeat:
			fmt.Fprintf(w, " {%d,%d}", t.RepeatLower, t.RepeatUpper)
		case token.Backreference:
			if t.GroupName != "" {
				fmt.Fprintf(w, " %s", t.GroupName)
			} else {
				fmt.Fprintf(w, " %d", t.GroupNum)
			}
		case token.NamedGroupExt:
			fmt.Fprintf(w, " %s", t.GroupName)
		}
		fmt.Fprintf(w, " [%d,%d]\n", t.Loc.Start, t.Loc.End)
	}
}

func countNodes(root *ast.Node) int {
	if root == nil {
		return 0
	}
	return 1 + countNodes(root.Left) + countNodes(root.Right) + countNodes(root.Child)
}
