package parser

import (
	"errors"
	"testing"

	"github.com/elarsonSU/egret/internal/ast"
	"github.com/elarsonSU/egret/internal/egerr"
	"github.com/elarsonSU/egret/internal/token"
)

func parse(t *testing.T, src string) *Result {
	t.Helper()
	sc := token.NewScanner(src, false)
	if err := sc.Scan(); err != nil {
		t.Fatalf("Scan(%q): %v", src, err)
	}
	res, err := Parse(sc.Tokens())
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return res
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	sc := token.NewScanner(src, false)
	if err := sc.Scan(); err != nil {
		t.Fatalf("Scan(%q): %v", src, err)
	}
	_, err := Parse(sc.Tokens())
	if err == nil {
		t.Fatalf("Parse(%q): expected error", src)
	}
	return err
}

func TestParseAlternation(t *testing.T) {
	root := parse(t, `a|b`).Root
	if root.Kind != ast.AlternationNode {
		t.Fatalf("expected alternation, got %v", root.Kind)
	}
	if root.Left.Char != 'a' || root.Right.Char != 'b' {
		t.Errorf("alternation children wrong: %c %c", root.Left.Char, root.Right.Char)
	}
}

func TestParseConcatIsLeftAssociative(t *testing.T) {
	root := parse(t, `abc`).Root
	if root.Kind != ast.ConcatNode || root.Left.Kind != ast.ConcatNode {
		t.Fatalf("expected ((a.b).c), got %v/%v", root.Kind, root.Left.Kind)
	}
	if root.Right.Char != 'c' || root.Left.Left.Char != 'a' || root.Left.Right.Char != 'b' {
		t.Errorf("concat children wrong")
	}
}

func TestParseQuantifiers(t *testing.T) {
	tests := []struct {
		src          string
		lower, upper int
	}{
		{`a*`, 0, -1},
		{`a+`, 1, -1},
		{`a?`, 0, 1},
		{`a{2,5}`, 2, 5},
		{`a{3}`, 3, 3},
		{`a{2,}`, 2, -1},
	}
	for _, tt := range tests {
		root := parse(t, tt.src).Root
		if root.Kind != ast.RepeatNode {
			t.Fatalf("Parse(%q): expected repeat, got %v", tt.src, root.Kind)
		}
		if root.Loop.Lower != tt.lower || root.Loop.Upper != tt.upper {
			t.Errorf("Parse(%q): bounds {%d,%d}, want {%d,%d}", tt.src, root.Loop.Lower, root.Loop.Upper, tt.lower, tt.upper)
		}
	}
}

func TestParseEmptyAlternationBranchBecomesOptional(t *testing.T) {
	for _, src := range []string{`a|`, `|a`} {
		root := parse(t, src).Root
		if root.Kind != ast.RepeatNode || root.Loop.Lower != 0 || root.Loop.Upper != 1 {
			t.Errorf("Parse(%q): expected optional wrap, got %v", src, root.Kind)
		}
		if root.Child.Char != 'a' {
			t.Errorf("Parse(%q): wrapped child wrong", src)
		}
	}
}

func TestParseBothBranchesEmptyIsError(t *testing.T) {
	err := parseErr(t, `|`)
	var ee *egerr.EngineError
	if !errors.As(err, &ee) || ee.Kind != egerr.PointlessAlternation {
		t.Errorf("expected pointless alternation, got %v", err)
	}
}

func TestParseGroupNumbering(t *testing.T) {
	// Plain and named groups are numbered; (?: and ignored extensions are not.
	res := parse(t, `(a)(?:b)(?P<x>c)(d)`)
	var nums []int
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.Kind == ast.GroupNode {
			nums = append(nums, n.GroupNum)
		}
		walk(n.Left)
		walk(n.Right)
		walk(n.Child)
	}
	walk(res.Root)

	seen := map[int]bool{}
	for _, n := range nums {
		seen[n] = true
	}
	if !seen[1] || !seen[2] || !seen[3] {
		t.Errorf("expected group numbers 1-3 assigned, got %v", nums)
	}
	if seen[4] {
		t.Errorf("(?: group must not be numbered, got %v", nums)
	}
}

func TestParseSingleCharSetFoldsToCharacter(t *testing.T) {
	root := parse(t, `[x]`).Root
	if root.Kind != ast.CharacterNode || root.Char != 'x' {
		t.Errorf("[x] should fold to Character x, got %v", root.Kind)
	}

	// Complemented single-element sets must not fold.
	root = parse(t, `[^x]`).Root
	if root.Kind != ast.CharSetNode || !root.CharSet.Complement {
		t.Errorf("[^x] should stay a complemented set, got %v", root.Kind)
	}
}

func TestParseCharSetItems(t *testing.T) {
	root := parse(t, `[a-z0\d]`).Root
	cs := root.CharSet
	if len(cs.Items) != 3 {
		t.Fatalf("expected 3 items, got %v", cs.Items)
	}
	if cs.Items[0].Kind != ast.ItemRange || cs.Items[0].Lo != 'a' || cs.Items[0].Hi != 'z' {
		t.Errorf("item 0: want range a-z, got %+v", cs.Items[0])
	}
	if cs.Items[1].Kind != ast.ItemCharacter || cs.Items[1].Char != '0' {
		t.Errorf("item 1: want character 0, got %+v", cs.Items[1])
	}
	if cs.Items[2].Kind != ast.ItemClass || cs.Items[2].Char != 'd' {
		t.Errorf("item 2: want class d, got %+v", cs.Items[2])
	}
}

func TestParseReversedRangeIsError(t *testing.T) {
	err := parseErr(t, `[z-a]`)
	var ee *egerr.EngineError
	if !errors.As(err, &ee) || ee.Kind != egerr.BadRange {
		t.Errorf("expected bad range, got %v", err)
	}
}

func TestParseWordBoundaryWarns(t *testing.T) {
	res := parse(t, `a\bb`)
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", res.Warnings)
	}
	if res.Warnings[0].Message != `Regex contains ignored element \b` {
		t.Errorf("unexpected warning: %q", res.Warnings[0].Message)
	}
}

func TestParseIgnoredExtension(t *testing.T) {
	res := parse(t, `(?i)abc`)
	if len(res.Warnings) != 1 {
		t.Errorf("expected ignored-extension warning, got %v", res.Warnings)
	}
}

func TestParseBackrefResolvesGroupLocation(t *testing.T) {
	res := parse(t, `(ab)\1`)
	var br *ast.Backref
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.Kind == ast.BackreferenceNode {
			br = n.Backref
		}
		walk(n.Left)
		walk(n.Right)
		walk(n.Child)
	}
	walk(res.Root)

	if br == nil {
		t.Fatal("no backreference node found")
	}
	if br.GroupLoc.Start != 0 || br.GroupLoc.End != 3 {
		t.Errorf("backref group loc = %+v, want [0,3]", br.GroupLoc)
	}
}

func TestParseNodeLocationsSpanSource(t *testing.T) {
	root := parse(t, `(foo|bar)+`).Root
	if root.Loc.Start != 0 || root.Loc.End != 9 {
		t.Errorf("root loc = %+v, want [0,9]", root.Loc)
	}
}

func TestParseDistinctLoopIDs(t *testing.T) {
	res := parse(t, `a?(b|)c*`)
	ids := map[int]bool{}
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if n == nil {
			return
		}
		if n.Kind == ast.RepeatNode {
			if ids[n.Loop.ID] {
				t.Errorf("loop ID %d assigned twice", n.Loop.ID)
			}
			ids[n.Loop.ID] = true
		}
		walk(n.Left)
		walk(n.Right)
		walk(n.Child)
	}
	walk(res.Root)
	if len(ids) != 3 {
		t.Errorf("expected 3 distinct loops, got %v", ids)
	}
}
