// Package nfa builds a Thompson-construction NFA from a parse tree and
// enumerates its basis paths. Edges are arena-allocated with a unique ID so
// later stages (path interpretation, checking) can keep their own scratch
// state in a side table keyed by that ID instead of mutating the graph.
package nfa

import (
	"github.com/elarsonSU/egret/internal/ast"
	"github.com/elarsonSU/egret/internal/egerr"
	"github.com/elarsonSU/egret/internal/loc"
	"github.com/elarsonSU/egret/internal/stats"
)

// EdgeKind tags the variant held by an Edge.
type EdgeKind byte

const (
	EpsilonEdge EdgeKind = iota
	CharacterEdge
	CharSetEdge
	StringEdge
	BeginLoopEdge
	EndLoopEdge
	CaretEdge
	DollarEdge
	BackreferenceEdge
)

// Edge is one transition in the NFA's edge table.
type Edge struct {
	ID   int
	Kind EdgeKind
	Loc  loc.Location

	Char    rune             // CharacterEdge
	CharSet *ast.CharSet     // CharSetEdge
	Str     *ast.RegexString // StringEdge
	Loop    *ast.RegexLoop   // BeginLoopEdge, EndLoopEdge
	Backref *ast.Backref     // BackreferenceEdge
}

// NFA is a Thompson-construction automaton over a dense state-pair edge
// table: regexes are small enough that the O(n^2) table never matters in
// practice, and it keeps addEdge/shiftStates simple and obviously correct.
type NFA struct {
	size    int
	initial int
	final   int
	edges   [][]*Edge

	nextEdgeID int
}

// Build converts a parse tree into an NFA via Thompson construction.
func Build(root *ast.Node) (*NFA, error) {
	b := &builder{}
	n, err := b.fromTree(root)
	if err != nil {
		return nil, err
	}
	n.nextEdgeID = b.nextEdgeID
	return n, nil
}

type builder struct {
	nextEdgeID int
}

func (b *builder) newEdge(kind EdgeKind, l loc.Location) *Edge {
	e := &Edge{ID: b.nextEdgeID, Kind: kind, Loc: l}
	b.nextEdgeID++
	return e
}

func newNFA(size, initial, final int) *NFA {
	n := &NFA{size: size, initial: initial, final: final}
	n.edges = make([][]*Edge, size)
	for i := range n.edges {
		n.edges[i] = make([]*Edge, size)
	}
	return n
}

func (b *builder) fromTree(node *ast.Node) (*NFA, error) {
	switch node.Kind {
	case ast.AlternationNode:
		return b.alternation(node)
	case ast.ConcatNode:
		return b.concat(node)
	case ast.RepeatNode:
		return b.repeat(node)
	case ast.GroupNode:
		return b.fromTree(node.Child)
	case ast.CharacterNode:
		n := newNFA(2, 0, 1)
		n.addEdge(0, 1, b.newEdgeWith(CharacterEdge, node.Loc, func(e *Edge) { e.Char = node.Char }))
		return n, nil
	case ast.CaretNode:
		n := newNFA(2, 0, 1)
		n.addEdge(0, 1, b.newEdge(CaretEdge, node.Loc))
		return n, nil
	case ast.DollarNode:
		n := newNFA(2, 0, 1)
		n.addEdge(0, 1, b.newEdge(DollarEdge, node.Loc))
		return n, nil
	case ast.CharSetNode:
		n := newNFA(2, 0, 1)
		n.addEdge(0, 1, b.newEdgeWith(CharSetEdge, node.Loc, func(e *Edge) { e.CharSet = node.CharSet }))
		return n, nil
	case ast.IgnoredNode:
		n := newNFA(2, 0, 1)
		n.addEdge(0, 1, b.newEdge(EpsilonEdge, loc.None))
		return n, nil
	case ast.BackreferenceNode:
		n := newNFA(2, 0, 1)
		n.addEdge(0, 1, b.newEdgeWith(BackreferenceEdge, node.Loc, func(e *Edge) { e.Backref = node.Backref }))
		return n, nil
	default:
		return nil, egerr.New(egerr.Internal, "invalid node kind in parse tree: %d", node.Kind)
	}
}

func (b *builder) newEdgeWith(kind EdgeKind, l loc.Location, set func(*Edge)) *Edge {
	e := b.newEdge(kind, l)
	set(e)
	return e
}

func (b *builder) alternation(node *ast.Node) (*NFA, error) {
	nfa1, err := b.fromTree(node.Left)
	if err != nil {
		return nil, err
	}
	nfa2, err := b.fromTree(node.Right)
	if err != nil {
		return nil, err
	}

	nfa1.shiftStates(1)
	nfa2.shiftStates(nfa1.size)

	n := nfa2.clone()
	n.fillStates(nfa1)

	eps1 := b.newEdge(EpsilonEdge, loc.None)
	eps2 := b.newEdge(EpsilonEdge, loc.None)
	n.addEdge(0, nfa1.initial, eps1)
	n.addEdge(0, nfa2.initial, eps2)
	n.initial = 0

	n.appendEmptyState()
	n.final = n.size - 1
	eps3 := b.newEdge(EpsilonEdge, loc.None)
	eps4 := b.newEdge(EpsilonEdge, loc.None)
	n.addEdge(nfa1.final, n.final, eps3)
	n.addEdge(nfa2.final, n.final, eps4)

	return n, nil
}

func (b *builder) concat(node *ast.Node) (*NFA, error) {
	nfa1, err := b.fromTree(node.Left)
	if err != nil {
		return nil, err
	}
	nfa2, err := b.fromTree(node.Right)
	if err != nil {
		return nil, err
	}
	return b.concatNFA(nfa1, nfa2), nil
}

func (b *builder) concatNFA(nfa1, nfa2 *NFA) *NFA {
	nfa2.shiftStates(nfa1.size)

	n := nfa2.clone()
	n.fillStates(nfa1)

	n.addEdge(nfa1.final, n.initial, b.newEdge(EpsilonEdge, loc.None))
	n.initial = nfa1.initial

	return n
}

func (b *builder) repeat(node *ast.Node) (*NFA, error) {
	loopLower, loopUpper := node.Loop.Lower, node.Loop.Upper

	if isRegexString(node.Child, loopLower, loopUpper) {
		return b.stringRepeat(node), nil
	}

	n, err := b.fromTree(node.Child)
	if err != nil {
		return nil, err
	}

	n.shiftStates(1)
	n.appendEmptyState()

	begin := b.newEdge(BeginLoopEdge, node.Loc)
	begin.Loop = node.Loop
	end := b.newEdge(EndLoopEdge, node.Loc)
	end.Loop = node.Loop

	n.addEdge(0, n.initial, begin)
	n.addEdge(n.final, n.size-1, end)

	n.initial = 0
	n.final = n.size - 1

	return n, nil
}

func (b *builder) stringRepeat(node *ast.Node) *NFA {
	n := newNFA(2, 0, 1)
	regexStr := &ast.RegexString{Set: node.Child.CharSet, Lower: node.Loop.Lower, Upper: node.Loop.Upper}
	l := loc.Location{Start: node.Child.Loc.Start, End: node.Loc.End}
	edge := b.newEdge(StringEdge, l)
	edge.Str = regexStr
	n.addEdge(0, 1, edge)
	return n
}

// isRegexString reports whether a Repeat(CharSet) collapses to a single
// string atom: unbounded, lower bound 0 or 1, and the set looks wordy
// enough to be worth treating as a string.
func isRegexString(child *ast.Node, lower, upper int) bool {
	if child.Kind != ast.CharSetNode {
		return false
	}
	if upper != -1 {
		return false
	}
	if lower != 0 && lower != 1 {
		return false
	}
	return child.CharSet.IsStringCandidate()
}

func (n *NFA) addEdge(from, to int, e *Edge) {
	n.edges[from][to] = e
}

func (n *NFA) clone() *NFA {
	c := &NFA{size: n.size, initial: n.initial, final: n.final}
	c.edges = make([][]*Edge, n.size)
	for i := range n.edges {
		c.edges[i] = append([]*Edge(nil), n.edges[i]...)
	}
	return c
}

func (n *NFA) shiftStates(shift int) {
	if shift < 1 {
		return
	}
	newSize := n.size + shift
	newEdges := make([][]*Edge, newSize)
	for i := range newEdges {
		newEdges[i] = make([]*Edge, newSize)
	}
	for i := 0; i < n.size; i++ {
		for j := 0; j < n.size; j++ {
			newEdges[i+shift][j+shift] = n.edges[i][j]
		}
	}
	n.size = newSize
	n.initial += shift
	n.final += shift
	n.edges = newEdges
}

// fillStates copies other's edges into n's table at their existing
// coordinates; n must already be at least as large as other (shiftStates
// makes room first).
func (n *NFA) fillStates(other *NFA) {
	for i := 0; i < other.size; i++ {
		for j := 0; j < other.size; j++ {
			n.edges[i][j] = other.edges[i][j]
		}
	}
}

func (n *NFA) appendEmptyState() {
	n.size++
	for i := range n.edges {
		n.edges[i] = append(n.edges[i], nil)
	}
	n.edges = append(n.edges, make([]*Edge, n.size))
}

// AddStats records per-edge-kind counts under the "NFA" tag.
func (n *NFA) AddStats(s *stats.Stats) {
	var edgeCount, charCount, charsetCount, stringCount int
	var beginLoopCount, endLoopCount, caretCount, dollarCount int
	var backrefCount, epsilonCount int

	for from := 0; from < n.size; from++ {
		for to := 0; to < n.size; to++ {
			e := n.edges[from][to]
			if e == nil {
				continue
			}
			edgeCount++
			switch e.Kind {
			case CharacterEdge:
				charCount++
			case CharSetEdge:
				charsetCount++
			case StringEdge:
				stringCount++
			case BeginLoopEdge:
				beginLoopCount++
			case EndLoopEdge:
				endLoopCount++
			case CaretEdge:
				caretCount++
			case DollarEdge:
				dollarCount++
			case BackreferenceEdge:
				backrefCount++
			case EpsilonEdge:
				epsilonCount++
			}
		}
	}

	s.Add("NFA", "NFA states", n.size)
	s.Add("NFA", "NFA edges", edgeCount)
	s.Add("NFA", "NFA character edges", charCount)
	s.Add("NFA", "NFA char set edges", charsetCount)
	s.Add("NFA", "NFA string edges", stringCount)
	s.Add("NFA", "NFA begin loop edges", beginLoopCount)
	s.Add("NFA", "NFA end loop edges", endLoopCount)
	s.Add("NFA", "NFA caret edges", caretCount)
	s.Add("NFA", "NFA dollar edges", dollarCount)
	s.Add("NFA", "NFA backreference edges", backrefCount)
	s.Add("NFA", "NFA epsilon edges", epsilonCount)
}
