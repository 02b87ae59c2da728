// Package ast defines the parse-tree node, character-set, loop, string-atom,
// and backreference types produced by the parser and consumed by the NFA
// builder, path interpreter, and checker.
package ast

import "github.com/elarsonSU/egret/internal/loc"

// NodeKind tags the variant held by a Node.
type NodeKind byte

const (
	AlternationNode NodeKind = iota
	ConcatNode
	RepeatNode
	GroupNode
	CharacterNode
	CharSetNode
	CaretNode
	DollarNode
	BackreferenceNode
	IgnoredNode
)

// Node is a parse-tree node. Every node carries a Location; binary nodes
// (Alternation, Concat) own Left/Right; Repeat and Group own Child.
type Node struct {
	Kind NodeKind
	Loc  loc.Location

	Left  *Node // Alternation, Concat
	Right *Node // Alternation, Concat
	Child *Node // Repeat, Group

	Char rune // CharacterNode

	CharSet *CharSet // CharSetNode

	Loop *RegexLoop // RepeatNode

	GroupNum int // GroupNode (0 if not numbered)

	Backref *Backref // BackreferenceNode
}
