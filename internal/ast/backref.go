package ast

import "github.com/elarsonSU/egret/internal/loc"

// Backref represents a backreference "\N" or "(?P=name)", resolved during
// path interpretation to the text captured by the group it names.
type Backref struct {
	ID        int
	GroupName string // empty if numbered
	GroupNum  int
	GroupLoc  loc.Location // full span of the referenced group, "(" through its matching ")"
}
