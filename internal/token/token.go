// Package token defines the lexical tokens produced by the Scanner and the
// Scanner itself: a hand-written, single-pass, context-sensitive lexer over
// the regex subset this engine analyzes.
package token

import "github.com/elarsonSU/egret/internal/loc"

// Kind identifies the lexical category of a Token.
type Kind byte

const (
	Err Kind = iota
	Alternation
	Star
	Plus
	Question
	Repeat // RepeatLower/RepeatUpper set; RepeatUpper == -1 means unbounded
	LParen
	RParen
	LBracket
	RBracket
	Caret
	Dollar
	Hyphen
	Character   // Char holds the literal rune
	CharClass   // Char holds the class letter: d,D,w,W,s,S, or '.' for the wildcard
	WordBoundary
	NoGroupExt
	NamedGroupExt // GroupName set
	IgnoredExt
	Backreference // GroupNum or GroupName set
)

//go:generate stringer -type=Kind

func (k Kind) String() string {
	switch k {
	case Err:
		return "Err"
	case Alternation:
		return "Alternation"
	case Star:
		return "Star"
	case Plus:
		return "Plus"
	case Question:
		return "Question"
	case Repeat:
		return "Repeat"
	case LParen:
		return "LParen"
	case RParen:
		return "RParen"
	case LBracket:
		return "LBracket"
	case RBracket:
		return "RBracket"
	case Caret:
		return "Caret"
	case Dollar:
		return "Dollar"
	case Hyphen:
		return "Hyphen"
	case Character:
		return "Character"
	case CharClass:
		return "CharClass"
	case WordBoundary:
		return "WordBoundary"
	case NoGroupExt:
		return "NoGroupExt"
	case NamedGroupExt:
		return "NamedGroupExt"
	case IgnoredExt:
		return "IgnoredExt"
	case Backreference:
		return "Backreference"
	default:
		return "Unknown"
	}
}

// Token is a single lexical unit with its source Location.
type Token struct {
	Kind Kind
	Loc  loc.Location

	Char rune // Character / CharClass payload

	RepeatLower int // Repeat payload
	RepeatUpper int // -1 means unbounded

	GroupNum  int // Backreference payload (0 if named)
	GroupName string
}
