// Package parser implements the recursive-descent parser: a hand-written
// predictive parser consuming the Scanner's token stream and producing an
// *ast.Node tree, assigning group numbers and arena IDs for
// CharSet/RegexLoop/Backref records as it goes.
package parser

import (
	"github.com/elarsonSU/egret/internal/ast"
	"github.com/elarsonSU/egret/internal/egerr"
	"github.com/elarsonSU/egret/internal/loc"
	"github.com/elarsonSU/egret/internal/token"
)

// Warning is a non-fatal diagnostic surfaced during parsing (ignored
// extensions, ignored elements) that the caller forwards to the alert
// accumulator; unlike an EngineError it never aborts parsing.
type Warning struct {
	Kind    string
	Message string
	Loc     loc.Location
}

// Result is everything the parser hands back to the NFA builder and engine.
type Result struct {
	Root     *ast.Node
	Warnings []Warning

	// NumCharSets/NumLoops/NumBackrefs are the arena sizes assigned while
	// parsing; the objects themselves are reachable from the tree. Surfaced
	// in the stats table.
	NumCharSets int
	NumLoops    int
	NumBackrefs int
}

// Parse consumes the full token stream and returns the parse tree. An empty
// regex (zero tokens) parses to a single Ignored node, matching an epsilon
// NFA that accepts only the empty string.
func Parse(tokens []token.Token) (*Result, error) {
	p := &parser{
		tokens:         tokens,
		groupLocs:      map[int]loc.Location{},
		namedGroupLocs: map[string]loc.Location{},
	}

	root, ok, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, egerr.New(egerr.ParseError, "unexpected token at position %d", p.pos)
	}
	if !ok {
		root = &ast.Node{Kind: ast.IgnoredNode, Loc: loc.Location{Start: 0, End: -1}}
	}

	return &Result{
		Root:        root,
		Warnings:    p.warnings,
		NumCharSets: p.csID,
		NumLoops:    p.loopID,
		NumBackrefs: p.backrefID,
	}, nil
}

type parser struct {
	tokens []token.Token
	pos    int

	groupCount int
	groupLocs  map[int]loc.Location
	namedGroupLocs map[string]loc.Location

	csID, loopID, backrefID int

	warnings []Warning
}

func (p *parser) nextCSID() int       { id := p.csID; p.csID++; return id }
func (p *parser) nextLoopID() int     { id := p.loopID; p.loopID++; return id }
func (p *parser) nextBackrefID() int  { id := p.backrefID; p.backrefID++; return id }

func (p *parser) peek() token.Token {
	if p.pos >= len(p.tokens) {
		return token.Token{Kind: token.Err}
	}
	return p.tokens[p.pos]
}

func (p *parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i < 0 || i >= len(p.tokens) {
		return token.Token{Kind: token.Err}
	}
	return p.tokens[i]
}

func (p *parser) at(k token.Kind) bool { return p.peek().Kind == k }

func (p *parser) advance() token.Token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if !p.at(k) {
		return token.Token{}, egerr.New(egerr.ParseError, "expected token kind %v at position %d", k, p.pos)
	}
	return p.advance(), nil
}

func span(a, b loc.Location) loc.Location {
	return loc.Location{Start: a.Start, End: b.End}
}

// canStartAtom reports whether a token of the given kind can begin an atom,
// used by concat to decide when to stop gathering rep nodes.
func canStartAtom(k token.Kind) bool {
	switch k {
	case token.Character, token.CharClass, token.Caret, token.Dollar,
		token.WordBoundary, token.Backreference, token.LParen, token.LBracket, token.Hyphen:
		return true
	}
	return false
}

// wrapOptional turns the non-empty side of an empty alternation branch into
// an optional repeat, so "a|" matches "a" or the empty string.
func (p *parser) wrapOptional(n *ast.Node) *ast.Node {
	return &ast.Node{
		Kind:  ast.RepeatNode,
		Loc:   n.Loc,
		Child: n,
		Loop:  &ast.RegexLoop{ID: p.nextLoopID(), Lower: 0, Upper: 1},
	}
}

// expr ::= concat '|' expr | '|' expr | concat '|' | '|' | concat
func (p *parser) parseExpr() (*ast.Node, bool, error) {
	left, leftOk, err := p.parseConcat()
	if err != nil {
		return nil, false, err
	}
	if !p.at(token.Alternation) {
		return left, leftOk, nil
	}
	altTok := p.advance()

	right, rightOk, err := p.parseExpr()
	if err != nil {
		return nil, false, err
	}

	switch {
	case !leftOk && !rightOk:
		return nil, false, egerr.New(egerr.PointlessAlternation, "alternation has no content on either side at position %d", altTok.Loc.Start)
	case !leftOk:
		return p.wrapOptional(right), true, nil
	case !rightOk:
		return p.wrapOptional(left), true, nil
	default:
		return &ast.Node{Kind: ast.AlternationNode, Loc: span(left.Loc, right.Loc), Left: left, Right: right}, true, nil
	}
}

// concat ::= rep concat?
func (p *parser) parseConcat() (*ast.Node, bool, error) {
	first, ok, err := p.parseRep()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	for canStartAtom(p.peek().Kind) {
		next, ok, err := p.parseRep()
		if err != nil {
			return nil, false, err
		}
		if !ok {
			break
		}
		first = &ast.Node{Kind: ast.ConcatNode, Loc: span(first.Loc, next.Loc), Left: first, Right: next}
	}
	return first, true, nil
}

// rep ::= atom ('*' | '+' | '?' | '{m,n}')?
func (p *parser) parseRep() (*ast.Node, bool, error) {
	atom, ok, err := p.parseAtom()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	var lower, upper int
	switch p.peek().Kind {
	case token.Star:
		lower, upper = 0, -1
	case token.Plus:
		lower, upper = 1, -1
	case token.Question:
		lower, upper = 0, 1
	case token.Repeat:
		t := p.peek()
		lower, upper = t.RepeatLower, t.RepeatUpper
	default:
		return atom, true, nil
	}
	quantTok := p.advance()

	loopNode := &ast.Node{
		Kind:  ast.RepeatNode,
		Loc:   span(atom.Loc, quantTok.Loc),
		Child: atom,
		Loop:  &ast.RegexLoop{ID: p.nextLoopID(), Lower: lower, Upper: upper},
	}
	return loopNode, true, nil
}

// atom ::= group | character | char_class | char_set
func (p *parser) parseAtom() (*ast.Node, bool, error) {
	switch p.peek().Kind {
	case token.Character:
		t := p.advance()
		return &ast.Node{Kind: ast.CharacterNode, Loc: t.Loc, Char: t.Char}, true, nil

	case token.Hyphen:
		t := p.advance()
		return &ast.Node{Kind: ast.CharacterNode, Loc: t.Loc, Char: '-'}, true, nil

	case token.CharClass:
		t := p.advance()
		cs := &ast.CharSet{
			ID:    p.nextCSID(),
			Loc:   t.Loc,
			Items: []ast.CharSetItem{{Kind: ast.ItemClass, Char: t.Char, Loc: t.Loc}},
		}
		return &ast.Node{Kind: ast.CharSetNode, Loc: t.Loc, CharSet: cs}, true, nil

	case token.Caret:
		t := p.advance()
		return &ast.Node{Kind: ast.CaretNode, Loc: t.Loc}, true, nil

	case token.Dollar:
		t := p.advance()
		return &ast.Node{Kind: ast.DollarNode, Loc: t.Loc}, true, nil

	case token.WordBoundary:
		t := p.advance()
		p.warnings = append(p.warnings, Warning{Kind: "ignored element", Message: "Regex contains ignored element \\b", Loc: t.Loc})
		return &ast.Node{Kind: ast.IgnoredNode, Loc: t.Loc}, true, nil

	case token.Backreference:
		t := p.advance()
		return &ast.Node{Kind: ast.BackreferenceNode, Loc: t.Loc, Backref: p.makeBackref(t)}, true, nil

	case token.LBracket:
		return p.parseCharSet()

	case token.LParen:
		return p.parseGroup()

	default:
		return nil, false, nil
	}
}

func (p *parser) makeBackref(t token.Token) *ast.Backref {
	b := &ast.Backref{ID: p.nextBackrefID(), GroupName: t.GroupName, GroupNum: t.GroupNum, GroupLoc: loc.None}
	if t.GroupName != "" {
		if gl, ok := p.namedGroupLocs[t.GroupName]; ok {
			b.GroupLoc = gl
		}
	} else if gl, ok := p.groupLocs[t.GroupNum]; ok {
		b.GroupLoc = gl
	}
	return b
}

// char_set ::= '[' '^'? char_list ']'
func (p *parser) parseCharSet() (*ast.Node, bool, error) {
	lb := p.advance() // LBracket

	complement := false
	if p.at(token.Caret) {
		p.advance()
		complement = true
	}

	var items []ast.CharSetItem
	for !p.at(token.RBracket) {
		if p.pos >= len(p.tokens) {
			return nil, false, egerr.New(egerr.ParseError, "unterminated character set starting at position %d", lb.Loc.Start)
		}
		item, err := p.parseListItem()
		if err != nil {
			return nil, false, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, false, egerr.New(egerr.ParseError, "empty character set at position %d", lb.Loc.Start)
	}
	rb, err := p.expect(token.RBracket)
	if err != nil {
		return nil, false, err
	}

	cs := &ast.CharSet{ID: p.nextCSID(), Items: items, Complement: complement, Loc: span(lb.Loc, rb.Loc)}

	// A single-element non-complemented set folds to a plain Character node,
	// the only semantic simplification the parser performs.
	if cs.IsSingleChar() {
		return &ast.Node{Kind: ast.CharacterNode, Loc: cs.Loc, Char: items[0].Char}, true, nil
	}
	return &ast.Node{Kind: ast.CharSetNode, Loc: cs.Loc, CharSet: cs}, true, nil
}

// list_item ::= CHARACTER | CHAR_CLASS | CHARACTER '-' CHARACTER
func (p *parser) parseListItem() (ast.CharSetItem, error) {
	switch p.peek().Kind {
	case token.CharClass:
		t := p.advance()
		return ast.CharSetItem{Kind: ast.ItemClass, Char: t.Char, Loc: t.Loc}, nil

	case token.Character:
		t := p.advance()
		if p.at(token.Hyphen) && p.peekAt(1).Kind == token.Character {
			p.advance() // hyphen
			t2 := p.advance()
			if t.Char > t2.Char {
				return ast.CharSetItem{}, egerr.New(egerr.BadRange, "character range %c-%c is reversed", t.Char, t2.Char)
			}
			return ast.CharSetItem{Kind: ast.ItemRange, Lo: t.Char, Hi: t2.Char, Loc: span(t.Loc, t2.Loc)}, nil
		}
		return ast.CharSetItem{Kind: ast.ItemCharacter, Char: t.Char, Loc: t.Loc}, nil

	case token.Hyphen:
		t := p.advance()
		return ast.CharSetItem{Kind: ast.ItemCharacter, Char: '-', Loc: t.Loc}, nil

	default:
		return ast.CharSetItem{}, egerr.New(egerr.Internal, "unexpected token inside character set at position %d", p.pos)
	}
}

// group ::= '(' ext? expr? ')'
func (p *parser) parseGroup() (*ast.Node, bool, error) {
	lp := p.advance() // LParen

	if p.at(token.Backreference) {
		t := p.advance()
		rp, err := p.expect(token.RParen)
		if err != nil {
			return nil, false, err
		}
		return &ast.Node{Kind: ast.BackreferenceNode, Loc: span(lp.Loc, rp.Loc), Backref: p.makeBackref(t)}, true, nil
	}

	numbered := true
	var groupName string
	ignored := false

	switch {
	case p.at(token.NoGroupExt):
		p.advance()
		numbered = false
	case p.at(token.NamedGroupExt):
		t := p.advance()
		groupName = t.GroupName
	case p.at(token.IgnoredExt):
		t := p.advance()
		p.warnings = append(p.warnings, Warning{
			Kind:    "ignored extension",
			Message: "Regex contains ignored extension",
			Loc:     t.Loc,
		})
		ignored = true
		numbered = false
	}

	var groupNum int
	if numbered {
		p.groupCount++
		groupNum = p.groupCount
	}

	body, bodyOk, err := p.parseExpr()
	if err != nil {
		return nil, false, err
	}

	rp, err := p.expect(token.RParen)
	if err != nil {
		return nil, false, err
	}
	full := span(lp.Loc, rp.Loc)

	if groupName != "" {
		p.namedGroupLocs[groupName] = full
	}
	if numbered {
		p.groupLocs[groupNum] = full
	}

	if ignored {
		return &ast.Node{Kind: ast.IgnoredNode, Loc: full}, true, nil
	}

	if !bodyOk {
		body = &ast.Node{Kind: ast.IgnoredNode, Loc: full}
	}

	return &ast.Node{Kind: ast.GroupNode, Loc: full, Child: body, GroupNum: groupNum}, true, nil
}
