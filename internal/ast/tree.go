package ast

import (
	"minicc/internal/source"
	"minicc/internal/token"
)

// Tree is a finished syntax tree. It is never mutated after Builder.Finish,
// so it may be shared by concurrent readers.
type Tree struct {
	File  source.FileID
	Root  NodeID
	nodes *Arena[Node]
}

// Node returns the node for id, or nil when id is out of range. Callers must
// treat the result as read-only.
func (t *Tree) Node(id NodeID) *Node {
	return t.nodes.Get(uint32(id))
}

// Len is the number of nodes in the tree.
func (t *Tree) Len() int { return int(t.nodes.Len()) }

func (t *Tree) Kind(id NodeID) Kind {
	if n := t.Node(id); n != nil {
		return n.Kind
	}
	return KindInvalid
}

func (t *Tree) Children(id NodeID) []NodeID {
	if n := t.Node(id); n != nil {
		return n.Children
	}
	return nil
}

// Child returns the i-th child of id or NoNodeID.
func (t *Tree) Child(id NodeID, i int) NodeID {
	ch := t.Children(id)
	if i < 0 || i >= len(ch) {
		return NoNodeID
	}
	return ch[i]
}

// Token returns the token wrapped by a terminal node.
func (t *Tree) Token(id NodeID) (token.Token, bool) {
	n := t.Node(id)
	if n == nil || n.Tok == nil {
		return token.Token{}, false
	}
	return *n.Tok, true
}

// Symbol returns the identifier name bound to id, if any.
func (t *Tree) Symbol(id NodeID) (string, bool) {
	n := t.Node(id)
	if n == nil || n.Symbol == "" {
		return "", false
	}
	return n.Symbol, true
}

func (t *Tree) Span(id NodeID) source.Span {
	if n := t.Node(id); n != nil {
		return n.Span
	}
	return source.Span{File: t.File}
}

// IsIdent reports whether id is a terminal wrapping an identifier.
func (t *Tree) IsIdent(id NodeID) bool {
	tok, ok := t.Token(id)
	return ok && t.Kind(id) == Terminal && tok.Kind == token.Ident
}

// IsNumber reports whether id is a terminal wrapping a numeric literal.
func (t *Tree) IsNumber(id NodeID) bool {
	tok, ok := t.Token(id)
	return ok && t.Kind(id) == Terminal && (tok.Kind == token.IntLit || tok.Kind == token.FloatLit)
}

// Walk visits id and its descendants depth-first, pre-order. Returning false
// from fn skips the children of that node.
func (t *Tree) Walk(id NodeID, fn func(id NodeID, depth int) bool) {
	t.walk(id, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(NodeID, int) bool) {
	if t.Node(id) == nil || !fn(id, depth) {
		return
	}
	for _, ch := range t.Children(id) {
		t.walk(ch, depth+1, fn)
	}
}
