package ast

import (
	"minicc/internal/source"
	"minicc/internal/token"
)

type Builder struct {
	file  source.FileID
	nodes *Arena[Node]
	done  bool
}

func NewBuilder(file source.FileID, capHint uint) *Builder {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Builder{
		file:  file,
		nodes: NewArena[Node](capHint),
	}
}

// Terminal wraps tok. Identifier terminals get their text as Symbol.
func (b *Builder) Terminal(tok token.Token) NodeID {
	t := tok
	n := Node{Kind: Terminal, Span: tok.Span, Tok: &t}
	if tok.Kind == token.Ident {
		n.Symbol = tok.Text
	}
	return NodeID(b.nodes.Allocate(n))
}

// New allocates an interior node. The span defaults to the cover of its
// children when sp is empty.
func (b *Builder) New(kind Kind, sp source.Span, children ...NodeID) NodeID {
	if sp.Empty() && len(children) > 0 {
		sp = b.cover(children)
	}
	return NodeID(b.nodes.Allocate(Node{
		Kind:     kind,
		Span:     sp,
		Children: append([]NodeID(nil), children...),
	}))
}

// Named is New plus a bound symbol name.
func (b *Builder) Named(kind Kind, sp source.Span, symbol string, children ...NodeID) NodeID {
	id := b.New(kind, sp, children...)
	b.nodes.Get(uint32(id)).Symbol = symbol
	return id
}

func (b *Builder) cover(children []NodeID) source.Span {
	var sp source.Span
	first := true
	for _, ch := range children {
		n := b.nodes.Get(uint32(ch))
		if n == nil {
			continue
		}
		if first {
			sp = n.Span
			first = false
			continue
		}
		sp = sp.Cover(n.Span)
	}
	return sp
}

// Finish seals the builder and returns the tree rooted at root. The builder
// must not be used afterwards.
func (b *Builder) Finish(root NodeID) *Tree {
	if b.done {
		panic("ast: Builder.Finish called twice")
	}
	b.done = true
	return &Tree{File: b.file, Root: root, nodes: b.nodes}
}

// SpanOf returns the span of an already built node.
func (b *Builder) SpanOf(id NodeID) source.Span {
	if n := b.nodes.Get(uint32(id)); n != nil {
		return n.Span
	}
	return source.Span{File: b.file}
}
