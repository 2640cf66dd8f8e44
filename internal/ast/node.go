package ast

import (
	"minicc/internal/source"
	"minicc/internal/token"
)

// NodeID addresses a node in a Tree. Zero means "no node".
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }

// Node is one syntax node. Terminal nodes carry a token; FuncDefine,
// FuncDeclare, FuncParam and identifier terminals also carry a Symbol.
type Node struct {
	Kind     Kind
	Span     source.Span
	Tok      *token.Token
	Symbol   string
	Children []NodeID
}
