package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

type (
	Value = value.Value
	Func  = ir.Func
	Block = ir.Block
	Type  = types.Type
	Pred  = enum.IPred
)

var (
	// Int64 is the only storage and arithmetic type.
	Int64 = types.I64
	Bool  = types.I1
	Void  = types.Void
)

const (
	PredEQ  = enum.IPredEQ
	PredNE  = enum.IPredNE
	PredSGT = enum.IPredSGT
	PredSGE = enum.IPredSGE
	PredSLT = enum.IPredSLT
	PredSLE = enum.IPredSLE
)

// ConstInt materializes an i64 constant.
func ConstInt(v int64) Value {
	return constant.NewInt(types.I64, v)
}

// blockOf unwraps a terminator target.
func blockOf(v value.Value) (*ir.Block, bool) {
	b, ok := v.(*ir.Block)
	return b, ok
}

// successors lists the targets of a supported terminator.
func successors(term ir.Terminator) []*ir.Block {
	switch t := term.(type) {
	case *ir.TermBr:
		if b, ok := blockOf(t.Target); ok {
			return []*ir.Block{b}
		}
	case *ir.TermCondBr:
		var out []*ir.Block
		if b, ok := blockOf(t.TargetTrue); ok {
			out = append(out, b)
		}
		if b, ok := blockOf(t.TargetFalse); ok {
			out = append(out, b)
		}
		return out
	}
	return nil
}

// Successors is exported for the interpreter.
func Successors(b *ir.Block) []*ir.Block {
	if b == nil || b.Term == nil {
		return nil
	}
	return successors(b.Term)
}
