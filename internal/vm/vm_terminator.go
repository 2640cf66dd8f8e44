package vm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// execTerminator runs a block terminator. done is set by ret.
func (f *Frame) execTerminator(term ir.Terminator) (ret int64, done bool, vmErr *VMError) {
	switch t := term.(type) {
	case *ir.TermRet:
		if t.X == nil {
			return 0, true, nil
		}
		v, vmErr := f.eval(t.X)
		return v, true, vmErr
	case *ir.TermBr:
		return 0, false, f.jump(t.Target)
	case *ir.TermCondBr:
		cond, vmErr := f.eval(t.Cond)
		if vmErr != nil {
			return 0, false, vmErr
		}
		target := t.TargetFalse
		if cond != 0 {
			target = t.TargetTrue
		}
		return 0, false, f.jump(target)
	case nil:
		return 0, false, f.makeError(PanicUnimplemented, "block has no terminator")
	default:
		return 0, false, f.unimplemented(fmt.Sprintf("terminator %T", term))
	}
}

func (f *Frame) jump(target value.Value) *VMError {
	b, ok := target.(*ir.Block)
	if !ok {
		return f.makeError(PanicTypeMismatch, "branch target is not a block")
	}
	f.block = b
	f.IP = 0
	return nil
}
