package vm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// slot is the runtime state of one alloca.
type slot struct {
	V      int64
	IsInit bool
}

// Frame is the activation record of one call. i1 values are stored as 0/1.
type Frame struct {
	fn    *ir.Func
	block *ir.Block
	IP    int
	regs  map[value.Value]int64
	slots map[*ir.InstAlloca]*slot
	steps int
}

func newFrame(fn *ir.Func, args []int64) *Frame {
	f := &Frame{
		fn:    fn,
		block: fn.Blocks[0],
		regs:  make(map[value.Value]int64, len(args)+8),
		slots: make(map[*ir.InstAlloca]*slot),
	}
	for i, p := range fn.Params {
		f.regs[p] = args[i]
	}
	return f
}

// CurrentBlock returns the block being executed.
func (f *Frame) CurrentBlock() *ir.Block { return f.block }
