package vm

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"
)

func (f *Frame) execInst(inst ir.Instruction) *VMError {
	switch in := inst.(type) {
	case *ir.InstAlloca:
		f.slots[in] = &slot{}
	case *ir.InstLoad:
		s, vmErr := f.slotOf(in.Src)
		if vmErr != nil {
			return vmErr
		}
		if !s.IsInit {
			return f.makeError(PanicUseBeforeInit, fmt.Sprintf("%s loaded before it was stored", in.Src.Ident()))
		}
		f.regs[in] = s.V
	case *ir.InstStore:
		s, vmErr := f.slotOf(in.Dst)
		if vmErr != nil {
			return vmErr
		}
		v, vmErr := f.eval(in.Src)
		if vmErr != nil {
			return vmErr
		}
		s.V, s.IsInit = v, true
	case *ir.InstAdd:
		x, y, vmErr := f.evalPair(in.X, in.Y)
		if vmErr != nil {
			return vmErr
		}
		f.regs[in] = x + y
	case *ir.InstICmp:
		x, y, vmErr := f.evalPair(in.X, in.Y)
		if vmErr != nil {
			return vmErr
		}
		res, ok := compare(in.Pred, x, y)
		if !ok {
			return f.unimplemented("icmp predicate " + in.Pred.String())
		}
		if res {
			f.regs[in] = 1
		} else {
			f.regs[in] = 0
		}
	default:
		return f.unimplemented(fmt.Sprintf("instruction %T", inst))
	}
	return nil
}

// compare supports the equality and signed predicates.
func compare(pred enum.IPred, x, y int64) (result, ok bool) {
	switch pred {
	case enum.IPredEQ:
		return x == y, true
	case enum.IPredNE:
		return x != y, true
	case enum.IPredSGT:
		return x > y, true
	case enum.IPredSGE:
		return x >= y, true
	case enum.IPredSLT:
		return x < y, true
	case enum.IPredSLE:
		return x <= y, true
	}
	return false, false
}

func (f *Frame) slotOf(ptr value.Value) (*slot, *VMError) {
	a, ok := ptr.(*ir.InstAlloca)
	if !ok {
		return nil, f.makeError(PanicTypeMismatch, fmt.Sprintf("%s is not a stack slot", ptr.Ident()))
	}
	s, ok := f.slots[a]
	if !ok {
		return nil, f.makeError(PanicUndefinedValue, fmt.Sprintf("slot %s used before its alloca", a.Ident()))
	}
	return s, nil
}

func (f *Frame) eval(v value.Value) (int64, *VMError) {
	switch x := v.(type) {
	case *constant.Int:
		if !x.X.IsInt64() {
			return 0, f.makeError(PanicTypeMismatch, fmt.Sprintf("constant %s does not fit in 64 bits", x.X))
		}
		return x.X.Int64(), nil
	case *ir.InstAlloca:
		return 0, f.makeError(PanicTypeMismatch, fmt.Sprintf("%s is an address, not a value", x.Ident()))
	}
	r, ok := f.regs[v]
	if !ok {
		return 0, f.makeError(PanicUndefinedValue, fmt.Sprintf("%s has no value", v.Ident()))
	}
	return r, nil
}

func (f *Frame) evalPair(a, b value.Value) (int64, int64, *VMError) {
	x, vmErr := f.eval(a)
	if vmErr != nil {
		return 0, 0, vmErr
	}
	y, vmErr := f.eval(b)
	if vmErr != nil {
		return 0, 0, vmErr
	}
	return x, y, nil
}
