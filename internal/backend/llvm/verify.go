package llvm

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Verify checks module invariants and joins every violation it finds.
func Verify(m *Module) error {
	if m == nil {
		return errors.New("nil module")
	}
	return VerifyIR(m.ir)
}

// VerifyIR verifies a raw llir module.
func VerifyIR(m *ir.Module) error {
	var errs []error
	seen := make(map[string]bool, len(m.Funcs))
	for _, f := range m.Funcs {
		name := f.Name()
		if seen[name] {
			errs = append(errs, fmt.Errorf("function %s: defined more than once", name))
			continue
		}
		seen[name] = true
		if err := verifyFunc(f); err != nil {
			errs = append(errs, fmt.Errorf("function %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// site locates an instruction inside its function.
type site struct {
	block int
	index int
}

type funcVerifier struct {
	f      *ir.Func
	blocks map[*ir.Block]int
	params map[*ir.Param]bool
	defs   map[value.Value]site
	errs   []error
}

func (v *funcVerifier) errorf(format string, args ...any) {
	v.errs = append(v.errs, fmt.Errorf(format, args...))
}

func verifyFunc(f *ir.Func) error {
	if len(f.Blocks) == 0 {
		return errors.New("function has no blocks")
	}
	v := &funcVerifier{
		f:      f,
		blocks: make(map[*ir.Block]int, len(f.Blocks)),
		params: make(map[*ir.Param]bool, len(f.Params)),
		defs:   make(map[value.Value]site),
	}
	for i, p := range f.Params {
		v.params[p] = true
		if !p.Type().Equal(types.I64) {
			v.errorf("param %d: unsupported type %s", i, p.Type())
		}
	}
	for bi, b := range f.Blocks {
		v.blocks[b] = bi
		for ii, inst := range b.Insts {
			if val, ok := inst.(value.Value); ok {
				v.defs[val] = site{block: bi, index: ii}
			}
		}
	}

	// 1. Terminators and targets
	v.verifyTerminators()
	if len(v.errs) > 0 {
		return errors.Join(v.errs...)
	}

	// 2. Instruction shapes and operand types
	for bi, b := range f.Blocks {
		for ii, inst := range b.Insts {
			v.verifyInst(bi, ii, inst)
		}
		v.verifyTermOperands(bi, b.Term)
	}

	// 3. Definitions dominate uses
	if len(v.errs) == 0 {
		v.verifyDominance()
	}
	return errors.Join(v.errs...)
}

func (v *funcVerifier) verifyTerminators() {
	for _, b := range v.f.Blocks {
		if b.Term == nil {
			v.errorf("block %s: missing terminator", blockName(b))
			continue
		}
		switch b.Term.(type) {
		case *ir.TermRet, *ir.TermBr, *ir.TermCondBr:
		default:
			v.errorf("block %s: unsupported terminator %T", blockName(b), b.Term)
			continue
		}
		for _, succ := range successors(b.Term) {
			if _, ok := v.blocks[succ]; !ok {
				v.errorf("block %s: branch target %s is not in this function", blockName(b), blockName(succ))
			}
		}
		if br, ok := b.Term.(*ir.TermBr); ok {
			if _, ok := blockOf(br.Target); !ok {
				v.errorf("block %s: branch target is not a block", blockName(b))
			}
		}
		if br, ok := b.Term.(*ir.TermCondBr); ok {
			_, okT := blockOf(br.TargetTrue)
			_, okF := blockOf(br.TargetFalse)
			if !okT || !okF {
				v.errorf("block %s: branch target is not a block", blockName(b))
			}
		}
	}
}

func (v *funcVerifier) verifyInst(bi, ii int, inst ir.Instruction) {
	where := fmt.Sprintf("block %s, inst %d", blockName(v.f.Blocks[bi]), ii)
	switch in := inst.(type) {
	case *ir.InstAlloca:
		if !in.ElemType.Equal(types.I64) {
			v.errorf("%s: alloca of unsupported type %s", where, in.ElemType)
		}
	case *ir.InstLoad:
		slot, ok := v.storage(in.Src)
		if !ok {
			v.errorf("%s: load source is not a stack slot of this function", where)
			return
		}
		if !in.ElemType.Equal(slot.ElemType) {
			v.errorf("%s: load of %s from %s slot", where, in.ElemType, slot.ElemType)
		}
	case *ir.InstStore:
		slot, ok := v.storage(in.Dst)
		if !ok {
			v.errorf("%s: store destination is not a stack slot of this function", where)
			return
		}
		v.operand(where, in.Src)
		if !in.Src.Type().Equal(slot.ElemType) {
			v.errorf("%s: store of %s into %s slot", where, in.Src.Type(), slot.ElemType)
		}
	case *ir.InstAdd:
		v.operand(where, in.X)
		v.operand(where, in.Y)
		if !isI64(in.X) || !isI64(in.Y) {
			v.errorf("%s: add operands must be i64, got %s and %s", where, in.X.Type(), in.Y.Type())
		}
	case *ir.InstICmp:
		v.operand(where, in.X)
		v.operand(where, in.Y)
		if !isI64(in.X) || !isI64(in.Y) {
			v.errorf("%s: icmp operands must be i64, got %s and %s", where, in.X.Type(), in.Y.Type())
		}
	default:
		v.errorf("%s: unsupported instruction %T", where, inst)
	}
}

func (v *funcVerifier) verifyTermOperands(bi int, term ir.Terminator) {
	where := fmt.Sprintf("block %s, terminator", blockName(v.f.Blocks[bi]))
	ret := v.f.Sig.RetType
	switch t := term.(type) {
	case *ir.TermRet:
		if t.X == nil {
			if !IsVoid(ret) {
				v.errorf("%s: ret void in function returning %s", where, ret)
			}
			return
		}
		v.operand(where, t.X)
		if !t.X.Type().Equal(ret) {
			v.errorf("%s: returns %s, function returns %s", where, t.X.Type(), ret)
		}
	case *ir.TermCondBr:
		v.operand(where, t.Cond)
		if !t.Cond.Type().Equal(types.I1) {
			v.errorf("%s: branch condition must be i1, got %s", where, t.Cond.Type())
		}
	}
}

// storage resolves a pointer operand to an alloca of this function.
func (v *funcVerifier) storage(ptr value.Value) (*ir.InstAlloca, bool) {
	slot, ok := ptr.(*ir.InstAlloca)
	if !ok {
		return nil, false
	}
	_, local := v.defs[slot]
	return slot, local
}

// operand checks that a used value is a constant, a parameter of this
// function, or an instruction defined in it.
func (v *funcVerifier) operand(where string, val value.Value) {
	switch x := val.(type) {
	case *constant.Int:
		return
	case *ir.Param:
		if !v.params[x] {
			v.errorf("%s: parameter %s belongs to another function", where, x.Ident())
		}
	case *ir.InstAlloca:
		if _, ok := v.defs[x]; !ok {
			v.errorf("%s: %s is not defined in this function", where, x.Ident())
		}
	case ir.Instruction:
		if _, ok := v.defs[val]; !ok {
			v.errorf("%s: value is not defined in this function", where)
		}
	default:
		v.errorf("%s: unsupported operand %T", where, val)
	}
}

func isI64(val value.Value) bool { return val.Type().Equal(types.I64) }

func blockName(b *ir.Block) string {
	if b == nil {
		return "<nil>"
	}
	if name := b.Name(); name != "" {
		return name
	}
	return "<unnamed>"
}
