package llvm

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/value"
)

// dominators computes, for every block reachable from the entry, the set of
// blocks dominating it. Unreachable blocks map to nil.
func dominators(f *ir.Func, index map[*ir.Block]int) [][]bool {
	n := len(f.Blocks)
	preds := make([][]int, n)
	reach := make([]bool, n)
	stack := []int{0}
	reach[0] = true
	for len(stack) > 0 {
		bi := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range Successors(f.Blocks[bi]) {
			si := index[s]
			preds[si] = append(preds[si], bi)
			if !reach[si] {
				reach[si] = true
				stack = append(stack, si)
			}
		}
	}

	dom := make([][]bool, n)
	for i := range dom {
		if !reach[i] {
			continue
		}
		dom[i] = make([]bool, n)
		if i == 0 {
			dom[i][0] = true
			continue
		}
		for j := range dom[i] {
			dom[i][j] = reach[j]
		}
	}

	for changed := true; changed; {
		changed = false
		for i := 1; i < n; i++ {
			if !reach[i] {
				continue
			}
			next := make([]bool, n)
			first := true
			for _, p := range preds[i] {
				if !reach[p] {
					continue
				}
				if first {
					copy(next, dom[p])
					first = false
					continue
				}
				for j := range next {
					next[j] = next[j] && dom[p][j]
				}
			}
			next[i] = true
			for j := range next {
				if next[j] != dom[i][j] {
					dom[i] = next
					changed = true
					break
				}
			}
		}
	}
	return dom
}

// verifyDominance requires each instruction operand to be defined before use:
// earlier in the same block or in a dominating block. Unreachable blocks are
// skipped.
func (v *funcVerifier) verifyDominance() {
	dom := dominators(v.f, v.blocks)
	check := func(bi, ii int, ops ...value.Value) {
		for _, op := range ops {
			def, ok := v.defs[op]
			if !ok {
				continue
			}
			if def.block == bi {
				if def.index >= ii {
					v.errorf("block %s: %s used before its definition", blockName(v.f.Blocks[bi]), identOf(op))
				}
				continue
			}
			if !dom[bi][def.block] {
				v.errorf("block %s: %s does not dominate its use", blockName(v.f.Blocks[bi]), identOf(op))
			}
		}
	}
	for bi, b := range v.f.Blocks {
		if dom[bi] == nil {
			continue
		}
		for ii, inst := range b.Insts {
			check(bi, ii, instOperands(inst)...)
		}
		check(bi, len(b.Insts), termOperands(b.Term)...)
	}
}

func instOperands(inst ir.Instruction) []value.Value {
	switch in := inst.(type) {
	case *ir.InstLoad:
		return []value.Value{in.Src}
	case *ir.InstStore:
		return []value.Value{in.Src, in.Dst}
	case *ir.InstAdd:
		return []value.Value{in.X, in.Y}
	case *ir.InstICmp:
		return []value.Value{in.X, in.Y}
	}
	return nil
}

func termOperands(term ir.Terminator) []value.Value {
	switch t := term.(type) {
	case *ir.TermRet:
		if t.X != nil {
			return []value.Value{t.X}
		}
	case *ir.TermCondBr:
		return []value.Value{t.Cond}
	}
	return nil
}

func identOf(v value.Value) string { return v.Ident() }
