package llvm_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/llir/llvm/ir"

	"minicc/internal/backend/llvm"
)

// addFunc builds: i64 f(i64 a, i64 b) { return a + b; }
func addFunc(t *testing.T) (*llvm.Module, *ir.Func) {
	t.Helper()
	m := llvm.NewModule("unit.c")
	f, err := m.DeclareFunction("f", llvm.Int64, []llvm.Param{{Name: "a", Type: llvm.Int64}, {Name: "b", Type: llvm.Int64}})
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	b := llvm.NewBuilder(m)
	b.PositionAtEnd(b.AppendBlock(f, "entry"))
	sum, err := b.Add(f.Params[0], f.Params[1], "add")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Ret(sum); err != nil {
		t.Fatalf("ret: %v", err)
	}
	return m, f
}

func TestBuildAndPrint(t *testing.T) {
	m, f := addFunc(t)
	if err := llvm.Verify(m); err != nil {
		t.Fatalf("verify: %v", err)
	}
	if llvm.ParamCount(f) != 2 {
		t.Fatalf("param count = %d", llvm.ParamCount(f))
	}
	got, ok := m.Func("f")
	if !ok || got != f {
		t.Fatalf("lookup by name failed")
	}
	text := m.String()
	for _, want := range []string{"define i64 @f(i64 %a, i64 %b)", "%add = add i64 %a, %b", "ret i64 %add"} {
		if !strings.Contains(text, want) {
			t.Fatalf("IR missing %q:\n%s", want, text)
		}
	}
}

func TestDuplicateFunction(t *testing.T) {
	m, _ := addFunc(t)
	if _, err := m.DeclareFunction("f", llvm.Int64, nil); !errors.Is(err, llvm.ErrDuplicateFunction) {
		t.Fatalf("expected ErrDuplicateFunction, got %v", err)
	}
}

func TestCursorErrors(t *testing.T) {
	m := llvm.NewModule("unit.c")
	f, _ := m.DeclareFunction("g", llvm.Void, nil)
	b := llvm.NewBuilder(m)
	if err := b.RetVoid(); !errors.Is(err, llvm.ErrNoInsertPoint) {
		t.Fatalf("expected ErrNoInsertPoint, got %v", err)
	}
	entry := b.AppendBlock(f, "entry")
	b.PositionAtEnd(entry)
	if err := b.RetVoid(); err != nil {
		t.Fatalf("ret void: %v", err)
	}
	if !llvm.Terminated(entry) {
		t.Fatalf("entry should be terminated")
	}
	if _, err := b.Add(llvm.ConstInt(1), llvm.ConstInt(2), "add"); !errors.Is(err, llvm.ErrBlockTerminated) {
		t.Fatalf("expected ErrBlockTerminated, got %v", err)
	}
	if err := llvm.Verify(m); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestUniqueNamesAndAllocaHoisting(t *testing.T) {
	m := llvm.NewModule("unit.c")
	f, _ := m.DeclareFunction("h", llvm.Int64, []llvm.Param{{Name: "a", Type: llvm.Int64}})
	b := llvm.NewBuilder(m)
	entry := b.AppendBlock(f, "entry")
	b.PositionAtEnd(entry)
	x, _ := b.Add(f.Params[0], llvm.ConstInt(1), "add")
	then := b.AppendBlock(f, "if.then")
	end := b.AppendBlock(f, "if.then")
	if then.Name() != "if.then" || end.Name() != "if.then.1" {
		t.Fatalf("block names: %q %q", then.Name(), end.Name())
	}
	if err := b.Br(then); err != nil {
		t.Fatalf("br: %v", err)
	}
	b.PositionAtEnd(then)
	slot, err := b.Alloca(llvm.Int64, "a")
	if err != nil {
		t.Fatalf("alloca: %v", err)
	}
	if slot.Ident() != "%a.1" {
		t.Fatalf("alloca must not reuse the parameter name, got %s", slot.Ident())
	}
	if _, ok := entry.Insts[0].(*ir.InstAlloca); !ok {
		t.Fatalf("alloca must be hoisted to the entry block: %v", entry.Insts)
	}
	if err := b.Store(x, slot); err != nil {
		t.Fatalf("store: %v", err)
	}
	v, _ := b.Load(llvm.Int64, slot, "load")
	if err := b.Br(end); err != nil {
		t.Fatalf("br: %v", err)
	}
	b.PositionAtEnd(end)
	if err := b.Ret(v); err != nil {
		t.Fatalf("ret: %v", err)
	}
	if err := llvm.Verify(m); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestVerifyRejects(t *testing.T) {
	tests := []struct {
		name  string
		build func(m *llvm.Module, b *llvm.Builder)
		want  string
	}{
		{
			name: "missing terminator",
			build: func(m *llvm.Module, b *llvm.Builder) {
				f, _ := m.DeclareFunction("f", llvm.Int64, nil)
				b.AppendBlock(f, "entry")
			},
			want: "missing terminator",
		},
		{
			name: "no blocks",
			build: func(m *llvm.Module, b *llvm.Builder) {
				_, _ = m.DeclareFunction("f", llvm.Int64, nil)
			},
			want: "no blocks",
		},
		{
			name: "return type mismatch",
			build: func(m *llvm.Module, b *llvm.Builder) {
				f, _ := m.DeclareFunction("f", llvm.Int64, nil)
				b.PositionAtEnd(b.AppendBlock(f, "entry"))
				_ = b.RetVoid()
			},
			want: "ret void in function returning i64",
		},
		{
			name: "returning an address",
			build: func(m *llvm.Module, b *llvm.Builder) {
				f, _ := m.DeclareFunction("f", llvm.Int64, nil)
				b.PositionAtEnd(b.AppendBlock(f, "entry"))
				slot, _ := b.Alloca(llvm.Int64, "a")
				_ = b.Ret(slot)
			},
			want: "function returns i64",
		},
		{
			name: "condition is not i1",
			build: func(m *llvm.Module, b *llvm.Builder) {
				f, _ := m.DeclareFunction("f", llvm.Void, nil)
				entry := b.AppendBlock(f, "entry")
				exit := b.AppendBlock(f, "exit")
				b.PositionAtEnd(entry)
				_ = b.CondBr(llvm.ConstInt(1), exit, exit)
				b.PositionAtEnd(exit)
				_ = b.RetVoid()
			},
			want: "branch condition must be i1",
		},
		{
			name: "load from a register",
			build: func(m *llvm.Module, b *llvm.Builder) {
				f, _ := m.DeclareFunction("f", llvm.Int64, []llvm.Param{{Name: "a", Type: llvm.Int64}})
				b.PositionAtEnd(b.AppendBlock(f, "entry"))
				v, _ := b.Load(llvm.Int64, f.Params[0], "load")
				_ = b.Ret(v)
			},
			want: "load source is not a stack slot",
		},
		{
			name: "definition does not dominate use",
			build: func(m *llvm.Module, b *llvm.Builder) {
				f, _ := m.DeclareFunction("f", llvm.Int64, []llvm.Param{{Name: "a", Type: llvm.Int64}})
				entry := b.AppendBlock(f, "entry")
				then := b.AppendBlock(f, "if.then")
				end := b.AppendBlock(f, "if.end")
				b.PositionAtEnd(entry)
				c, _ := b.ICmp(llvm.PredSGT, f.Params[0], llvm.ConstInt(0), "cmp")
				_ = b.CondBr(c, then, end)
				b.PositionAtEnd(then)
				sum, _ := b.Add(f.Params[0], llvm.ConstInt(1), "add")
				_ = b.Br(end)
				b.PositionAtEnd(end)
				_ = b.Ret(sum)
			},
			want: "does not dominate its use",
		},
		{
			name: "parameter of another function",
			build: func(m *llvm.Module, b *llvm.Builder) {
				g, _ := m.DeclareFunction("g", llvm.Int64, []llvm.Param{{Name: "x", Type: llvm.Int64}})
				b.PositionAtEnd(b.AppendBlock(g, "entry"))
				_ = b.Ret(g.Params[0])
				f, _ := m.DeclareFunction("f", llvm.Int64, nil)
				b.PositionAtEnd(b.AppendBlock(f, "entry"))
				_ = b.Ret(g.Params[0])
			},
			want: "belongs to another function",
		},
		{
			name: "branch into another function",
			build: func(m *llvm.Module, b *llvm.Builder) {
				g, _ := m.DeclareFunction("g", llvm.Void, nil)
				other := b.AppendBlock(g, "entry")
				b.PositionAtEnd(other)
				_ = b.RetVoid()
				f, _ := m.DeclareFunction("f", llvm.Void, nil)
				entry := b.AppendBlock(f, "entry")
				entry.NewBr(other)
			},
			want: "is not in this function",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := llvm.NewModule("unit.c")
			tt.build(m, llvm.NewBuilder(m))
			err := llvm.Verify(m)
			if err == nil {
				t.Fatalf("expected verification failure")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestBuilderRejectsForeignBlocks(t *testing.T) {
	m := llvm.NewModule("unit.c")
	g, _ := m.DeclareFunction("g", llvm.Void, nil)
	other := llvm.NewBuilder(m).AppendBlock(g, "entry")
	f, _ := m.DeclareFunction("f", llvm.Void, nil)
	b := llvm.NewBuilder(m)
	b.PositionAtEnd(b.AppendBlock(f, "entry"))
	if err := b.Br(other); !errors.Is(err, llvm.ErrForeignBlock) {
		t.Fatalf("expected ErrForeignBlock, got %v", err)
	}
}

func TestVerifyDuplicateNamesInRawModule(t *testing.T) {
	m := ir.NewModule()
	for range 2 {
		f := m.NewFunc("dup", llvm.Void)
		f.NewBlock("entry").NewRet(nil)
	}
	err := llvm.VerifyIR(m)
	if err == nil || !strings.Contains(err.Error(), "defined more than once") {
		t.Fatalf("expected duplicate function error, got %v", err)
	}
}
