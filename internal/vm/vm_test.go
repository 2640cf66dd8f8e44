package vm_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"minicc/internal/backend/llvm"
	"minicc/internal/vm"
)

func params(names ...string) []llvm.Param {
	out := make([]llvm.Param, len(names))
	for i, n := range names {
		out[i] = llvm.Param{Name: n, Type: llvm.Int64}
	}
	return out
}

// maxOrSum: if (a >= b) return a; return a + b;
func maxOrSum(t *testing.T) *llvm.Module {
	t.Helper()
	m := llvm.NewModule("unit.c")
	f, _ := m.DeclareFunction("f", llvm.Int64, params("a", "b"))
	b := llvm.NewBuilder(m)
	entry := b.AppendBlock(f, "entry")
	b.PositionAtEnd(entry)
	cond, _ := b.ICmp(llvm.PredSGE, f.Params[0], f.Params[1], "cmp")
	then := b.AppendBlock(f, "if.then")
	end := b.AppendBlock(f, "if.end")
	if err := b.CondBr(cond, then, end); err != nil {
		t.Fatalf("condbr: %v", err)
	}
	b.PositionAtEnd(then)
	_ = b.Ret(f.Params[0])
	b.PositionAtEnd(end)
	sum, _ := b.Add(f.Params[0], f.Params[1], "add")
	_ = b.Ret(sum)
	return m
}

func mustFunction(t *testing.T, m *llvm.Module, name string, opts vm.Options) *vm.Function {
	t.Helper()
	eng, err := vm.New(m, opts)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	fn, err := eng.Function(name)
	if err != nil {
		t.Fatalf("function %s: %v", name, err)
	}
	return fn
}

func TestCallBranches(t *testing.T) {
	fn := mustFunction(t, maxOrSum(t), "f", vm.Options{})
	tests := []struct {
		a, b, want int64
	}{
		{5, 2, 5},
		{2, 3, 5},
		{6, 6, 6},
		{-1, 4, 3},
	}
	for _, tt := range tests {
		got, err := fn.Call(tt.a, tt.b)
		if err != nil {
			t.Fatalf("f(%d,%d): %v", tt.a, tt.b, err)
		}
		if got != tt.want {
			t.Fatalf("f(%d,%d) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
	if fn.Arity() != 2 || fn.Void() || fn.Name() != "f" {
		t.Fatalf("function metadata: %s/%d", fn.Name(), fn.Arity())
	}
}

func TestStoreLoadAndWrap(t *testing.T) {
	m := llvm.NewModule("unit.c")
	f, _ := m.DeclareFunction("g", llvm.Int64, params("a"))
	b := llvm.NewBuilder(m)
	b.PositionAtEnd(b.AppendBlock(f, "entry"))
	slot, _ := b.Alloca(llvm.Int64, "x")
	_ = b.Store(llvm.ConstInt(1), slot)
	v, _ := b.Load(llvm.Int64, slot, "load")
	sum, _ := b.Add(f.Params[0], v, "add")
	_ = b.Ret(sum)

	fn := mustFunction(t, m, "g", vm.Options{})
	if got, _ := fn.Call(41); got != 42 {
		t.Fatalf("g(41) = %d", got)
	}
	got, err := fn.Call(math.MaxInt64)
	if err != nil {
		t.Fatalf("g(max): %v", err)
	}
	if got != math.MinInt64 {
		t.Fatalf("add must wrap, got %d", got)
	}
}

func TestRuntimeErrors(t *testing.T) {
	t.Run("use before init", func(t *testing.T) {
		m := llvm.NewModule("unit.c")
		f, _ := m.DeclareFunction("g", llvm.Int64, nil)
		b := llvm.NewBuilder(m)
		b.PositionAtEnd(b.AppendBlock(f, "entry"))
		slot, _ := b.Alloca(llvm.Int64, "x")
		v, _ := b.Load(llvm.Int64, slot, "load")
		_ = b.Ret(v)
		_, err := mustFunction(t, m, "g", vm.Options{}).Call()
		vmErr, ok := vm.AsVMError(err)
		if !ok || vmErr.Code != vm.PanicUseBeforeInit {
			t.Fatalf("expected VM1001, got %v", err)
		}
		if !strings.Contains(err.Error(), "in @g, block %entry") {
			t.Fatalf("error should name the location: %v", err)
		}
	})

	t.Run("step limit", func(t *testing.T) {
		m := llvm.NewModule("unit.c")
		f, _ := m.DeclareFunction("spin", llvm.Void, nil)
		b := llvm.NewBuilder(m)
		entry := b.AppendBlock(f, "entry")
		loop := b.AppendBlock(f, "loop")
		b.PositionAtEnd(entry)
		_ = b.Br(loop)
		b.PositionAtEnd(loop)
		_ = b.Br(loop)
		_, err := mustFunction(t, m, "spin", vm.Options{MaxSteps: 50}).Call()
		vmErr, ok := vm.AsVMError(err)
		if !ok || vmErr.Code != vm.PanicStepLimit {
			t.Fatalf("expected VM1005, got %v", err)
		}
	})

	t.Run("argument count", func(t *testing.T) {
		_, err := mustFunction(t, maxOrSum(t), "f", vm.Options{}).Call(1)
		vmErr, ok := vm.AsVMError(err)
		if !ok || vmErr.Code != vm.PanicArgCount {
			t.Fatalf("expected VM1004, got %v", err)
		}
	})

	t.Run("unknown function", func(t *testing.T) {
		eng, err := vm.New(maxOrSum(t), vm.Options{})
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		_, err = eng.Function("main")
		vmErr, ok := vm.AsVMError(err)
		if !ok || vmErr.Code != vm.PanicUnknownFunction {
			t.Fatalf("expected VM1006, got %v", err)
		}
	})
}

func TestNewRejectsInvalidModule(t *testing.T) {
	m := llvm.NewModule("unit.c")
	f, _ := m.DeclareFunction("g", llvm.Int64, nil)
	b := llvm.NewBuilder(m)
	b.PositionAtEnd(b.AppendBlock(f, "entry"))
	_ = b.RetVoid()

	_, err := vm.New(m, vm.Options{})
	vmErr, ok := vm.AsVMError(err)
	if !ok || vmErr.Code != vm.PanicInvalidModule {
		t.Fatalf("expected VM1007, got %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Fatalf("verification error must be wrapped")
	}
}

func TestVoidFunctionAndTrace(t *testing.T) {
	m := llvm.NewModule("unit.c")
	f, _ := m.DeclareFunction("nop", llvm.Void, nil)
	b := llvm.NewBuilder(m)
	b.PositionAtEnd(b.AppendBlock(f, "entry"))
	_ = b.RetVoid()

	var buf bytes.Buffer
	fn := mustFunction(t, m, "nop", vm.Options{Trace: vm.NewTracer(&buf)})
	got, err := fn.Call()
	if err != nil || got != 0 || !fn.Void() {
		t.Fatalf("nop() = %d, %v", got, err)
	}
	if !strings.Contains(buf.String(), "[nop entry:ip0] ret void") {
		t.Fatalf("trace output: %q", buf.String())
	}
}
