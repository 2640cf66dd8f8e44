package symbols_test

import (
	"errors"
	"slices"
	"testing"

	"minicc/internal/symbols"
)

func TestDeclareLookupShadowing(t *testing.T) {
	tab := symbols.NewTable[int]()
	tab.Declare("x", symbols.Address, 1)

	g := tab.EnterFunction("f", 100)
	tab.Declare("x", symbols.Register, 2)
	sym, err := tab.Lookup("x")
	if err != nil || sym.Value != 2 || sym.Kind != symbols.Register {
		t.Fatalf("inner lookup: %+v %v", sym, err)
	}
	tab.Declare("x", symbols.Address, 3)
	if sym, _ := tab.Lookup("x"); sym.Value != 3 {
		t.Fatalf("same-scope redefinition must overwrite, got %d", sym.Value)
	}
	tab.Declare("local", symbols.Address, 4)

	if err := g.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	sym, err = tab.Lookup("x")
	if err != nil || sym.Value != 1 {
		t.Fatalf("outer binding after pop: %+v %v", sym, err)
	}
	if _, err := tab.Lookup("local"); !errors.Is(err, symbols.ErrUnresolved) {
		t.Fatalf("popped names must be hidden, got %v", err)
	}
}

func TestLookupUnresolvedNamesIdentifier(t *testing.T) {
	tab := symbols.NewTable[string]()
	_, err := tab.Lookup("nope")
	if !errors.Is(err, symbols.ErrUnresolved) {
		t.Fatalf("expected ErrUnresolved, got %v", err)
	}
	if got := err.Error(); got != `unresolved identifier: "nope"` {
		t.Fatalf("message: %q", got)
	}
}

func TestPopGlobal(t *testing.T) {
	tab := symbols.NewTable[int]()
	if err := tab.PopScope(); !errors.Is(err, symbols.ErrPopGlobal) {
		t.Fatalf("expected ErrPopGlobal, got %v", err)
	}
	tab.PushScope("block")
	if err := tab.PopScope(); err != nil {
		t.Fatalf("pop block: %v", err)
	}
	if tab.Depth() != 1 {
		t.Fatalf("depth = %d", tab.Depth())
	}
}

func TestCurrentFunctionSlot(t *testing.T) {
	tab := symbols.NewTable[string]()
	if _, ok := tab.CurrentFunction(); ok {
		t.Fatalf("no function at global scope")
	}
	// A function handle bound as a plain name is not the current function.
	tab.Declare("f", symbols.Function, "f")
	if _, ok := tab.CurrentFunction(); ok {
		t.Fatalf("current function is an explicit slot, not a scan")
	}

	outer := tab.EnterFunction("f", "f")
	tab.Declare("g", symbols.Function, "g")
	inner := tab.EnterFunction("g", "g")
	if fn, _ := tab.CurrentFunction(); fn != "g" {
		t.Fatalf("nested: current = %q", fn)
	}
	if err := inner.Release(); err != nil {
		t.Fatalf("release inner: %v", err)
	}
	if fn, _ := tab.CurrentFunction(); fn != "f" {
		t.Fatalf("after inner: current = %q", fn)
	}
	if err := outer.Release(); err != nil {
		t.Fatalf("release outer: %v", err)
	}
	if _, ok := tab.CurrentFunction(); ok {
		t.Fatalf("slot must be empty after release")
	}
}

func lowerBody(tab *symbols.Table[int], fail bool) (err error) {
	g := tab.EnterFunction("body", 7)
	defer func() {
		if rerr := g.Release(); err == nil {
			err = rerr
		}
	}()
	tab.Declare("v", symbols.Address, 1)
	if fail {
		return errors.New("boom")
	}
	return nil
}

func TestGuardReleasesOnError(t *testing.T) {
	tab := symbols.NewTable[int]()
	if err := lowerBody(tab, true); err == nil || err.Error() != "boom" {
		t.Fatalf("expected boom, got %v", err)
	}
	if tab.Depth() != 1 {
		t.Fatalf("scope leaked on error path: %v", tab.Labels())
	}
	if _, ok := tab.CurrentFunction(); ok {
		t.Fatalf("function slot leaked on error path")
	}
	if err := lowerBody(tab, false); err != nil {
		t.Fatalf("second body: %v", err)
	}
	if tab.Depth() != 1 {
		t.Fatalf("depth = %d", tab.Depth())
	}
}

func TestGuardIdempotentAndMismatch(t *testing.T) {
	tab := symbols.NewTable[int]()
	g := tab.EnterFunction("f", 1)
	tab.PushScope("inner")
	if !slices.Equal(tab.Labels(), []string{"global", "f", "inner"}) {
		t.Fatalf("labels: %v", tab.Labels())
	}
	if err := g.Release(); !errors.Is(err, symbols.ErrScopeMismatch) {
		t.Fatalf("expected ErrScopeMismatch, got %v", err)
	}
	if tab.Depth() != 1 {
		t.Fatalf("mismatch must still unwind, labels %v", tab.Labels())
	}
	if err := g.Release(); err != nil {
		t.Fatalf("second release must be a no-op, got %v", err)
	}
	if tab.Depth() != 1 {
		t.Fatalf("second release popped again")
	}
}

func TestGuardAfterManualPop(t *testing.T) {
	tab := symbols.NewTable[int]()
	g := tab.EnterFunction("f", 1)
	if err := tab.PopScope(); err != nil {
		t.Fatalf("pop: %v", err)
	}
	if _, ok := tab.CurrentFunction(); ok {
		t.Fatalf("popping a function scope drops its slot")
	}
	if err := g.Release(); !errors.Is(err, symbols.ErrScopeMismatch) {
		t.Fatalf("expected ErrScopeMismatch, got %v", err)
	}
	if tab.Depth() != 1 {
		t.Fatalf("global scope must survive")
	}
}

func TestBindingKindString(t *testing.T) {
	if symbols.Address.String() != "address" || symbols.Function.String() != "function" {
		t.Fatalf("binding kind names")
	}
	if symbols.ScopeFunction.String() != "function" {
		t.Fatalf("scope kind names")
	}
}
