package symbols

import (
	"fmt"
)

type funcSlot[V any] struct {
	scope ScopeID
	fn    V
}

// Table is the scope stack. It is owned by one lowering pass and is not safe
// for concurrent use.
type Table[V any] struct {
	scopes []*Scope[V]
	funcs  []funcSlot[V]
	nextID ScopeID
}

// NewTable returns a table holding only the global scope.
func NewTable[V any]() *Table[V] {
	t := &Table[V]{
		scopes: make([]*Scope[V], 0, 4),
		funcs:  make([]funcSlot[V], 0, 2),
	}
	t.push(ScopeGlobal, "global")
	return t
}

func (t *Table[V]) push(kind ScopeKind, label string) ScopeID {
	t.nextID++
	t.scopes = append(t.scopes, newScope[V](t.nextID, kind, label))
	return t.nextID
}

func (t *Table[V]) top() *Scope[V] {
	return t.scopes[len(t.scopes)-1]
}

// PushScope opens a block scope.
func (t *Table[V]) PushScope(label string) ScopeID {
	return t.push(ScopeBlock, label)
}

// PopScope closes the innermost scope. A current-function slot owned by that
// scope is dropped with it.
func (t *Table[V]) PopScope() error {
	if len(t.scopes) <= 1 {
		return ErrPopGlobal
	}
	top := t.top()
	t.scopes = t.scopes[:len(t.scopes)-1]
	if n := len(t.funcs); n > 0 && t.funcs[n-1].scope == top.ID {
		t.funcs = t.funcs[:n-1]
	}
	return nil
}

// Declare binds name in the innermost scope, overwriting a binding of the
// same name in that scope and shadowing outer ones.
func (t *Table[V]) Declare(name string, kind BindingKind, value V) Symbol[V] {
	s := t.top()
	sym := Symbol[V]{Name: name, Kind: kind, Value: value, Scope: s.ID}
	s.names[name] = sym
	return sym
}

// DeclaredInCurrent reports whether name is bound in the innermost scope.
func (t *Table[V]) DeclaredInCurrent(name string) bool {
	_, ok := t.top().names[name]
	return ok
}

// Lookup searches from the innermost scope outwards.
func (t *Table[V]) Lookup(name string) (Symbol[V], error) {
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].names[name]; ok {
			return sym, nil
		}
	}
	return Symbol[V]{}, fmt.Errorf("%w: %q", ErrUnresolved, name)
}

// CurrentFunction returns the function whose body is being lowered.
func (t *Table[V]) CurrentFunction() (V, bool) {
	if len(t.funcs) == 0 {
		var zero V
		return zero, false
	}
	return t.funcs[len(t.funcs)-1].fn, true
}

// Depth is the number of open scopes, the global one included.
func (t *Table[V]) Depth() int { return len(t.scopes) }

// Labels lists scope labels, outermost first.
func (t *Table[V]) Labels() []string {
	out := make([]string, len(t.scopes))
	for i, s := range t.scopes {
		out[i] = s.Label
	}
	return out
}

// Current returns the innermost scope.
func (t *Table[V]) Current() *Scope[V] { return t.top() }
