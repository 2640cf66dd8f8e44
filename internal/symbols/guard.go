package symbols

import "fmt"

// Guard pairs a function scope with its current-function slot. Release it
// with defer right after EnterFunction.
type Guard[V any] struct {
	t        *Table[V]
	scope    ScopeID
	label    string
	released bool
}

// EnterFunction pushes a function scope labeled label and makes fn the
// current function until the guard is released.
func (t *Table[V]) EnterFunction(label string, fn V) *Guard[V] {
	id := t.push(ScopeFunction, label)
	t.funcs = append(t.funcs, funcSlot[V]{scope: id, fn: fn})
	return &Guard[V]{t: t, scope: id, label: label}
}

// Scope is the ID of the guarded scope.
func (g *Guard[V]) Scope() ScopeID { return g.scope }

// Release pops the guarded scope and its function slot. It is idempotent. If
// scopes opened after the guard are still open they are unwound too and
// ErrScopeMismatch is returned.
func (g *Guard[V]) Release() error {
	if g == nil || g.released {
		return nil
	}
	g.released = true
	t := g.t

	idx := -1
	for i := len(t.scopes) - 1; i > 0; i-- {
		if t.scopes[i].ID == g.scope {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: scope %q already closed", ErrScopeMismatch, g.label)
	}
	var err error
	if top := t.top(); top.ID != g.scope {
		err = fmt.Errorf("%w: releasing %q while %q is open", ErrScopeMismatch, g.label, top.Label)
	}
	for len(t.scopes) > idx {
		_ = t.PopScope()
	}
	return err
}
