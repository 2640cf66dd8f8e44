package symbols

import "errors"

var (
	// ErrUnresolved is wrapped by Lookup failures.
	ErrUnresolved = errors.New("unresolved identifier")
	// ErrPopGlobal is returned when popping would remove the global scope.
	ErrPopGlobal = errors.New("cannot pop the global scope")
	// ErrScopeMismatch reports a guard released out of LIFO order.
	ErrScopeMismatch = errors.New("scope released out of order")
)
