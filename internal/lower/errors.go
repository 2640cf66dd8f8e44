package lower

import (
	"errors"
	"fmt"

	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/source"
)

var (
	ErrUnsupportedConstruct     = errors.New("unsupported construct")
	ErrUnsupportedType          = errors.New("unsupported type")
	ErrUnresolvedIdentifier     = errors.New("unresolved identifier")
	ErrNotAssignable            = errors.New("assignment target is not storage")
	ErrParameterCountMismatch   = errors.New("parameter count mismatch")
	ErrModuleVerificationFailed = errors.New("module verification failed")
	ErrInternal                 = errors.New("internal lowering error")

	// ErrEngineUsed is returned by Lower on an engine that already ran.
	ErrEngineUsed = errors.New("lowering engine already used")
)

// ErrorKind classifies lowering failures.
type ErrorKind uint8

const (
	UnsupportedConstruct ErrorKind = iota + 1
	UnsupportedType
	UnresolvedIdentifier
	NotAssignable
	ParameterCountMismatch
	ModuleVerificationFailed
	Internal
)

var kindInfo = [...]struct {
	sentinel error
	code     diag.Code
}{
	UnsupportedConstruct:     {ErrUnsupportedConstruct, diag.LowUnsupportedConstruct},
	UnsupportedType:          {ErrUnsupportedType, diag.LowUnsupportedType},
	UnresolvedIdentifier:     {ErrUnresolvedIdentifier, diag.LowUnresolvedIdentifier},
	NotAssignable:            {ErrNotAssignable, diag.LowNotAssignable},
	ParameterCountMismatch:   {ErrParameterCountMismatch, diag.LowParamCountMismatch},
	ModuleVerificationFailed: {ErrModuleVerificationFailed, diag.LowVerificationFailed},
	Internal:                 {ErrInternal, diag.LowInternal},
}

func (k ErrorKind) valid() bool { return k > 0 && int(k) < len(kindInfo) }

// Sentinel is the errors.Is target for k.
func (k ErrorKind) Sentinel() error {
	if !k.valid() {
		return ErrInternal
	}
	return kindInfo[k].sentinel
}

// Code is the diagnostic code reported for k.
func (k ErrorKind) Code() diag.Code {
	if !k.valid() {
		return diag.LowInternal
	}
	return kindInfo[k].code
}

func (k ErrorKind) String() string { return k.Sentinel().Error() }

// Error is a lowering failure anchored at a syntax node.
type Error struct {
	Kind  ErrorKind
	Node  ast.Kind // KindInvalid when no node is involved
	Name  string   // identifier or type name, if any
	Span  source.Span
	Cause error
}

func (e *Error) Error() string {
	head := e.head()
	if e.Cause == nil || e.Cause.Error() == head {
		return head
	}
	return head + ": " + e.Cause.Error()
}

// head is the kind plus the name or node involved.
func (e *Error) head() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("%s: %q", e.Kind, e.Name)
	case e.Node != ast.KindInvalid:
		return fmt.Sprintf("%s: %s", e.Kind, e.Node)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches the sentinel of the error's kind.
func (e *Error) Is(target error) bool { return target == e.Kind.Sentinel() }

// Code is the diagnostic code for the error.
func (e *Error) Code() diag.Code { return e.Kind.Code() }

// Diagnostic renders the error for a diag.Bag. Joined verifier errors become
// one note each.
func (e *Error) Diagnostic() diag.Diagnostic {
	msg := e.head()
	d := diag.NewError(e.Code(), e.Span, msg)

	var joined interface{ Unwrap() []error }
	switch {
	case errors.As(e.Cause, &joined):
		for _, err := range joined.Unwrap() {
			d = d.WithNote(e.Span, err.Error())
		}
	case e.Cause != nil && e.Cause.Error() != msg:
		d = d.WithNote(e.Span, e.Cause.Error())
	}
	return d
}

// AsError extracts a *Error from err.
func AsError(err error) (*Error, bool) {
	var le *Error
	if errors.As(err, &le) {
		return le, true
	}
	return nil, false
}
