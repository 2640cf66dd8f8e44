package vm

import (
	"fmt"
	"strings"
)

// PanicCode identifies a runtime failure.
type PanicCode int

// Stable panic codes - do not change values.
const (
	PanicUseBeforeInit   PanicCode = 1001 // VM1001: load from a slot that was never stored
	PanicUndefinedValue  PanicCode = 1002 // VM1002: operand has no value in the frame
	PanicTypeMismatch    PanicCode = 1003 // VM1003: operand of an unexpected kind
	PanicArgCount        PanicCode = 1004 // VM1004: wrong number of call arguments
	PanicStepLimit       PanicCode = 1005 // VM1005: step budget exhausted
	PanicUnknownFunction PanicCode = 1006 // VM1006: no function with that name
	PanicInvalidModule   PanicCode = 1007 // VM1007: module failed verification
	PanicUnimplemented   PanicCode = 1999 // VM1999: unimplemented instruction/terminator
)

// String returns the code as "VM1001" format.
func (c PanicCode) String() string {
	return fmt.Sprintf("VM%d", c)
}

// VMError is the only error type returned by execution.
type VMError struct {
	Code    PanicCode
	Message string
	Func    string // function executing when the error occurred
	Block   string // current block, empty before execution starts
	Cause   error
}

// Error implements the error interface.
func (e *VMError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "panic %s: %s", e.Code, e.Message)
	if e.Func != "" {
		fmt.Fprintf(&sb, " (in @%s", e.Func)
		if e.Block != "" {
			fmt.Fprintf(&sb, ", block %%%s", e.Block)
		}
		sb.WriteString(")")
	}
	return sb.String()
}

func (e *VMError) Unwrap() error { return e.Cause }

func (f *Frame) makeError(code PanicCode, msg string) *VMError {
	e := &VMError{Code: code, Message: msg, Func: f.fn.Name()}
	if f.block != nil {
		e.Block = f.block.Name()
	}
	return e
}

func (f *Frame) unimplemented(what string) *VMError {
	return f.makeError(PanicUnimplemented, "unimplemented "+what)
}
