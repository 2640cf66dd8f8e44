package vm

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"

	"minicc/internal/backend/llvm"
)

// DefaultMaxSteps bounds execution when Options.MaxSteps is zero.
const DefaultMaxSteps = 1_000_000

// Options configures execution.
type Options struct {
	MaxSteps int     // instructions plus terminators per call; 0 means DefaultMaxSteps
	Trace    *Tracer // optional execution trace
}

// Engine executes one verified module. The module must not be modified after
// New; concurrent calls are safe.
type Engine struct {
	mod  *llvm.Module
	opts Options
}

// New verifies m and returns an engine for it.
func New(m *llvm.Module, opts Options) (*Engine, error) {
	if m == nil {
		return nil, &VMError{Code: PanicInvalidModule, Message: "nil module"}
	}
	if err := llvm.Verify(m); err != nil {
		return nil, &VMError{Code: PanicInvalidModule, Message: "module failed verification", Cause: err}
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	return &Engine{mod: m, opts: opts}, nil
}

// Function resolves an exported function by name.
func (e *Engine) Function(name string) (*Function, error) {
	fn, ok := e.mod.Func(name)
	if !ok {
		return nil, &VMError{Code: PanicUnknownFunction, Message: fmt.Sprintf("no function named %q", name)}
	}
	return &Function{engine: e, fn: fn}, nil
}

// Function is a callable handle.
type Function struct {
	engine *Engine
	fn     *ir.Func
}

func (f *Function) Name() string { return f.fn.Name() }

// Arity is the number of int64 arguments Call expects.
func (f *Function) Arity() int { return len(f.fn.Params) }

// Void reports whether the function returns no value.
func (f *Function) Void() bool { return llvm.IsVoid(f.fn.Sig.RetType) }

// Call runs the function. Void functions return 0.
func (f *Function) Call(args ...int64) (int64, error) {
	if len(args) != len(f.fn.Params) {
		return 0, &VMError{
			Code:    PanicArgCount,
			Message: fmt.Sprintf("expected %d arguments, got %d", len(f.fn.Params), len(args)),
			Func:    f.fn.Name(),
		}
	}
	frame := newFrame(f.fn, args)
	ret, vmErr := f.engine.run(frame)
	if vmErr != nil {
		return 0, vmErr
	}
	return ret, nil
}

// AsVMError unwraps err into a *VMError.
func AsVMError(err error) (*VMError, bool) {
	var vmErr *VMError
	ok := errors.As(err, &vmErr)
	return vmErr, ok
}

func (e *Engine) run(frame *Frame) (int64, *VMError) {
	for {
		for frame.IP < len(frame.block.Insts) {
			if vmErr := e.step(frame); vmErr != nil {
				return 0, vmErr
			}
			inst := frame.block.Insts[frame.IP]
			e.opts.Trace.traceInst(frame, inst)
			if vmErr := frame.execInst(inst); vmErr != nil {
				return 0, vmErr
			}
			frame.IP++
		}
		if vmErr := e.step(frame); vmErr != nil {
			return 0, vmErr
		}
		e.opts.Trace.traceTerm(frame, frame.block.Term)
		ret, done, vmErr := frame.execTerminator(frame.block.Term)
		if vmErr != nil || done {
			return ret, vmErr
		}
	}
}

func (e *Engine) step(frame *Frame) *VMError {
	frame.steps++
	if frame.steps > e.opts.MaxSteps {
		return frame.makeError(PanicStepLimit, fmt.Sprintf("step limit %d exceeded", e.opts.MaxSteps))
	}
	return nil
}
