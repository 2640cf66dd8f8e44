package vm

import (
	"fmt"
	"io"
	"sync"

	"github.com/llir/llvm/ir"
)

// Tracer writes one line per executed instruction:
//
//	[f entry:ip0] %add = add i64 %a, %b
type Tracer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTracer creates a new tracer that writes to w.
func NewTracer(w io.Writer) *Tracer {
	return &Tracer{w: w}
}

func (t *Tracer) traceInst(f *Frame, inst ir.Instruction) {
	if t == nil || t.w == nil {
		return
	}
	t.line(f, f.IP, inst.LLString())
}

func (t *Tracer) traceTerm(f *Frame, term ir.Terminator) {
	if t == nil || t.w == nil || term == nil {
		return
	}
	t.line(f, len(f.block.Insts), term.LLString())
}

func (t *Tracer) line(f *Frame, ip int, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "[%s %s:ip%d] %s\n", f.fn.Name(), f.block.Name(), ip, text)
}
