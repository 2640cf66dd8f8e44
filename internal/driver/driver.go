// Package driver runs the pipeline: lex, parse, lower (with verification),
// and optionally execution.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"minicc/internal/backend/llvm"
	"minicc/internal/diag"
	"minicc/internal/lexer"
	"minicc/internal/lower"
	"minicc/internal/observ"
	"minicc/internal/parser"
	"minicc/internal/source"
	"minicc/internal/token"
	"minicc/internal/trace"
	"minicc/internal/vm"
)

// ErrLex is wrapped by Compile when the source has lexical errors.
var ErrLex = errors.New("lexical errors")

// Options configures Compile, CompileAll and Run. The tracer travels in the
// context (trace.WithTracer).
type Options struct {
	ModuleName     string        // default "main"
	MaxDiagnostics int           // default 100
	Jobs           int           // CompileAll parallelism; 0 = GOMAXPROCS
	Heartbeat      time.Duration // CompileAll liveness events; 0 = off
	MaxSteps       int           // Run step limit; 0 = vm.DefaultMaxSteps
	Cache          *DiskCache    // nil disables the IR cache
	Memo           *UnitCache    // in-process cache consulted before Cache
}

func (o Options) withDefaults() Options {
	if o.ModuleName == "" {
		o.ModuleName = "main"
	}
	if o.MaxDiagnostics <= 0 {
		o.MaxDiagnostics = 100
	}
	return o
}

// Result is the outcome of one compilation. Bag and Files are always set, so
// a failed Result can still be printed with Report.
type Result struct {
	Name    string
	Files   *source.FileSet
	File    *source.File
	Bag     *diag.Bag
	IR      string
	Exports []string
	Module  *llvm.Module // nil when the IR came from the cache
	Cached  bool
	Timings observ.Report
}

// Report pretty-prints the diagnostics of r.
func (r *Result) Report(w io.Writer, color bool) error {
	return diag.Pretty(w, r.Bag, r.Files, diag.PrettyOpts{Color: color, Context: true})
}

// ReportJSON writes the diagnostics of r as a JSON document.
func (r *Result) ReportJSON(w io.Writer) error {
	return diag.JSON(w, r.Bag, r.Files, diag.JSONOpts{IncludeNotes: true, IncludePositions: true})
}

// Compile runs the whole pipeline on src. On failure both the Result (for its
// diagnostics) and the error are returned.
func Compile(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "compile:"+name, trace.ParentSpan(ctx))
	ctx = trace.WithParent(ctx, span)

	res, err := compile(ctx, name, src, opts)
	detail := ""
	switch {
	case err != nil:
		detail = "failed"
	case res.Cached:
		detail = "cached"
	}
	span.End(detail)
	return res, err
}

func compile(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	files := source.NewFileSet()
	file := files.Get(files.AddVirtual(name, src))
	res := &Result{
		Name:  name,
		Files: files,
		File:  file,
		Bag:   diag.NewBag(opts.MaxDiagnostics),
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	caching := opts.Cache != nil || opts.Memo != nil
	var key Digest
	if caching {
		key = CacheKey(opts.ModuleName, file.Hash)
		if payload, ok := lookupCache(name, key, opts); ok && payload.SourceHash == Digest(file.Hash) {
			res.IR = payload.IR
			res.Exports = payload.Exports
			res.Cached = true
			return res, nil
		}
	}

	timer := observ.NewTimer()
	defer func() { res.Timings = timer.Report() }()
	reporter := diag.BagReporter{Bag: res.Bag}
	tracer := trace.FromContext(ctx)
	parent := trace.ParentSpan(ctx)

	idx := timer.Begin("lex")
	lexSpan := trace.Begin(tracer, trace.ScopePass, "lex", parent)
	count, lexErrors := lexAll(file, reporter)
	lexSpan.WithExtra("tokens", fmt.Sprint(count)).End("")
	timer.End(idx, fmt.Sprintf("%d tokens", count))
	if lexErrors > 0 {
		return res, fmt.Errorf("%w: %s: %d", ErrLex, name, lexErrors)
	}

	idx = timer.Begin("parse")
	parseSpan := trace.Begin(tracer, trace.ScopePass, "parse", parent)
	tree, err := parser.ParseFile(file, parser.Options{Reporter: reporter})
	parseSpan.End("")
	timer.End(idx, "")
	if err != nil {
		return res, err
	}

	idx = timer.Begin("lower")
	mod, err := lower.New(tree, lower.Options{ModuleName: opts.ModuleName}).Lower(ctx)
	timer.End(idx, "")
	if err != nil {
		if le, ok := lower.AsError(err); ok {
			res.Bag.Add(le.Diagnostic())
		}
		return res, err
	}

	res.Module = mod
	res.IR = mod.String()
	for _, fn := range mod.Funcs() {
		res.Exports = append(res.Exports, fn.Name())
	}

	if caching {
		payload := &DiskPayload{
			Name:       name,
			SourceHash: Digest(file.Hash),
			IR:         res.IR,
			Exports:    res.Exports,
		}
		opts.Memo.Put(name, key, payload)
		// write errors are ignored; the next compile lowers again
		_ = opts.Cache.Put(key, payload)
	}
	return res, nil
}

func lookupCache(name string, key Digest, opts Options) (*DiskPayload, bool) {
	if payload, ok := opts.Memo.Get(name, key); ok {
		return payload, true
	}
	var payload DiskPayload
	if hit, err := opts.Cache.Get(key, &payload); err != nil || !hit {
		return nil, false
	}
	opts.Memo.Put(name, key, &payload)
	return &payload, true
}

// lexAll drains a lexer over file and returns the token count and the number
// of lexical errors.
func lexAll(file *source.File, r diag.Reporter) (int, int) {
	lx := lexer.New(file, lexer.Options{Reporter: r})
	n := 0
	for lx.Next().Kind != token.EOF {
		n++
	}
	return n, lx.ErrorCount()
}

// Run compiles src without the cache and calls fn with args.
func Run(ctx context.Context, src []byte, fn string, args ...int64) (int64, error) {
	return RunWith(ctx, src, Options{}, fn, args...)
}

// RunWith is Run with explicit options. The cache is never consulted since
// execution needs a freshly lowered module.
func RunWith(ctx context.Context, src []byte, opts Options, fn string, args ...int64) (int64, error) {
	opts.Cache = nil
	opts.Memo = nil
	res, err := Compile(ctx, opts.withDefaults().ModuleName+".c", src, opts)
	if err != nil {
		return 0, err
	}
	eng, err := vm.New(res.Module, vm.Options{MaxSteps: opts.MaxSteps})
	if err != nil {
		return 0, err
	}
	f, err := eng.Function(fn)
	if err != nil {
		return 0, err
	}
	return f.Call(args...)
}
