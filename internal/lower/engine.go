package lower

import (
	"context"
	"errors"
	"fmt"

	"minicc/internal/ast"
	"minicc/internal/backend/llvm"
	"minicc/internal/symbols"
	"minicc/internal/trace"
)

var (
	errNoFunction  = errors.New("no current function")
	errNoName      = errors.New("node has no name")
	errUnreachable = errors.New("statement follows a terminator")
)

// Options configures an Engine.
type Options struct {
	// ModuleName names the output module; defaults to "main".
	ModuleName string
}

// Engine lowers one syntax tree. It is single-use and not safe for
// concurrent use.
type Engine struct {
	tree *ast.Tree
	mod  *llvm.Module
	b    *llvm.Builder
	syms *symbols.Table[llvm.Value]
	used bool

	tracer trace.Tracer
	span   uint64 // innermost open span, parent of node points
}

// New prepares an engine for tree.
func New(tree *ast.Tree, opts Options) *Engine {
	name := opts.ModuleName
	if name == "" {
		name = "main"
	}
	mod := llvm.NewModule(name)
	return &Engine{
		tree:   tree,
		mod:    mod,
		b:      llvm.NewBuilder(mod),
		syms:   symbols.NewTable[llvm.Value](),
		tracer: trace.Nop,
	}
}

// Lower lowers every top-level declaration in order and verifies the
// result. The first failing declaration aborts the rest.
func (e *Engine) Lower(ctx context.Context) (*llvm.Module, error) {
	if e.used {
		return nil, ErrEngineUsed
	}
	e.used = true

	e.tracer = trace.FromContext(ctx)
	span := trace.Begin(e.tracer, trace.ScopePass, "lower", trace.ParentSpan(ctx))
	e.span = span.ID()

	root := e.tree.Root
	if e.tree.Kind(root) != ast.TranslationUnit {
		span.End("no translation unit")
		return nil, e.internal(root, fmt.Errorf("root is %s", e.tree.Kind(root)))
	}
	for _, decl := range e.tree.Children(root) {
		if err := ctx.Err(); err != nil {
			span.End("canceled")
			return nil, err
		}
		if err := e.dispatch(decl); err != nil {
			span.End("failed")
			return nil, err
		}
	}
	span.WithExtra("functions", fmt.Sprint(len(e.mod.Funcs()))).End("")

	vspan := trace.Begin(e.tracer, trace.ScopePass, "verify", trace.ParentSpan(ctx))
	if err := llvm.Verify(e.mod); err != nil {
		vspan.End("failed")
		return nil, &Error{Kind: ModuleVerificationFailed, Span: e.tree.Span(root), Cause: err}
	}
	vspan.End("")
	return e.mod, nil
}

// Depth is the number of open scopes; 1 outside of any function.
func (e *Engine) Depth() int { return e.syms.Depth() }

// dispatch routes a node to its handler. Every kind has an explicit arm.
func (e *Engine) dispatch(id ast.NodeID) error {
	kind := e.tree.Kind(id)
	trace.Point(e.tracer, trace.ScopeNode, kind.String(), e.tree.Span(id).String(), e.span)

	switch kind {
	case ast.FuncDefine:
		return e.lowerFunc(id)
	case ast.VariableDefine:
		return e.inFunction(id, e.lowerVarDefine)
	case ast.AssignStmt:
		return e.inFunction(id, e.lowerAssign)
	case ast.ReturnStmt:
		return e.inFunction(id, e.lowerReturn)
	case ast.IfStmt:
		return e.inFunction(id, e.lowerIf)
	case ast.FuncDeclare,
		ast.ForStmt, ast.WhileStmt, ast.BreakStmt, ast.ContinueStmt,
		ast.ElseClause, ast.Block, ast.ExprStmt,
		ast.TranslationUnit, ast.FuncParam, ast.Expr, ast.Terminal:
		return e.unsupported(id)
	default:
		return e.unsupported(id)
	}
}

// inFunction runs fn only when a function body is open; top-level
// statements and global variables are not lowered.
func (e *Engine) inFunction(id ast.NodeID, fn func(ast.NodeID) error) error {
	if _, ok := e.syms.CurrentFunction(); !ok {
		return e.unsupported(id)
	}
	return fn(id)
}

// currentFunc returns the function owning the statement being lowered.
func (e *Engine) currentFunc(at ast.NodeID) (*llvm.Func, error) {
	v, ok := e.syms.CurrentFunction()
	if !ok {
		return nil, e.internal(at, errNoFunction)
	}
	fn, ok := v.(*llvm.Func)
	if !ok {
		return nil, e.internal(at, fmt.Errorf("current function slot holds %T", v))
	}
	return fn, nil
}

func (e *Engine) errorAt(kind ErrorKind, id ast.NodeID, name string, cause error) *Error {
	return &Error{
		Kind:  kind,
		Node:  e.tree.Kind(id),
		Name:  name,
		Span:  e.tree.Span(id),
		Cause: cause,
	}
}

func (e *Engine) unsupported(id ast.NodeID) error {
	return e.errorAt(UnsupportedConstruct, id, "", nil)
}

func (e *Engine) internal(id ast.NodeID, cause error) error {
	return e.errorAt(Internal, id, "", cause)
}
