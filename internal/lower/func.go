package lower

import (
	"fmt"

	"minicc/internal/ast"
	"minicc/internal/backend/llvm"
	"minicc/internal/symbols"
	"minicc/internal/token"
	"minicc/internal/trace"
)

// lowerFunc lowers FuncDefine [type, name, FuncParam..., stmt...]. The
// declared return type is not consulted: every function returns i64.
func (e *Engine) lowerFunc(id ast.NodeID) (err error) {
	children := e.tree.Children(id)
	if len(children) < 2 {
		return e.internal(id, fmt.Errorf("function has %d children", len(children)))
	}
	name, ok := e.tree.Symbol(id)
	if !ok {
		if name, ok = e.tree.Symbol(children[1]); !ok {
			return e.internal(id, errNoName)
		}
	}
	if e.syms.DeclaredInCurrent(name) {
		return e.errorAt(UnsupportedConstruct, id, name, llvm.ErrDuplicateFunction)
	}

	var params []llvm.Param
	body := children[2:]
	for len(body) > 0 && e.tree.Kind(body[0]) == ast.FuncParam {
		p, err := e.param(body[0])
		if err != nil {
			return err
		}
		params = append(params, p)
		body = body[1:]
	}

	fn, err := e.mod.DeclareFunction(name, llvm.Int64, params)
	if err != nil {
		return e.errorAt(UnsupportedConstruct, id, name, err)
	}
	// Visible to its own body and to everything after it.
	e.syms.Declare(name, symbols.Function, fn)

	span := trace.Begin(e.tracer, trace.ScopeFunction, "fn:"+name, e.span)
	outer := e.span
	e.span = span.ID()
	guard := e.syms.EnterFunction(name, fn)
	prev := e.b.CurrentBlock()
	defer func() {
		if rerr := guard.Release(); rerr != nil && err == nil {
			err = e.internal(id, rerr)
		}
		e.b.PositionAtEnd(prev)
		e.span = outer
		span.WithExtra("params", fmt.Sprint(len(params))).End(errDetail(err))
	}()

	e.b.PositionAtEnd(e.b.AppendBlock(fn, "entry"))

	if got := llvm.ParamCount(fn); got != len(params) {
		return e.errorAt(ParameterCountMismatch, id, name,
			fmt.Errorf("declared %d, backend reports %d", len(params), got))
	}
	for i, p := range fn.Params {
		e.syms.Declare(params[i].Name, symbols.Register, p)
	}

	for _, stmt := range body {
		// Blocks take exactly one terminator; anything after it is dead code.
		if llvm.Terminated(e.b.CurrentBlock()) {
			return e.errorAt(UnsupportedConstruct, stmt, "", errUnreachable)
		}
		if err := e.dispatch(stmt); err != nil {
			return err
		}
	}
	return nil
}

// param reads FuncParam [type, name].
func (e *Engine) param(id ast.NodeID) (llvm.Param, error) {
	ty, err := e.storageType(e.tree.Child(id, 0))
	if err != nil {
		return llvm.Param{}, err
	}
	name, ok := e.tree.Symbol(id)
	if !ok {
		if name, ok = e.tree.Symbol(e.tree.Child(id, 1)); !ok {
			return llvm.Param{}, e.internal(id, errNoName)
		}
	}
	return llvm.Param{Name: name, Type: ty}, nil
}

// storageType maps a type terminal to its IR type. Only int has one.
func (e *Engine) storageType(id ast.NodeID) (llvm.Type, error) {
	tok, ok := e.tree.Token(id)
	if !ok {
		return nil, e.internal(id, fmt.Errorf("type node is %s", e.tree.Kind(id)))
	}
	if tok.Kind != token.KwInt {
		return nil, e.errorAt(UnsupportedType, id, tok.Text, nil)
	}
	return llvm.Int64, nil
}

func errDetail(err error) string {
	if err != nil {
		return "failed"
	}
	return ""
}
