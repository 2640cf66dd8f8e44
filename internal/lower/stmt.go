package lower

import (
	"fmt"

	"minicc/internal/ast"
	"minicc/internal/backend/llvm"
	"minicc/internal/symbols"
	"minicc/internal/token"
)

// lowerVarDefine gives every name of VariableDefine [type, name...] a stack
// slot in the entry block.
func (e *Engine) lowerVarDefine(id ast.NodeID) error {
	children := e.tree.Children(id)
	if len(children) < 2 {
		return e.unsupported(id)
	}
	ty, err := e.storageType(children[0])
	if err != nil {
		return err
	}
	for _, nameID := range children[1:] {
		name, ok := e.tree.Symbol(nameID)
		if !ok {
			return e.internal(nameID, errNoName)
		}
		slot, err := e.b.Alloca(ty, name)
		if err != nil {
			return e.internal(nameID, err)
		}
		e.syms.Declare(name, symbols.Address, slot)
	}
	return nil
}

// lowerAssign lowers AssignStmt [target, source].
func (e *Engine) lowerAssign(id ast.NodeID) error {
	children := e.tree.Children(id)
	if len(children) != 2 {
		return e.unsupported(id)
	}
	target := children[0]
	name, ok := e.tree.Symbol(target)
	if !ok || !e.tree.IsIdent(target) {
		return e.errorAt(NotAssignable, target, "", nil)
	}
	sym, err := e.lookup(target, name)
	if err != nil {
		return err
	}
	if sym.Kind != symbols.Address {
		return e.errorAt(NotAssignable, target, name, fmt.Errorf("%s is a %s", name, sym.Kind))
	}

	val, err := e.rvalue(children[1])
	if err != nil {
		return err
	}
	if err := e.b.Store(val, sym.Value); err != nil {
		return e.internal(id, err)
	}
	return nil
}

// lowerReturn lowers ReturnStmt [value?]. An identifier is returned as bound,
// without a load, so returning a local slot yields a module that fails
// verification.
func (e *Engine) lowerReturn(id ast.NodeID) error {
	children := e.tree.Children(id)
	var err error
	switch {
	case len(children) == 0:
		err = e.b.RetVoid()
	case len(children) > 1:
		return e.unsupported(id)
	default:
		child := children[0]
		var v llvm.Value
		switch {
		case e.tree.IsNumber(child):
			v, err = e.literal(child)
		case e.tree.IsIdent(child):
			name, _ := e.tree.Symbol(child)
			var sym symbols.Symbol[llvm.Value]
			sym, err = e.lookup(child, name)
			v = sym.Value
		case e.tree.Kind(child) == ast.Expr:
			v, err = e.expr(child)
		default:
			return e.unsupported(child)
		}
		if err != nil {
			return err
		}
		err = e.b.Ret(v)
	}
	if err != nil {
		return e.internal(id, err)
	}
	return nil
}

var predicates = map[token.Kind]llvm.Pred{
	token.EqEq:   llvm.PredEQ,
	token.BangEq: llvm.PredNE,
	token.Gt:     llvm.PredSGT,
	token.GtEq:   llvm.PredSGE,
	token.Lt:     llvm.PredSLT,
	token.LtEq:   llvm.PredSLE,
}

// lowerIf lowers IfStmt [lhs, relop, rhs, body?]. The cursor ends in the
// if.end block; a then block that falls through branches there explicitly.
func (e *Engine) lowerIf(id ast.NodeID) error {
	children := e.tree.Children(id)
	if len(children) < 3 || len(children) > 4 {
		return e.unsupported(id)
	}
	var body ast.NodeID
	if len(children) == 4 {
		body = children[3]
		if e.tree.Kind(body) == ast.ElseClause {
			return e.unsupported(body)
		}
		if e.tree.Kind(body) == ast.Block {
			inner := e.tree.Children(body)
			if len(inner) != 1 {
				return e.unsupported(body)
			}
			body = inner[0]
		}
	}

	lhs, err := e.rvalue(children[0])
	if err != nil {
		return err
	}
	rhs, err := e.rvalue(children[2])
	if err != nil {
		return err
	}
	opTok, _ := e.tree.Token(children[1])
	pred, ok := predicates[opTok.Kind]
	if !ok {
		return e.internal(children[1], fmt.Errorf("not a relational operator: %q", opTok.Text))
	}
	cond, err := e.b.ICmp(pred, lhs, rhs, "cmp")
	if err != nil {
		return e.internal(id, err)
	}

	fn, err := e.currentFunc(id)
	if err != nil {
		return err
	}
	then := e.b.AppendBlock(fn, "if.then")
	end := e.b.AppendBlock(fn, "if.end")
	if err := e.b.CondBr(cond, then, end); err != nil {
		return e.internal(id, err)
	}

	e.b.PositionAtEnd(then)
	if body.IsValid() {
		if err := e.dispatch(body); err != nil {
			return err
		}
	}
	if cur := e.b.CurrentBlock(); !llvm.Terminated(cur) {
		if err := e.b.Br(end); err != nil {
			return e.internal(id, err)
		}
	}
	e.b.PositionAtEnd(end)
	return nil
}
