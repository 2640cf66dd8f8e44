package lower

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"minicc/internal/ast"
	"minicc/internal/backend/llvm"
	"minicc/internal/symbols"
	"minicc/internal/token"
)

func (e *Engine) lookup(id ast.NodeID, name string) (symbols.Symbol[llvm.Value], error) {
	sym, err := e.syms.Lookup(name)
	if err != nil {
		return sym, e.errorAt(UnresolvedIdentifier, id, name, err)
	}
	return sym, nil
}

// rvalue evaluates an operand: identifiers bound to storage are loaded,
// everything else is used as is.
func (e *Engine) rvalue(id ast.NodeID) (llvm.Value, error) {
	switch {
	case e.tree.IsNumber(id):
		return e.literal(id)
	case e.tree.IsIdent(id):
		name, _ := e.tree.Symbol(id)
		sym, err := e.lookup(id, name)
		if err != nil {
			return nil, err
		}
		switch sym.Kind {
		case symbols.Address:
			v, err := e.b.Load(llvm.Int64, sym.Value, name)
			if err != nil {
				return nil, e.internal(id, err)
			}
			return v, nil
		case symbols.Register:
			return sym.Value, nil
		default:
			// calls are not lowered, so a function name is never a value
			return nil, e.errorAt(UnsupportedConstruct, id, name, fmt.Errorf("%s is a %s", name, sym.Kind))
		}
	case e.tree.Kind(id) == ast.Expr:
		return e.expr(id)
	default:
		return nil, e.internal(id, fmt.Errorf("cannot evaluate %s", e.tree.Kind(id)))
	}
}

// expr folds Expr [operand, op, operand, ...] from the left.
func (e *Engine) expr(id ast.NodeID) (llvm.Value, error) {
	children := e.tree.Children(id)
	if len(children) < 3 || len(children)%2 == 0 {
		return nil, e.unsupported(id)
	}
	acc, err := e.rvalue(children[0])
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(children); i += 2 {
		opID := children[i]
		op, ok := e.tree.Token(opID)
		if !ok {
			return nil, e.internal(opID, fmt.Errorf("operator slot holds %s", e.tree.Kind(opID)))
		}
		if op.Kind != token.Plus {
			return nil, e.errorAt(UnsupportedConstruct, opID, op.Text, nil)
		}
		rhs, err := e.rvalue(children[i+1])
		if err != nil {
			return nil, err
		}
		if acc, err = e.b.Add(acc, rhs, "add"); err != nil {
			return nil, e.internal(id, err)
		}
	}
	return acc, nil
}

var errOverflow = errors.New("integer literal overflows int64")

// literal turns a numeric terminal into an i64 constant. C prefixes (0x, 0)
// and u/l suffixes are accepted; floats have no IR type here.
func (e *Engine) literal(id ast.NodeID) (llvm.Value, error) {
	tok, _ := e.tree.Token(id)
	if tok.Kind != token.IntLit {
		return nil, e.errorAt(UnsupportedType, id, tok.Text, nil)
	}
	v, err := parseInt(tok.Text)
	if err != nil {
		return nil, e.errorAt(UnsupportedConstruct, id, tok.Text, err)
	}
	return llvm.ConstInt(v), nil
}

func parseInt(text string) (int64, error) {
	neg := strings.HasPrefix(text, "-")
	digits := strings.TrimRight(strings.TrimPrefix(text, "-"), "uUlL")
	u, err := strconv.ParseUint(digits, 0, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, errOverflow
		}
		return 0, err
	}
	if neg && u == 1<<63 {
		return -1 << 63, nil
	}
	v, err := safecast.Conv[int64](u)
	if err != nil {
		return 0, errOverflow
	}
	if neg {
		v = -v
	}
	return v, nil
}
