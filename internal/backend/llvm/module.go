package llvm

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

var ErrDuplicateFunction = errors.New("function already defined")

// Param is one parameter of a function signature.
type Param struct {
	Name string
	Type Type
}

// Module is one compilation unit.
type Module struct {
	name  string
	ir    *ir.Module
	funcs map[string]*ir.Func
	names map[*ir.Func]*nameSet
}

func NewModule(name string) *Module {
	m := ir.NewModule()
	m.SourceFilename = name
	return &Module{
		name:  name,
		ir:    m,
		funcs: make(map[string]*ir.Func),
		names: make(map[*ir.Func]*nameSet),
	}
}

func (m *Module) Name() string { return m.name }

// IR exposes the underlying llir module.
func (m *Module) IR() *ir.Module { return m.ir }

// DeclareFunction adds a function with the given signature. Parameter names
// are reserved in the function's local namespace.
func (m *Module) DeclareFunction(name string, ret Type, params []Param) (*ir.Func, error) {
	if _, dup := m.funcs[name]; dup {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateFunction, name)
	}
	names := newNameSet()
	irParams := make([]*ir.Param, 0, len(params))
	for _, p := range params {
		irParams = append(irParams, ir.NewParam(names.unique(p.Name), p.Type))
	}
	if ret == nil {
		ret = types.Void
	}
	f := m.ir.NewFunc(name, ret, irParams...)
	m.funcs[name] = f
	m.names[f] = names
	return f, nil
}

// Func looks up a function by name.
func (m *Module) Func(name string) (*ir.Func, bool) {
	f, ok := m.funcs[name]
	return f, ok
}

// Funcs returns the functions in declaration order.
func (m *Module) Funcs() []*ir.Func { return m.ir.Funcs }

// ParamCount is the parameter count the backend reports for f.
func ParamCount(f *ir.Func) int { return len(f.Params) }

// String renders textual LLVM IR.
func (m *Module) String() string { return m.ir.String() }

func (m *Module) namesOf(f *ir.Func) *nameSet {
	ns, ok := m.names[f]
	if !ok {
		ns = newNameSet()
		m.names[f] = ns
	}
	return ns
}

// nameSet hands out unique local names: "add", "add.1", "add.2", ...
type nameSet struct {
	used map[string]int
}

func newNameSet() *nameSet {
	return &nameSet{used: make(map[string]int)}
}

func (s *nameSet) unique(base string) string {
	if base == "" {
		base = "t"
	}
	n, seen := s.used[base]
	if !seen {
		s.used[base] = 0
		return base
	}
	for {
		n++
		cand := fmt.Sprintf("%s.%d", base, n)
		if _, taken := s.used[cand]; !taken {
			s.used[base] = n
			s.used[cand] = 0
			return cand
		}
	}
}
