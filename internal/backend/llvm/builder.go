package llvm

import (
	"errors"
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

var (
	ErrNoInsertPoint   = errors.New("builder has no insertion point")
	ErrBlockTerminated = errors.New("block is already terminated")
	ErrForeignBlock    = errors.New("block belongs to another function")
)

// Builder is the insertion cursor. All emitted names are unique within their
// function.
type Builder struct {
	mod   *Module
	block *ir.Block
}

func NewBuilder(m *Module) *Builder {
	return &Builder{mod: m}
}

// PositionAtEnd moves the cursor to the end of b.
func (b *Builder) PositionAtEnd(block *ir.Block) {
	b.block = block
}

func (b *Builder) CurrentBlock() *ir.Block { return b.block }

// CurrentFunc is the function owning the cursor block.
func (b *Builder) CurrentFunc() *ir.Func {
	if b.block == nil {
		return nil
	}
	return b.block.Parent
}

// AppendBlock adds a new block at the end of fn.
func (b *Builder) AppendBlock(fn *ir.Func, name string) *ir.Block {
	return fn.NewBlock(b.mod.namesOf(fn).unique(name))
}

// Terminated reports whether the block already has its terminator.
func Terminated(block *ir.Block) bool {
	return block != nil && block.Term != nil
}

func (b *Builder) insertable() error {
	switch {
	case b.block == nil:
		return ErrNoInsertPoint
	case b.block.Term != nil:
		return fmt.Errorf("%w: %s", ErrBlockTerminated, b.block.Name())
	}
	return nil
}

func (b *Builder) local(name string) string {
	return b.mod.namesOf(b.block.Parent).unique(name)
}

// Alloca reserves stack storage in the entry block of the current function,
// after any allocas already there.
func (b *Builder) Alloca(t Type, name string) (Value, error) {
	if err := b.insertable(); err != nil {
		return nil, err
	}
	fn := b.block.Parent
	entry := fn.Blocks[0]
	inst := ir.NewAlloca(t)
	inst.SetName(b.local(name))
	at := 0
	for at < len(entry.Insts) {
		if _, ok := entry.Insts[at].(*ir.InstAlloca); !ok {
			break
		}
		at++
	}
	entry.Insts = append(entry.Insts, nil)
	copy(entry.Insts[at+1:], entry.Insts[at:])
	entry.Insts[at] = inst
	return inst, nil
}

// Load reads a value of type t from ptr.
func (b *Builder) Load(t Type, ptr Value, name string) (Value, error) {
	if err := b.insertable(); err != nil {
		return nil, err
	}
	inst := b.block.NewLoad(t, ptr)
	inst.SetName(b.local(name))
	return inst, nil
}

func (b *Builder) Store(v, ptr Value) error {
	if err := b.insertable(); err != nil {
		return err
	}
	b.block.NewStore(v, ptr)
	return nil
}

func (b *Builder) Add(x, y Value, name string) (Value, error) {
	if err := b.insertable(); err != nil {
		return nil, err
	}
	inst := b.block.NewAdd(x, y)
	inst.SetName(b.local(name))
	return inst, nil
}

// ICmp emits a signed or equality integer comparison producing an i1.
func (b *Builder) ICmp(pred enum.IPred, x, y Value, name string) (Value, error) {
	if err := b.insertable(); err != nil {
		return nil, err
	}
	inst := b.block.NewICmp(pred, x, y)
	inst.SetName(b.local(name))
	return inst, nil
}

func (b *Builder) CondBr(cond Value, then, els *ir.Block) error {
	if err := b.insertable(); err != nil {
		return err
	}
	if then.Parent != b.block.Parent || els.Parent != b.block.Parent {
		return ErrForeignBlock
	}
	b.block.NewCondBr(cond, then, els)
	return nil
}

func (b *Builder) Br(target *ir.Block) error {
	if err := b.insertable(); err != nil {
		return err
	}
	if target.Parent != b.block.Parent {
		return ErrForeignBlock
	}
	b.block.NewBr(target)
	return nil
}

func (b *Builder) Ret(v Value) error {
	if err := b.insertable(); err != nil {
		return err
	}
	b.block.NewRet(v)
	return nil
}

func (b *Builder) RetVoid() error {
	if err := b.insertable(); err != nil {
		return err
	}
	b.block.NewRet(nil)
	return nil
}

// IsVoid reports whether t is the void type.
func IsVoid(t Type) bool {
	_, ok := t.(*types.VoidType)
	return ok
}
