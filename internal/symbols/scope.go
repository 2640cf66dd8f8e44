package symbols

// ScopeID identifies a scope for the lifetime of a Table. IDs are never reused.
type ScopeID uint32

const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

// ScopeKind enumerates supported scope categories.
type ScopeKind uint8

const (
	ScopeInvalid  ScopeKind = iota
	ScopeGlobal             // top-level function declarations
	ScopeFunction           // function body scope
	ScopeBlock              // generic block scope
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// Scope maps names to bindings. Redefinition in the same scope overwrites.
type Scope[V any] struct {
	ID    ScopeID
	Kind  ScopeKind
	Label string
	names map[string]Symbol[V]
}

func newScope[V any](id ScopeID, kind ScopeKind, label string) *Scope[V] {
	return &Scope[V]{
		ID:    id,
		Kind:  kind,
		Label: label,
		names: make(map[string]Symbol[V]),
	}
}

// Len is the number of names bound in the scope.
func (s *Scope[V]) Len() int { return len(s.names) }
