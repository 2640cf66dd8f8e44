package symbols

// BindingKind tells how a bound value is used.
type BindingKind uint8

const (
	BindingInvalid BindingKind = iota
	// Address is stack storage; reading it requires a load.
	Address
	// Register is a value usable as is (parameters, computed results).
	Register
	// Function is a function handle.
	Function
)

func (k BindingKind) String() string {
	switch k {
	case Address:
		return "address"
	case Register:
		return "register"
	case Function:
		return "function"
	default:
		return "invalid"
	}
}

// Symbol is one binding.
type Symbol[V any] struct {
	Name  string
	Kind  BindingKind
	Value V
	Scope ScopeID
}
