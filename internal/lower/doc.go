// Package lower turns a syntax tree into a verified IR module.
//
// One Engine lowers one tree in a single depth-first pass. Names resolve
// through a scoped symbol table: the global scope holds functions, each
// function body gets its own scope. Locals are stack slots (Address
// bindings) read through loads; parameters and computed values are
// registers used as is.
package lower
