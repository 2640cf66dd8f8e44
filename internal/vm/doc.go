// Package vm executes verified modules by interpreting their LLVM IR.
//
// An Engine is created from a module that has passed verification; exported
// functions are resolved by name and called with int64 arguments. Arithmetic
// follows LLVM semantics: add wraps on overflow.
package vm
