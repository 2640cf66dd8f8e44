// Package llvm is the target backend: it builds LLVM IR with
// github.com/llir/llvm, tracks the insertion cursor, and verifies finished
// modules before they are printed or executed.
package llvm
