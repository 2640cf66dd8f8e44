// Package symbols implements the scoped symbol table used while lowering.
//
// A Table is a stack of scopes, innermost last, with the global scope at the
// bottom. Function bodies are entered through EnterFunction, which also pushes
// an explicit current-function slot; the returned Guard pops both on Release.
package symbols
