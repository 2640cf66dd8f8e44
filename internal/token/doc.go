// Package token defines the lexical vocabulary of the C subset.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly.
//   - Type names (int, char, double, ...) are keywords, not identifiers.
//   - Comments and preprocessor lines never reach the token stream.
package token
