// Package diag defines the diagnostic model shared by the lexer, the parser
// and the lowering pass.
//
// Producers emit through a Reporter so that emission stays decoupled from
// storage; BagReporter collects into a Bag which supports sorting and
// deduplication. Pretty renders a Bag for humans, optionally in color.
//
// Codes are grouped by phase: 1xxx lexical, 2xxx syntax, 4xxx lowering and
// backend. Their string IDs (LEX1001, SYN2001, LOW4001) are stable.
package diag
