package lexer

import (
	"minicc/internal/diag"
	"minicc/internal/source"
)

type Options struct {
	Reporter diag.Reporter // may be nil; errors are then dropped and lexing continues
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	lx.errors++
	diag.ReportError(lx.opts.Reporter, code, sp, msg)
}
