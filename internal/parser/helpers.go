package parser

import (
	"fmt"

	"minicc/internal/diag"
	"minicc/internal/source"
	"minicc/internal/token"
)

// advance consumes the next token and updates lastSpan.
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// diagnosticSpan points just past the last token when the parser ran into EOF.
func (p *Parser) diagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{File: p.lastSpan.File, Start: p.lastSpan.End, End: p.lastSpan.End}
	}
	return peek.Span
}

// expect consumes a token of kind k or reports code.
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.ok() && p.at(k) {
		return p.advance(), true
	}
	p.err(code, msg)
	return token.Token{Kind: token.Invalid, Span: p.diagnosticSpan()}, false
}

func (p *Parser) expectSemicolon() bool {
	_, ok := p.expect(token.Semicolon, diag.SynExpectSemicolon, "expected ';', got "+p.describePeek())
	return ok
}

func (p *Parser) err(code diag.Code, msg string) {
	p.errAt(code, p.diagnosticSpan(), msg)
}

// errAt records the first error only. An Invalid token was already reported
// by the lexer, so it only fails the parse.
func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) {
	if p.failed {
		return
	}
	p.failed = true
	if p.lx.Peek().Kind == token.Invalid {
		return
	}
	p.firstErr = msg
	diag.ReportError(p.opts.Reporter, code, sp, msg)
}

func (p *Parser) describePeek() string {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident, token.IntLit, token.FloatLit, token.StringLit:
		return fmt.Sprintf("%s %q", tok.Kind, tok.Text)
	default:
		return fmt.Sprintf("%q", tok.Kind.String())
	}
}
