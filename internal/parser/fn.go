package parser

import (
	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/source"
	"minicc/internal/token"
)

// parseFunc parses the rest of a function after `type name`. The result is
// FuncDefine [type, name, params..., body statements...] or
// FuncDeclare [type, name, params...] for a prototype.
func (p *Parser) parseFunc(ty ast.NodeID, nameTok token.Token) (ast.NodeID, bool) {
	p.advance() // '('
	children := []ast.NodeID{ty, p.b.Terminal(nameTok)}
	params, ok := p.parseParams()
	if !ok {
		return ast.NoNodeID, false
	}
	children = append(children, params...)
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after parameters"); !ok {
		return ast.NoNodeID, false
	}

	if p.at(token.Semicolon) {
		end := p.advance()
		return p.b.Named(ast.FuncDeclare, nameTok.Span.Cover(end.Span), nameTok.Text, children...), true
	}
	if !p.at(token.LBrace) {
		p.err(diag.SynUnexpectedToken, "expected '{' or ';' after function header, got "+p.describePeek())
		return ast.NoNodeID, false
	}
	body, sp, ok := p.parseBraced()
	if !ok {
		return ast.NoNodeID, false
	}
	children = append(children, body...)
	return p.b.Named(ast.FuncDefine, p.b.SpanOf(ty).Cover(sp), nameTok.Text, children...), true
}

// parseParams accepts `()`, `(void)` and `(type name, ...)`.
func (p *Parser) parseParams() ([]ast.NodeID, bool) {
	if p.at(token.RParen) {
		return nil, true
	}
	if p.at(token.KwVoid) {
		v := p.advance()
		if p.at(token.RParen) {
			return nil, true
		}
		p.errAt(diag.SynUnexpectedToken, v.Span, "'void' must be the only parameter")
		return nil, false
	}
	var params []ast.NodeID
	for {
		ty, ok := p.parseType()
		if !ok {
			return nil, false
		}
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			return nil, false
		}
		name := p.b.Terminal(nameTok)
		params = append(params, p.b.Named(ast.FuncParam, source.Span{}, nameTok.Text, ty, name))
		if !p.at(token.Comma) {
			return params, true
		}
		p.advance()
	}
}

// parseBraced parses `{ stmt* }` and returns the flattened statements.
func (p *Parser) parseBraced() ([]ast.NodeID, source.Span, bool) {
	open := p.advance() // '{'
	var stmts []ast.NodeID
	for p.ok() && !p.atOr(token.RBrace, token.EOF) {
		stmts = append(stmts, p.parseStmt()...)
	}
	if !p.ok() {
		return nil, source.Span{}, false
	}
	closeTok, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'")
	if !ok {
		return nil, source.Span{}, false
	}
	return stmts, open.Span.Cover(closeTok.Span), true
}
