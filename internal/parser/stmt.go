package parser

import (
	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/source"
	"minicc/internal/token"
)

// parseStmt returns zero or more nodes: an empty statement yields none and a
// declaration with initializers yields the VariableDefine followed by one
// AssignStmt per initializer.
func (p *Parser) parseStmt() []ast.NodeID {
	tok := p.lx.Peek()
	switch {
	case tok.Kind == token.Semicolon:
		p.advance()
		return nil
	case tok.Kind == token.LBrace:
		body, sp, ok := p.parseBraced()
		if !ok {
			return nil
		}
		return one(p.b.New(ast.Block, sp, body...))
	case tok.Kind == token.KwReturn:
		return p.parseReturn()
	case tok.Kind == token.KwIf:
		return p.parseIf()
	case tok.Kind == token.KwFor:
		return p.parseFor()
	case tok.Kind == token.KwWhile:
		return p.parseWhile()
	case tok.Kind == token.KwBreak, tok.Kind == token.KwContinue:
		kw := p.advance()
		if !p.expectSemicolon() {
			return nil
		}
		kind := ast.BreakStmt
		if kw.Kind == token.KwContinue {
			kind = ast.ContinueStmt
		}
		return one(p.b.New(kind, kw.Span))
	case tok.Kind.IsTypeName():
		ty, _ := p.parseType()
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name")
		if !ok {
			return nil
		}
		return p.parseDeclRest(ty, nameTok)
	case tok.Kind == token.KwElse:
		p.err(diag.SynUnexpectedToken, "'else' without a matching 'if'")
		return nil
	case tok.Kind.IsKeyword():
		p.err(diag.SynUnsupportedSyntax, "'"+tok.Text+"' statements are not supported")
		return nil
	default:
		n, ok := p.parseSimple()
		if !ok || !p.expectSemicolon() {
			return nil
		}
		return one(n)
	}
}

func one(id ast.NodeID) []ast.NodeID { return []ast.NodeID{id} }

// parseDeclRest parses `name [= init] {, name [= init]} ;` after the type and
// the first name.
func (p *Parser) parseDeclRest(ty ast.NodeID, first token.Token) []ast.NodeID {
	names := []ast.NodeID{ty}
	var assigns []ast.NodeID
	nameTok := first
	for {
		name := p.b.Terminal(nameTok)
		names = append(names, name)
		if p.at(token.Assign) {
			p.advance()
			val, ok := p.parseValue()
			if !ok {
				return nil
			}
			target := p.b.Terminal(nameTok)
			assigns = append(assigns, p.b.New(ast.AssignStmt, source.Span{}, target, val))
		}
		if !p.at(token.Comma) {
			break
		}
		p.advance()
		var ok bool
		nameTok, ok = p.expect(token.Ident, diag.SynExpectIdentifier, "expected variable name after ','")
		if !ok {
			return nil
		}
	}
	if !p.expectSemicolon() {
		return nil
	}
	decl := p.b.New(ast.VariableDefine, p.b.SpanOf(ty).Cover(p.lastSpan), names...)
	return append([]ast.NodeID{decl}, assigns...)
}

// parseReturn: ReturnStmt [] or ReturnStmt [value].
func (p *Parser) parseReturn() []ast.NodeID {
	kw := p.advance()
	if p.at(token.Semicolon) {
		p.advance()
		return one(p.b.New(ast.ReturnStmt, kw.Span))
	}
	val, ok := p.parseValue()
	if !ok || !p.expectSemicolon() {
		return nil
	}
	return one(p.b.New(ast.ReturnStmt, kw.Span.Cover(p.lastSpan), val))
}

// parseIf: IfStmt [lhs, relop, rhs, body] with an optional trailing
// ElseClause [stmt].
func (p *Parser) parseIf() []ast.NodeID {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'if'"); !ok {
		return nil
	}
	cond, ok := p.parseCondition()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after condition"); !ok {
		return nil
	}
	children := cond
	body, ok := p.parseBody()
	if !ok {
		return nil
	}
	if body.IsValid() {
		children = append(children, body)
	}
	if p.at(token.KwElse) {
		elseTok := p.advance()
		alt, ok := p.parseBody()
		if !ok {
			return nil
		}
		var elseKids []ast.NodeID
		if alt.IsValid() {
			elseKids = append(elseKids, alt)
		}
		children = append(children, p.b.New(ast.ElseClause, elseTok.Span.Cover(p.lastSpan), elseKids...))
	}
	return one(p.b.New(ast.IfStmt, kw.Span.Cover(p.lastSpan), children...))
}

// parseBody parses the single statement governed by if/else/for/while. An
// empty statement yields NoNodeID; a declaration with initializers is wrapped
// in a Block.
func (p *Parser) parseBody() (ast.NodeID, bool) {
	start := p.lx.Peek().Span
	stmts := p.parseStmt()
	if !p.ok() {
		return ast.NoNodeID, false
	}
	switch len(stmts) {
	case 0:
		return ast.NoNodeID, true
	case 1:
		return stmts[0], true
	default:
		return p.b.New(ast.Block, start.Cover(p.lastSpan), stmts...), true
	}
}

// parseCondition returns [lhs, relop, rhs].
func (p *Parser) parseCondition() ([]ast.NodeID, bool) {
	lhs, ok := p.parseAdditive()
	if !ok {
		return nil, false
	}
	if !p.lx.Peek().Kind.IsRelational() {
		p.err(diag.SynUnsupportedSyntax, "condition must be a comparison, got "+p.describePeek())
		return nil, false
	}
	op := p.b.Terminal(p.advance())
	rhs, ok := p.parseAdditive()
	if !ok {
		return nil, false
	}
	return []ast.NodeID{lhs, op, rhs}, true
}

// parseFor: ForStmt [init?, Expr(cond)?, post?, body?]. The loop is kept for
// diagnostics only; lowering rejects it.
func (p *Parser) parseFor() []ast.NodeID {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'for'"); !ok {
		return nil
	}
	var children []ast.NodeID
	if !p.at(token.Semicolon) {
		init, ok := p.parseSimple()
		if !ok {
			return nil
		}
		children = append(children, init)
	}
	if !p.expectSemicolon() {
		return nil
	}
	if !p.at(token.Semicolon) {
		cond, ok := p.parseCondition()
		if !ok {
			return nil
		}
		children = append(children, p.b.New(ast.Expr, source.Span{}, cond...))
	}
	if !p.expectSemicolon() {
		return nil
	}
	if !p.at(token.RParen) {
		post, ok := p.parseSimple()
		if !ok {
			return nil
		}
		children = append(children, post)
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after for clauses"); !ok {
		return nil
	}
	body, ok := p.parseBody()
	if !ok {
		return nil
	}
	if body.IsValid() {
		children = append(children, body)
	}
	return one(p.b.New(ast.ForStmt, kw.Span.Cover(p.lastSpan), children...))
}

// parseWhile: WhileStmt [Expr(cond), body?].
func (p *Parser) parseWhile() []ast.NodeID {
	kw := p.advance()
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after 'while'"); !ok {
		return nil
	}
	cond, ok := p.parseCondition()
	if !ok {
		return nil
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after condition"); !ok {
		return nil
	}
	children := []ast.NodeID{p.b.New(ast.Expr, source.Span{}, cond...)}
	body, ok := p.parseBody()
	if !ok {
		return nil
	}
	if body.IsValid() {
		children = append(children, body)
	}
	return one(p.b.New(ast.WhileStmt, kw.Span.Cover(p.lastSpan), children...))
}

// parseSimple parses an assignment or expression statement without the
// trailing ';'. `x op= v` becomes AssignStmt [x, Expr [x, op, v]] and
// `x++` becomes AssignStmt [x, Expr [x, +, 1]].
func (p *Parser) parseSimple() (ast.NodeID, bool) {
	if p.at(token.Ident) {
		nameTok := p.advance()
		switch next := p.lx.Peek(); next.Kind {
		case token.Assign:
			p.advance()
			val, ok := p.parseValue()
			if !ok {
				return ast.NoNodeID, false
			}
			return p.b.New(ast.AssignStmt, source.Span{}, p.b.Terminal(nameTok), val), true
		case token.PlusAssign, token.MinusAssign:
			p.advance()
			val, ok := p.parseValue()
			if !ok {
				return ast.NoNodeID, false
			}
			op := token.Token{Kind: token.Plus, Text: "+", Span: next.Span}
			if next.Kind == token.MinusAssign {
				op = token.Token{Kind: token.Minus, Text: "-", Span: next.Span}
			}
			return p.compound(nameTok, op, val), true
		case token.PlusPlus, token.MinusMinus:
			p.advance()
			op := token.Token{Kind: token.Plus, Text: "+", Span: next.Span}
			if next.Kind == token.MinusMinus {
				op = token.Token{Kind: token.Minus, Text: "-", Span: next.Span}
			}
			lit := p.b.Terminal(token.Token{Kind: token.IntLit, Text: "1", Span: next.Span})
			return p.compound(nameTok, op, lit), true
		default:
			lhs, ok := p.continueValue(p.b.Terminal(nameTok))
			if !ok {
				return ast.NoNodeID, false
			}
			return p.b.New(ast.ExprStmt, source.Span{}, lhs), true
		}
	}
	val, ok := p.parseValue()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.b.New(ast.ExprStmt, source.Span{}, val), true
}

func (p *Parser) compound(nameTok, op token.Token, val ast.NodeID) ast.NodeID {
	expr := p.b.New(ast.Expr, source.Span{}, p.b.Terminal(nameTok), p.b.Terminal(op), val)
	return p.b.New(ast.AssignStmt, source.Span{}, p.b.Terminal(nameTok), expr)
}
