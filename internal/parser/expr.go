package parser

import (
	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/source"
	"minicc/internal/token"
)

// parseValue parses an arithmetic expression. Additive chains become one
// flat Expr [a, +, b, -, c]; a multiplicative chain is a nested Expr operand.
// A single operand is returned as is.
func (p *Parser) parseValue() (ast.NodeID, bool) {
	v, ok := p.parseAdditive()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.finishValue(v)
}

// continueValue resumes parseValue after its first primary was consumed.
func (p *Parser) continueValue(primary ast.NodeID) (ast.NodeID, bool) {
	if !p.checkCall(primary) {
		return ast.NoNodeID, false
	}
	m, ok := p.multiplicativeTail(primary)
	if !ok {
		return ast.NoNodeID, false
	}
	v, ok := p.additiveTail(m)
	if !ok {
		return ast.NoNodeID, false
	}
	return p.finishValue(v)
}

func (p *Parser) finishValue(v ast.NodeID) (ast.NodeID, bool) {
	if k := p.lx.Peek().Kind; k.IsRelational() || k == token.AndAnd || k == token.OrOr {
		p.err(diag.SynUnsupportedSyntax, "comparisons are only supported as if conditions")
		return ast.NoNodeID, false
	}
	return v, true
}

func (p *Parser) parseAdditive() (ast.NodeID, bool) {
	first, ok := p.parseMultiplicative()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.additiveTail(first)
}

func (p *Parser) additiveTail(first ast.NodeID) (ast.NodeID, bool) {
	return p.chain(first, token.Kind.IsAdditive, p.parseMultiplicative)
}

func (p *Parser) parseMultiplicative() (ast.NodeID, bool) {
	first, ok := p.parseUnary()
	if !ok {
		return ast.NoNodeID, false
	}
	return p.multiplicativeTail(first)
}

func (p *Parser) multiplicativeTail(first ast.NodeID) (ast.NodeID, bool) {
	return p.chain(first, token.Kind.IsMultiplicative, p.parseUnary)
}

// chain folds `first (op next)*` into a flat Expr.
func (p *Parser) chain(first ast.NodeID, isOp func(token.Kind) bool, next func() (ast.NodeID, bool)) (ast.NodeID, bool) {
	if !isOp(p.lx.Peek().Kind) {
		return first, true
	}
	children := []ast.NodeID{first}
	for isOp(p.lx.Peek().Kind) {
		children = append(children, p.b.Terminal(p.advance()))
		operand, ok := next()
		if !ok {
			return ast.NoNodeID, false
		}
		children = append(children, operand)
	}
	return p.b.New(ast.Expr, source.Span{}, children...), true
}

func (p *Parser) parseUnary() (ast.NodeID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		id := p.b.Terminal(p.advance())
		return id, p.checkCall(id)
	case token.IntLit, token.FloatLit, token.StringLit:
		return p.b.Terminal(p.advance()), true
	case token.Minus:
		minus := p.advance()
		lit := p.lx.Peek()
		if lit.Kind != token.IntLit && lit.Kind != token.FloatLit {
			p.err(diag.SynUnsupportedSyntax, "unary '-' is only supported on numeric literals")
			return ast.NoNodeID, false
		}
		p.advance()
		return p.b.Terminal(token.Token{
			Kind: lit.Kind,
			Text: "-" + lit.Text,
			Span: minus.Span.Cover(lit.Span),
		}), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseAdditive()
		if !ok {
			return ast.NoNodeID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoNodeID, false
		}
		return inner, true
	default:
		p.err(diag.SynExpectExpression, "expected expression, got "+p.describePeek())
		return ast.NoNodeID, false
	}
}

// checkCall rejects `name(`: calls between functions are not supported.
func (p *Parser) checkCall(id ast.NodeID) bool {
	if p.at(token.LParen) {
		p.errAt(diag.SynUnsupportedSyntax, p.b.SpanOf(id), "function calls are not supported")
		return false
	}
	return true
}
