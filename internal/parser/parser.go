package parser

import (
	"errors"
	"fmt"
	"slices"

	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/lexer"
	"minicc/internal/source"
	"minicc/internal/token"
)

// ErrSyntax is returned when the unit has lexical or syntax errors. The
// details are in the reporter.
var ErrSyntax = errors.New("syntax error")

type Options struct {
	Reporter diag.Reporter
}

// Parser holds the state for one file. Parsing stops at the first error.
type Parser struct {
	lx       *lexer.Lexer
	b        *ast.Builder
	file     *source.File
	opts     Options
	lastSpan source.Span // span of the last consumed token
	failed   bool
	firstErr string
}

// ParseFile parses a whole translation unit. On failure the returned tree is
// nil and the error wraps ErrSyntax.
func ParseFile(file *source.File, opts Options) (*ast.Tree, error) {
	p := Parser{
		lx:   lexer.New(file, lexer.Options{Reporter: opts.Reporter}),
		b:    ast.NewBuilder(file.ID, uint(len(file.Content)/2+8)),
		file: file,
		opts: opts,
	}
	root := p.parseUnit()
	if p.failed || p.lx.ErrorCount() > 0 {
		if p.firstErr == "" {
			p.firstErr = "invalid token"
		}
		return nil, fmt.Errorf("%w: %s: %s", ErrSyntax, file.Path, p.firstErr)
	}
	return p.b.Finish(root), nil
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

func (p *Parser) ok() bool { return !p.failed }

// parseUnit is the top-level loop: declarations until EOF.
func (p *Parser) parseUnit() ast.NodeID {
	start := p.lx.Peek().Span
	var items []ast.NodeID
	for p.ok() && !p.at(token.EOF) {
		items = append(items, p.parseExternal()...)
	}
	return p.b.New(ast.TranslationUnit, start.Cover(p.lx.Peek().Span), items...)
}

// parseExternal handles `type name (...) {...}`, `type name (...);` and
// global `type a, b;`.
func (p *Parser) parseExternal() []ast.NodeID {
	ty, ok := p.parseType()
	if !ok {
		return nil
	}
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected identifier after type")
	if !ok {
		return nil
	}
	if p.at(token.LParen) {
		fn, ok := p.parseFunc(ty, nameTok)
		if !ok {
			return nil
		}
		return []ast.NodeID{fn}
	}
	return p.parseDeclRest(ty, nameTok)
}

// parseType accepts a single type keyword.
func (p *Parser) parseType() (ast.NodeID, bool) {
	if p.lx.Peek().Kind.IsTypeName() {
		return p.b.Terminal(p.advance()), true
	}
	p.err(diag.SynExpectType, "expected type, got "+p.describePeek())
	return ast.NoNodeID, false
}
