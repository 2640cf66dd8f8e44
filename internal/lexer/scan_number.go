package lexer

import (
	"minicc/internal/diag"
	"minicc/internal/token"
)

// scanNumber accepts 0, 123, 017, 0x1F, 1.5, .5, 1e-3 and 1.0e+10, plus the
// C suffixes u/l (integers) and f/l (floats). Suffixes stay in Token.Text.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	if lx.cursor.Peek() == '0' {
		if _, b1, ok := lx.cursor.Peek2(); ok && (b1 == 'x' || b1 == 'X') {
			lx.cursor.Bump()
			lx.cursor.Bump()
			if !isHex(lx.cursor.Peek()) {
				return lx.badNumber(start, "expected hex digit after 0x")
			}
			for isHex(lx.cursor.Peek()) {
				lx.cursor.Bump()
			}
			return lx.finishNumber(start, kind)
		}
	}

	for isDec(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	if lx.cursor.Peek() == '.' {
		lx.cursor.Bump()
		kind = token.FloatLit
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		kind = token.FloatLit
		lx.cursor.Bump()
		if b := lx.cursor.Peek(); b == '+' || b == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			return lx.badNumber(start, "expected digit after exponent")
		}
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
	}
	return lx.finishNumber(start, kind)
}

func (lx *Lexer) finishNumber(start Mark, kind token.Kind) token.Token {
	for {
		b := lx.cursor.Peek()
		if b == 'l' || b == 'L' || (kind == token.IntLit && (b == 'u' || b == 'U')) ||
			(kind == token.FloatLit && (b == 'f' || b == 'F')) {
			lx.cursor.Bump()
			continue
		}
		break
	}
	if isIdentContinueByte(lx.cursor.Peek()) || lx.cursor.Peek() == '.' {
		for isIdentContinueByte(lx.cursor.Peek()) || lx.cursor.Peek() == '.' {
			lx.cursor.Bump()
		}
		return lx.badNumber(start, "invalid suffix on number")
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp)}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}
