package token_test

import (
	"testing"

	"minicc/internal/token"
)

func TestLookupKeyword(t *testing.T) {
	for _, word := range []string{"struct", "unsigned", "int", "while", "break"} {
		k, ok := token.LookupKeyword(word)
		if !ok {
			t.Fatalf("%q should be a keyword", word)
		}
		if k.String() != word {
			t.Fatalf("String() = %q, want %q", k.String(), word)
		}
	}
	for _, word := range []string{"bool", "Int", "fn", ""} {
		if _, ok := token.LookupKeyword(word); ok {
			t.Fatalf("%q must not be a keyword", word)
		}
	}
}

func TestKindPredicates(t *testing.T) {
	if !token.KwVoid.IsTypeName() || !token.KwInt.IsTypeName() {
		t.Fatalf("void and int are type names")
	}
	if token.KwReturn.IsTypeName() {
		t.Fatalf("return is not a type name")
	}
	rel := []token.Kind{token.EqEq, token.BangEq, token.Lt, token.LtEq, token.Gt, token.GtEq}
	for _, k := range rel {
		if !k.IsRelational() {
			t.Fatalf("%v should be relational", k)
		}
	}
	if token.Assign.IsRelational() || token.AndAnd.IsRelational() {
		t.Fatalf("= and && are not relational")
	}
	if !token.Plus.IsAdditive() || !token.Star.IsMultiplicative() || token.Plus.IsMultiplicative() {
		t.Fatalf("arithmetic classes mixed up")
	}
	if token.Ident.IsKeyword() || token.Plus.IsKeyword() {
		t.Fatalf("identifiers and operators are not keywords")
	}
}

func TestTokenString(t *testing.T) {
	cases := []struct {
		tok  token.Token
		want string
	}{
		{token.Token{Kind: token.Ident, Text: "a"}, "identifier(a)"},
		{token.Token{Kind: token.IntLit, Text: "42"}, "integer literal(42)"},
		{token.Token{Kind: token.GtEq, Text: ">="}, ">="},
		{token.Token{Kind: token.KwReturn, Text: "return"}, "return"},
		{token.Token{Kind: token.EOF}, "EOF"},
	}
	for _, tc := range cases {
		if got := tc.tok.String(); got != tc.want {
			t.Fatalf("String() = %q, want %q", got, tc.want)
		}
	}
}
