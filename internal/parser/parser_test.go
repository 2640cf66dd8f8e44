package parser

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"minicc/internal/ast"
	"minicc/internal/diag"
	"minicc/internal/source"
	"minicc/internal/testkit"
)

func parseSource(t *testing.T, input string) (*ast.Tree, *diag.Bag, error) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.c", []byte(input))
	bag := diag.NewBag(100)
	tree, err := ParseFile(fs.Get(id), Options{Reporter: diag.BagReporter{Bag: bag}})
	return tree, bag, err
}

// sourceOf rebuilds the file mustParse used; the first virtual file of a
// fresh set always gets the same ID.
func sourceOf(input string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("test.c", []byte(input)))
}

func mustParse(t *testing.T, input string) *ast.Tree {
	t.Helper()
	tree, bag, err := parseSource(t, input)
	if err != nil {
		t.Fatalf("parse %q: %v (%s)", input, err, diagnosticsSummary(bag))
	}
	return tree
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// shape renders a node as kind(child, child...) with terminals as their text.
func shape(tree *ast.Tree, id ast.NodeID) string {
	n := tree.Node(id)
	if n.Kind == ast.Terminal {
		return n.Tok.Text
	}
	if len(n.Children) == 0 {
		return n.Kind.String()
	}
	parts := make([]string, 0, len(n.Children))
	for _, ch := range n.Children {
		parts = append(parts, shape(tree, ch))
	}
	return n.Kind.String() + "(" + strings.Join(parts, ", ") + ")"
}

func TestParseShapes(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "add params",
			input: "int f(int a,int b){ return a+b; }",
			want:  "FuncDefine(int, f, FuncParam(int, a), FuncParam(int, b), ReturnStmt(Expr(a, +, b)))",
		},
		{
			name:  "locals",
			input: "int f(){ int a,b; a=4; b=5; return a+b; }",
			want:  "FuncDefine(int, f, VariableDefine(int, a, b), AssignStmt(a, 4), AssignStmt(b, 5), ReturnStmt(Expr(a, +, b)))",
		},
		{
			name:  "if return",
			input: "int f(int a,int b){ if(a>=b) return a; return a+b; }",
			want:  "FuncDefine(int, f, FuncParam(int, a), FuncParam(int, b), IfStmt(a, >=, b, ReturnStmt(a)), ReturnStmt(Expr(a, +, b)))",
		},
		{
			name:  "void params and void return",
			input: "void g(void) { return; }",
			want:  "FuncDefine(void, g, ReturnStmt)",
		},
		{
			name:  "initializer desugars to assignment",
			input: "int f(){ int a = 1, b; return a; }",
			want:  "FuncDefine(int, f, VariableDefine(int, a, b), AssignStmt(a, 1), ReturnStmt(a))",
		},
		{
			name:  "multiplicative nests under additive",
			input: "int f(int a){ return a+2*3+1; }",
			want:  "FuncDefine(int, f, FuncParam(int, a), ReturnStmt(Expr(a, +, Expr(2, *, 3), +, 1)))",
		},
		{
			name:  "parenthesized operand",
			input: "int f(int a){ return (a+1)+2; }",
			want:  "FuncDefine(int, f, FuncParam(int, a), ReturnStmt(Expr(Expr(a, +, 1), +, 2)))",
		},
		{
			name:  "negative literal",
			input: "int f(){ return -7; }",
			want:  "FuncDefine(int, f, ReturnStmt(-7))",
		},
		{
			name:  "if with else and block body",
			input: "int f(int a){ if (a < 1) { return 1; } else return 2; }",
			want:  "FuncDefine(int, f, FuncParam(int, a), IfStmt(a, <, 1, Block(ReturnStmt(1)), ElseClause(ReturnStmt(2))))",
		},
		{
			name:  "for and break",
			input: "int f(){ int i; for (i = 0; i < 3; i++) break; return 0; }",
			want:  "FuncDefine(int, f, VariableDefine(int, i), ForStmt(AssignStmt(i, 0), Expr(i, <, 3), AssignStmt(i, Expr(i, +, 1)), BreakStmt), ReturnStmt(0))",
		},
		{
			name:  "while and continue",
			input: "int f(int a){ while (a != 0) { continue; } return a; }",
			want:  "FuncDefine(int, f, FuncParam(int, a), WhileStmt(Expr(a, !=, 0), Block(ContinueStmt)), ReturnStmt(a))",
		},
		{
			name:  "compound assignment",
			input: "int f(int a){ int b; b += a; return b; }",
			want:  "FuncDefine(int, f, FuncParam(int, a), VariableDefine(int, b), AssignStmt(b, Expr(b, +, a)), ReturnStmt(b))",
		},
		{
			name:  "prototype",
			input: "int f(int a);",
			want:  "FuncDeclare(int, f, FuncParam(int, a))",
		},
		{
			name:  "expression statement",
			input: "int f(int a){ a+1; return a; }",
			want:  "FuncDefine(int, f, FuncParam(int, a), ExprStmt(Expr(a, +, 1)), ReturnStmt(a))",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustParse(t, tt.input)
			root := tree.Node(tree.Root)
			if root.Kind != ast.TranslationUnit || len(root.Children) != 1 {
				t.Fatalf("root: %s", shape(tree, tree.Root))
			}
			if got := shape(tree, root.Children[0]); got != tt.want {
				t.Fatalf("shape mismatch\n got: %s\nwant: %s", got, tt.want)
			}
			if err := testkit.CheckSpanInvariants(tree, sourceOf(tt.input)); err != nil {
				t.Fatalf("span invariants: %v", err)
			}
		})
	}
}

func TestParseSymbols(t *testing.T) {
	tree := mustParse(t, "#include <x.h>\nint f(int a){ return a; }\nint g(){ return 1; }")
	fns := tree.Children(tree.Root)
	if len(fns) != 2 {
		t.Fatalf("expected two functions, got %d", len(fns))
	}
	for i, want := range []string{"f", "g"} {
		if name, ok := tree.Symbol(fns[i]); !ok || name != want {
			t.Fatalf("function %d symbol = %q, want %q", i, name, want)
		}
	}
	param := tree.Child(fns[0], 2)
	if tree.Kind(param) != ast.FuncParam {
		t.Fatalf("expected FuncParam, got %v", tree.Kind(param))
	}
	if name, _ := tree.Symbol(param); name != "a" {
		t.Fatalf("param symbol = %q", name)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		code  diag.Code
	}{
		{"missing semicolon", "int f(){ return 1 }", diag.SynExpectSemicolon},
		{"missing type", "f(){}", diag.SynExpectType},
		{"missing name", "int (){}", diag.SynExpectIdentifier},
		{"unclosed brace", "int f(){ return 1;", diag.SynUnclosedBrace},
		{"call", "int f(){ return g(1); }", diag.SynUnsupportedSyntax},
		{"non relational condition", "int f(int a){ if (a) return 1; return 0; }", diag.SynUnsupportedSyntax},
		{"comparison outside if", "int f(int a){ return a < 1; }", diag.SynUnsupportedSyntax},
		{"switch", "int f(int a){ switch (a) {} }", diag.SynUnsupportedSyntax},
		{"dangling else", "int f(){ else return 1; }", diag.SynUnexpectedToken},
		{"empty statements are fine", "int f(){ return ; ; }", diag.UnknownCode},
		{"unary minus on identifier", "int f(int a){ return -a; }", diag.SynUnsupportedSyntax},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, bag, err := parseSource(t, tt.input)
			if tt.code == diag.UnknownCode {
				if err != nil {
					t.Fatalf("expected success, got %v", err)
				}
				return
			}
			if err == nil || !errors.Is(err, ErrSyntax) || tree != nil {
				t.Fatalf("expected ErrSyntax, got tree=%v err=%v", tree != nil, err)
			}
			items := bag.Items()
			if len(items) != 1 {
				t.Fatalf("parsing stops at the first error, got %s", diagnosticsSummary(bag))
			}
			if items[0].Code != tt.code {
				t.Fatalf("code = %s, want %s (%s)", items[0].Code.ID(), tt.code.ID(), diagnosticsSummary(bag))
			}
		})
	}
}

func TestParseLexErrorFailsUnit(t *testing.T) {
	_, bag, err := parseSource(t, "int f(){ return 1 @ 2; }")
	if !errors.Is(err, ErrSyntax) {
		t.Fatalf("expected ErrSyntax, got %v", err)
	}
	if len(bag.Items()) != 1 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected only the lexer diagnostic, got %s", diagnosticsSummary(bag))
	}
}
