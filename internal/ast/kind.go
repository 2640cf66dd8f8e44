package ast

// Kind is the closed set of syntax node kinds.
type Kind uint8

const (
	KindInvalid Kind = iota
	TranslationUnit
	FuncDefine
	FuncDeclare
	FuncParam
	ReturnStmt
	IfStmt
	VariableDefine
	AssignStmt
	Expr
	Terminal
	Block
	ForStmt
	WhileStmt
	BreakStmt
	ContinueStmt
	ExprStmt
	ElseClause
	kindCount
)

var kindNames = [...]string{
	KindInvalid:     "Invalid",
	TranslationUnit: "TranslationUnit",
	FuncDefine:      "FuncDefine",
	FuncDeclare:     "FuncDeclare",
	FuncParam:       "FuncParam",
	ReturnStmt:      "ReturnStmt",
	IfStmt:          "IfStmt",
	VariableDefine:  "VariableDefine",
	AssignStmt:      "AssignStmt",
	Expr:            "Expr",
	Terminal:        "Terminal",
	Block:           "Block",
	ForStmt:         "ForStmt",
	WhileStmt:       "WhileStmt",
	BreakStmt:       "BreakStmt",
	ContinueStmt:    "ContinueStmt",
	ExprStmt:        "ExprStmt",
	ElseClause:      "ElseClause",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return "Invalid"
}

// Valid reports whether k is a member of the closed set.
func (k Kind) Valid() bool { return k > KindInvalid && k < kindCount }
