package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	Ident
	IntLit
	FloatLit
	StringLit

	kwBegin
	KwAuto
	KwBreak
	KwCase
	KwChar
	KwConst
	KwContinue
	KwDefault
	KwDo
	KwDouble
	KwElse
	KwEnum
	KwExtern
	KwFloat
	KwFor
	KwGoto
	KwIf
	KwInline
	KwInt
	KwLong
	KwRegister
	KwRestrict
	KwReturn
	KwShort
	KwSigned
	KwSizeof
	KwStatic
	KwStruct
	KwSwitch
	KwTypedef
	KwUnion
	KwUnsigned
	KwVoid
	KwVolatile
	KwWhile
	kwEnd

	Plus        // +
	Minus       // -
	Star        // *
	Slash       // /
	Percent     // %
	PlusPlus    // ++
	MinusMinus  // --
	Assign      // =
	PlusAssign  // +=
	MinusAssign // -=
	EqEq        // ==
	BangEq      // !=
	Lt          // <
	LtEq        // <=
	Gt          // >
	GtEq        // >=
	AndAnd      // &&
	OrOr        // ||
	Bang        // !
	Amp         // &
	Pipe        // |
	Caret       // ^
	Tilde       // ~
	Arrow       // ->
	Question    // ?
	Colon       // :
	Semicolon   // ;
	Comma       // ,
	Dot         // .
	LParen      // (
	RParen      // )
	LBrace      // {
	RBrace      // }
	LBracket    // [
	RBracket    // ]
)

var kindNames = [...]string{
	Invalid:     "invalid",
	EOF:         "EOF",
	Ident:       "identifier",
	IntLit:      "integer literal",
	FloatLit:    "float literal",
	StringLit:   "string literal",
	Plus:        "+",
	Minus:       "-",
	Star:        "*",
	Slash:       "/",
	Percent:     "%",
	PlusPlus:    "++",
	MinusMinus:  "--",
	Assign:      "=",
	PlusAssign:  "+=",
	MinusAssign: "-=",
	EqEq:        "==",
	BangEq:      "!=",
	Lt:          "<",
	LtEq:        "<=",
	Gt:          ">",
	GtEq:        ">=",
	AndAnd:      "&&",
	OrOr:        "||",
	Bang:        "!",
	Amp:         "&",
	Pipe:        "|",
	Caret:       "^",
	Tilde:       "~",
	Arrow:       "->",
	Question:    "?",
	Colon:       ":",
	Semicolon:   ";",
	Comma:       ",",
	Dot:         ".",
	LParen:      "(",
	RParen:      ")",
	LBrace:      "{",
	RBrace:      "}",
	LBracket:    "[",
	RBracket:    "]",
}

func (k Kind) String() string {
	if k.IsKeyword() {
		return keywordText[k]
	}
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "invalid"
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool { return k > kwBegin && k < kwEnd }

// IsTypeName reports whether k starts a type specifier.
func (k Kind) IsTypeName() bool {
	switch k {
	case KwChar, KwShort, KwInt, KwLong, KwSigned, KwUnsigned, KwFloat, KwDouble, KwVoid:
		return true
	default:
		return false
	}
}

// IsRelational reports whether k is one of the six comparison operators.
func (k Kind) IsRelational() bool {
	switch k {
	case EqEq, BangEq, Lt, LtEq, Gt, GtEq:
		return true
	default:
		return false
	}
}

// IsAdditive reports whether k is + or -.
func (k Kind) IsAdditive() bool { return k == Plus || k == Minus }

// IsMultiplicative reports whether k is *, / or %.
func (k Kind) IsMultiplicative() bool { return k == Star || k == Slash || k == Percent }
