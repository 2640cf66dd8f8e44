package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004

	SynUnexpectedToken   Code = 2001
	SynExpectSemicolon   Code = 2002
	SynExpectIdentifier  Code = 2003
	SynExpectType        Code = 2004
	SynExpectExpression  Code = 2005
	SynUnclosedParen     Code = 2006
	SynUnclosedBrace     Code = 2007
	SynUnsupportedSyntax Code = 2008

	LowUnsupportedConstruct Code = 4001
	LowUnsupportedType      Code = 4002
	LowUnresolvedIdentifier Code = 4003
	LowNotAssignable        Code = 4004
	LowParamCountMismatch   Code = 4005
	LowVerificationFailed   Code = 4006
	LowInternal             Code = 4099
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown error",

	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed number literal",

	SynUnexpectedToken:   "Unexpected token",
	SynExpectSemicolon:   "Expected semicolon",
	SynExpectIdentifier:  "Expected identifier",
	SynExpectType:        "Expected type",
	SynExpectExpression:  "Expected expression",
	SynUnclosedParen:     "Unclosed parenthesis",
	SynUnclosedBrace:     "Unclosed brace",
	SynUnsupportedSyntax: "Unsupported syntax",

	LowUnsupportedConstruct: "Unsupported construct",
	LowUnsupportedType:      "Unsupported type",
	LowUnresolvedIdentifier: "Unresolved identifier",
	LowNotAssignable:        "Assignment target is not storage",
	LowParamCountMismatch:   "Parameter count mismatch",
	LowVerificationFailed:   "Module verification failed",
	LowInternal:             "Internal lowering error",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("LOW%04d", ic)
	default:
		return fmt.Sprintf("E%04d", ic)
	}
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
