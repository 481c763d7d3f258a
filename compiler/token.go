package compiler

import "fmt"

// ---------------------------------------------------------------------------
// Token types for the source language lexer
// ---------------------------------------------------------------------------

// TokenType represents the type of a token.
type TokenType int

const (
	// Special tokens
	TokenEOF TokenType = iota
	TokenError
	TokenNewline

	// Literals
	TokenNumber     // 42
	TokenChar       // 'a', '\n'
	TokenString     // "hello"
	TokenIdentifier // counter, x1
	TokenComment    // # to end of line

	// Operators and delimiters
	TokenAssign  // =
	TokenPlus    // +
	TokenMinus   // -
	TokenStar    // *
	TokenSlash   // /
	TokenPercent // %
	TokenEqual   // ==
	TokenAmp     // &
	TokenBar     // |
	TokenLBrace  // {
	TokenRBrace  // }

	// Keywords
	TokenVar
	TokenNot
	TokenWriteline
	TokenRead
	TokenReadnum
	TokenWrite
	TokenWritenum
	TokenRelease
	TokenWritetext
	TokenLoop
	TokenIf
	TokenIfNot
	TokenIfRelease
	TokenIfNotRelease
)

var tokenNames = map[TokenType]string{
	TokenEOF:          "EOF",
	TokenError:        "ERROR",
	TokenNewline:      "NEWLINE",
	TokenNumber:       "NUMBER",
	TokenChar:         "CHAR",
	TokenString:       "STRING",
	TokenIdentifier:   "IDENTIFIER",
	TokenComment:      "COMMENT",
	TokenAssign:       "=",
	TokenPlus:         "+",
	TokenMinus:        "-",
	TokenStar:         "*",
	TokenSlash:        "/",
	TokenPercent:      "%",
	TokenEqual:        "==",
	TokenAmp:          "&",
	TokenBar:          "|",
	TokenLBrace:       "{",
	TokenRBrace:       "}",
	TokenVar:          "var",
	TokenNot:          "not",
	TokenWriteline:    "writeline",
	TokenRead:         "read",
	TokenReadnum:      "readnum",
	TokenWrite:        "write",
	TokenWritenum:     "writenum",
	TokenRelease:      "release",
	TokenWritetext:    "writetext",
	TokenLoop:         "loop",
	TokenIf:           "if",
	TokenIfNot:        "ifnot",
	TokenIfRelease:    "ifrelease",
	TokenIfNotRelease: "ifnotrelease",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Token(%d)", t)
}

// Token represents a lexical token.
type Token struct {
	Type    TokenType
	Literal string   // the raw text, or the decoded value for chars and strings
	Pos     Position // start position
}

func (t Token) String() string {
	switch t.Type {
	case TokenEOF:
		return "EOF"
	case TokenNewline:
		return "NEWLINE"
	case TokenError:
		return fmt.Sprintf("ERROR(%s)", t.Literal)
	}
	if len(t.Literal) > 20 {
		return fmt.Sprintf("%s(%q...)", t.Type, t.Literal[:20])
	}
	return fmt.Sprintf("%s(%q)", t.Type, t.Literal)
}

// Reserved words mapped to their token types.
var reservedWords = map[string]TokenType{
	"var":          TokenVar,
	"not":          TokenNot,
	"writeline":    TokenWriteline,
	"read":         TokenRead,
	"readnum":      TokenReadnum,
	"write":        TokenWrite,
	"writenum":     TokenWritenum,
	"release":      TokenRelease,
	"writetext":    TokenWritetext,
	"loop":         TokenLoop,
	"if":           TokenIf,
	"ifnot":        TokenIfNot,
	"ifrelease":    TokenIfRelease,
	"ifnotrelease": TokenIfNotRelease,
}

// operatorTokens maps operator tokens to the operator they denote.
var operatorTokens = map[TokenType]Operator{
	TokenPlus:    OpAdd,
	TokenMinus:   OpSub,
	TokenStar:    OpMul,
	TokenSlash:   OpDiv,
	TokenPercent: OpMod,
	TokenEqual:   OpEq,
	TokenAmp:     OpAnd,
	TokenBar:     OpOr,
}

// blockTokens maps block keywords to block kinds.
var blockTokens = map[TokenType]BlockKind{
	TokenLoop:         BlockLoop,
	TokenIf:           BlockIf,
	TokenIfNot:        BlockIfNot,
	TokenIfRelease:    BlockIfRelease,
	TokenIfNotRelease: BlockIfNotRelease,
}
