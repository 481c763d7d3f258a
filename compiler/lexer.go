package compiler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ---------------------------------------------------------------------------
// Lexer: Tokenizer for the line-oriented source language
// ---------------------------------------------------------------------------

// Lexer tokenizes source code. Newlines are significant and produce
// TokenNewline; spaces, tabs and carriage returns separate tokens.
type Lexer struct {
	input   string
	pos     int  // current position in input
	readPos int  // reading position (after current char)
	ch      rune // current character
	line    int  // current line (1-based)
	col     int  // current column (1-based)
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	l := &Lexer{
		input: input,
		line:  1,
		col:   0,
	}
	l.readChar()
	return l
}

// readChar reads the next character.
func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.col = 0
	}
	if l.readPos >= len(l.input) {
		l.ch = 0 // EOF
		l.pos = l.readPos
		l.col++
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.pos = l.readPos
	l.readPos += size
	l.col++
}

// peekChar returns the next character without consuming it.
func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

// position returns the position of the current character.
func (l *Lexer) position() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.col,
	}
}

// NextToken returns the next token.
func (l *Lexer) NextToken() Token {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}

	pos := l.position()

	single := func(t TokenType) Token {
		lit := string(l.ch)
		l.readChar()
		return Token{Type: t, Literal: lit, Pos: pos}
	}

	switch {
	case l.ch == 0 && l.pos >= len(l.input):
		return Token{Type: TokenEOF, Pos: pos}
	case l.ch == '\n':
		return single(TokenNewline)
	case l.ch == '#':
		return l.readComment(pos)
	case l.ch == '=':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return Token{Type: TokenEqual, Literal: "==", Pos: pos}
		}
		return single(TokenAssign)
	case l.ch == '+':
		return single(TokenPlus)
	case l.ch == '-':
		return single(TokenMinus)
	case l.ch == '*':
		return single(TokenStar)
	case l.ch == '/':
		return single(TokenSlash)
	case l.ch == '%':
		return single(TokenPercent)
	case l.ch == '&':
		return single(TokenAmp)
	case l.ch == '|':
		return single(TokenBar)
	case l.ch == '{':
		return single(TokenLBrace)
	case l.ch == '}':
		return single(TokenRBrace)
	case l.ch == '\'':
		return l.readCharLiteral(pos)
	case l.ch == '"':
		return l.readString(pos)
	case isDigit(l.ch):
		return l.readNumber(pos)
	case isLetter(l.ch) || l.ch == '_':
		return l.readIdentifier(pos)
	default:
		ch := l.ch
		l.readChar()
		return Token{Type: TokenError, Literal: fmt.Sprintf("unexpected character: %q", ch), Pos: pos}
	}
}

// readComment reads '#' up to, not including, the end of the line. The
// literal is the comment text without the '#'.
func (l *Lexer) readComment(pos Position) Token {
	l.readChar() // #
	start := l.pos
	for l.ch != '\n' && !(l.ch == 0 && l.pos >= len(l.input)) {
		l.readChar()
	}
	text := strings.TrimRight(l.input[start:l.pos], " \t\r")
	return Token{Type: TokenComment, Literal: strings.TrimSpace(text), Pos: pos}
}

func (l *Lexer) readNumber(pos Position) Token {
	start := l.pos
	for isDigit(l.ch) {
		l.readChar()
	}
	return Token{Type: TokenNumber, Literal: l.input[start:l.pos], Pos: pos}
}

func (l *Lexer) readIdentifier(pos Position) Token {
	start := l.pos
	for isLetter(l.ch) || isDigit(l.ch) || l.ch == '_' {
		l.readChar()
	}
	lit := l.input[start:l.pos]
	if t, ok := reservedWords[lit]; ok {
		return Token{Type: t, Literal: lit, Pos: pos}
	}
	return Token{Type: TokenIdentifier, Literal: lit, Pos: pos}
}

// readCharLiteral reads a character literal such as 'a' or '\n'. The
// literal of the returned token is the decoded character.
func (l *Lexer) readCharLiteral(pos Position) Token {
	l.readChar() // opening quote
	var value rune
	switch {
	case l.ch == '\\':
		l.readChar()
		r, ok := unescape(l.ch, '\'')
		if !ok {
			return l.errorToken(pos, "unknown escape in character literal: \\%c", l.ch)
		}
		value = r
	case l.ch == '\'' || l.ch == '\n' || l.ch == 0:
		return l.errorToken(pos, "empty character literal")
	default:
		value = l.ch
	}
	l.readChar()
	if l.ch != '\'' {
		return l.errorToken(pos, "unterminated character literal")
	}
	l.readChar()
	if value > 0xff {
		return Token{Type: TokenError, Literal: fmt.Sprintf("character %q does not fit in a cell", value), Pos: pos}
	}
	return Token{Type: TokenChar, Literal: string([]byte{byte(value)}), Pos: pos}
}

// readString reads a double-quoted string. The literal of the returned
// token is the decoded text.
func (l *Lexer) readString(pos Position) Token {
	l.readChar() // opening quote
	var sb strings.Builder
	for l.ch != '"' {
		switch {
		case l.ch == '\n' || (l.ch == 0 && l.pos >= len(l.input)):
			return Token{Type: TokenError, Literal: "unterminated string", Pos: pos}
		case l.ch == '\\':
			l.readChar()
			r, ok := unescape(l.ch, '"')
			if !ok {
				return l.errorToken(pos, "unknown escape in string: \\%c", l.ch)
			}
			sb.WriteByte(byte(r))
		case l.ch > 0xff:
			return l.errorToken(pos, "character %q does not fit in a cell", l.ch)
		default:
			sb.WriteByte(byte(l.ch))
		}
		l.readChar()
	}
	l.readChar() // closing quote
	return Token{Type: TokenString, Literal: sb.String(), Pos: pos}
}

// errorToken skips to the end of the line and returns an error token.
func (l *Lexer) errorToken(pos Position, format string, args ...any) Token {
	msg := fmt.Sprintf(format, args...)
	for l.ch != '\n' && !(l.ch == 0 && l.pos >= len(l.input)) {
		l.readChar()
	}
	return Token{Type: TokenError, Literal: msg, Pos: pos}
}

func unescape(c, quote rune) (rune, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '0':
		return 0, true
	case '\\':
		return '\\', true
	case quote:
		return quote, true
	}
	return 0, false
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}
