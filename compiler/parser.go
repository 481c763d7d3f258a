package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Parser: Recursive descent parser for the source language
//
//	statement := 'var' ident '=' value
//	           | ident '=' 'not' ident
//	           | ident '=' value op value
//	           | ident '=' value
//	           | 'writeline'
//	           | ('read'|'readnum'|'write'|'writenum'|'release') ident
//	           | 'writetext' string
//	           | blockkw ident '{' NEWLINE statement* '}'
//	           | '#' comment
//
// One statement per line. Blank lines are allowed anywhere, and a comment
// may follow a statement on the same line.
// ---------------------------------------------------------------------------

// ParseError is a syntax error at a source position.
type ParseError struct {
	Pos Position
	Msg string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Msg)
}

// Parser parses source code into statements.
type Parser struct {
	lexer     *Lexer
	curToken  Token
	peekToken Token
	errors    []*ParseError
	input     string // original source text (for source preservation)
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{
		lexer: NewLexer(input),
		input: input,
	}
	// Read two tokens to fill curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

// Parse parses a complete program. It returns the first syntax error, if
// any; Parser.Errors lists them all.
func Parse(src string) ([]Stmt, error) {
	p := NewParser(src)
	stmts := p.ParseProgram()
	if len(p.errors) > 0 {
		return nil, p.errors[0]
	}
	return stmts, nil
}

// nextToken advances to the next token. Lexical errors are recorded and
// skipped.
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.lexer.NextToken()
	for p.peekToken.Type == TokenError {
		p.errors = append(p.errors, &ParseError{Pos: p.peekToken.Pos, Msg: p.peekToken.Literal})
		p.peekToken = p.lexer.NextToken()
	}
}

// curTokenIs checks if the current token is of the given type.
func (p *Parser) curTokenIs(t TokenType) bool {
	return p.curToken.Type == t
}

// peekTokenIs checks if the peek token is of the given type.
func (p *Parser) peekTokenIs(t TokenType) bool {
	return p.peekToken.Type == t
}

// expect advances if the current token matches, otherwise records an error.
func (p *Parser) expect(t TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf("expected %s, got %s", t, p.curToken)
	return false
}

// errorf records a parse error at the current token.
func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, &ParseError{Pos: p.curToken.Pos, Msg: fmt.Sprintf(format, args...)})
}

// Errors returns accumulated parse errors as strings.
func (p *Parser) Errors() []string {
	msgs := make([]string, len(p.errors))
	for i, e := range p.errors {
		msgs[i] = e.Error()
	}
	return msgs
}

// ParseErrors returns accumulated parse errors.
func (p *Parser) ParseErrors() []*ParseError {
	return p.errors
}

// synchronize skips to the start of the next line after an error.
func (p *Parser) synchronize() {
	for !p.curTokenIs(TokenNewline) && !p.curTokenIs(TokenEOF) {
		p.nextToken()
	}
}

// skipBlankLines consumes newlines.
func (p *Parser) skipBlankLines() {
	for p.curTokenIs(TokenNewline) {
		p.nextToken()
	}
}

// text returns the source text from start up to the current token.
func (p *Parser) text(start Position) string {
	end := p.curToken.Pos.Offset
	if end > len(p.input) {
		end = len(p.input)
	}
	if start.Offset >= end {
		return ""
	}
	return strings.TrimSpace(p.input[start.Offset:end])
}

func (p *Parser) base(start Position) StmtBase {
	return StmtBase{SpanVal: MakeSpan(start, p.curToken.Pos), Text: p.text(start)}
}

// ---------------------------------------------------------------------------
// Top-level parsing
// ---------------------------------------------------------------------------

// ParseProgram parses statements up to the end of input.
func (p *Parser) ParseProgram() []Stmt {
	stmts := p.parseStatements(false)
	if p.curTokenIs(TokenRBrace) {
		p.errorf("unexpected '}'")
	}
	return stmts
}

// parseStatements parses statements up to the end of input or, inside a
// block, up to the closing brace.
func (p *Parser) parseStatements(inBlock bool) []Stmt {
	var stmts []Stmt
	for {
		p.skipBlankLines()
		if p.curTokenIs(TokenEOF) {
			return stmts
		}
		if p.curTokenIs(TokenRBrace) {
			if !inBlock {
				p.errorf("unexpected '}'")
				p.nextToken()
				continue
			}
			return stmts
		}

		stmt := p.ParseStatement()
		if stmt == nil {
			p.synchronize()
			continue
		}
		stmts = append(stmts, stmt)

		// A trailing comment belongs to the line.
		if p.curTokenIs(TokenComment) {
			p.nextToken()
		}
		if !p.curTokenIs(TokenNewline) && !p.curTokenIs(TokenEOF) {
			p.errorf("expected end of line, got %s", p.curToken)
			p.synchronize()
		}
	}
}

// ParseStatement parses a single statement, leaving the current token on
// whatever follows it. It returns nil after recording an error.
func (p *Parser) ParseStatement() Stmt {
	start := p.curToken.Pos

	switch p.curToken.Type {
	case TokenVar:
		return p.parseDeclaration(start)

	case TokenIdentifier:
		return p.parseAssignment(start)

	case TokenWriteline:
		p.nextToken()
		return &Action0{StmtBase: p.base(start), Name: "writeline"}

	case TokenRead, TokenReadnum, TokenWrite, TokenWritenum, TokenRelease:
		name := p.curToken.Literal
		p.nextToken()
		id := p.parseIdentifier()
		if id == nil {
			return nil
		}
		return &Action1{StmtBase: p.base(start), Name: name, Id: id}

	case TokenWritetext:
		p.nextToken()
		if !p.curTokenIs(TokenString) {
			p.errorf("expected string after writetext, got %s", p.curToken)
			return nil
		}
		msg := p.curToken.Literal
		p.nextToken()
		return &WriteText{StmtBase: p.base(start), Message: msg}

	case TokenLoop, TokenIf, TokenIfNot, TokenIfRelease, TokenIfNotRelease:
		return p.parseBlock(start)

	case TokenComment:
		content := p.curToken.Literal
		p.nextToken()
		return &Comment{StmtBase: p.base(start), Content: content}
	}

	p.errorf("unexpected %s at start of statement", p.curToken)
	return nil
}

func (p *Parser) parseDeclaration(start Position) Stmt {
	p.nextToken() // var
	id := p.parseIdentifier()
	if id == nil || !p.expect(TokenAssign) {
		return nil
	}
	val := p.parseValue()
	if val == nil {
		return nil
	}
	return &Declaration{StmtBase: p.base(start), Id: id, Value: val}
}

func (p *Parser) parseAssignment(start Position) Stmt {
	target := p.parseIdentifier()
	if !p.expect(TokenAssign) {
		return nil
	}

	if p.curTokenIs(TokenNot) {
		p.nextToken()
		id := p.parseIdentifier()
		if id == nil {
			return nil
		}
		return &NotAssign{StmtBase: p.base(start), Target: target, Value: id}
	}

	a := p.parseValue()
	if a == nil {
		return nil
	}
	op, ok := operatorTokens[p.curToken.Type]
	if !ok {
		return &Copy{StmtBase: p.base(start), Target: target, Value: a}
	}
	p.nextToken()
	b := p.parseValue()
	if b == nil {
		return nil
	}
	return &OperateAssign{StmtBase: p.base(start), Target: target, A: a, Op: op, B: b}
}

// parseBlock parses a block header, its body and the closing brace. The
// statement text is the header alone.
func (p *Parser) parseBlock(start Position) Stmt {
	kind := blockTokens[p.curToken.Type]
	p.nextToken()
	control := p.parseIdentifier()
	if control == nil {
		return nil
	}
	if !p.curTokenIs(TokenLBrace) {
		p.errorf("expected '{' after %s %s, got %s", kind, control.Name, p.curToken)
		return nil
	}
	p.nextToken()
	header := p.base(start)
	if p.curTokenIs(TokenComment) {
		p.nextToken()
	}
	if !p.curTokenIs(TokenNewline) {
		p.errorf("expected end of line after '{', got %s", p.curToken)
		return nil
	}

	body := p.parseStatements(true)
	if !p.curTokenIs(TokenRBrace) {
		p.errors = append(p.errors, &ParseError{Pos: start, Msg: fmt.Sprintf("missing '}' for %s block", kind)})
		return nil
	}
	p.nextToken()
	header.SpanVal.End = p.curToken.Pos

	return &Block{StmtBase: header, Kind: kind, Control: control, Body: body}
}

func (p *Parser) parseIdentifier() *Identifier {
	if !p.curTokenIs(TokenIdentifier) {
		p.errorf("expected identifier, got %s", p.curToken)
		return nil
	}
	id := &Identifier{
		SpanVal: MakeSpan(p.curToken.Pos, p.peekToken.Pos),
		Name:    p.curToken.Literal,
	}
	p.nextToken()
	return id
}

// parseValue parses a number, a character literal or an identifier.
func (p *Parser) parseValue() Value {
	tok := p.curToken
	switch tok.Type {
	case TokenIdentifier:
		return p.parseIdentifier()

	case TokenNumber:
		n, err := strconv.Atoi(tok.Literal)
		if err != nil || n > 255 {
			p.errorf("number %s does not fit in a cell (0..255)", tok.Literal)
			return nil
		}
		p.nextToken()
		return &NumberLiteral{SpanVal: MakeSpan(tok.Pos, p.curToken.Pos), Value: byte(n)}

	case TokenChar:
		p.nextToken()
		return &NumberLiteral{SpanVal: MakeSpan(tok.Pos, p.curToken.Pos), Value: tok.Literal[0]}
	}
	p.errorf("expected number, character or identifier, got %s", tok)
	return nil
}
