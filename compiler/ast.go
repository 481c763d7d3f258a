// Package compiler turns source programs into tape-machine programs: a
// lexer and parser for the line-oriented source language, and a code
// generator that lowers statements onto the backend's algorithms.
package compiler

import "fmt"

// ---------------------------------------------------------------------------
// AST: Abstract Syntax Tree for the source language
// ---------------------------------------------------------------------------

// Position represents a source location.
type Position struct {
	Offset int // byte offset
	Line   int // 1-based line number
	Column int // 1-based column number
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span represents a range in source code.
type Span struct {
	Start Position
	End   Position
}

// MakeSpan creates a span from start to end.
func MakeSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// Node is the interface implemented by all AST nodes.
type Node interface {
	Span() Span
	node() // marker method
}

// ---------------------------------------------------------------------------
// Values
// ---------------------------------------------------------------------------

// Value is an operand: an Identifier or a NumberLiteral.
type Value interface {
	Node
	value() // marker method
}

// Identifier names a variable.
type Identifier struct {
	SpanVal Span
	Name    string
}

func (n *Identifier) Span() Span { return n.SpanVal }
func (n *Identifier) node()      {}
func (n *Identifier) value()     {}

// NumberLiteral is a constant cell value, written as a decimal number or
// a character literal.
type NumberLiteral struct {
	SpanVal Span
	Value   byte
}

func (n *NumberLiteral) Span() Span { return n.SpanVal }
func (n *NumberLiteral) node()      {}
func (n *NumberLiteral) value()     {}

// ---------------------------------------------------------------------------
// Operators
// ---------------------------------------------------------------------------

// Operator is a binary operator of OperateAssign.
type Operator byte

const (
	OpAdd Operator = '+'
	OpSub Operator = '-'
	OpMul Operator = '*'
	OpDiv Operator = '/'
	OpMod Operator = '%'
	OpEq  Operator = '='
	OpAnd Operator = '&'
	OpOr  Operator = '|'
)

func (o Operator) String() string {
	if o == OpEq {
		return "=="
	}
	return string(rune(o))
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// Stmt is the interface for statement nodes.
type Stmt interface {
	Node
	// Source returns the statement's text as written, for diagnostics and
	// comments in the generated program. For blocks it is the header line.
	Source() string
	stmt() // marker method
}

// StmtBase carries what every statement has: its location and text.
type StmtBase struct {
	SpanVal Span
	Text    string
}

func (b *StmtBase) Span() Span     { return b.SpanVal }
func (b *StmtBase) Source() string { return b.Text }
func (b *StmtBase) node()          {}
func (b *StmtBase) stmt()          {}

// Declaration introduces a variable: var x = 5.
type Declaration struct {
	StmtBase
	Id    *Identifier
	Value Value
}

// Copy assigns a value: x = y.
type Copy struct {
	StmtBase
	Target *Identifier
	Value  Value
}

// OperateAssign assigns a binary operation: x = a + b.
type OperateAssign struct {
	StmtBase
	Target *Identifier
	A      Value
	Op     Operator
	B      Value
}

// NotAssign assigns a logical negation: x = not y.
type NotAssign struct {
	StmtBase
	Target *Identifier
	Value  *Identifier
}

// Action0 is an action without operands, such as writeline.
type Action0 struct {
	StmtBase
	Name string
}

// Action1 is an action on one variable: read, readnum, write, writenum,
// release.
type Action1 struct {
	StmtBase
	Name string
	Id   *Identifier
}

// WriteText prints a string constant.
type WriteText struct {
	StmtBase
	Message string
}

// BlockKind distinguishes the block statements.
type BlockKind int

const (
	BlockLoop         BlockKind = iota // repeat while control is non-zero
	BlockIf                            // run once if control is non-zero; control is zeroed
	BlockIfNot                         // run once if control is zero; control is kept
	BlockIfRelease                     // like BlockIf, control goes out of scope
	BlockIfNotRelease                  // like BlockIfNot, control goes out of scope
)

var blockKindNames = map[BlockKind]string{
	BlockLoop:         "loop",
	BlockIf:           "if",
	BlockIfNot:        "ifnot",
	BlockIfRelease:    "ifrelease",
	BlockIfNotRelease: "ifnotrelease",
}

func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("BlockKind(%d)", int(k))
}

// Block is a loop or conditional with a body.
type Block struct {
	StmtBase
	Kind    BlockKind
	Control *Identifier
	Body    []Stmt
}

// Comment is a source comment. It generates no instructions but is copied
// into the generated program when source comments are enabled.
type Comment struct {
	StmtBase
	Content string
}
