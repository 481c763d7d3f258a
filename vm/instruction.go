// Package vm implements the tape machine that compiled programs run on:
// an instruction-tree parser, a 65536-cell tape with a wrapping cursor,
// an interpreter with optional loop profiling, and a serializer that
// renders programs back to text with peephole and profile-driven
// optimizations.
package vm

import "fmt"

// ---------------------------------------------------------------------------
// Instruction tree
// ---------------------------------------------------------------------------

// Instruction symbols of the machine alphabet.
const (
	SymRight   byte = '>'
	SymLeft    byte = '<'
	SymInc     byte = '+'
	SymDec     byte = '-'
	SymOutput  byte = '.'
	SymInput   byte = ','
	SymOpen    byte = '['
	SymClose   byte = ']'
	SymComment byte = '`'
)

// Instruction is a node of a parsed program.
type Instruction interface {
	// Offset is the byte offset of the instruction in the program text.
	Offset() int
	instruction() // marker method
}

// Run is one primitive instruction repeated Count times.
type Run struct {
	Pos    int
	Symbol byte
	Count  int
}

func (r *Run) Offset() int  { return r.Pos }
func (r *Run) instruction() {}

func (r *Run) String() string {
	return fmt.Sprintf("%c%d", r.Symbol, r.Count)
}

// Loop repeats Body while the cell under the cursor is non-zero.
type Loop struct {
	Pos  int
	Body []Instruction
}

func (l *Loop) Offset() int  { return l.Pos }
func (l *Loop) instruction() {}

// Comment is an inert annotation.
type Comment struct {
	Pos  int
	Text string
}

func (c *Comment) Offset() int  { return c.Pos }
func (c *Comment) instruction() {}

// Program is a parsed instruction tree together with the text it came from.
type Program struct {
	Source string
	Body   []Instruction
}

// Loops returns every loop in the program, outer loops first.
func (p *Program) Loops() []*Loop {
	var loops []*Loop
	var walk func([]Instruction)
	walk = func(body []Instruction) {
		for _, ins := range body {
			if l, ok := ins.(*Loop); ok {
				loops = append(loops, l)
				walk(l.Body)
			}
		}
	}
	walk(p.Body)
	return loops
}

func isRunSymbol(c byte) bool {
	switch c {
	case SymRight, SymLeft, SymInc, SymDec, SymOutput, SymInput:
		return true
	}
	return false
}
