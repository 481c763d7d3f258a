package vm

import (
	"fmt"
	"strings"
)

// ---------------------------------------------------------------------------
// Parser: program text -> instruction tree
//
// Runs of the same symbol are grouped into one Run. A symbol followed by
// decimal digits is an explicit repeat count ("+12"). Text between
// backticks is a Comment; an unterminated comment runs to the end of the
// input. Every other character is ignored.
// ---------------------------------------------------------------------------

// maxRepeat bounds explicit repeat counts.
const maxRepeat = 1 << 24

// ParseError reports malformed program text, such as unbalanced brackets.
type ParseError struct {
	Offset int
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

type parser struct {
	src string
	pos int
}

// Parse builds the instruction tree of src.
func Parse(src string) (*Program, error) {
	p := &parser{src: src}
	body, err := p.parseBody(false)
	if err != nil {
		return nil, err
	}
	return &Program{Source: src, Body: body}, nil
}

// MustParse is like Parse but panics on error. It is meant for tests and
// for program text produced by the compiler.
func MustParse(src string) *Program {
	p, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *parser) errorAt(offset int, format string, args ...any) *ParseError {
	line, col := 1, 1
	for i := 0; i < offset && i < len(p.src); i++ {
		if p.src[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return &ParseError{Offset: offset, Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

// parseBody parses instructions up to the end of input or, inside a
// loop, up to (not including) the closing bracket.
func (p *parser) parseBody(inLoop bool) ([]Instruction, error) {
	var out []Instruction
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == SymOpen:
			start := p.pos
			p.pos++
			body, err := p.parseBody(true)
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) {
				return nil, p.errorAt(start, "unmatched '['")
			}
			p.pos++ // ]
			out = append(out, &Loop{Pos: start, Body: body})

		case c == SymClose:
			if !inLoop {
				return nil, p.errorAt(p.pos, "unmatched ']'")
			}
			return out, nil

		case isRunSymbol(c):
			run, err := p.parseRun()
			if err != nil {
				return nil, err
			}
			out = append(out, run)

		case c == SymComment:
			start := p.pos
			p.pos++
			end := strings.IndexByte(p.src[p.pos:], SymComment)
			var text string
			if end < 0 {
				text = p.src[p.pos:]
				p.pos = len(p.src)
			} else {
				text = p.src[p.pos : p.pos+end]
				p.pos += end + 1
			}
			out = append(out, &Comment{Pos: start, Text: strings.TrimSpace(text)})

		default:
			p.pos++
		}
	}
	return out, nil
}

func (p *parser) parseRun() (*Run, error) {
	start := p.pos
	sym := p.src[p.pos]
	p.pos++

	if p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		n := 0
		for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
			n = n*10 + int(p.src[p.pos]-'0')
			if n > maxRepeat {
				return nil, p.errorAt(start, "repeat count too large")
			}
			p.pos++
		}
		return &Run{Pos: start, Symbol: sym, Count: n}, nil
	}

	for p.pos < len(p.src) && p.src[p.pos] == sym {
		p.pos++
	}
	return &Run{Pos: start, Symbol: sym, Count: p.pos - start}, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
