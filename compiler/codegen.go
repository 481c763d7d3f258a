package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chazu/caress/backend"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("caress.compiler")

// ---------------------------------------------------------------------------
// Code generation: statements → tape-machine instructions
// ---------------------------------------------------------------------------

// CommentVerbosity selects which comments appear in the generated program.
type CommentVerbosity int

const (
	// CommentsNone emits instructions only.
	CommentsNone CommentVerbosity = iota
	// CommentsSource copies each source statement into the output.
	CommentsSource
	// CommentsNames adds the cell assigned to each declared variable.
	CommentsNames
	// CommentsCodegen adds the comments of every backend algorithm,
	// prefixed with the chain of algorithms that emitted them.
	CommentsCodegen
)

var verbosityNames = []string{"none", "source", "names", "codegen"}

func (v CommentVerbosity) String() string {
	if v >= 0 && int(v) < len(verbosityNames) {
		return verbosityNames[v]
	}
	return fmt.Sprintf("CommentVerbosity(%d)", int(v))
}

// ParseCommentVerbosity parses a verbosity name as accepted by the CLI
// and the project file.
func ParseCommentVerbosity(s string) (CommentVerbosity, error) {
	for i, name := range verbosityNames {
		if strings.EqualFold(s, name) {
			return CommentVerbosity(i), nil
		}
	}
	return CommentsNone, fmt.Errorf("unknown comment verbosity %q (want one of %s)", s, strings.Join(verbosityNames, ", "))
}

// Options configures code generation.
type Options struct {
	Comments CommentVerbosity
}

// Generator generates code for a sequence of statements. It may be fed
// statements in several calls; each call continues where the previous
// one stopped, with the same variables in scope.
//
// After an error the Generator must be discarded.
type Generator struct {
	b     *backend.Builder
	opts  Options
	scope *scope
	taken int // length of program text already returned by Take
	err   error
}

// NewGenerator creates a generator for an empty program.
func NewGenerator(opts Options) *Generator {
	return &Generator{
		b:     backend.NewBuilder(),
		opts:  opts,
		scope: newScope(nil),
	}
}

// Generate compiles stmts into a complete program.
func Generate(stmts []Stmt, opts Options) (string, error) {
	g := NewGenerator(opts)
	if err := g.Generate(stmts); err != nil {
		return "", err
	}
	return g.Program()
}

// Generate appends the code for stmts.
func (g *Generator) Generate(stmts []Stmt) error {
	if g.err != nil {
		return g.err
	}
	for _, s := range stmts {
		if err := g.stmt(s); err != nil {
			g.err = err
			return err
		}
	}
	return nil
}

// Program returns the complete generated program.
func (g *Generator) Program() (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.b.Build()
}

// Take returns the instructions generated since the previous call.
func (g *Generator) Take() string {
	text := g.b.Text()
	chunk := text[g.taken:]
	g.taken = len(text)
	return chunk
}

// Bindings returns the variables in scope ordered by cell.
func (g *Generator) Bindings() []Binding {
	return g.scope.sortedBindings()
}

// State returns what the generator knows statically about a cell.
func (g *Generator) State(cell int) backend.CellState {
	return g.b.State(cell)
}

// cell resolves an identifier to the cell it is bound to.
func (g *Generator) cell(id *Identifier) (int, error) {
	if c, ok := g.scope.lookup(id.Name); ok {
		return c, nil
	}
	return -1, fmt.Errorf("%w: %s", ErrUndeclaredIdentifier, id.Name)
}

// fail wraps err with the statement it occurred in. Errors from nested
// statements are already wrapped and pass through unchanged.
func (g *Generator) fail(s Stmt, err error) error {
	var ce *CodegenError
	if errors.As(err, &ce) {
		return err
	}
	return &CodegenError{Pos: s.Span().Start, Source: s.Source(), Err: err}
}

func (g *Generator) stmt(s Stmt) error {
	log.Debugf("generating %q", s.Source())

	if g.opts.Comments >= CommentsSource {
		g.b.Annotate(s.Source())
	}
	g.b.SetComments(g.opts.Comments >= CommentsCodegen)

	var err error
	switch s := s.(type) {
	case *Comment:
		// copied above when source comments are on

	case *Declaration:
		err = g.declaration(s)

	case *Copy:
		err = g.copy(s)

	case *OperateAssign:
		var op binaryOp
		if op, err = g.lowerBinary(s); err == nil {
			err = g.emitBinary(op)
		}

	case *NotAssign:
		err = g.notAssign(s)

	case *Action0:
		err = g.action0(s)

	case *Action1:
		err = g.action1(s)

	case *WriteText:
		g.b.WriteString(s.Message)

	case *Block:
		err = g.block(s)

	default:
		err = fmt.Errorf("%w: %T", ErrUnsupportedConstruct, s)
	}

	if err == nil {
		err = g.b.Err()
	}
	if err != nil {
		return g.fail(s, err)
	}
	return nil
}

func (g *Generator) declaration(s *Declaration) error {
	if _, ok := g.scope.vars[s.Id.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDeclaration, s.Id.Name)
	}
	if g.opts.Comments >= CommentsNames {
		g.b.SetComments(true)
	}

	var cell int
	switch v := s.Value.(type) {
	case *NumberLiteral:
		cell = g.b.Allocate(v.Value, s.Id.Name)
	case *Identifier:
		src, err := g.cell(v)
		if err != nil {
			return err
		}
		cell = g.b.AllocateAndCopy(src, s.Id.Name)
	default:
		return fmt.Errorf("%w: declaration from %T", ErrUnsupportedConstruct, v)
	}
	if err := g.b.Err(); err != nil {
		return err
	}
	log.Debugf("%s bound to cell %d", s.Id.Name, cell)
	return g.scope.declare(s.Id.Name, cell)
}

func (g *Generator) copy(s *Copy) error {
	target, err := g.cell(s.Target)
	if err != nil {
		return err
	}
	src, err := g.operand(s.Value)
	if err != nil {
		return err
	}
	g.set(target, src)
	return nil
}

func (g *Generator) notAssign(s *NotAssign) error {
	target, err := g.cell(s.Target)
	if err != nil {
		return err
	}
	src, err := g.cell(s.Value)
	if err != nil {
		return err
	}
	tmp := g.b.AllocateAndCopy(src, "notop")
	g.b.Not(target, tmp)
	g.b.Release(tmp)
	return nil
}

func (g *Generator) action0(s *Action0) error {
	switch s.Name {
	case "writeline":
		g.b.NewLine()
		return nil
	}
	return fmt.Errorf("%w: action %s", ErrUnsupportedConstruct, s.Name)
}

func (g *Generator) action1(s *Action1) error {
	cell, err := g.cell(s.Id)
	if err != nil {
		return err
	}
	switch s.Name {
	case "write":
		g.b.Write(cell)
	case "read":
		g.b.Read(cell)
	case "readnum":
		g.b.ReadNumber(cell)
	case "writenum":
		tmp := g.b.AllocateAndCopy(cell, "number")
		g.b.WriteNumber(tmp)
		g.b.Release(tmp)
	case "release":
		g.b.Release(cell)
		g.scope.remove(s.Id.Name)
	default:
		return fmt.Errorf("%w: action %s", ErrUnsupportedConstruct, s.Name)
	}
	return nil
}

// block opens the backend block for s, generates the body in a nested
// scope and closes the block, which releases every cell declared in the
// body.
func (g *Generator) block(s *Block) error {
	control, err := g.cell(s.Control)
	if err != nil {
		return err
	}

	b := g.b
	switch s.Kind {
	case BlockLoop:
		b.Loop(control)
	case BlockIf:
		b.IfAndZero(control)
	case BlockIfRelease:
		b.IfRelease(control)
		g.scope.remove(s.Control.Name)
	case BlockIfNot:
		tmp := b.AllocateAndCopy(control, "control")
		b.IfNotRelease(tmp)
	case BlockIfNotRelease:
		b.IfNotRelease(control)
		g.scope.remove(s.Control.Name)
	default:
		return fmt.Errorf("%w: block %s", ErrUnsupportedConstruct, s.Kind)
	}
	if err := b.Err(); err != nil {
		return err
	}

	outer := g.scope
	g.scope = newScope(outer)
	for _, st := range s.Body {
		if err := g.stmt(st); err != nil {
			g.scope = outer
			return err
		}
	}
	g.scope = outer

	if s.Kind == BlockLoop {
		b.EndLoop()
	} else {
		b.EndIf()
	}
	return nil
}
