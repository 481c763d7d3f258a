// Package backend emits tape-machine programs. A Builder combines a scoped
// cell allocator, an abstract interpreter that tracks which cells hold
// known constants, and a library of arithmetic and logic algorithms built
// from the machine's increment, move and loop primitives.
package backend

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/tliron/commonlog"
)

// ---------------------------------------------------------------------------
// Builder: cursor tracking and primitive emission
// ---------------------------------------------------------------------------

const (
	// MemorySize is the number of cells the builder manages, starting at
	// the cell under the cursor when the program begins.
	MemorySize = 256

	// AllocLimit is the first cell the allocator never hands out. The cells
	// from AllocLimit up to MemorySize hold the decimal digit buffer.
	AllocLimit = MemorySize - digitRegion
)

var log = commonlog.GetLogger("caress.backend")

// Builder accumulates the instruction text of one program.
//
// Errors are sticky: the first failure is recorded and every later call
// becomes a no-op, so algorithms can be written as straight-line code and
// checked once through Err or Build.
type Builder struct {
	out      strings.Builder
	head     int
	blocks   []*block
	owner    [MemorySize]*block
	named    [MemorySize]bool
	comments bool
	err      error
}

// NewBuilder returns a builder positioned at cell 0 with every cell known
// to be zero.
func NewBuilder() *Builder {
	b := &Builder{}
	b.blocks = []*block{{kind: BlockTop, control: -1, state: allKnownZero()}}
	return b
}

// SetComments enables or disables diagnostic comments from the algorithms.
func (b *Builder) SetComments(on bool) {
	b.comments = on
}

// Comments reports whether diagnostic comments are enabled.
func (b *Builder) Comments() bool {
	return b.comments
}

// Err returns the first error recorded by the builder.
func (b *Builder) Err() error {
	return b.err
}

// Build returns the finished program text. It fails if an error was
// recorded or if a Loop or If block is still open.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}
	if depth := len(b.blocks) - 1; depth > 0 {
		return "", fmt.Errorf("%w: %d block(s) still open", ErrMismatchedBlockClose, depth)
	}
	return b.out.String(), nil
}

// Text returns the instructions emitted so far, even while blocks are open.
func (b *Builder) Text() string {
	return b.out.String()
}

// Len returns the number of bytes emitted so far.
func (b *Builder) Len() int {
	return b.out.Len()
}

// Head returns the cell the cursor is on after the emitted instructions.
func (b *Builder) Head() int {
	return b.head
}

// State returns the abstract value of a cell at the current point.
func (b *Builder) State(cell int) CellState {
	if cell < 0 || cell >= MemorySize {
		return Unknown
	}
	return b.state()[cell]
}

// Depth returns the number of open blocks, counting the top-level block.
func (b *Builder) Depth() int {
	return len(b.blocks)
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		log.Debugf("builder failed: %v", err)
		b.err = err
	}
}

// ok reports whether the builder can continue and every cell is in range.
func (b *Builder) ok(cells ...int) bool {
	if b.err != nil {
		return false
	}
	for _, c := range cells {
		if c < 0 || c >= MemorySize {
			b.fail(fmt.Errorf("%w: %d", ErrBadCell, c))
			return false
		}
	}
	return true
}

// distinct fails with ErrAliasedOperands when two cells coincide.
func (b *Builder) distinct(cells ...int) bool {
	for i := range cells {
		for j := i + 1; j < len(cells); j++ {
			if cells[i] == cells[j] {
				b.fail(fmt.Errorf("%w: cell %d used twice", ErrAliasedOperands, cells[i]))
				return false
			}
		}
	}
	return true
}

func (b *Builder) current() *block {
	return b.blocks[len(b.blocks)-1]
}

func (b *Builder) state() *TapeState {
	return &b.current().state
}

func (b *Builder) setState(cell int, s CellState) {
	if b.err != nil {
		return
	}
	b.state()[cell] = s
}

func (b *Builder) emit(s string) {
	b.out.WriteString(s)
}

// MoveTo emits the cursor steps that bring the cursor to cell.
func (b *Builder) MoveTo(cell int) {
	if !b.ok(cell) {
		return
	}
	b.moveTo(cell)
}

func (b *Builder) moveTo(cell int) {
	if cell > b.head {
		b.emit(strings.Repeat(">", cell-b.head))
	} else if cell < b.head {
		b.emit(strings.Repeat("<", b.head-cell))
	}
	b.head = cell
}

// Increment adds n (mod 256) to cell, using whichever of "+" repeated n
// times or "-" repeated 256-n times is shorter.
func (b *Builder) Increment(cell, n int) {
	if !b.ok(cell) {
		return
	}
	n &= 0xff
	if n == 0 {
		return
	}
	b.moveTo(cell)
	if n <= 128 {
		b.emit(strings.Repeat("+", n))
	} else {
		b.emit(strings.Repeat("-", 256-n))
	}
	st := b.state()
	st[cell] = st[cell].Add(byte(n))
}

// Decrement subtracts n (mod 256) from cell.
func (b *Builder) Decrement(cell, n int) {
	b.Increment(cell, -n)
}

// Read reads one input byte into cell.
func (b *Builder) Read(cell int) {
	if !b.ok(cell) {
		return
	}
	b.moveTo(cell)
	b.emit(",")
	b.state()[cell] = Unknown
}

// Write outputs cell as a character.
func (b *Builder) Write(cell int) {
	if !b.ok(cell) {
		return
	}
	b.moveTo(cell)
	b.emit(".")
}

// ---------------------------------------------------------------------------
// Comments
// ---------------------------------------------------------------------------

// Annotate writes an inert comment regardless of the comment setting.
func (b *Builder) Annotate(text string) {
	if b.err != nil {
		return
	}
	if n := b.out.Len(); n > 0 && !strings.HasSuffix(b.out.String(), "\n") {
		b.emit("\n")
	}
	b.emit("`" + strings.ReplaceAll(text, "`", "'") + "`\n")
}

// Comment writes a diagnostic comment prefixed with the chain of builder
// methods that produced it, when comments are enabled.
func (b *Builder) Comment(text string) {
	if b.err != nil || !b.comments {
		return
	}
	b.Annotate(callPath() + text)
}

// callPath names the Builder methods on the stack, outermost first,
// e.g. "WriteNumber:DivMod:Allocate:".
func callPath() string {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var names []string
	for {
		f, more := frames.Next()
		name, ok := builderMethod(f.Function)
		if !ok {
			break
		}
		names = append(names, name)
		if !more {
			break
		}
	}

	var sb strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		sb.WriteString(names[i])
		sb.WriteByte(':')
	}
	return sb.String()
}

func builderMethod(fn string) (string, bool) {
	const marker = ".(*Builder)."
	i := strings.LastIndex(fn, marker)
	if i < 0 {
		return "", false
	}
	return fn[i+len(marker):], true
}
